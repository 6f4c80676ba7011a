// ABOUTME: Tests for dispatch retry and failure classification
// ABOUTME: Swaps in a scripted completer, no network involved
package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/pacify-defy/pacify-defy/internal/config"
)

type scriptedCompleter struct {
	calls   int
	results []error
	text    string
}

func (s *scriptedCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	idx := s.calls
	s.calls++
	if idx < len(s.results) && s.results[idx] != nil {
		return openai.ChatCompletionResponse{}, s.results[idx]
	}
	return openai.ChatCompletionResponse{
		Model: req.Model,
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.text}},
		},
		Usage: openai.Usage{TotalTokens: 42},
	}, nil
}

func testClient(t *testing.T, script *scriptedCompleter) *Client {
	t.Helper()
	cfg := &config.Config{
		Timeout:    time.Second,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	}
	pool := NewPool([]string{"gsk_a", "gsk_b"}, 30, time.Minute)
	c := NewClient(cfg, pool, zap.NewNop())
	c.newCompleter = func(apiKey string) completer { return script }
	return c
}

func TestDispatchSuccess(t *testing.T) {
	script := &scriptedCompleter{text: "hello there"}
	c := testClient(t, script)

	resp, err := c.Dispatch(context.Background(), Request{
		Model:     "llama-3.3-70b-versatile",
		Messages:  []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "hi"}},
		MaxTokens: 150,
	})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if resp.Text != "hello there" {
		t.Errorf("Text = %q, want %q", resp.Text, "hello there")
	}
	if resp.Tokens != 42 {
		t.Errorf("Tokens = %d, want 42", resp.Tokens)
	}
}

func TestDispatchRetriesTransient(t *testing.T) {
	script := &scriptedCompleter{
		text: "recovered",
		results: []error{
			&openai.APIError{HTTPStatusCode: 503},
			nil,
		},
	}
	c := testClient(t, script)

	resp, err := c.Dispatch(context.Background(), Request{Model: "m"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if resp.Text != "recovered" {
		t.Errorf("Text = %q, want recovered", resp.Text)
	}
	if script.calls != 2 {
		t.Errorf("calls = %d, want 2", script.calls)
	}
}

func TestDispatchStopsAfterMaxRetries(t *testing.T) {
	script := &scriptedCompleter{
		results: []error{
			&openai.APIError{HTTPStatusCode: 500},
			&openai.APIError{HTTPStatusCode: 500},
			&openai.APIError{HTTPStatusCode: 500},
			&openai.APIError{HTTPStatusCode: 500},
		},
	}
	c := testClient(t, script)

	_, err := c.Dispatch(context.Background(), Request{Model: "m"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Dispatch() error = %v, want ErrUnavailable", err)
	}
	if script.calls != 3 {
		t.Errorf("calls = %d, want 3 (initial + 2 retries)", script.calls)
	}
}

func TestDispatchNonTransientFailsFast(t *testing.T) {
	script := &scriptedCompleter{
		results: []error{&openai.APIError{HTTPStatusCode: 400}},
	}
	c := testClient(t, script)

	_, err := c.Dispatch(context.Background(), Request{Model: "m"})
	if err == nil || errors.Is(err, ErrUnavailable) {
		t.Fatalf("Dispatch() error = %v, want immediate non-retryable failure", err)
	}
	if script.calls != 1 {
		t.Errorf("calls = %d, want 1", script.calls)
	}
}

func TestDispatchRotatesOffLimitedKey(t *testing.T) {
	script := &scriptedCompleter{
		text: "ok",
		results: []error{
			&openai.APIError{HTTPStatusCode: 429},
			nil,
		},
	}
	c := testClient(t, script)

	resp, err := c.Dispatch(context.Background(), Request{Model: "m"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if resp.Text != "ok" {
		t.Errorf("Text = %q, want ok", resp.Text)
	}
	// The limited key is cooling down, so only the other key's budget
	// remains, minus the successful acquire.
	if got := c.pool.Remaining(); got != 29 {
		t.Errorf("Remaining() = %d, want 29", got)
	}
}
