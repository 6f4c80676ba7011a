// ABOUTME: Chat completion client over the Groq OpenAI-compatible API
// ABOUTME: Retries transient failures with backoff, rotates keys via the pool
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/pacify-defy/pacify-defy/internal/config"
	"github.com/pacify-defy/pacify-defy/internal/util"
)

// completer is the slice of the OpenAI client the dispatcher needs.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Request is one chat completion request.
type Request struct {
	Model       string
	Messages    []openai.ChatCompletionMessage
	Temperature float64
	MaxTokens   int
}

// Response is a completed chat turn.
type Response struct {
	Text    string
	Model   string
	Tokens  int
	Elapsed time.Duration
}

// Client dispatches chat requests across the key pool.
type Client struct {
	pool       *Pool
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	// newCompleter is swappable in tests.
	newCompleter func(apiKey string) completer
}

// NewClient creates a client from config, pointed at the Groq endpoint.
func NewClient(cfg *config.Config, pool *Pool, logger *zap.Logger) *Client {
	return &Client{
		pool:       pool,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     logger,
		newCompleter: func(apiKey string) completer {
			oc := openai.DefaultConfig(apiKey)
			oc.BaseURL = config.GroqBaseURL
			return openai.NewClientWithConfig(oc)
		},
	}
}

// Dispatch sends the request, rotating keys and retrying transient
// failures up to maxRetries times. Rate-limited keys go on cooldown and
// the next attempt uses a different key when one is available.
func (c *Client) Dispatch(ctx context.Context, req Request) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := util.CalculateBackoff(c.retryDelay, attempt)
			c.logger.Debug("retrying dispatch",
				zap.Int("attempt", attempt), zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
			case <-time.After(delay):
			}
		}

		key, err := c.pool.Acquire(ctx)
		if err != nil {
			return nil, err
		}

		resp, err := c.send(ctx, key, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var apiErr *openai.APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429:
			c.pool.ReportLimited(key, 0)
			c.logger.Debug("key rate limited by provider", zap.Int("status", 429))
		case errors.As(err, &apiErr) && apiErr.HTTPStatusCode >= 500:
			// transient, retry
		case isNetworkError(err):
			// transient, retry
		default:
			return nil, fmt.Errorf("llm: request rejected: %w", err)
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func (c *Client) send(ctx context.Context, key string, req Request) (*Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	result, err := c.newCompleter(key).CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	if len(result.Choices) == 0 {
		return nil, errors.New("llm: empty completion")
	}

	return &Response{
		Text:    result.Choices[0].Message.Content,
		Model:   result.Model,
		Tokens:  result.Usage.TotalTokens,
		Elapsed: time.Since(start),
	}, nil
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
