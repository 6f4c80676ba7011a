// ABOUTME: Round-trip tests for the export codecs
// ABOUTME: JSON, YAML, and Markdown must reproduce every record field
package export

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pacify-defy/pacify-defy/internal/models"
)

func sampleTurns(n int) []*models.Turn {
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	var turns []*models.Turn
	for i := 0; i < n; i++ {
		mode, persona := "pacify", "pacificia"
		if i%2 == 1 {
			mode, persona = "defy", "rebel"
		}
		turn := &models.Turn{
			TurnID:    fmt.Sprintf("turn_%02d", i),
			UserID:    "alice",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Mode:      mode,
			Persona:   persona,
			UserText:  fmt.Sprintf("question %d\nwith a second line", i),
			AIText:    fmt.Sprintf("answer %d", i),
			WordCount: 2,
		}
		if i == 3 {
			turn.Mood = "witty"
			turn.CodeLanguage = "python"
		}
		turns = append(turns, turn)
	}
	return turns
}

func TestRoundTrip(t *testing.T) {
	doc := FromTurns("alice", sampleTurns(10))

	for _, format := range []string{FormatText, FormatJSON, FormatYAML, FormatMarkdown} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, doc, format); err != nil {
				t.Fatalf("Encode(%s) error = %v", format, err)
			}

			decoded, err := Decode(&buf, format)
			if err != nil {
				t.Fatalf("Decode(%s) error = %v", format, err)
			}
			if len(decoded.Turns) != 10 {
				t.Fatalf("decoded %d turns, want 10", len(decoded.Turns))
			}
			for i, r := range decoded.Turns {
				want := doc.Turns[i]
				if r.TurnID != want.TurnID || r.Mode != want.Mode ||
					r.Persona != want.Persona || r.Mood != want.Mood ||
					r.UserText != want.UserText || r.AIText != want.AIText ||
					r.CodeLanguage != want.CodeLanguage || r.WordCount != want.WordCount {
					t.Errorf("turn %d mismatch:\ngot  %+v\nwant %+v", i, r, want)
				}
				if !r.Timestamp.Equal(want.Timestamp) {
					t.Errorf("turn %d timestamp = %v, want %v", i, r.Timestamp, want.Timestamp)
				}
			}
		})
	}
}

func TestTextReadable(t *testing.T) {
	doc := FromTurns("alice", sampleTurns(2))

	var buf bytes.Buffer
	if err := Encode(&buf, doc, FormatText); err != nil {
		t.Fatalf("Encode(txt) error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"User: alice", "Turns: 2", "You: question 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("text export missing %q", want)
		}
	}
}

func TestUnknownFormat(t *testing.T) {
	doc := FromTurns("alice", nil)
	var buf bytes.Buffer
	if err := Encode(&buf, doc, "pdf"); err == nil {
		t.Error("Encode(pdf) should fail")
	}
}

func TestToTurnsRestoresUser(t *testing.T) {
	doc := FromTurns("alice", sampleTurns(3))
	turns := doc.ToTurns()
	if len(turns) != 3 {
		t.Fatalf("ToTurns() = %d turns, want 3", len(turns))
	}
	for _, turn := range turns {
		if turn.UserID != "alice" {
			t.Errorf("UserID = %q, want alice", turn.UserID)
		}
	}
}
