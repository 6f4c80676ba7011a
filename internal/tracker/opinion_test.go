// ABOUTME: Tests for stance signal extraction from user statements
// ABOUTME: Weak or pronoun-only statements must yield nothing
package tracker

import "testing"

func TestOpinionSignal(t *testing.T) {
	tests := []struct {
		input  string
		topic  string
		stance string
		ok     bool
	}{
		{"I love hiking in the mountains", "hiking in the mountains", "positive", true},
		{"I hate mondays.", "mondays", "negative", true},
		{"I think rust is great for systems work", "rust", "positive", true},
		{"I think meetings is terrible", "meetings", "negative", true},
		{"jazz is amazing!", "jazz", "positive", true},
		{"what is the capital of france", "", "", false},
		{"I love it", "", "", false},
		{"tell me about rust", "", "", false},
	}
	for _, tc := range tests {
		sig, ok := OpinionSignal(tc.input)
		if ok != tc.ok {
			t.Errorf("OpinionSignal(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			continue
		}
		if !ok {
			continue
		}
		if sig.Topic != tc.topic || sig.Stance != tc.stance {
			t.Errorf("OpinionSignal(%q) = (%q, %q), want (%q, %q)",
				tc.input, sig.Topic, sig.Stance, tc.topic, tc.stance)
		}
	}
}
