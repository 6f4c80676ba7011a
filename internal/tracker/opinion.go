// ABOUTME: Extracts stance signals from user statements for opinion formation
// ABOUTME: Only strong first-person statements produce a signal
package tracker

import (
	"regexp"
	"strings"
)

// Signal is one extracted stance on a topic.
type Signal struct {
	Topic      string
	Stance     string
	Confidence float64
}

var opinionPatterns = []struct {
	re         *regexp.Regexp
	stance     string
	confidence float64
}{
	{regexp.MustCompile(`(?i)\bi (?:really )?love ([\w][\w\s-]{1,40}?)(?:[.,!?]|$)`), "positive", 0.8},
	{regexp.MustCompile(`(?i)\bi (?:really )?hate ([\w][\w\s-]{1,40}?)(?:[.,!?]|$)`), "negative", 0.8},
	{regexp.MustCompile(`(?i)\bi think ([\w][\w\s-]{1,40}?) is (?:great|amazing|wonderful|excellent|the best)`), "positive", 0.6},
	{regexp.MustCompile(`(?i)\bi think ([\w][\w\s-]{1,40}?) is (?:terrible|awful|overrated|the worst)`), "negative", 0.6},
	{regexp.MustCompile(`(?i)^([\w][\w\s-]{1,40}?) is (?:amazing|awesome|fantastic|brilliant)[.,!?]*$`), "positive", 0.5},
	{regexp.MustCompile(`(?i)^([\w][\w\s-]{1,40}?) is (?:awful|horrible|garbage|useless)[.,!?]*$`), "negative", 0.5},
}

// OpinionSignal extracts a stance statement from the input, if it
// carries one. Weak or ambiguous phrasing yields nothing.
func OpinionSignal(input string) (Signal, bool) {
	for _, p := range opinionPatterns {
		if m := p.re.FindStringSubmatch(input); m != nil {
			topic := strings.ToLower(strings.TrimSpace(m[1]))
			if topic == "" || topic == "it" || topic == "that" || topic == "this" {
				continue
			}
			return Signal{Topic: topic, Stance: p.stance, Confidence: p.confidence}, true
		}
	}
	return Signal{}, false
}
