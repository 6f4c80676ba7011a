// ABOUTME: Keyword-based sentiment and mood scoring, clamped to [-1,1]
// ABOUTME: Drives the emotional time series and mood auto-detection
package tracker

import "strings"

var positiveWords = map[string]float64{
	"love": 0.8, "great": 0.6, "awesome": 0.8, "amazing": 0.8,
	"good": 0.4, "nice": 0.4, "thanks": 0.5, "thank": 0.5,
	"wonderful": 0.8, "excellent": 0.7, "happy": 0.7, "excited": 0.7,
	"fun": 0.5, "cool": 0.4, "perfect": 0.7, "helpful": 0.5,
	"glad": 0.6, "beautiful": 0.6, "brilliant": 0.7,
}

var negativeWords = map[string]float64{
	"hate": -0.8, "terrible": -0.7, "awful": -0.7, "bad": -0.4,
	"sad": -0.6, "angry": -0.7, "frustrated": -0.6, "annoying": -0.5,
	"annoyed": -0.5, "worst": -0.8, "horrible": -0.7, "stupid": -0.5,
	"tired": -0.4, "stressed": -0.6, "worried": -0.5, "anxious": -0.6,
	"confused": -0.3, "broken": -0.4, "ugh": -0.5, "lonely": -0.6,
}

var playfulMarkers = []string{
	"lol", "haha", "hehe", "lmao", "joking", "kidding", ":)", ":d", "😂", "😄",
}

// Sentiment scores the input by summing keyword weights, clamped to
// [-1, 1]. Zero means neutral.
func Sentiment(input string) float64 {
	var score float64
	for _, word := range strings.Fields(strings.ToLower(input)) {
		word = strings.Trim(word, ".,!?\"'")
		if w, ok := positiveWords[word]; ok {
			score += w
		}
		if w, ok := negativeWords[word]; ok {
			score += w
		}
	}
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}

// Playful reports whether the input carries humor markers.
func Playful(input string) bool {
	lower := strings.ToLower(input)
	for _, marker := range playfulMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Emotion labels the input's dominant register from sentiment and
// markers. Used as metadata only, never to alter a fixed mood.
func Emotion(input string, score float64) string {
	if Playful(input) {
		return "playful"
	}
	lower := strings.ToLower(input)
	switch {
	case strings.Contains(lower, "sad") || strings.Contains(lower, "lonely"):
		return "melancholic"
	case strings.Contains(lower, "why") && strings.Contains(lower, "life"):
		return "philosophical"
	case score >= 0.5:
		return "joyful"
	case score <= -0.5:
		return "distressed"
	case score < 0:
		return "downbeat"
	case score > 0:
		return "upbeat"
	default:
		return "neutral"
	}
}

// SuggestMood proposes a mood for mood-capable personas based on the
// input's register. Empty means no suggestion.
func SuggestMood(input string, score float64) string {
	switch Emotion(input, score) {
	case "playful":
		return "witty"
	case "melancholic":
		return "empathetic"
	case "philosophical":
		return "philosophical"
	case "distressed", "downbeat":
		return "empathetic"
	case "joyful":
		return "cheeky"
	default:
		return ""
	}
}
