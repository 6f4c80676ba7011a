// ABOUTME: Row types for the user-isolated memory store
// ABOUTME: Opinions, preferences, emotional samples, and session state
package models

import "time"

// Preference sources. Manual entries always override learned entries
// for the same key.
const (
	SourceManual  = "manual"
	SourceLearned = "learned"
)

// Opinion is a stance the assistant has formed on a topic. Confidence
// stays inside [0,1]: corroboration raises it, contradiction decays it.
type Opinion struct {
	UserID      string    `json:"user_id"`
	Topic       string    `json:"topic"`
	Stance      string    `json:"stance"`
	Confidence  float64   `json:"confidence"`
	FormedAt    time.Time `json:"formed_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// Preference is a keyed user preference. Strength only applies to
// learned entries and stays inside [0,1].
type Preference struct {
	UserID   string  `json:"user_id"`
	Key      string  `json:"key"`
	Value    string  `json:"value"`
	Source   string  `json:"source"`
	Strength float64 `json:"strength"`
}

// EmotionalSample is one point in the append-only sentiment time series.
type EmotionalSample struct {
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"sentiment_score"`
	Emotion   string    `json:"emotion,omitempty"`
	TurnRef   string    `json:"turn_ref,omitempty"`
}

// EmotionalPattern summarizes recent emotional samples.
type EmotionalPattern struct {
	AvgSentiment    float64 `json:"avg_sentiment"`
	Trend           string  `json:"trend"`
	DominantEmotion string  `json:"dominant_emotion"`
	SampleSize      int     `json:"sample_size"`
}

// Stats summarizes a user's conversation history.
type Stats struct {
	Total        int            `json:"total"`
	PacifyCount  int            `json:"pacify_count"`
	DefyCount    int            `json:"defy_count"`
	PersonaUsage map[string]int `json:"persona_usage"`
	AvgWordCount float64        `json:"avg_word_count"`
	AvgTime      float64        `json:"avg_response_time"`
}
