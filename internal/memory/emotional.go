// ABOUTME: Append-only emotional sample series and pattern summarization
// ABOUTME: Patterns are computed over a recency window, default 24 hours
package memory

import (
	"fmt"
	"time"

	"github.com/pacify-defy/pacify-defy/internal/models"
)

// EmotionalStore persists the sentiment time series.
type EmotionalStore struct {
	db *DB
}

// NewEmotionalStore creates an emotional store backed by db.
func NewEmotionalStore(db *DB) *EmotionalStore {
	return &EmotionalStore{db: db}
}

// Add appends one sample. Samples are never updated or deleted except
// by the retention sweep.
func (s *EmotionalStore) Add(sample *models.EmotionalSample) error {
	if sample.UserID == "" {
		return ErrIsolation
	}
	if sample.Timestamp.IsZero() {
		sample.Timestamp = time.Now().UTC()
	}
	_, err := s.db.conn.Exec(`INSERT INTO emotional_tracking
		(user_id, timestamp, sentiment_score, emotion, turn_ref)
		VALUES (?, ?, ?, ?, ?)`,
		sample.UserID, sample.Timestamp, sample.Score,
		nullable(sample.Emotion), nullable(sample.TurnRef))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// Pattern summarizes samples newer than the window. Trend compares the
// average of the newer half against the older half.
func (s *EmotionalStore) Pattern(userID string, window time.Duration) (*models.EmotionalPattern, error) {
	if userID == "" {
		return nil, ErrIsolation
	}
	cutoff := time.Now().UTC().Add(-window)
	rows, err := s.db.conn.Query(`SELECT sentiment_score, COALESCE(emotion, '')
		FROM emotional_tracking WHERE user_id = ? AND timestamp >= ?
		ORDER BY timestamp ASC`, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query emotional samples: %w", err)
	}
	defer rows.Close()

	var scores []float64
	emotionCounts := make(map[string]int)
	for rows.Next() {
		var score float64
		var emotion string
		if err := rows.Scan(&score, &emotion); err != nil {
			return nil, err
		}
		scores = append(scores, score)
		if emotion != "" {
			emotionCounts[emotion]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pattern := &models.EmotionalPattern{Trend: "stable", SampleSize: len(scores)}
	if len(scores) == 0 {
		return pattern, nil
	}

	var sum float64
	for _, v := range scores {
		sum += v
	}
	pattern.AvgSentiment = sum / float64(len(scores))

	if len(scores) >= 4 {
		mid := len(scores) / 2
		older := mean(scores[:mid])
		newer := mean(scores[mid:])
		switch {
		case newer-older > 0.15:
			pattern.Trend = "improving"
		case older-newer > 0.15:
			pattern.Trend = "declining"
		}
	}

	best := 0
	for emotion, count := range emotionCounts {
		if count > best {
			best = count
			pattern.DominantEmotion = emotion
		}
	}
	return pattern, nil
}

// Sweep deletes samples older than the retention cutoff.
func (s *EmotionalStore) Sweep(userID string, cutoff time.Time) (int, error) {
	if userID == "" {
		return 0, ErrIsolation
	}
	res, err := s.db.conn.Exec(`DELETE FROM emotional_tracking
		WHERE user_id = ? AND timestamp < ?`, userID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep emotional samples: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}
