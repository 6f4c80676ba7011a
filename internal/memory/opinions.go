// ABOUTME: Opinion persistence with corroboration and contradiction updates
// ABOUTME: Confidence is clamped to [0,1] and topics are unique per user
package memory

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pacify-defy/pacify-defy/internal/models"
)

// OpinionStore persists formed opinions, one per topic per user.
type OpinionStore struct {
	db *DB
}

// NewOpinionStore creates an opinion store backed by db.
func NewOpinionStore(db *DB) *OpinionStore {
	return &OpinionStore{db: db}
}

// Observe records a stance signal on a topic. A new topic creates an
// opinion at the signal's confidence. Corroboration of the existing
// stance raises confidence toward the stronger signal; a contradictory
// stance halves confidence and, once it falls below the signal,
// replaces the stance.
func (s *OpinionStore) Observe(userID, topic, stance string, confidence float64) (*models.Opinion, error) {
	return observeOpinion(s.db.conn, userID, topic, stance, confidence)
}

func observeOpinion(q querier, userID, topic, stance string, confidence float64) (*models.Opinion, error) {
	if userID == "" {
		return nil, ErrIsolation
	}
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		return nil, errors.New("opinion topic cannot be empty")
	}
	confidence = clamp01(confidence)
	now := time.Now().UTC()

	existing, err := getOpinion(q, userID, topic)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	op := existing
	switch {
	case op == nil:
		op = &models.Opinion{
			UserID:     userID,
			Topic:      topic,
			Stance:     stance,
			Confidence: confidence,
			FormedAt:   now,
		}
	case strings.EqualFold(op.Stance, stance):
		if confidence > op.Confidence {
			op.Confidence = clamp01((op.Confidence + confidence) / 2)
		} else {
			op.Confidence = clamp01(op.Confidence + 0.05)
		}
	default:
		op.Confidence = clamp01(op.Confidence * 0.5)
		if op.Confidence < confidence {
			op.Stance = stance
			op.Confidence = confidence
		}
	}
	op.LastUpdated = now

	_, err = q.Exec(`INSERT INTO opinions
		(user_id, topic, stance, confidence, formed_at, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, topic) DO UPDATE SET
		stance = excluded.stance, confidence = excluded.confidence,
		last_updated = excluded.last_updated`,
		op.UserID, op.Topic, op.Stance, op.Confidence, op.FormedAt, op.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return op, nil
}

// Get returns the opinion on a topic, or sql.ErrNoRows when none exists.
func (s *OpinionStore) Get(userID, topic string) (*models.Opinion, error) {
	return getOpinion(s.db.conn, userID, topic)
}

func getOpinion(q querier, userID, topic string) (*models.Opinion, error) {
	if userID == "" {
		return nil, ErrIsolation
	}
	op := &models.Opinion{}
	err := q.QueryRow(`SELECT user_id, topic, stance, confidence,
		formed_at, last_updated FROM opinions WHERE user_id = ? AND topic = ?`,
		userID, strings.ToLower(topic)).Scan(&op.UserID, &op.Topic, &op.Stance,
		&op.Confidence, &op.FormedAt, &op.LastUpdated)
	if err != nil {
		return nil, err
	}
	return op, nil
}

// List returns all opinions for a user, strongest first.
func (s *OpinionStore) List(userID string) ([]*models.Opinion, error) {
	if userID == "" {
		return nil, ErrIsolation
	}
	rows, err := s.db.conn.Query(`SELECT user_id, topic, stance, confidence,
		formed_at, last_updated FROM opinions WHERE user_id = ?
		ORDER BY confidence DESC, topic ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list opinions: %w", err)
	}
	defer rows.Close()

	var opinions []*models.Opinion
	for rows.Next() {
		op := &models.Opinion{}
		if err := rows.Scan(&op.UserID, &op.Topic, &op.Stance, &op.Confidence,
			&op.FormedAt, &op.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan opinion: %w", err)
		}
		opinions = append(opinions, op)
	}
	return opinions, rows.Err()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
