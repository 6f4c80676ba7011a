// ABOUTME: Store is the facade composing all per-entity stores
// ABOUTME: RecordExchange persists a turn and its sentiment sample together
package memory

import (
	"fmt"
	"time"

	"github.com/pacify-defy/pacify-defy/internal/models"
)

// Store composes the per-entity stores over one database.
type Store struct {
	db *DB

	Turns       *TurnStore
	Opinions    *OpinionStore
	Preferences *PreferenceStore
	Emotional   *EmotionalStore
	Sessions    *SessionStore
}

// NewStore creates a store facade over an open database.
func NewStore(db *DB) *Store {
	return &Store{
		db:          db,
		Turns:       NewTurnStore(db),
		Opinions:    NewOpinionStore(db),
		Preferences: NewPreferenceStore(db),
		Emotional:   NewEmotionalStore(db),
		Sessions:    NewSessionStore(db),
	}
}

// Open opens the database at path and returns a store over it.
func Open(path string) (*Store, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	return NewStore(db), nil
}

// OpenInMemoryStore returns a store over an in-memory database for tests.
func OpenInMemoryStore() (*Store, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, err
	}
	return NewStore(db), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// OpinionObservation is one stance signal derived from a turn.
type OpinionObservation struct {
	Topic      string
	Stance     string
	Confidence float64
}

// PreferenceObservation is one learned-preference signal derived from
// a turn.
type PreferenceObservation struct {
	Key    string
	Value  string
	Weight float64
}

// Exchange is one completed turn plus everything derived from it.
type Exchange struct {
	Turn        *models.Turn
	Sentiment   float64
	Emotion     string
	Opinions    []OpinionObservation
	Preferences []PreferenceObservation
}

// RecordExchange commits a turn, its sentiment sample, and its derived
// opinion and preference updates in one transaction. Either everything
// lands or nothing does.
func (s *Store) RecordExchange(ex *Exchange) error {
	if ex.Turn == nil || ex.Turn.UserID == "" {
		return ErrIsolation
	}
	tx, err := s.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	defer tx.Rollback()

	turn := ex.Turn
	if _, err := tx.Exec(fmt.Sprintf(`INSERT INTO conversations (%s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, turnColumns),
		turn.TurnID, turn.UserID, turn.Timestamp, turn.Mode, turn.Persona,
		turn.UserText, turn.AIText, nullable(turn.Mood), nullable(turn.CodeLanguage),
		nullable(turn.SessionID), turn.WordCount, turn.ResponseTime); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if _, err := tx.Exec(`INSERT INTO emotional_tracking
		(user_id, timestamp, sentiment_score, emotion, turn_ref)
		VALUES (?, ?, ?, ?, ?)`,
		turn.UserID, turn.Timestamp, ex.Sentiment,
		nullable(ex.Emotion), turn.TurnID); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	for _, ob := range ex.Opinions {
		if _, err := observeOpinion(tx, turn.UserID, ob.Topic, ob.Stance, ob.Confidence); err != nil {
			return err
		}
	}
	for _, ob := range ex.Preferences {
		if err := observePreference(tx, turn.UserID, ob.Key, ob.Value, ob.Weight); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// SweepExpired deletes turns and emotional samples older than the
// retention period. Opinions and preferences are kept indefinitely.
func (s *Store) SweepExpired(userID string, retention time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-retention)
	turns, err := s.Turns.Sweep(userID, cutoff)
	if err != nil {
		return 0, err
	}
	samples, err := s.Emotional.Sweep(userID, cutoff)
	if err != nil {
		return turns, err
	}
	return turns + samples, nil
}
