// ABOUTME: Session state persistence, one settings row per user
// ABOUTME: First run falls back to defaults without writing a row
package memory

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/pacify-defy/pacify-defy/internal/models"
)

// SessionStore persists the per-user settings singleton.
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a session store backed by db.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Load returns the stored state for a user, or defaults on first run.
func (s *SessionStore) Load(userID string) (*models.SessionState, error) {
	if userID == "" {
		return nil, ErrIsolation
	}
	state := &models.SessionState{}
	var mood sql.NullString
	err := s.db.conn.QueryRow(`SELECT user_id, mode, persona, mood,
		context_window_size, response_length, temperature, metadata_display, autosave
		FROM session_state WHERE user_id = ?`, userID).Scan(
		&state.UserID, &state.Mode, &state.Persona, &mood,
		&state.ContextWindowSize, &state.ResponseLength, &state.Temperature,
		&state.MetadataDisplay, &state.Autosave)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSessionState(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session state: %w", err)
	}
	state.Mood = mood.String
	return state, nil
}

// Save writes the state row, replacing any previous one.
func (s *SessionStore) Save(state *models.SessionState) error {
	if state.UserID == "" {
		return ErrIsolation
	}
	_, err := s.db.conn.Exec(`INSERT INTO session_state
		(user_id, mode, persona, mood, context_window_size, response_length,
		 temperature, metadata_display, autosave)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
		mode = excluded.mode, persona = excluded.persona, mood = excluded.mood,
		context_window_size = excluded.context_window_size,
		response_length = excluded.response_length,
		temperature = excluded.temperature,
		metadata_display = excluded.metadata_display,
		autosave = excluded.autosave`,
		state.UserID, state.Mode, state.Persona, nullable(state.Mood),
		state.ContextWindowSize, state.ResponseLength, state.Temperature,
		state.MetadataDisplay, state.Autosave)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}
