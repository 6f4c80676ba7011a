// ABOUTME: Preference persistence with manual-wins override semantics
// ABOUTME: Learned strengths live in [0,1]; manual entries ignore strength
package memory

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pacify-defy/pacify-defy/internal/models"
)

// PreferenceStore persists user preferences keyed by name.
type PreferenceStore struct {
	db *DB
}

// NewPreferenceStore creates a preference store backed by db.
func NewPreferenceStore(db *DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

// SetManual records an explicit user preference. Manual entries always
// replace whatever was there, learned or manual.
func (s *PreferenceStore) SetManual(userID, key, value string) error {
	if userID == "" {
		return ErrIsolation
	}
	_, err := s.db.conn.Exec(`INSERT INTO preferences
		(user_id, key, value, source, strength) VALUES (?, ?, ?, ?, 1.0)
		ON CONFLICT(user_id, key) DO UPDATE SET
		value = excluded.value, source = excluded.source, strength = 1.0`,
		userID, normalizeKey(key), value, models.SourceManual)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// Upsert writes a learned preference row. It never overwrites a manual
// entry for the same key.
func (s *PreferenceStore) Upsert(pref *models.Preference) error {
	if pref.UserID == "" {
		return ErrIsolation
	}
	existing, err := s.Get(pref.UserID, pref.Key)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if existing != nil && existing.Source == models.SourceManual {
		return nil
	}
	return upsertLearned(s.db.conn, pref.UserID, pref.Key, pref.Value, pref.Strength)
}

// Observe folds one signal of weight w into the learned strength for a
// key. The update is strength + w*(1-strength), so repetition approaches
// 1 without ever reaching it. A signal with a different value restarts
// the strength at w. Manual entries are left untouched.
func (s *PreferenceStore) Observe(userID, key, value string, w float64) error {
	return observePreference(s.db.conn, userID, key, value, w)
}

func observePreference(q querier, userID, key, value string, w float64) error {
	if userID == "" {
		return ErrIsolation
	}
	w = clamp01(w)

	existing, err := getPreference(q, userID, key)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	strength := w
	if existing != nil {
		if existing.Source == models.SourceManual {
			return nil
		}
		if existing.Value == value {
			strength = existing.Strength + w*(1-existing.Strength)
		}
	}
	return upsertLearned(q, userID, key, value, strength)
}

func upsertLearned(q querier, userID, key, value string, strength float64) error {
	_, err := q.Exec(`INSERT INTO preferences
		(user_id, key, value, source, strength) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE SET
		value = excluded.value, source = excluded.source, strength = excluded.strength`,
		userID, normalizeKey(key), value, models.SourceLearned, clamp01(strength))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// Get returns the preference for a key, or sql.ErrNoRows when none exists.
func (s *PreferenceStore) Get(userID, key string) (*models.Preference, error) {
	return getPreference(s.db.conn, userID, key)
}

func getPreference(q querier, userID, key string) (*models.Preference, error) {
	if userID == "" {
		return nil, ErrIsolation
	}
	pref := &models.Preference{}
	err := q.QueryRow(`SELECT user_id, key, value, source, strength
		FROM preferences WHERE user_id = ? AND key = ?`,
		userID, normalizeKey(key)).Scan(&pref.UserID, &pref.Key, &pref.Value,
		&pref.Source, &pref.Strength)
	if err != nil {
		return nil, err
	}
	return pref, nil
}

// List returns all preferences for a user.
func (s *PreferenceStore) List(userID string) ([]*models.Preference, error) {
	if userID == "" {
		return nil, ErrIsolation
	}
	rows, err := s.db.conn.Query(`SELECT user_id, key, value, source, strength
		FROM preferences WHERE user_id = ? ORDER BY key ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer rows.Close()

	var prefs []*models.Preference
	for rows.Next() {
		pref := &models.Preference{}
		if err := rows.Scan(&pref.UserID, &pref.Key, &pref.Value,
			&pref.Source, &pref.Strength); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs = append(prefs, pref)
	}
	return prefs, rows.Err()
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
