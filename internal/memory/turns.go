// ABOUTME: Conversation turn persistence, retrieval, search, and stats
// ABOUTME: Turns are append-only and strictly scoped to one user
package memory

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pacify-defy/pacify-defy/internal/models"
)

// TurnStore persists conversation turns.
type TurnStore struct {
	db *DB
}

// NewTurnStore creates a turn store backed by db.
func NewTurnStore(db *DB) *TurnStore {
	return &TurnStore{db: db}
}

const turnColumns = `turn_id, user_id, timestamp, mode, persona, user_text, ai_text,
	mood, code_language, session_id, word_count, response_time`

// Record appends a turn. It never updates an existing one.
func (s *TurnStore) Record(turn *models.Turn) error {
	if turn.UserID == "" {
		return ErrIsolation
	}
	_, err := s.db.conn.Exec(fmt.Sprintf(`INSERT INTO conversations (%s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, turnColumns),
		turn.TurnID, turn.UserID, turn.Timestamp, turn.Mode, turn.Persona,
		turn.UserText, turn.AIText, nullable(turn.Mood), nullable(turn.CodeLanguage),
		nullable(turn.SessionID), turn.WordCount, turn.ResponseTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// Recent returns the newest n turns for a user in chronological order.
func (s *TurnStore) Recent(userID string, n int) ([]*models.Turn, error) {
	if userID == "" {
		return nil, ErrIsolation
	}
	rows, err := s.db.conn.Query(fmt.Sprintf(`SELECT %s FROM conversations
		WHERE user_id = ? ORDER BY timestamp DESC LIMIT ?`, turnColumns), userID, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	turns, err := scanTurns(rows)
	if err != nil {
		return nil, err
	}
	// Reverse into chronological order for prompt assembly.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// Search returns turns whose user or AI text contains the query,
// case-insensitively, newest first.
func (s *TurnStore) Search(userID, query string, limit int) ([]*models.Turn, error) {
	if userID == "" {
		return nil, ErrIsolation
	}
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := s.db.conn.Query(fmt.Sprintf(`SELECT %s FROM conversations
		WHERE user_id = ? AND (LOWER(user_text) LIKE ? OR LOWER(ai_text) LIKE ?)
		ORDER BY timestamp DESC LIMIT ?`, turnColumns), userID, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search turns: %w", err)
	}
	defer rows.Close()
	return scanTurns(rows)
}

// All returns every turn for a user in chronological order.
func (s *TurnStore) All(userID string) ([]*models.Turn, error) {
	if userID == "" {
		return nil, ErrIsolation
	}
	rows, err := s.db.conn.Query(fmt.Sprintf(`SELECT %s FROM conversations
		WHERE user_id = ? ORDER BY timestamp ASC`, turnColumns), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()
	return scanTurns(rows)
}

// Clear deletes the conversation history for a user. Opinions,
// preferences, and emotional data survive a clear.
func (s *TurnStore) Clear(userID string) (int, error) {
	if userID == "" {
		return 0, ErrIsolation
	}
	res, err := s.db.conn.Exec(`DELETE FROM conversations WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Sweep deletes turns older than the retention cutoff.
func (s *TurnStore) Sweep(userID string, cutoff time.Time) (int, error) {
	if userID == "" {
		return 0, ErrIsolation
	}
	res, err := s.db.conn.Exec(`DELETE FROM conversations
		WHERE user_id = ? AND timestamp < ?`, userID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep old turns: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Stats aggregates usage counts and averages for a user.
func (s *TurnStore) Stats(userID string) (*models.Stats, error) {
	if userID == "" {
		return nil, ErrIsolation
	}
	stats := &models.Stats{PersonaUsage: make(map[string]int)}

	row := s.db.conn.QueryRow(`SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN mode = 'pacify' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN mode = 'defy' THEN 1 ELSE 0 END), 0),
		COALESCE(AVG(word_count), 0),
		COALESCE(AVG(response_time), 0)
		FROM conversations WHERE user_id = ?`, userID)
	if err := row.Scan(&stats.Total, &stats.PacifyCount, &stats.DefyCount,
		&stats.AvgWordCount, &stats.AvgTime); err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}

	rows, err := s.db.conn.Query(`SELECT persona, COUNT(*) FROM conversations
		WHERE user_id = ? GROUP BY persona`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate persona usage: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var persona string
		var count int
		if err := rows.Scan(&persona, &count); err != nil {
			return nil, err
		}
		stats.PersonaUsage[persona] = count
	}
	return stats, rows.Err()
}

func scanTurns(rows *sql.Rows) ([]*models.Turn, error) {
	var turns []*models.Turn
	for rows.Next() {
		turn := &models.Turn{}
		var mood, codeLang, sessionID sql.NullString
		if err := rows.Scan(&turn.TurnID, &turn.UserID, &turn.Timestamp,
			&turn.Mode, &turn.Persona, &turn.UserText, &turn.AIText,
			&mood, &codeLang, &sessionID, &turn.WordCount, &turn.ResponseTime); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turn.Mood = mood.String
		turn.CodeLanguage = codeLang.String
		turn.SessionID = sessionID.String
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
