// ABOUTME: Turn represents a single conversation exchange between user and AI
// ABOUTME: Core data structure for the dialogue engine, append-only once written
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Turn represents a single conversation turn. Turns are immutable once
// recorded; the engine only ever appends new ones.
type Turn struct {
	TurnID       string    `json:"turn_id"`
	UserID       string    `json:"user_id"`
	Timestamp    time.Time `json:"timestamp"`
	Mode         string    `json:"mode"`
	Persona      string    `json:"persona"`
	UserText     string    `json:"user_text"`
	AIText       string    `json:"ai_text"`
	Mood         string    `json:"mood,omitempty"`
	CodeLanguage string    `json:"code_language,omitempty"`
	SessionID    string    `json:"session_id,omitempty"`
	WordCount    int       `json:"word_count"`
	ResponseTime float64   `json:"response_time,omitempty"`
}

// NewTurn creates a new Turn with validation. Word count is derived from
// the AI text when not supplied.
func NewTurn(userID, mode, persona, userText, aiText string) (*Turn, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user id cannot be empty")
	}
	if strings.TrimSpace(userText) == "" {
		return nil, errors.New("user text cannot be empty")
	}
	return &Turn{
		TurnID:    generateTurnID(),
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Mode:      mode,
		Persona:   persona,
		UserText:  userText,
		AIText:    aiText,
		WordCount: len(strings.Fields(aiText)),
	}, nil
}

// generateTurnID generates a unique turn identifier
func generateTurnID() string {
	return fmt.Sprintf("turn_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}
