// ABOUTME: SessionState is the per-user singleton of tunable settings
// ABOUTME: Loaded at session start, written at session end or on /set
package models

// Response length settings and their token budgets.
const (
	LengthQuick     = "quick"
	LengthNormal    = "normal"
	LengthDetailed  = "detailed"
	LengthTechnical = "technical"
)

// TokenBudgets maps a response-length setting to the max tokens
// requested from the model.
var TokenBudgets = map[string]int{
	LengthQuick:     80,
	LengthNormal:    150,
	LengthDetailed:  250,
	LengthTechnical: 600,
}

// WordTargets are soft targets used for length warnings, not truncation.
var WordTargets = map[string]int{
	LengthQuick:     40,
	LengthNormal:    80,
	LengthDetailed:  140,
	LengthTechnical: 200,
}

// SessionState holds the per-user settings singleton. A zero Temperature
// means "use the mode default".
type SessionState struct {
	UserID            string  `json:"user_id"`
	Mode              string  `json:"mode"`
	Persona           string  `json:"persona"`
	Mood              string  `json:"mood,omitempty"`
	ContextWindowSize int     `json:"context_window_size"`
	ResponseLength    string  `json:"response_length"`
	Temperature       float64 `json:"temperature,omitempty"`
	MetadataDisplay   bool    `json:"metadata_display"`
	Autosave          bool    `json:"autosave"`
}

// DefaultSessionState returns the state used on a user's first run.
func DefaultSessionState(userID string) *SessionState {
	return &SessionState{
		UserID:            userID,
		Mode:              "pacify",
		Persona:           "pacificia",
		ContextWindowSize: 5,
		ResponseLength:    LengthNormal,
		MetadataDisplay:   true,
		Autosave:          false,
	}
}
