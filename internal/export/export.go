// ABOUTME: Export document model shared by all output formats
// ABOUTME: Records carry the full turn fields so exports survive re-import
package export

import (
	"time"

	"github.com/pacify-defy/pacify-defy/internal/models"
)

// Format names accepted by the export command.
const (
	FormatText     = "txt"
	FormatJSON     = "json"
	FormatMarkdown = "md"
	FormatYAML     = "yaml"
)

// Document is the stable export shape. Field order and names are part
// of the format; existing exports must keep decoding.
type Document struct {
	UserID     string    `json:"user_id" yaml:"user_id"`
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
	TurnCount  int       `json:"turn_count" yaml:"turn_count"`
	Turns      []Record  `json:"turns" yaml:"turns"`
}

// Record is one exported turn.
type Record struct {
	TurnID       string    `json:"turn_id" yaml:"turn_id"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
	Mode         string    `json:"mode" yaml:"mode"`
	Persona      string    `json:"persona" yaml:"persona"`
	Mood         string    `json:"mood,omitempty" yaml:"mood,omitempty"`
	UserText     string    `json:"user_text" yaml:"user_text"`
	AIText       string    `json:"ai_text" yaml:"ai_text"`
	CodeLanguage string    `json:"code_language,omitempty" yaml:"code_language,omitempty"`
	WordCount    int       `json:"word_count" yaml:"word_count"`
}

// FromTurns builds a document from stored turns.
func FromTurns(userID string, turns []*models.Turn) *Document {
	doc := &Document{
		UserID:     userID,
		ExportedAt: time.Now().UTC(),
		TurnCount:  len(turns),
	}
	for _, t := range turns {
		doc.Turns = append(doc.Turns, Record{
			TurnID:       t.TurnID,
			Timestamp:    t.Timestamp,
			Mode:         t.Mode,
			Persona:      t.Persona,
			Mood:         t.Mood,
			UserText:     t.UserText,
			AIText:       t.AIText,
			CodeLanguage: t.CodeLanguage,
			WordCount:    t.WordCount,
		})
	}
	return doc
}

// ToTurns converts a decoded document back into turns.
func (d *Document) ToTurns() []*models.Turn {
	var turns []*models.Turn
	for _, r := range d.Turns {
		turns = append(turns, &models.Turn{
			TurnID:       r.TurnID,
			UserID:       d.UserID,
			Timestamp:    r.Timestamp,
			Mode:         r.Mode,
			Persona:      r.Persona,
			Mood:         r.Mood,
			UserText:     r.UserText,
			AIText:       r.AIText,
			CodeLanguage: r.CodeLanguage,
			WordCount:    r.WordCount,
		})
	}
	return turns
}
