// ABOUTME: Assembles the message list, token budget, and temperature per turn
// ABOUTME: Context window injection is skipped on greetings and topic shifts
package prompt

import (
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pacify-defy/pacify-defy/internal/models"
	"github.com/pacify-defy/pacify-defy/internal/persona"
	"github.com/pacify-defy/pacify-defy/internal/tracker"
)

// Input gathers everything one turn's prompt is built from.
type Input struct {
	Persona     *persona.Persona
	State       *models.SessionState
	Analysis    tracker.Analysis
	Recent      []*models.Turn
	Preferences map[string]string
	Emotional   *models.EmotionalPattern
	UserText    string
	Now         time.Time
}

// Build assembles the chat messages for one turn.
func Build(in Input) []openai.ChatCompletionMessage {
	messages := []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt(in),
	}}

	// Prior turns only help when the input continues a thread.
	if !in.Analysis.IsGreeting && in.Analysis.Kind != tracker.KindTopicShift {
		window := in.State.ContextWindowSize
		recent := in.Recent
		if len(recent) > window {
			recent = recent[len(recent)-window:]
		}
		for _, turn := range recent {
			messages = append(messages,
				openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: turn.UserText},
				openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: turn.AIText},
			)
		}
	}

	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: in.UserText,
	})
}

// MaxTokens resolves the token budget. Technical personas always get
// the technical budget regardless of the length setting.
func MaxTokens(p *persona.Persona, state *models.SessionState) int {
	if p.Technical() {
		return models.TokenBudgets[models.LengthTechnical]
	}
	if budget, ok := models.TokenBudgets[state.ResponseLength]; ok {
		return budget
	}
	return models.TokenBudgets[models.LengthNormal]
}

func systemPrompt(in Input) string {
	var b strings.Builder
	b.WriteString(in.Persona.Instructions())

	if in.State.Mode == "defy" {
		b.WriteString("\nMODE:\nYou are in defy mode. Challenge assumptions, question premises, and never soften a position just to please. Stay sharp, never cruel.\n")
	}

	if in.State.Mood != "" && in.Persona.MoodCapable {
		fmt.Fprintf(&b, "\nCURRENT MOOD: %s. Let this mood color every response until it changes.\n", in.State.Mood)
	}

	b.WriteString("\n" + lengthGuideline(in))

	if adj := patternAdjustment(in.Analysis); adj != "" {
		b.WriteString("\n" + adj)
	}

	if len(in.Preferences) > 0 {
		b.WriteString("\nKNOWN PREFERENCES:\n")
		for key, value := range in.Preferences {
			fmt.Fprintf(&b, "- %s: %s\n", key, value)
		}
	}

	if in.Emotional != nil && in.Emotional.SampleSize > 0 {
		fmt.Fprintf(&b, "\nEMOTIONAL CONTEXT: recent sentiment average %.2f, trend %s.\n",
			in.Emotional.AvgSentiment, in.Emotional.Trend)
	}

	if !in.Now.IsZero() {
		fmt.Fprintf(&b, "\nIt is %s on %s.\n",
			timeOfDay(in.Now), in.Now.Format("Monday, January 2"))
	}

	return b.String()
}

func lengthGuideline(in Input) string {
	length := in.State.ResponseLength
	if in.Persona.Technical() {
		length = models.LengthTechnical
	}
	target := models.WordTargets[length]
	switch length {
	case models.LengthQuick:
		return fmt.Sprintf("LENGTH: Keep responses brief, around %d words. One thought, well put.", target)
	case models.LengthDetailed:
		return fmt.Sprintf("LENGTH: Responses may run to about %d words when the topic deserves it.", target)
	case models.LengthTechnical:
		return fmt.Sprintf("LENGTH: Technical answers may use about %d words plus code blocks as needed.", target)
	default:
		return fmt.Sprintf("LENGTH: Aim for conversational responses around %d words.", target)
	}
}

func patternAdjustment(a tracker.Analysis) string {
	if a.IsStrict {
		return "CRITICAL: Output ONLY what is requested. No commentary."
	}
	switch a.Kind {
	case tracker.KindFollowUp:
		adj := "CONTINUITY: The user is following up on your previous answer. Build on it directly without re-introducing the topic."
		if a.CodeLanguage != "" {
			adj += fmt.Sprintf(" Keep using %s for any code.", a.CodeLanguage)
		}
		return adj
	case tracker.KindRefinement:
		return "CONTINUITY: The user is correcting or redirecting your previous answer. Adjust it rather than starting over."
	case tracker.KindTopicShift:
		return "CONTINUITY: The user changed the subject. Let the previous topic go completely."
	}
	return ""
}

func timeOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h < 5:
		return "late night"
	case h < 12:
		return "morning"
	case h < 17:
		return "afternoon"
	case h < 22:
		return "evening"
	default:
		return "night"
	}
}
