// ABOUTME: Tracker carries sticky conversational context across turns
// ABOUTME: Produces a pure Analysis per input; suggestions never auto-apply
package tracker

import "strings"

// Analysis is everything the tracker derives from one input. It is a
// pure value; nothing in it changes session state by itself.
type Analysis struct {
	Kind          string
	IsGreeting    bool
	IsSpam        bool
	IsStrict      bool
	CodeIntent    bool
	CodeLanguage  string
	Sentiment     float64
	Emotion       string
	Playful       bool
	SuggestedMood string
}

// Tracker holds the rolling context for one session.
type Tracker struct {
	lastUserText string
	codeLanguage string
	recentInputs []string
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{}
}

// Seed primes the tracker from the most recent stored turn so context
// survives a restart.
func (t *Tracker) Seed(lastUserText, codeLanguage string) {
	t.lastUserText = lastUserText
	t.codeLanguage = codeLanguage
}

// CodeLanguage returns the sticky code language, if any.
func (t *Tracker) CodeLanguage() string {
	return t.codeLanguage
}

// Analyze classifies one input and advances the rolling context.
// A topic shift clears the sticky code language; a follow-up or
// refinement preserves it.
func (t *Tracker) Analyze(input string) Analysis {
	a := Analysis{IsGreeting: IsGreeting(input)}

	a.IsSpam = t.isRepeated(input)
	t.remember(input)

	if a.IsGreeting {
		a.Kind = KindNewTopic
		return a
	}

	a.Kind = Classify(input, t.lastUserText)
	a.IsStrict = IsStrict(input)
	a.Sentiment = Sentiment(input)
	a.Playful = Playful(input)
	a.Emotion = Emotion(input, a.Sentiment)
	a.SuggestedMood = SuggestMood(input, a.Sentiment)

	intent, lang := CodeIntent(input)
	a.CodeIntent = intent

	switch a.Kind {
	case KindTopicShift, KindNewTopic:
		t.codeLanguage = ""
	}
	if lang != "" {
		t.codeLanguage = lang
	}
	a.CodeLanguage = t.codeLanguage

	t.lastUserText = input
	return a
}

// isRepeated reports whether this input matches the two before it.
func (t *Tracker) isRepeated(input string) bool {
	norm := strings.ToLower(strings.TrimSpace(input))
	if len(t.recentInputs) < 2 {
		return false
	}
	n := len(t.recentInputs)
	return t.recentInputs[n-1] == norm && t.recentInputs[n-2] == norm
}

func (t *Tracker) remember(input string) {
	norm := strings.ToLower(strings.TrimSpace(input))
	t.recentInputs = append(t.recentInputs, norm)
	if len(t.recentInputs) > 3 {
		t.recentInputs = t.recentInputs[1:]
	}
}
