// ABOUTME: Rule-based input classifier relating each input to the last turn
// ABOUTME: No model calls, pure keyword and reference heuristics
package tracker

import (
	"regexp"
	"strings"
)

// Classification of an input relative to the previous exchange.
const (
	KindFollowUp   = "follow_up"
	KindRefinement = "refinement"
	KindTopicShift = "topic_shift"
	KindNewTopic   = "new_topic"
)

// Reference words that tie an input back to the previous answer.
var followUpIndicators = []string{
	"that", "this", "it", "those", "these",
	"explain more", "tell me more", "more about", "elaborate",
	"why", "how come", "what about", "go on", "continue", "keep going",
	"expand", "and then", "what else",
}

// Phrases that correct or redirect the previous answer.
var refinementIndicators = []string{
	"actually", "instead", "rather", "i meant", "not that",
	"no,", "nope", "wrong", "not quite", "try again",
	"make it", "change it", "shorter", "longer", "simpler",
}

// Explicit handoffs to a different subject.
var shiftIndicators = []string{
	"anyway", "moving on", "new topic", "change of subject",
	"different question", "unrelated", "by the way", "switching gears",
	"forget that", "never mind",
}

var greetingPattern = regexp.MustCompile(`^\s*(hi|hello|hey|yo|howdy|good (morning|afternoon|evening)|greetings)\b[\s!.,]*$`)

// codeIndicators are strict signals of technical intent.
var codeIndicators = []string{
	"code", "function", "implement", "algorithm", "compile", "debug",
	"bug", "error message", "stack trace", "refactor", "unit test",
	"write a program", "script", "regex", "sql query", "api endpoint",
	"data structure", "binary search", "linked list", "hash map",
	"recursion", "big o", "time complexity",
}

// languageMentions pairs mention keywords with canonical language
// names, in a fixed scan order. The earliest mention in the input wins.
var languageMentions = []struct {
	mention string
	name    string
}{
	{"python", "python"},
	{"golang", "go"},
	{" go ", "go"},
	{"in go", "go"},
	{"javascript", "javascript"},
	{"typescript", "typescript"},
	{"rust", "rust"},
	{"java ", "java"},
	{"in java", "java"},
	{"c++", "cpp"},
	{"ruby", "ruby"},
	{"sql", "sql"},
	{"bash", "bash"},
	{"shell", "bash"},
}

// strictIndicators signal the user wants exactly what was asked for,
// with no elaboration around it.
var strictIndicators = []string{
	"only", "just", "exactly", "purely", "simply",
	"no extra", "no comments", "literally just", "nothing else",
}

// IsGreeting reports whether the input is a bare greeting. Greetings
// skip classification and context injection.
func IsGreeting(input string) bool {
	return greetingPattern.MatchString(strings.ToLower(input))
}

// Classify relates input to the previous user text. With no previous
// turn everything is a new topic.
func Classify(input, previousUserText string) string {
	lower := strings.ToLower(strings.TrimSpace(input))
	if previousUserText == "" {
		return KindNewTopic
	}

	for _, phrase := range shiftIndicators {
		if strings.Contains(lower, phrase) {
			return KindTopicShift
		}
	}
	for _, phrase := range refinementIndicators {
		if strings.HasPrefix(lower, phrase) || strings.Contains(lower, " "+phrase) {
			return KindRefinement
		}
	}
	for _, phrase := range followUpIndicators {
		if strings.HasPrefix(lower, phrase+" ") || strings.Contains(lower, " "+phrase+" ") ||
			strings.HasSuffix(lower, " "+phrase) || lower == phrase {
			return KindFollowUp
		}
	}
	if sharesContentWords(lower, strings.ToLower(previousUserText)) {
		return KindFollowUp
	}
	// A prior topic exists but the vocabulary is disjoint: the subject
	// moved, it did not start fresh.
	return KindTopicShift
}

// IsStrict reports whether the input demands exact output with no
// elaboration ("just the code", "only the answer").
func IsStrict(input string) bool {
	lower := strings.ToLower(input)
	words := make(map[string]bool)
	for _, w := range strings.Fields(lower) {
		words[strings.Trim(w, ".,!?")] = true
	}
	for _, ind := range strictIndicators {
		if strings.Contains(ind, " ") {
			if strings.Contains(lower, ind) {
				return true
			}
		} else if words[ind] {
			return true
		}
	}
	return false
}

// CodeIntent reports whether the input asks for technical work, and the
// language it names if any.
func CodeIntent(input string) (bool, string) {
	lower := " " + strings.ToLower(input) + " "
	intent := false
	for _, kw := range codeIndicators {
		if strings.Contains(lower, kw) {
			intent = true
			break
		}
	}
	lang := ""
	langAt := -1
	for _, lm := range languageMentions {
		at := strings.Index(lower, lm.mention)
		if at >= 0 && (langAt < 0 || at < langAt) {
			lang, langAt = lm.name, at
		}
	}
	if lang != "" {
		return true, lang
	}
	return intent, ""
}

// stopWords excluded from content-overlap comparison.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "do": true, "does": true, "did": true,
	"what": true, "how": true, "can": true, "you": true, "i": true,
	"me": true, "my": true, "to": true, "of": true, "for": true,
	"and": true, "or": true, "in": true, "on": true, "about": true,
	"please": true, "tell": true, "with": true,
}

func sharesContentWords(a, b string) bool {
	seen := make(map[string]bool)
	for _, w := range strings.Fields(a) {
		w = strings.Trim(w, ".,!?")
		if len(w) > 2 && !stopWords[w] {
			seen[w] = true
		}
	}
	for _, w := range strings.Fields(b) {
		w = strings.Trim(w, ".,!?")
		if seen[w] {
			return true
		}
	}
	return false
}
