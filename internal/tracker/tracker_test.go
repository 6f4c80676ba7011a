// ABOUTME: Tests for classification, sentiment scoring, and sticky context
// ABOUTME: Exercises follow-up chains, topic shifts, spam, and code intent
package tracker

import "testing"

func TestClassifyFollowUp(t *testing.T) {
	tr := New()
	tr.Analyze("how do I implement a binary search tree in python")

	a := tr.Analyze("explain that more")
	if a.Kind != KindFollowUp {
		t.Errorf("Kind = %q, want follow_up", a.Kind)
	}
	if a.CodeLanguage != "python" {
		t.Errorf("CodeLanguage = %q, want python preserved on follow-up", a.CodeLanguage)
	}
}

func TestClassifyRefinement(t *testing.T) {
	tr := New()
	tr.Analyze("write a haiku about rain")
	a := tr.Analyze("actually make it about snow")
	if a.Kind != KindRefinement {
		t.Errorf("Kind = %q, want refinement", a.Kind)
	}
}

func TestTopicShiftClearsCodeLanguage(t *testing.T) {
	tr := New()
	tr.Analyze("debug this python function for me")
	if tr.CodeLanguage() != "python" {
		t.Fatalf("CodeLanguage = %q, want python", tr.CodeLanguage())
	}

	a := tr.Analyze("anyway, what should I cook tonight")
	if a.Kind != KindTopicShift {
		t.Errorf("Kind = %q, want topic_shift", a.Kind)
	}
	if a.CodeLanguage != "" {
		t.Errorf("CodeLanguage = %q, want cleared on topic shift", a.CodeLanguage)
	}
}

func TestNewTopicWithoutHistory(t *testing.T) {
	tr := New()
	a := tr.Analyze("what is the meaning of dreams")
	if a.Kind != KindNewTopic {
		t.Errorf("Kind = %q, want new_topic", a.Kind)
	}
}

func TestDisjointVocabularyIsTopicShift(t *testing.T) {
	if got := Classify("recommend a soup recipe", "how do I tune my guitar"); got != KindTopicShift {
		t.Errorf("Classify(disjoint) = %q, want topic_shift", got)
	}

	// The shift also drops the sticky code language.
	tr := New()
	tr.Analyze("debug this python function for me")
	a := tr.Analyze("recommend a soup recipe")
	if a.Kind != KindTopicShift {
		t.Errorf("Kind = %q, want topic_shift", a.Kind)
	}
	if a.CodeLanguage != "" {
		t.Errorf("CodeLanguage = %q, want cleared on disjoint input", a.CodeLanguage)
	}
}

func TestContentOverlapFollowUp(t *testing.T) {
	tr := New()
	tr.Analyze("recommend some jazz albums")
	a := tr.Analyze("which jazz album is best for beginners")
	if a.Kind != KindFollowUp {
		t.Errorf("Kind = %q, want follow_up via shared content words", a.Kind)
	}
}

func TestGreetingSkipsClassification(t *testing.T) {
	tr := New()
	tr.Analyze("tell me about black holes")
	a := tr.Analyze("hey!")
	if !a.IsGreeting {
		t.Error("IsGreeting = false for bare greeting")
	}
	if a.Kind != KindNewTopic {
		t.Errorf("greeting Kind = %q, want new_topic", a.Kind)
	}
}

func TestSpamDetection(t *testing.T) {
	tr := New()
	tr.Analyze("hello world")
	tr.Analyze("hello world")
	a := tr.Analyze("hello world")
	if !a.IsSpam {
		t.Error("IsSpam = false after three identical inputs")
	}

	a = tr.Analyze("something new")
	if a.IsSpam {
		t.Error("IsSpam = true after the streak broke")
	}
}

func TestCodeIntent(t *testing.T) {
	tests := []struct {
		input  string
		intent bool
		lang   string
	}{
		{"how do I implement a binary search tree", true, ""},
		{"write a program in rust to parse logs", true, "rust"},
		{"what should I eat for dinner", false, ""},
		{"my sql query is slow", true, "sql"},
	}
	for _, tc := range tests {
		intent, lang := CodeIntent(tc.input)
		if intent != tc.intent || lang != tc.lang {
			t.Errorf("CodeIntent(%q) = (%v, %q), want (%v, %q)",
				tc.input, intent, lang, tc.intent, tc.lang)
		}
	}
}

func TestCodeIntentFirstMentionWins(t *testing.T) {
	input := "convert this python function to javascript"
	for i := 0; i < 50; i++ {
		_, lang := CodeIntent(input)
		if lang != "python" {
			t.Fatalf("CodeIntent(%q) lang = %q, want python every time", input, lang)
		}
	}
	if _, lang := CodeIntent("rewrite the javascript version in python"); lang != "javascript" {
		t.Errorf("lang = %q, want the first mention", lang)
	}
}

func TestIsStrict(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"give me only the regex", true},
		{"just the code, nothing else", true},
		{"write exactly three lines", true},
		{"how does recursion work", false},
		{"adjust the tone a bit", false},
	}
	for _, tc := range tests {
		if got := IsStrict(tc.input); got != tc.want {
			t.Errorf("IsStrict(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestSentimentClamping(t *testing.T) {
	if got := Sentiment("I love this, it is amazing and wonderful and excellent"); got != 1 {
		t.Errorf("Sentiment() = %v, want clamped to 1", got)
	}
	if got := Sentiment("I hate this terrible awful horrible thing"); got != -1 {
		t.Errorf("Sentiment() = %v, want clamped to -1", got)
	}
	if got := Sentiment("the sky is blue"); got != 0 {
		t.Errorf("Sentiment() = %v, want 0 for neutral", got)
	}
}

func TestSentimentMixed(t *testing.T) {
	got := Sentiment("good but tired")
	if got >= 0.4 || got <= -0.4 {
		t.Errorf("Sentiment(mixed) = %v, want small magnitude", got)
	}
}

func TestMoodSuggestion(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"haha that was funny", "witty"},
		{"I feel so sad and lonely today", "empathetic"},
		{"this is amazing, I love it", "cheeky"},
		{"the sky is blue", ""},
	}
	for _, tc := range tests {
		score := Sentiment(tc.input)
		if got := SuggestMood(tc.input, score); got != tc.want {
			t.Errorf("SuggestMood(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSeedRestoresContext(t *testing.T) {
	tr := New()
	tr.Seed("show me a python decorator example", "python")
	a := tr.Analyze("explain that more")
	if a.Kind != KindFollowUp {
		t.Errorf("Kind after seed = %q, want follow_up", a.Kind)
	}
	if a.CodeLanguage != "python" {
		t.Errorf("CodeLanguage after seed = %q, want python", a.CodeLanguage)
	}
}
