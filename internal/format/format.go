// ABOUTME: Post-processes model output: code fencing, filler cleanup, length notes
// ABOUTME: Never truncates; over-length responses only get a warning
package format

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pacify-defy/pacify-defy/internal/models"
)

// Filler openers models tend to produce. Stripped once from the start
// of a response.
var fillerOpeners = []string{
	"sure, ", "sure! ", "certainly, ", "certainly! ",
	"of course, ", "of course! ", "great question! ",
	"as an ai, ", "as an ai language model, ",
}

var fencePattern = regexp.MustCompile("(?s)```([a-zA-Z0-9+#]*)\n?(.*?)```")

// codeLine heuristics for un-fenced code detection.
var codeLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*(def|class|import|from)\s+\w`),
	regexp.MustCompile(`^\s*(func|package|var|const)\s+\w`),
	regexp.MustCompile(`^\s*(function|const|let|var)\s+\w+\s*[=(]`),
	regexp.MustCompile(`^\s*(public|private|static)\s+\w`),
	regexp.MustCompile(`^\s*(SELECT|INSERT|UPDATE|DELETE)\s+`),
	regexp.MustCompile(`^\s+(return|yield|raise)\b`),
	regexp.MustCompile(`^\s*print\(`),
	regexp.MustCompile(`[{};]\s*$`),
}

// Clean strips filler openers and normalizes whitespace.
func Clean(text string) string {
	out := strings.TrimSpace(text)
	lower := strings.ToLower(out)
	for _, filler := range fillerOpeners {
		if strings.HasPrefix(lower, filler) {
			out = strings.TrimSpace(out[len(filler):])
			break
		}
	}
	// Collapse runs of blank lines.
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return out
}

// EnsureFenced wraps bare code in a fence tagged with the session's
// sticky language. Already-fenced responses pass through, gaining a
// language tag when the fence has none.
func EnsureFenced(text, language string) string {
	if fencePattern.MatchString(text) {
		if language == "" {
			return text
		}
		return fencePattern.ReplaceAllStringFunc(text, func(block string) string {
			m := fencePattern.FindStringSubmatch(block)
			if m[1] != "" {
				return block
			}
			return "```" + language + "\n" + m[2] + "```"
		})
	}

	if language == "" || !looksLikeCode(text) {
		return text
	}

	// Fence the contiguous code region, keeping surrounding prose.
	lines := strings.Split(text, "\n")
	start, end := -1, -1
	for i, line := range lines {
		if isCodeLine(line) {
			if start == -1 {
				start = i
			}
			end = i
		}
	}
	if start == -1 {
		return text
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString(strings.Join(lines[:start], "\n"))
		b.WriteString("\n\n")
	}
	b.WriteString("```" + language + "\n")
	b.WriteString(strings.Join(lines[start:end+1], "\n"))
	b.WriteString("\n```")
	if end < len(lines)-1 {
		b.WriteString("\n\n")
		b.WriteString(strings.TrimSpace(strings.Join(lines[end+1:], "\n")))
	}
	return b.String()
}

// LengthWarning reports a note when the response overshoots the word
// target by half again or more. Empty when within bounds.
func LengthWarning(text, responseLength string) string {
	target, ok := models.WordTargets[responseLength]
	if !ok {
		return ""
	}
	words := len(strings.Fields(stripFences(text)))
	if words > target*3/2 {
		return fmt.Sprintf("(ran long: %d words against a ~%d word setting)", words, target)
	}
	return ""
}

// WordCount counts words outside code fences.
func WordCount(text string) int {
	return len(strings.Fields(stripFences(text)))
}

func looksLikeCode(text string) bool {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if isCodeLine(line) {
			count++
		}
		if count >= 2 {
			return true
		}
	}
	return false
}

func isCodeLine(line string) bool {
	for _, p := range codeLinePatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

func stripFences(text string) string {
	return fencePattern.ReplaceAllString(text, "")
}
