// ABOUTME: Encoders and decoders for the export formats
// ABOUTME: Every format round-trips the full ordered turn sequence
package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Encode writes the document in the named format.
func Encode(w io.Writer, doc *Document, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(doc)
	case FormatMarkdown:
		return encodeMarkdown(w, doc)
	case FormatText:
		return encodeText(w, doc)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// Decode reads a document back from any export format.
func Decode(r io.Reader, format string) (*Document, error) {
	switch format {
	case FormatText:
		return decodeText(r)
	case FormatJSON:
		doc := &Document{}
		if err := json.NewDecoder(r).Decode(doc); err != nil {
			return nil, fmt.Errorf("failed to decode json export: %w", err)
		}
		return doc, nil
	case FormatYAML:
		doc := &Document{}
		if err := yaml.NewDecoder(r).Decode(doc); err != nil {
			return nil, fmt.Errorf("failed to decode yaml export: %w", err)
		}
		return doc, nil
	case FormatMarkdown:
		return decodeMarkdown(r)
	default:
		return nil, fmt.Errorf("format %q cannot be re-imported", format)
	}
}

// Continuation prefix for multi-line texts in the plain-text format.
const textCont = "   | "

func encodeText(w io.Writer, doc *Document) error {
	fmt.Fprintf(w, "Pacify & Defy conversation export\n")
	fmt.Fprintf(w, "User: %s\n", doc.UserID)
	fmt.Fprintf(w, "Exported: %s\n", doc.ExportedAt.Format(time.RFC3339Nano))
	fmt.Fprintf(w, "Turns: %d\n", doc.TurnCount)

	for i, r := range doc.Turns {
		fmt.Fprintf(w, "\n[%d] %s %s/%s mood=%s lang=%s words=%d id=%s\n",
			i+1, r.Timestamp.Format(time.RFC3339Nano), r.Mode, r.Persona,
			r.Mood, r.CodeLanguage, r.WordCount, r.TurnID)
		writeTextField(w, "You:", r.UserText)
		writeTextField(w, "AI: ", r.AIText)
	}
	return nil
}

func writeTextField(w io.Writer, label, text string) {
	lines := strings.Split(text, "\n")
	fmt.Fprintf(w, "%s %s\n", label, lines[0])
	for _, line := range lines[1:] {
		fmt.Fprintf(w, "%s%s\n", textCont, line)
	}
}

var textHeader = regexp.MustCompile(`^\[\d+\] (\S+) (\S+)/(\S+) mood=(\S*) lang=(\S*) words=(\d+) id=(\S+)$`)

func decodeText(r io.Reader) (*Document, error) {
	doc := &Document{}
	var rec *Record
	var target *string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case textHeader.MatchString(line):
			if rec != nil {
				doc.Turns = append(doc.Turns, *rec)
			}
			m := textHeader.FindStringSubmatch(line)
			rec = &Record{Mode: m[2], Persona: m[3], Mood: m[4], CodeLanguage: m[5], TurnID: m[7]}
			if t, err := time.Parse(time.RFC3339Nano, m[1]); err == nil {
				rec.Timestamp = t
			}
			if n, err := strconv.Atoi(m[6]); err == nil {
				rec.WordCount = n
			}
			target = nil
		case rec != nil && strings.HasPrefix(line, "You: "):
			rec.UserText = strings.TrimPrefix(line, "You: ")
			target = &rec.UserText
		case rec != nil && strings.HasPrefix(line, "AI:  "):
			rec.AIText = strings.TrimPrefix(line, "AI:  ")
			target = &rec.AIText
		case rec != nil && strings.HasPrefix(line, textCont):
			if target != nil {
				*target += "\n" + strings.TrimPrefix(line, textCont)
			}
		case strings.HasPrefix(line, "User: "):
			doc.UserID = strings.TrimPrefix(line, "User: ")
		case strings.HasPrefix(line, "Exported: "):
			if t, err := time.Parse(time.RFC3339Nano, strings.TrimPrefix(line, "Exported: ")); err == nil {
				doc.ExportedAt = t
			}
		case strings.HasPrefix(line, "Turns: "):
			if n, err := strconv.Atoi(strings.TrimPrefix(line, "Turns: ")); err == nil {
				doc.TurnCount = n
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to decode text export: %w", err)
	}
	if rec != nil {
		doc.Turns = append(doc.Turns, *rec)
	}
	return doc, nil
}

func encodeMarkdown(w io.Writer, doc *Document) error {
	fmt.Fprintf(w, "# Conversation Export\n\n")
	fmt.Fprintf(w, "- user: %s\n", doc.UserID)
	fmt.Fprintf(w, "- exported: %s\n", doc.ExportedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "- turns: %d\n", doc.TurnCount)

	for i, r := range doc.Turns {
		fmt.Fprintf(w, "\n## Turn %d\n\n", i+1)
		fmt.Fprintf(w, "- id: %s\n", r.TurnID)
		fmt.Fprintf(w, "- time: %s\n", r.Timestamp.Format(time.RFC3339))
		fmt.Fprintf(w, "- mode: %s\n", r.Mode)
		fmt.Fprintf(w, "- persona: %s\n", r.Persona)
		if r.Mood != "" {
			fmt.Fprintf(w, "- mood: %s\n", r.Mood)
		}
		if r.CodeLanguage != "" {
			fmt.Fprintf(w, "- code_language: %s\n", r.CodeLanguage)
		}
		fmt.Fprintf(w, "- words: %d\n", r.WordCount)
		fmt.Fprintf(w, "\n**You:**\n\n%s\n", quote(r.UserText))
		fmt.Fprintf(w, "\n**AI:**\n\n%s\n", quote(r.AIText))
	}
	return nil
}

// quote prefixes each line so multi-line texts survive the round trip.
func quote(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}

func unquote(lines []string) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = strings.TrimPrefix(strings.TrimPrefix(line, "> "), ">")
	}
	return strings.Join(out, "\n")
}

func decodeMarkdown(r io.Reader) (*Document, error) {
	doc := &Document{}
	var rec *Record
	var quoted []string
	var target *string

	flush := func() {
		if target != nil && len(quoted) > 0 {
			*target = unquote(quoted)
		}
		quoted = nil
		target = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "## Turn "):
			flush()
			if rec != nil {
				doc.Turns = append(doc.Turns, *rec)
			}
			rec = &Record{}
		case strings.HasPrefix(line, "> "), line == ">":
			quoted = append(quoted, line)
		case line == "**You:**":
			flush()
			if rec != nil {
				target = &rec.UserText
			}
		case line == "**AI:**":
			flush()
			if rec != nil {
				target = &rec.AIText
			}
		case strings.HasPrefix(line, "- "):
			key, value, ok := strings.Cut(strings.TrimPrefix(line, "- "), ": ")
			if !ok {
				continue
			}
			if rec == nil {
				applyHeaderField(doc, key, value)
			} else {
				applyRecordField(rec, key, value)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to decode markdown export: %w", err)
	}
	flush()
	if rec != nil {
		doc.Turns = append(doc.Turns, *rec)
	}
	return doc, nil
}

func applyHeaderField(doc *Document, key, value string) {
	switch key {
	case "user":
		doc.UserID = value
	case "exported":
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			doc.ExportedAt = t
		}
	case "turns":
		if n, err := strconv.Atoi(value); err == nil {
			doc.TurnCount = n
		}
	}
}

func applyRecordField(rec *Record, key, value string) {
	switch key {
	case "id":
		rec.TurnID = value
	case "time":
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			rec.Timestamp = t
		}
	case "mode":
		rec.Mode = value
	case "persona":
		rec.Persona = value
	case "mood":
		rec.Mood = value
	case "code_language":
		rec.CodeLanguage = value
	case "words":
		if n, err := strconv.Atoi(value); err == nil {
			rec.WordCount = n
		}
	}
}

// EncodeToBytes renders the document to a byte slice.
func EncodeToBytes(doc *Document, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
