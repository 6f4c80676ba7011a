// ABOUTME: Shared display helpers for history, stats, and status output
// ABOUTME: Used by both the REPL slash commands and the subcommands
package commands

import (
	"fmt"
	"strings"

	"github.com/pacify-defy/pacify-defy/internal/engine"
	"github.com/pacify-defy/pacify-defy/internal/models"
)

func showHistory(e *engine.Engine, n int) {
	turns, err := e.History(n)
	if err != nil {
		fmt.Printf("History failed: %v\n", err)
		return
	}
	if len(turns) == 0 {
		fmt.Println("No conversation history yet.")
		return
	}
	printTurns(turns)
}

func showSearch(e *engine.Engine, query string) {
	turns, err := e.Search(query, 20)
	if err != nil {
		fmt.Printf("Search failed: %v\n", err)
		return
	}
	if len(turns) == 0 {
		fmt.Printf("Nothing matching %q.\n", query)
		return
	}
	fmt.Printf("%d matches:\n", len(turns))
	printTurns(turns)
}

func printTurns(turns []*models.Turn) {
	for _, turn := range turns {
		header := fmt.Sprintf("[%s] %s/%s", turn.Timestamp.Format("Jan 2 15:04"), turn.Mode, turn.Persona)
		if turn.Mood != "" {
			header += " (" + turn.Mood + ")"
		}
		fmt.Println(header)
		fmt.Printf("  You: %s\n", firstLine(turn.UserText))
		fmt.Printf("  AI:  %s\n", firstLine(turn.AIText))
	}
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i] + " ..."
	}
	return text
}

func showOpinions(e *engine.Engine) {
	opinions, err := e.Opinions()
	if err != nil {
		fmt.Printf("Opinions failed: %v\n", err)
		return
	}
	if len(opinions) == 0 {
		fmt.Println("No opinions formed yet.")
		return
	}
	for _, op := range opinions {
		fmt.Printf("  %s: %s (%.0f%% sure, since %s)\n",
			op.Topic, op.Stance, op.Confidence*100, op.FormedAt.Format("Jan 2"))
	}
}

func showPreferences(e *engine.Engine) {
	prefs, err := e.Preferences()
	if err != nil {
		fmt.Printf("Preferences failed: %v\n", err)
		return
	}
	if len(prefs) == 0 {
		fmt.Println("No preferences yet. /pref <key> <value> to set one.")
		return
	}
	for _, p := range prefs {
		note := p.Source
		if p.Source == models.SourceLearned {
			note = fmt.Sprintf("learned, strength %.2f", p.Strength)
		}
		fmt.Printf("  %s: %s (%s)\n", p.Key, p.Value, note)
	}
}

func showStats(e *engine.Engine) {
	stats, err := e.Stats()
	if err != nil {
		fmt.Printf("Stats failed: %v\n", err)
		return
	}
	fmt.Printf("Total turns: %d (pacify %d, defy %d)\n",
		stats.Total, stats.PacifyCount, stats.DefyCount)
	if stats.Total > 0 {
		fmt.Printf("Average response: %.0f words, %.1fs\n", stats.AvgWordCount, stats.AvgTime)
	}
	for persona, count := range stats.PersonaUsage {
		fmt.Printf("  %s: %d turns\n", persona, count)
	}
}

func showStatus(e *engine.Engine) {
	state := e.State()
	fmt.Printf("mode: %s | persona: %s", state.Mode, state.Persona)
	if state.Mood != "" {
		fmt.Printf(" (%s)", state.Mood)
	}
	fmt.Println()
	fmt.Printf("length: %s | context: %d turns | temperature: %.2f\n",
		state.ResponseLength, state.ContextWindowSize, e.Temperature())
	fmt.Printf("metadata: %v | autosave: %v\n", state.MetadataDisplay, state.Autosave)
}
