// ABOUTME: Interactive chat REPL with slash-command dispatch
// ABOUTME: Failed sends keep the input around so /retry can resend it
package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pacify-defy/pacify-defy/internal/engine"
	"github.com/pacify-defy/pacify-defy/internal/llm"
	"github.com/pacify-defy/pacify-defy/internal/persona"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		printBanner(a.engine)
		repl(ctx, a.engine)
		return nil
	},
}

func printBanner(e *engine.Engine) {
	state := e.State()
	fmt.Printf("pacify-defy %s\n", Version)
	fmt.Printf("mode: %s | persona: %s | /help for commands, /quit to leave\n\n",
		state.Mode, state.Persona)
}

func repl(ctx context.Context, e *engine.Engine) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Printf("%s> ", e.State().Persona)
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, "/") {
			if quit := runSlash(ctx, e, input); quit {
				return
			}
			continue
		}
		send(ctx, e, input)
		if ctx.Err() != nil {
			return
		}
	}
}

func send(ctx context.Context, e *engine.Engine, input string) {
	result, err := e.Respond(ctx, input)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrRateLimited):
			fmt.Println("All API keys are rate limited right now. Wait a moment, then /retry.")
		case errors.Is(err, llm.ErrUnavailable):
			fmt.Println("The model is unreachable. Your message is kept; /retry to resend.")
		default:
			fmt.Printf("Something went wrong: %v\n", err)
		}
		return
	}

	fmt.Printf("\n%s\n", result.Text)
	if result.NotSaved {
		fmt.Println("This exchange could not be written to memory. It is buffered; /save retries.")
	}
	if result.Warning != "" {
		fmt.Println(result.Warning)
	}
	if e.State().MetadataDisplay && !result.Spam {
		meta := fmt.Sprintf("[%s/%s", result.Mode, result.Persona)
		if result.Mood != "" {
			meta += " (" + result.Mood + ")"
		}
		meta += fmt.Sprintf(" | %s | %d words | %.1fs]", result.Pattern, result.Words, result.Elapsed.Seconds())
		fmt.Println(meta)
	}
	if result.Suggestion != "" {
		fmt.Printf("~ %s\n", result.Suggestion)
	}
	fmt.Println()
}

// runSlash handles one slash command; returns true when the session
// should end.
func runSlash(ctx context.Context, e *engine.Engine, input string) bool {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "/quit", "/exit", "/q":
		fmt.Println(e.Farewell())
		return true
	case "/help":
		printHelp()
	case "/pacify":
		applyErr(e.SetMode("pacify"), "Mode: pacify. Persona reset to pacificia.")
	case "/defy":
		applyErr(e.SetMode("defy"), "Mode: defy. Persona reset to void.")
	case "/mode", "/setmode":
		if len(args) == 0 {
			fmt.Printf("Current mode: %s\n", e.State().Mode)
			break
		}
		applyErr(e.SetMode(args[0]), "Mode: "+args[0])
	case "/persona":
		if len(args) == 0 {
			fmt.Printf("Current persona: %s. Available: %s\n",
				e.State().Persona, strings.Join(e.Personas(), ", "))
			break
		}
		applyErr(e.SetPersona(args[0]), "Persona: "+args[0])
	case "/mood":
		if len(args) == 0 {
			showMood(e)
			break
		}
		applyErr(e.SetMood(args[0]), "Mood: "+args[0])
	case "/set":
		if len(args) < 2 {
			fmt.Println("Usage: /set <length|context|temperature|metadata|autosave> <value>")
			break
		}
		applyErr(e.Set(args[0], args[1]), fmt.Sprintf("Set %s to %s.", args[0], args[1]))
	case "/pref":
		if len(args) < 2 {
			showPreferences(e)
			break
		}
		applyErr(e.SetPreference(args[0], strings.Join(args[1:], " ")),
			"Preference noted: "+args[0])
	case "/history":
		showHistory(e, 10)
	case "/search":
		if len(args) == 0 {
			fmt.Println("Usage: /search <text>")
			break
		}
		showSearch(e, strings.Join(args, " "))
	case "/opinions":
		showOpinions(e)
	case "/stats":
		showStats(e)
	case "/status":
		showStatus(e)
	case "/save":
		saved, err := e.SaveNow()
		if err != nil {
			fmt.Printf("Save failed: %v\n", err)
			break
		}
		fmt.Printf("Saved %d turns.\n", saved)
	case "/clear":
		deleted, err := e.ClearHistory()
		if err != nil {
			fmt.Printf("Clear failed: %v\n", err)
			break
		}
		fmt.Printf("Cleared %d turns. Opinions and preferences are kept.\n", deleted)
	case "/export":
		format := "txt"
		if len(args) > 0 {
			format = args[0]
		}
		runExport(e, format)
	case "/retry":
		if pending := e.PendingInput(); pending != "" {
			send(ctx, e, pending)
		} else {
			fmt.Println("Nothing to retry.")
		}
	default:
		fmt.Printf("Unknown command %s. /help lists everything.\n", cmd)
	}
	return false
}

func applyErr(err error, ok string) {
	if err != nil {
		fmt.Printf("%v\n", err)
		return
	}
	fmt.Println(ok)
}

func showMood(e *engine.Engine) {
	state := e.State()
	if state.Mood != "" {
		fmt.Printf("Current mood: %s. /mood clear to reset.\n", state.Mood)
	} else {
		fmt.Println("No mood set.")
	}
	fmt.Printf("Available moods: %s\n", strings.Join(persona.AvailableMoods, ", "))
}

func printHelp() {
	fmt.Print(`Commands:
  /pacify /defy          switch modes
  /setmode <pacify|defy> explicit mode switch
  /persona <name>        switch persona within the mode
  /mood <name|clear>     set pacificia's mood
  /set <key> <value>     length, context, temperature, metadata, autosave
  /pref <key> <value>    record an explicit preference
  /history /search /opinions /stats /status
  /save /clear /export [txt|json|md|yaml]
  /retry                 resend the last failed message
  /quit
`)
}
