// ABOUTME: Tests for command wiring and display helpers
// ABOUTME: Engine-backed commands are covered in the engine package
package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pacify-defy/pacify-defy/internal/config"
	"github.com/pacify-defy/pacify-defy/internal/engine"
	"github.com/pacify-defy/pacify-defy/internal/memory"
	"github.com/pacify-defy/pacify-defy/internal/persona"
)

func TestVersionCmdOutput(t *testing.T) {
	original := Version
	defer func() { Version = original }()
	Version = "1.2.3"

	var output bytes.Buffer
	versionCmd.SetOut(&output)
	versionCmd.SetErr(&output)
	versionCmd.Run(versionCmd, nil)

	if !strings.Contains(output.String(), "pacify-defy 1.2.3") {
		t.Errorf("version output = %q", output.String())
	}
}

func TestRootHasSubcommands(t *testing.T) {
	want := map[string]bool{
		"chat": false, "history": false, "search": false, "opinions": false,
		"stats": false, "export": false, "serve": false, "version": false,
	}
	for _, cmd := range rootCmd.Commands() {
		name := strings.Fields(cmd.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("single line"); got != "single line" {
		t.Errorf("firstLine() = %q", got)
	}
	if got := firstLine("first\nsecond"); got != "first ..." {
		t.Errorf("firstLine() = %q", got)
	}
}

func testChatEngine(t *testing.T) *engine.Engine {
	t.Helper()
	dir := t.TempDir()
	seed := map[string]string{
		"pacify/pacificia": `{"name":"pacificia","role":"companion","core_identity":"warm","mood_capable":true}`,
		"pacify/sage":      `{"name":"sage","role":"mentor","core_identity":"calm"}`,
		"defy/void":        `{"name":"void","role":"provocateur","core_identity":"nihilist"}`,
		"defy/rebel":       `{"name":"rebel","role":"contrarian","core_identity":"blunt"}`,
	}
	for rel, body := range seed {
		path := filepath.Join(dir, rel+".json")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}
	reg, err := persona.LoadRegistry(dir)
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}
	store, err := memory.OpenInMemoryStore()
	if err != nil {
		t.Fatalf("OpenInMemoryStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{
		RetentionDays:    30,
		EmotionalWindow:  time.Hour,
		MinContext:       1,
		MaxContext:       10,
		LearnedThreshold: 0.7,
	}
	e, err := engine.New(cfg, store, reg, nil, zap.NewNop(), "alice")
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	return e
}

func TestSetModeAlias(t *testing.T) {
	e := testChatEngine(t)

	if quit := runSlash(context.Background(), e, "/setmode defy"); quit {
		t.Fatal("runSlash(/setmode) ended the session")
	}
	if got := e.State().Mode; got != "defy" {
		t.Errorf("mode after /setmode defy = %q, want defy", got)
	}
	if quit := runSlash(context.Background(), e, "/mode pacify"); quit {
		t.Fatal("runSlash(/mode) ended the session")
	}
	if got := e.State().Mode; got != "pacify" {
		t.Errorf("mode after /mode pacify = %q, want pacify", got)
	}
}

func TestUserIDFallback(t *testing.T) {
	original := flagUser
	defer func() { flagUser = original }()

	flagUser = "explicit"
	if got := userID(); got != "explicit" {
		t.Errorf("userID() = %q, want explicit", got)
	}

	flagUser = ""
	if got := userID(); got == "" {
		t.Error("userID() = empty, want a fallback")
	}
}
