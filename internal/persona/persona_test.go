// ABOUTME: Tests for persona rendering and registry loading
// ABOUTME: Uses temp-dir persona trees to exercise the loader paths
package persona

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePersona(t *testing.T, dir, mode, name, body string) {
	t.Helper()
	modeDir := filepath.Join(dir, mode)
	if err := os.MkdirAll(modeDir, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(modeDir, name+".json"), []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func seedDefaults(t *testing.T, dir string) {
	t.Helper()
	writePersona(t, dir, "pacify", "pacificia", `{"name":"pacificia","role":"companion","core_identity":"warm","conversational_dna":{"tone":"warm"},"mood_capable":true}`)
	writePersona(t, dir, "pacify", "sage", `{"name":"sage","role":"mentor","core_identity":"calm teacher","conversational_dna":{"tone":"measured"}}`)
	writePersona(t, dir, "defy", "void", `{"name":"void","role":"provocateur","core_identity":"nihilist","conversational_dna":{"tone":"dry"}}`)
	writePersona(t, dir, "defy", "rebel", `{"name":"rebel","role":"contrarian","core_identity":"blunt","conversational_dna":{"tone":"blunt"}}`)
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	seedDefaults(t, dir)

	r, err := LoadRegistry(dir)
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}

	for _, tc := range []struct{ mode, name string }{
		{"pacify", "pacificia"},
		{"pacify", "sage"},
		{"defy", "void"},
		{"defy", "rebel"},
	} {
		if !r.ValidForMode(tc.mode, tc.name) {
			t.Errorf("ValidForMode(%q, %q) = false, want true", tc.mode, tc.name)
		}
	}

	if r.ValidForMode("pacify", "void") {
		t.Error("ValidForMode(pacify, void) = true, want false")
	}
	if r.ValidForMode("defy", "pacificia") {
		t.Error("ValidForMode(defy, pacificia) = true, want false")
	}
}

func TestLoadRegistryMissingDefault(t *testing.T) {
	dir := t.TempDir()
	seedDefaults(t, dir)
	if err := os.Remove(filepath.Join(dir, "defy", "rebel.json")); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if _, err := LoadRegistry(dir); err == nil {
		t.Fatal("LoadRegistry() with missing default persona should fail")
	}
}

func TestLoadRegistryMalformed(t *testing.T) {
	dir := t.TempDir()
	seedDefaults(t, dir)
	writePersona(t, dir, "pacify", "pacificia", `{not json`)

	if _, err := LoadRegistry(dir); err == nil {
		t.Fatal("LoadRegistry() with malformed persona should fail")
	}
}

func TestInstructionsRendering(t *testing.T) {
	p := &Persona{
		Name:         "sage",
		Role:         "patient technical mentor",
		CoreIdentity: "calm engineer-teacher",
		DNA: ConversationalDNA{
			Tone:  "measured",
			Style: "plain technical language",
		},
		UniqueTraits: []string{"Leads with the concept"},
		NeverDoes:    []string{"Hand-waves"},
	}

	got := p.Instructions()
	for _, want := range []string{
		"You are sage.",
		"Role: patient technical mentor",
		"- Tone: measured",
		"BEHAVIORAL GUIDELINES:",
		"- Leads with the concept",
		"CONSTRAINTS (NEVER DO):",
		"- Hand-waves",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Instructions() missing %q", want)
		}
	}
}

func TestTechnical(t *testing.T) {
	for name, want := range map[string]bool{
		"sage": true, "rebel": true, "pacificia": false, "void": false,
	} {
		p := &Persona{Name: name}
		if got := p.Technical(); got != want {
			t.Errorf("Technical() for %s = %v, want %v", name, got, want)
		}
	}
}

func TestValidMood(t *testing.T) {
	if !ValidMood("witty") {
		t.Error("ValidMood(witty) = false, want true")
	}
	if ValidMood("angry") {
		t.Error("ValidMood(angry) = true, want false")
	}
}
