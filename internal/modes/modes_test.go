// ABOUTME: Tests for mode, persona, and mood transitions
// ABOUTME: Rejected transitions must leave state untouched
package modes

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pacify-defy/pacify-defy/internal/models"
	"github.com/pacify-defy/pacify-defy/internal/persona"
	"github.com/pacify-defy/pacify-defy/internal/tracker"
)

func testMachine(t *testing.T) *Machine {
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
	return NewMachine(reg, models.DefaultSessionState("alice"))
}

func TestSetModeResetsPersonaAndMood(t *testing.T) {
	m := testMachine(t)
	if err := m.SetMood("witty"); err != nil {
		t.Fatalf("SetMood() error = %v", err)
	}

	if err := m.SetMode("defy"); err != nil {
		t.Fatalf("SetMode() error = %v", err)
	}
	s := m.State()
	if s.Mode != ModeDefy || s.Persona != DefaultDefyPersona || s.Mood != "" {
		t.Errorf("after SetMode(defy): %+v", s)
	}

	if err := m.SetMode("pacify"); err != nil {
		t.Fatalf("SetMode() error = %v", err)
	}
	if s.Persona != DefaultPacifyPersona {
		t.Errorf("Persona = %q, want pacificia", s.Persona)
	}
}

func TestSetModeInvalid(t *testing.T) {
	m := testMachine(t)
	if err := m.SetMode("chaos"); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("SetMode(chaos) error = %v, want ErrInvalidMode", err)
	}
	if m.State().Mode != ModePacify {
		t.Errorf("failed transition changed mode to %q", m.State().Mode)
	}
}

func TestSetPersonaCrossModeRejected(t *testing.T) {
	m := testMachine(t)
	err := m.SetPersona("void")
	if !errors.Is(err, ErrInvalidPersona) {
		t.Errorf("SetPersona(void) in pacify error = %v, want ErrInvalidPersona", err)
	}
	if m.State().Persona != "pacificia" {
		t.Errorf("failed transition changed persona to %q", m.State().Persona)
	}
}

func TestSetPersonaClearsMoodWhenUnsupported(t *testing.T) {
	m := testMachine(t)
	if err := m.SetMood("poetic"); err != nil {
		t.Fatalf("SetMood() error = %v", err)
	}
	if err := m.SetPersona("sage"); err != nil {
		t.Fatalf("SetPersona(sage) error = %v", err)
	}
	if m.State().Mood != "" {
		t.Errorf("Mood = %q after switching to mood-incapable persona", m.State().Mood)
	}
}

func TestSetMoodRejections(t *testing.T) {
	m := testMachine(t)

	if err := m.SetMood("transcendent"); !errors.Is(err, ErrInvalidMood) {
		t.Errorf("SetMood(transcendent) error = %v, want ErrInvalidMood", err)
	}
	if m.State().Mood != "" {
		t.Errorf("failed SetMood changed mood to %q", m.State().Mood)
	}

	if err := m.SetPersona("sage"); err != nil {
		t.Fatalf("SetPersona() error = %v", err)
	}
	if err := m.SetMood("witty"); !errors.Is(err, ErrMoodNotSupported) {
		t.Errorf("SetMood on sage error = %v, want ErrMoodNotSupported", err)
	}
}

func TestTemperatureDefaults(t *testing.T) {
	m := testMachine(t)
	if got := m.Temperature(); got != PacifyTemperature {
		t.Errorf("pacify Temperature() = %v, want %v", got, PacifyTemperature)
	}
	if err := m.SetMode("defy"); err != nil {
		t.Fatalf("SetMode() error = %v", err)
	}
	if got := m.Temperature(); got != DefyTemperature {
		t.Errorf("defy Temperature() = %v, want %v", got, DefyTemperature)
	}
	m.State().Temperature = 0.35
	if got := m.Temperature(); got != 0.35 {
		t.Errorf("override Temperature() = %v, want 0.35", got)
	}
}

func TestSuggestTechnicalPersona(t *testing.T) {
	m := testMachine(t)
	a := tracker.Analysis{CodeIntent: true}

	got := m.Suggest(a)
	if got == "" || m.State().Persona != "pacificia" {
		t.Errorf("Suggest() = %q, persona = %q; want suggestion without state change", got, m.State().Persona)
	}

	if err := m.SetMode("defy"); err != nil {
		t.Fatalf("SetMode() error = %v", err)
	}
	got = m.Suggest(a)
	if got == "" || m.State().Persona != "void" {
		t.Errorf("defy Suggest() = %q, persona = %q", got, m.State().Persona)
	}

	if err := m.SetPersona("rebel"); err != nil {
		t.Fatalf("SetPersona() error = %v", err)
	}
	if got := m.Suggest(a); got != "" {
		t.Errorf("Suggest() while already technical = %q, want empty", got)
	}
}
