// ABOUTME: Mode and persona state machine with validation on every switch
// ABOUTME: Failed transitions leave the session state untouched
package modes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pacify-defy/pacify-defy/internal/models"
	"github.com/pacify-defy/pacify-defy/internal/persona"
	"github.com/pacify-defy/pacify-defy/internal/tracker"
)

// Modes and their default personas and temperatures.
const (
	ModePacify = "pacify"
	ModeDefy   = "defy"

	DefaultPacifyPersona = "pacificia"
	DefaultDefyPersona   = "void"

	PacifyTemperature = 0.60
	DefyTemperature   = 0.80
)

// Sentinel errors for rejected transitions.
var (
	ErrInvalidMode      = errors.New("modes: unknown mode")
	ErrInvalidPersona   = errors.New("modes: persona not valid in current mode")
	ErrMoodNotSupported = errors.New("modes: persona does not support moods")
	ErrInvalidMood      = errors.New("modes: unknown mood")
)

// Machine validates and applies mode, persona, and mood transitions on
// a session state.
type Machine struct {
	registry *persona.Registry
	state    *models.SessionState
}

// NewMachine wraps a session state with transition validation.
func NewMachine(registry *persona.Registry, state *models.SessionState) *Machine {
	return &Machine{registry: registry, state: state}
}

// State returns the live session state.
func (m *Machine) State() *models.SessionState {
	return m.state
}

// Current returns the active persona record.
func (m *Machine) Current() (*persona.Persona, error) {
	p, ok := m.registry.Get(m.state.Mode, m.state.Persona)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrInvalidPersona, m.state.Mode, m.state.Persona)
	}
	return p, nil
}

// SetMode switches modes. The persona resets to the mode's default and
// any mood is cleared, since only pacify's default persona carries moods.
func (m *Machine) SetMode(mode string) error {
	mode = strings.ToLower(strings.TrimSpace(mode))
	switch mode {
	case ModePacify:
		m.state.Mode = ModePacify
		m.state.Persona = DefaultPacifyPersona
		m.state.Mood = ""
	case ModeDefy:
		m.state.Mode = ModeDefy
		m.state.Persona = DefaultDefyPersona
		m.state.Mood = ""
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	return nil
}

// SetPersona switches personas within the current mode. An invalid name
// is rejected without touching state. Switching to a persona without
// mood support clears the mood.
func (m *Machine) SetPersona(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	p, ok := m.registry.Get(m.state.Mode, name)
	if !ok {
		return fmt.Errorf("%w: %q in mode %s", ErrInvalidPersona, name, m.state.Mode)
	}
	m.state.Persona = name
	if !p.MoodCapable {
		m.state.Mood = ""
	}
	return nil
}

// SetMood sets the mood on a mood-capable persona. Rejections leave the
// current mood in place.
func (m *Machine) SetMood(mood string) error {
	mood = strings.ToLower(strings.TrimSpace(mood))
	p, err := m.Current()
	if err != nil {
		return err
	}
	if !p.MoodCapable {
		return fmt.Errorf("%w: %s", ErrMoodNotSupported, p.Name)
	}
	if !persona.ValidMood(mood) {
		return fmt.Errorf("%w: %q", ErrInvalidMood, mood)
	}
	m.state.Mood = mood
	return nil
}

// ClearMood removes the mood.
func (m *Machine) ClearMood() {
	m.state.Mood = ""
}

// Temperature resolves the sampling temperature: a session override if
// set, otherwise the mode default.
func (m *Machine) Temperature() float64 {
	if m.state.Temperature > 0 {
		return m.state.Temperature
	}
	if m.state.Mode == ModeDefy {
		return DefyTemperature
	}
	return PacifyTemperature
}

// TechnicalPersona returns the technical persona for the current mode.
func (m *Machine) TechnicalPersona() string {
	if m.state.Mode == ModeDefy {
		return "rebel"
	}
	return "sage"
}

// Suggest proposes a persona switch based on an input analysis. It is a
// pure function of the analysis and current state; the caller shows the
// suggestion and only the user applies it.
func (m *Machine) Suggest(a tracker.Analysis) string {
	technical := m.TechnicalPersona()
	if a.CodeIntent && m.state.Persona != technical {
		return fmt.Sprintf("This looks technical. Try /persona %s for deeper help.", technical)
	}
	if !a.CodeIntent && a.Kind == tracker.KindTopicShift && m.state.Persona == technical {
		def := DefaultPacifyPersona
		if m.state.Mode == ModeDefy {
			def = DefaultDefyPersona
		}
		return fmt.Sprintf("Leaving code behind? /persona %s fits casual conversation.", def)
	}
	return ""
}
