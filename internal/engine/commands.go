// ABOUTME: Engine command surface backing the slash commands and MCP tools
// ABOUTME: Setting changes persist immediately; invalid values change nothing
package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pacify-defy/pacify-defy/internal/export"
	"github.com/pacify-defy/pacify-defy/internal/models"
	"github.com/pacify-defy/pacify-defy/internal/modes"
)

// SetMode switches modes and persists the session state.
func (e *Engine) SetMode(mode string) error {
	prev := e.machine.State().Mode
	if err := e.machine.SetMode(mode); err != nil {
		return err
	}
	if e.machine.State().Mode != prev {
		e.modeSwitches++
	}
	return e.saveState()
}

// SetPersona switches personas within the current mode.
func (e *Engine) SetPersona(name string) error {
	if err := e.machine.SetPersona(name); err != nil {
		return err
	}
	return e.saveState()
}

// SetMood sets the mood on a mood-capable persona.
func (e *Engine) SetMood(mood string) error {
	if mood == "" || mood == "clear" {
		e.machine.ClearMood()
		return e.saveState()
	}
	if err := e.machine.SetMood(mood); err != nil {
		return err
	}
	return e.saveState()
}

// Personas lists the persona names valid in the current mode.
func (e *Engine) Personas() []string {
	return e.registry.Names(e.machine.State().Mode)
}

// Set applies one settings change by key. Unknown keys and out-of-range
// values are rejected without changing anything.
func (e *Engine) Set(key, value string) error {
	state := e.machine.State()
	switch strings.ToLower(key) {
	case "length":
		if _, ok := models.TokenBudgets[value]; !ok {
			return fmt.Errorf("unknown length %q (quick, normal, detailed, technical)", value)
		}
		state.ResponseLength = value
	case "context":
		n, err := strconv.Atoi(value)
		if err != nil || n < e.cfg.MinContext || n > e.cfg.MaxContext {
			return fmt.Errorf("context window must be %d to %d", e.cfg.MinContext, e.cfg.MaxContext)
		}
		state.ContextWindowSize = n
	case "temperature":
		t, err := strconv.ParseFloat(value, 64)
		if err != nil || t < 0.1 || t > 1.0 {
			return fmt.Errorf("temperature must be 0.1 to 1.0")
		}
		state.Temperature = t
	case "metadata":
		on, err := parseOnOff(value)
		if err != nil {
			return err
		}
		state.MetadataDisplay = on
	case "autosave":
		on, err := parseOnOff(value)
		if err != nil {
			return err
		}
		state.Autosave = on
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return e.saveState()
}

// History returns the last n turns, including unsaved ones.
func (e *Engine) History(n int) ([]*models.Turn, error) {
	stored, err := e.store.Turns.Recent(e.userID, n)
	if err != nil {
		return nil, err
	}
	all := append(stored, e.pendingTurns()...)
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

// Search finds stored turns matching the query.
func (e *Engine) Search(query string, limit int) ([]*models.Turn, error) {
	return e.store.Turns.Search(e.userID, query, limit)
}

// Opinions lists the assistant's formed opinions for this user.
func (e *Engine) Opinions() ([]*models.Opinion, error) {
	return e.store.Opinions.List(e.userID)
}

// Preferences lists every stored preference.
func (e *Engine) Preferences() ([]*models.Preference, error) {
	return e.learner.All(e.userID)
}

// SetPreference records an explicit preference.
func (e *Engine) SetPreference(key, value string) error {
	return e.learner.SetManual(e.userID, key, value)
}

// ClearHistory deletes the stored conversation history. Opinions and
// preferences survive.
func (e *Engine) ClearHistory() (int, error) {
	e.pending = nil
	return e.store.Turns.Clear(e.userID)
}

// Stats summarizes stored conversations.
func (e *Engine) Stats() (*models.Stats, error) {
	return e.store.Turns.Stats(e.userID)
}

// ExportDocument builds the export document over the full history.
func (e *Engine) ExportDocument() (*export.Document, error) {
	turns, err := e.store.Turns.All(e.userID)
	if err != nil {
		return nil, err
	}
	turns = append(turns, e.pendingTurns()...)
	return export.FromTurns(e.userID, turns), nil
}

// Temperature reports the effective sampling temperature.
func (e *Engine) Temperature() float64 {
	return e.machine.Temperature()
}

// ModeDefault reports the default persona for the current mode, used in
// status displays.
func (e *Engine) ModeDefault() string {
	if e.machine.State().Mode == modes.ModeDefy {
		return modes.DefaultDefyPersona
	}
	return modes.DefaultPacifyPersona
}

func (e *Engine) saveState() error {
	return e.store.Sessions.Save(e.machine.State())
}

func parseOnOff(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", value)
}
