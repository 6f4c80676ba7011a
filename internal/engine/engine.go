// ABOUTME: Engine runs the full turn pipeline: analyze, prompt, dispatch, record
// ABOUTME: Owns session state, the tracker, and the memory store for one user
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pacify-defy/pacify-defy/internal/config"
	"github.com/pacify-defy/pacify-defy/internal/format"
	"github.com/pacify-defy/pacify-defy/internal/llm"
	"github.com/pacify-defy/pacify-defy/internal/memory"
	"github.com/pacify-defy/pacify-defy/internal/models"
	"github.com/pacify-defy/pacify-defy/internal/modes"
	"github.com/pacify-defy/pacify-defy/internal/persona"
	"github.com/pacify-defy/pacify-defy/internal/prefs"
	"github.com/pacify-defy/pacify-defy/internal/prompt"
	"github.com/pacify-defy/pacify-defy/internal/tracker"
)

// Dispatcher sends one chat completion request.
type Dispatcher interface {
	Dispatch(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// Result is everything the interface layer needs to render one turn.
type Result struct {
	Text       string
	Mode       string
	Persona    string
	Mood       string
	Model      string
	Words      int
	Elapsed    time.Duration
	Pattern    string
	Suggestion string
	Warning    string
	Spam       bool
	// NotSaved reports that the exchange could not be written to
	// memory. It stays buffered so a later save can retry it.
	NotSaved bool
}

// Engine drives conversations for a single user.
type Engine struct {
	cfg      *config.Config
	store    *memory.Store
	registry *persona.Registry
	machine  *modes.Machine
	tracker  *tracker.Tracker
	learner  *prefs.Learner
	client   Dispatcher
	logger   *zap.Logger

	userID    string
	sessionID string
	pending   []*memory.Exchange
	lastInput string

	exchanges    int
	modeSwitches int
	hadErrors    bool
}

// New loads the user's session, seeds the tracker from the last stored
// turn, and sweeps expired memory.
func New(cfg *config.Config, store *memory.Store, registry *persona.Registry, client Dispatcher, logger *zap.Logger, userID string) (*Engine, error) {
	state, err := store.Sessions.Load(userID)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		store:     store,
		registry:  registry,
		machine:   modes.NewMachine(registry, state),
		tracker:   tracker.New(),
		learner:   prefs.NewLearner(store.Preferences, cfg.LearnedThreshold),
		client:    client,
		logger:    logger,
		userID:    userID,
		sessionID: fmt.Sprintf("session_%d", time.Now().Unix()),
	}
	if _, err := e.machine.Current(); err != nil {
		return nil, err
	}

	if recent, err := store.Turns.Recent(userID, 1); err == nil && len(recent) == 1 {
		e.tracker.Seed(recent[0].UserText, recent[0].CodeLanguage)
	}

	swept, err := store.SweepExpired(userID, time.Duration(cfg.RetentionDays)*24*time.Hour)
	if err != nil {
		logger.Warn("retention sweep failed", zap.Error(err))
	} else if swept > 0 {
		logger.Debug("retention sweep", zap.Int("removed", swept))
	}

	return e, nil
}

// State returns the live session state.
func (e *Engine) State() *models.SessionState {
	return e.machine.State()
}

// PendingInput returns the last input whose dispatch failed, so the
// interface can offer a retry.
func (e *Engine) PendingInput() string {
	return e.lastInput
}

// Respond runs one full turn. On dispatch failure the input is kept in
// PendingInput and no turn is recorded.
func (e *Engine) Respond(ctx context.Context, input string) (*Result, error) {
	state := e.machine.State()
	analysis := e.tracker.Analyze(input)

	if analysis.IsSpam {
		return e.spamResult(), nil
	}

	current, err := e.machine.Current()
	if err != nil {
		return nil, err
	}

	recent, err := e.store.Turns.Recent(e.userID, e.cfg.MaxContext)
	if err != nil && !errors.Is(err, memory.ErrIsolation) {
		e.logger.Warn("history load failed", zap.Error(err))
	}
	recent = append(recent, e.pendingTurns()...)

	preferences, err := e.learner.Effective(e.userID)
	if err != nil {
		e.logger.Warn("preference load failed", zap.Error(err))
	}

	emotional, err := e.store.Emotional.Pattern(e.userID, e.cfg.EmotionalWindow)
	if err != nil {
		e.logger.Warn("emotional pattern load failed", zap.Error(err))
	}

	messages := prompt.Build(prompt.Input{
		Persona:     current,
		State:       state,
		Analysis:    analysis,
		Recent:      recent,
		Preferences: preferences,
		Emotional:   emotional,
		UserText:    input,
		Now:         time.Now(),
	})

	model := e.cfg.PacifyModel
	if state.Mode == modes.ModeDefy {
		model = e.cfg.DefyModel
	}

	start := time.Now()
	resp, err := e.client.Dispatch(ctx, llm.Request{
		Model:       model,
		Messages:    messages,
		Temperature: e.machine.Temperature(),
		MaxTokens:   prompt.MaxTokens(current, state),
	})
	if err != nil {
		e.lastInput = input
		e.hadErrors = true
		return nil, err
	}
	e.lastInput = ""

	text := format.Clean(resp.Text)
	if analysis.CodeLanguage != "" {
		text = format.EnsureFenced(text, analysis.CodeLanguage)
	}

	turn, err := models.NewTurn(e.userID, state.Mode, state.Persona, input, text)
	if err != nil {
		return nil, err
	}
	turn.Mood = state.Mood
	turn.CodeLanguage = analysis.CodeLanguage
	turn.SessionID = e.sessionID
	turn.ResponseTime = time.Since(start).Seconds()

	saveErr := e.record(turn, input, analysis)
	e.exchanges++

	result := &Result{
		Text:       text,
		Mode:       state.Mode,
		Persona:    state.Persona,
		Mood:       state.Mood,
		Model:      resp.Model,
		Words:      format.WordCount(text),
		Elapsed:    time.Since(start),
		Pattern:    analysis.Kind,
		Suggestion: e.suggestion(current, analysis),
		NotSaved:   saveErr != nil,
	}
	if !current.Technical() {
		result.Warning = format.LengthWarning(text, state.ResponseLength)
	}
	return result, nil
}

// record commits the exchange with everything derived from it, or
// buffers it while autosave is off. A failed commit keeps the exchange
// buffered so a later save can retry it.
func (e *Engine) record(turn *models.Turn, input string, a tracker.Analysis) error {
	ex := &memory.Exchange{
		Turn:        turn,
		Sentiment:   a.Sentiment,
		Emotion:     a.Emotion,
		Opinions:    opinionObservations(input),
		Preferences: preferenceObservations(a),
	}
	if !e.machine.State().Autosave {
		e.pending = append(e.pending, ex)
		return nil
	}
	if err := e.store.RecordExchange(ex); err != nil {
		e.logger.Warn("turn not persisted", zap.Error(err))
		e.pending = append(e.pending, ex)
		e.hadErrors = true
		return err
	}
	return nil
}

// opinionObservations extracts the stance signal the turn carries, if
// any.
func opinionObservations(input string) []memory.OpinionObservation {
	sig, ok := tracker.OpinionSignal(input)
	if !ok {
		return nil
	}
	return []memory.OpinionObservation{{
		Topic:      sig.Topic,
		Stance:     sig.Stance,
		Confidence: sig.Confidence,
	}}
}

// preferenceObservations maps the turn's signals to learned-preference
// updates.
func preferenceObservations(a tracker.Analysis) []memory.PreferenceObservation {
	var obs []memory.PreferenceObservation
	add := func(key, value string, w float64) {
		obs = append(obs, memory.PreferenceObservation{Key: key, Value: value, Weight: w})
	}
	if a.Playful {
		add("humor", "appreciated", 0.3)
	}
	if a.CodeIntent {
		add("technical_depth", "high", 0.3)
		if a.CodeLanguage != "" {
			add("preferred_language", a.CodeLanguage, 0.3)
		}
	}
	if a.Sentiment <= -0.5 {
		add("needs_support", "yes", 0.2)
	}
	return obs
}

// suggestion combines persona and mood suggestions. Suggestions are
// displayed only; nothing changes until the user issues a command.
func (e *Engine) suggestion(current *persona.Persona, a tracker.Analysis) string {
	if s := e.machine.Suggest(a); s != "" {
		return s
	}
	state := e.machine.State()
	if current.MoodCapable && state.Mood == "" && a.SuggestedMood != "" {
		return fmt.Sprintf("Feeling %s? /mood %s would match.", a.Emotion, a.SuggestedMood)
	}
	return ""
}

func (e *Engine) spamResult() *Result {
	state := e.machine.State()
	text := "You have said that three times now. I heard you the first time, promise."
	if state.Mode == modes.ModeDefy {
		text = "Three identical messages. Bold strategy. Did you expect the answer to change?"
	}
	return &Result{
		Text:    text,
		Mode:    state.Mode,
		Persona: state.Persona,
		Mood:    state.Mood,
		Words:   format.WordCount(text),
		Spam:    true,
	}
}

func (e *Engine) pendingTurns() []*models.Turn {
	var turns []*models.Turn
	for _, ex := range e.pending {
		turns = append(turns, ex.Turn)
	}
	return turns
}

// SaveNow flushes buffered exchanges and the session state.
func (e *Engine) SaveNow() (int, error) {
	saved := 0
	for _, ex := range e.pending {
		if err := e.store.RecordExchange(ex); err != nil {
			e.pending = e.pending[saved:]
			return saved, err
		}
		saved++
	}
	e.pending = nil
	return saved, e.store.Sessions.Save(e.machine.State())
}

// Close flushes pending work and persists the session state.
func (e *Engine) Close() error {
	_, err := e.SaveNow()
	return err
}
