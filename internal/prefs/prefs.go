// ABOUTME: Preference learning over the memory store
// ABOUTME: Strengths rise asymptotically toward 1; manual entries always win
package prefs

import (
	"github.com/pacify-defy/pacify-defy/internal/memory"
	"github.com/pacify-defy/pacify-defy/internal/models"
)

// Learner accumulates preference signals and answers which preferences
// are strong enough to act on.
type Learner struct {
	store     *memory.PreferenceStore
	threshold float64
}

// NewLearner creates a learner. Learned preferences below threshold are
// recorded but not applied.
func NewLearner(store *memory.PreferenceStore, threshold float64) *Learner {
	return &Learner{store: store, threshold: threshold}
}

// Observe folds one signal of weight w into the learned strength for a
// key. The update is strength + w*(1-strength), so repetition approaches
// 1 without ever reaching it. A signal with a different value restarts
// the strength at w. Manual entries are left untouched.
func (l *Learner) Observe(userID, key, value string, w float64) error {
	return l.store.Observe(userID, key, value, w)
}

// SetManual records an explicit preference that learning never touches.
func (l *Learner) SetManual(userID, key, value string) error {
	return l.store.SetManual(userID, key, value)
}

// Effective returns the preferences that should influence behavior:
// every manual entry plus learned entries at or above the threshold.
func (l *Learner) Effective(userID string) (map[string]string, error) {
	all, err := l.store.List(userID)
	if err != nil {
		return nil, err
	}
	effective := make(map[string]string)
	for _, p := range all {
		if p.Source == models.SourceManual || p.Strength >= l.threshold {
			effective[p.Key] = p.Value
		}
	}
	return effective, nil
}

// All returns every stored preference for display.
func (l *Learner) All(userID string) ([]*models.Preference, error) {
	return l.store.List(userID)
}
