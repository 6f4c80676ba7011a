// ABOUTME: Tests for preference learning strength updates and thresholds
// ABOUTME: Uses an in-memory store per test
package prefs

import (
	"math"
	"testing"

	"github.com/pacify-defy/pacify-defy/internal/memory"
	"github.com/pacify-defy/pacify-defy/internal/models"
)

func testLearner(t *testing.T) *Learner {
	t.Helper()
	store, err := memory.OpenInMemoryStore()
	if err != nil {
		t.Fatalf("OpenInMemoryStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewLearner(store.Preferences, 0.7)
}

func TestObserveApproachesOne(t *testing.T) {
	l := testLearner(t)

	var prev float64
	for i := 0; i < 10; i++ {
		if err := l.Observe("alice", "humor", "dry", 0.3); err != nil {
			t.Fatalf("Observe() error = %v", err)
		}
		pref, err := l.store.Get("alice", "humor")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if pref.Strength <= prev {
			t.Fatalf("strength did not increase: %v -> %v", prev, pref.Strength)
		}
		if pref.Strength >= 1 {
			t.Fatalf("strength reached 1 after %d observations", i+1)
		}
		prev = pref.Strength
	}
}

func TestObserveUpdateRule(t *testing.T) {
	l := testLearner(t)

	if err := l.Observe("alice", "length", "short", 0.4); err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	if err := l.Observe("alice", "length", "short", 0.4); err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	pref, err := l.store.Get("alice", "length")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	want := 0.4 + 0.4*(1-0.4)
	if math.Abs(pref.Strength-want) > 1e-9 {
		t.Errorf("Strength = %v, want %v", pref.Strength, want)
	}
}

func TestObserveValueChangeRestarts(t *testing.T) {
	l := testLearner(t)

	for i := 0; i < 5; i++ {
		if err := l.Observe("alice", "tone", "formal", 0.5); err != nil {
			t.Fatalf("Observe() error = %v", err)
		}
	}
	if err := l.Observe("alice", "tone", "casual", 0.5); err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	pref, err := l.store.Get("alice", "tone")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if pref.Value != "casual" {
		t.Errorf("Value = %q, want casual", pref.Value)
	}
	if math.Abs(pref.Strength-0.5) > 1e-9 {
		t.Errorf("Strength after value change = %v, want 0.5", pref.Strength)
	}
}

func TestManualNeverOverwritten(t *testing.T) {
	l := testLearner(t)

	if err := l.SetManual("alice", "length", "quick"); err != nil {
		t.Fatalf("SetManual() error = %v", err)
	}
	for i := 0; i < 20; i++ {
		if err := l.Observe("alice", "length", "detailed", 0.9); err != nil {
			t.Fatalf("Observe() error = %v", err)
		}
	}

	pref, err := l.store.Get("alice", "length")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if pref.Value != "quick" || pref.Source != models.SourceManual {
		t.Errorf("manual preference lost: value=%q source=%q", pref.Value, pref.Source)
	}
}

func TestEffectiveThreshold(t *testing.T) {
	l := testLearner(t)

	if err := l.SetManual("alice", "greeting", "casual"); err != nil {
		t.Fatalf("SetManual() error = %v", err)
	}
	if err := l.Observe("alice", "weak", "signal", 0.2); err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	for i := 0; i < 6; i++ {
		if err := l.Observe("alice", "strong", "habit", 0.4); err != nil {
			t.Fatalf("Observe() error = %v", err)
		}
	}

	effective, err := l.Effective("alice")
	if err != nil {
		t.Fatalf("Effective() error = %v", err)
	}
	if effective["greeting"] != "casual" {
		t.Error("manual preference missing from effective set")
	}
	if _, ok := effective["weak"]; ok {
		t.Error("below-threshold preference in effective set")
	}
	if effective["strong"] != "habit" {
		t.Error("above-threshold preference missing from effective set")
	}
}
