package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"megtodo/internal/kv"
	"megtodo/internal/model"
	"megtodo/internal/notify"
)

const (
	keyStreakState     = "megtodo:streak"
	keyShownMilestones = "megtodo:streak:milestones"
)

// streakMilestones are the counts worth a one-time celebration.
var streakMilestones = []int{7, 14, 30, 50, 100}

// StreakTracker advances the consecutive-day completion counter. State lives
// in the injected key-value store, beside but independent from the task store.
type StreakTracker struct {
	kv       kv.Store
	notifier notify.Notifier
	log      *zap.SugaredLogger
}

func NewStreakTracker(store kv.Store, notifier notify.Notifier, log *zap.SugaredLogger) *StreakTracker {
	return &StreakTracker{kv: store, notifier: notifier, log: log}
}

// Current returns the persisted streak without advancing it.
func (t *StreakTracker) Current(ctx context.Context) (model.StreakState, error) {
	return t.loadState(ctx)
}

// Update runs the daily transition once per statistics pass. It is idempotent
// within a calendar day: recomputing stats any number of times increments the
// count at most once.
func (t *StreakTracker) Update(ctx context.Context, completedToday int, now time.Time) (model.StreakState, error) {
	state, err := t.loadState(ctx)
	if err != nil {
		return model.StreakState{}, err
	}

	today := now.Format(model.DueDateLayout)
	if completedToday > 0 && state.LastDate != today {
		yesterday := now.AddDate(0, 0, -1).Format(model.DueDateLayout)
		if state.LastDate == yesterday || state.LastDate == "" {
			state.Count++
		} else {
			// Streak broken: the last completion day is further back.
			state.Count = 1
		}
		state.LastDate = today

		if err := t.saveState(ctx, state); err != nil {
			return model.StreakState{}, err
		}
	}

	if err := t.announceMilestone(ctx, state.Count); err != nil {
		// Announcements are best-effort; a failed celebration must not
		// break the statistics pass.
		t.log.Warnw("milestone announcement failed", "count", state.Count, "error", err)
	}

	return state, nil
}

// announceMilestone emits each milestone count exactly once, ever. The shown
// set is never cleared on a streak reset, so re-reaching a count after a break
// stays silent.
func (t *StreakTracker) announceMilestone(ctx context.Context, count int) error {
	if !isMilestone(count) {
		return nil
	}

	shown, err := t.loadShown(ctx)
	if err != nil {
		return err
	}
	for _, seen := range shown {
		if seen == count {
			return nil
		}
	}

	if err := t.notifier.StreakMilestone(ctx, count); err != nil {
		return err
	}

	shown = append(shown, count)
	data, err := json.Marshal(shown)
	if err != nil {
		return fmt.Errorf("encode shown milestones: %w", err)
	}
	if err := t.kv.Set(ctx, keyShownMilestones, data); err != nil {
		return fmt.Errorf("persist shown milestones: %w", err)
	}
	return nil
}

func (t *StreakTracker) loadState(ctx context.Context) (model.StreakState, error) {
	data, ok, err := t.kv.Get(ctx, keyStreakState)
	if err != nil {
		return model.StreakState{}, fmt.Errorf("load streak: %w", err)
	}
	if !ok {
		return model.StreakState{}, nil
	}
	var state model.StreakState
	if err := json.Unmarshal(data, &state); err != nil {
		return model.StreakState{}, fmt.Errorf("decode streak: %w", err)
	}
	return state, nil
}

func (t *StreakTracker) saveState(ctx context.Context, state model.StreakState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode streak: %w", err)
	}
	if err := t.kv.Set(ctx, keyStreakState, data); err != nil {
		return fmt.Errorf("persist streak: %w", err)
	}
	return nil
}

func (t *StreakTracker) loadShown(ctx context.Context) ([]int, error) {
	data, ok, err := t.kv.Get(ctx, keyShownMilestones)
	if err != nil {
		return nil, fmt.Errorf("load shown milestones: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var shown []int
	if err := json.Unmarshal(data, &shown); err != nil {
		return nil, fmt.Errorf("decode shown milestones: %w", err)
	}
	return shown, nil
}

func isMilestone(count int) bool {
	for _, m := range streakMilestones {
		if m == count {
			return true
		}
	}
	return false
}
