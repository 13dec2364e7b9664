package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"megtodo/internal/model"
	"megtodo/internal/notify"
	"megtodo/internal/repository"
)

// Snapshot is everything the rendering layer needs to draw one state: the
// visible task subset plus aggregates over the full set.
type Snapshot struct {
	Tasks        []model.Task       `json:"tasks"`
	Stats        model.Stats        `json:"stats"`
	Streak       model.StreakState  `json:"streak"`
	Achievements model.Achievements `json:"achievements"`
}

// TaskService runs the load → filter → stats → streak pipeline and forwards
// user intents to the repository. It holds no task state of its own; every
// refresh re-fetches the full list.
type TaskService struct {
	repo     *repository.TaskRepository
	streak   *StreakTracker
	notifier notify.Notifier
	debounce *Debouncer
	log      *zap.SugaredLogger
	now      func() time.Time
}

func NewTaskService(repo *repository.TaskRepository, streak *StreakTracker, notifier notify.Notifier, log *zap.SugaredLogger) *TaskService {
	return &TaskService{
		repo:     repo,
		streak:   streak,
		notifier: notifier,
		debounce: NewDebouncer(SearchDebounceDelay),
		log:      log,
		now:      time.Now,
	}
}

// Refresh loads the full task list, computes aggregates over it, advances the
// streak, then narrows to the visible subset.
func (s *TaskService) Refresh(ctx context.Context, f Filter) (Snapshot, error) {
	tasks, err := s.repo.LoadAll(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	now := s.now()
	stats := ComputeStats(tasks, now)

	streak, err := s.streak.Update(ctx, stats.CompletedToday, now)
	if err != nil {
		// A broken streak store must not take the task list down with it.
		s.log.Warnw("streak update failed", "error", err)
	}

	return Snapshot{
		Tasks:        Visible(tasks, f, now),
		Stats:        stats,
		Streak:       streak,
		Achievements: ComputeAchievements(tasks, streak.Count),
	}, nil
}

// RefreshDebounced schedules a Refresh after the search debounce delay.
// A newer call cancels a pending one, so only the last keystroke's query
// executes a load. deliver runs on the timer goroutine.
func (s *TaskService) RefreshDebounced(ctx context.Context, f Filter, deliver func(Snapshot, error)) {
	s.debounce.Trigger(func() {
		deliver(s.Refresh(ctx, f))
	})
}

// Create adds a task from the draft. Title validation happens before any
// store call.
func (s *TaskService) Create(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	return s.repo.Create(ctx, draft)
}

// SetDone flips a task's completion state.
func (s *TaskService) SetDone(ctx context.Context, id string, done bool) error {
	return s.repo.SetDone(ctx, id, done)
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// AddSubtask appends a subtask to a task.
func (s *TaskService) AddSubtask(ctx context.Context, id, title string) error {
	return s.repo.AddSubtask(ctx, id, title)
}

// ToggleSubtask flips one subtask's completion state.
func (s *TaskService) ToggleSubtask(ctx context.Context, id, subtaskID string) error {
	return s.repo.ToggleSubtask(ctx, id, subtaskID)
}

// SendDailySummary runs a full statistics pass and hands the formatted report
// to the notifier. Wired to the scheduler in main.
func (s *TaskService) SendDailySummary(ctx context.Context) error {
	snap, err := s.Refresh(ctx, DefaultFilter())
	if err != nil {
		return err
	}
	return s.notifier.DailySummary(ctx, BuildDailySummary(snap.Stats, snap.Streak, s.now()))
}

// SeedDemo inserts the three demo tasks on an empty collection. No-op when
// any task already exists.
func (s *TaskService) SeedDemo(ctx context.Context) error {
	tasks, err := s.repo.LoadAll(ctx)
	if err != nil {
		return err
	}
	if len(tasks) > 0 {
		return nil
	}

	demos := []model.TaskDraft{
		{Title: "Complete project documentation", Description: "Focus on API documentation and examples", Priority: model.PriorityHigh, Category: model.CategoryWork},
		{Title: "Buy groceries", Description: "Milk, Eggs, Vegetables", Priority: model.PriorityMedium, Category: model.CategoryShopping},
		{Title: "Call mom", Description: "Weekly call", Priority: model.PriorityLow, Category: model.CategoryPersonal},
	}
	for _, draft := range demos {
		if _, err := s.repo.Create(ctx, draft); err != nil {
			return err
		}
	}
	s.log.Infow("seeded demo tasks", "count", len(demos))
	return nil
}
