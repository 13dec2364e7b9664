package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"megtodo/internal/model"
	"megtodo/internal/store"
)

// CollectionTodos is the document collection holding all tasks.
const CollectionTodos = "todos"

// ErrStoreUnavailable marks a failed network/store call. The caller keeps its
// previously rendered list and surfaces a transient error.
var ErrStoreUnavailable = errors.New("store unavailable")

// ValidationError rejects bad input before any store call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TaskRepository maps raw store documents to typed tasks and back.
type TaskRepository struct {
	store store.Client
}

func NewTaskRepository(client store.Client) *TaskRepository {
	return &TaskRepository{store: client}
}

// LoadAll fetches every task ordered by creation time descending.
func (r *TaskRepository) LoadAll(ctx context.Context) ([]model.Task, error) {
	docs, err := r.store.ListAll(ctx, CollectionTodos, true)
	if err != nil {
		return nil, storeErr("load tasks", err)
	}

	tasks := make([]model.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, mapTask(doc))
	}
	return tasks, nil
}

// Create validates the draft, fills defaults and inserts a new task document.
func (r *TaskRepository) Create(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return model.Task{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	if !draft.Priority.Valid() {
		draft.Priority = model.DefaultPriority
	}
	if !draft.Category.Valid() {
		draft.Category = model.DefaultCategory
	}
	if draft.EstimatedMinutes <= 0 {
		draft.EstimatedMinutes = 60
	}

	dueDate := strings.TrimSpace(draft.DueDate)
	if dueDate != "" {
		if _, err := time.Parse(model.DueDateLayout, dueDate); err != nil {
			return model.Task{}, &ValidationError{Field: "dueDate", Reason: "must be YYYY-MM-DD"}
		}
	}

	tags := draft.Tags
	if tags == nil {
		tags = []string{}
	}

	fields := map[string]any{
		"title":            title,
		"description":      strings.TrimSpace(draft.Description),
		"priority":         string(draft.Priority),
		"category":         string(draft.Category),
		"dueDate":          dueDate,
		"estimatedMinutes": draft.EstimatedMinutes,
		"done":             false,
		"completedAt":      nil,
		"subtasks":         []model.Subtask{},
		"tags":             tags,
	}

	id, err := r.store.Insert(ctx, CollectionTodos, fields)
	if err != nil {
		return model.Task{}, storeErr("create task", err)
	}

	return model.Task{
		ID:               id,
		Title:            title,
		Description:      strings.TrimSpace(draft.Description),
		Priority:         draft.Priority,
		Category:         draft.Category,
		DueDate:          dueDate,
		EstimatedMinutes: draft.EstimatedMinutes,
		CreatedAt:        time.Now(),
		Subtasks:         []model.Subtask{},
		Tags:             tags,
	}, nil
}

// SetDone flips completion and sets or clears completedAt in the same update.
func (r *TaskRepository) SetDone(ctx context.Context, id string, done bool) error {
	fields := map[string]any{
		"done":        done,
		"completedAt": nil,
	}
	if done {
		fields["completedAt"] = time.Now().Format(time.RFC3339)
	}
	if err := r.store.Update(ctx, CollectionTodos, id, fields); err != nil {
		return storeErr("set task done", err)
	}
	return nil
}

// Delete removes the task document.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Remove(ctx, CollectionTodos, id); err != nil {
		return storeErr("delete task", err)
	}
	return nil
}

// AddSubtask appends a subtask and writes the whole subtask array back.
// Concurrent subtask edits from two sessions race; the last writer wins.
func (r *TaskRepository) AddSubtask(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	task, err := r.findTask(ctx, id)
	if err != nil {
		return err
	}

	subtasks := append(task.Subtasks, model.Subtask{
		ID:    uuid.NewString(),
		Title: title,
	})
	if err := r.store.Update(ctx, CollectionTodos, id, map[string]any{"subtasks": subtasks}); err != nil {
		return storeErr("add subtask", err)
	}
	return nil
}

// ToggleSubtask flips one subtask and writes the whole subtask array back.
func (r *TaskRepository) ToggleSubtask(ctx context.Context, id, subtaskID string) error {
	task, err := r.findTask(ctx, id)
	if err != nil {
		return err
	}

	found := false
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == subtaskID {
			task.Subtasks[i].Done = !task.Subtasks[i].Done
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("toggle subtask %s: %w", subtaskID, store.ErrNotFound)
	}

	if err := r.store.Update(ctx, CollectionTodos, id, map[string]any{"subtasks": task.Subtasks}); err != nil {
		return storeErr("toggle subtask", err)
	}
	return nil
}

// findTask reads the task through the whole-collection boundary; the store
// interface deliberately has no single-document read.
func (r *TaskRepository) findTask(ctx context.Context, id string) (model.Task, error) {
	tasks, err := r.LoadAll(ctx)
	if err != nil {
		return model.Task{}, err
	}
	for _, task := range tasks {
		if task.ID == id {
			return task, nil
		}
	}
	return model.Task{}, fmt.Errorf("task %s: %w", id, store.ErrNotFound)
}

func storeErr(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}

func mapTask(doc store.Document) model.Task {
	task := model.Task{
		ID:               doc.ID,
		Title:            stringField(doc.Fields, "title"),
		Description:      stringField(doc.Fields, "description"),
		Priority:         model.Priority(stringField(doc.Fields, "priority")),
		Category:         model.Category(stringField(doc.Fields, "category")),
		DueDate:          stringField(doc.Fields, "dueDate"),
		EstimatedMinutes: intField(doc.Fields, "estimatedMinutes"),
		Done:             boolField(doc.Fields, "done"),
		CreatedAt:        doc.CreatedAt,
		Subtasks:         subtaskField(doc.Fields, "subtasks"),
		Tags:             stringsField(doc.Fields, "tags"),
	}

	if !task.Priority.Valid() {
		task.Priority = model.DefaultPriority
	}
	if !task.Category.Valid() {
		task.Category = model.DefaultCategory
	}

	// completedAt is only meaningful on a done task.
	if task.Done {
		if raw := stringField(doc.Fields, "completedAt"); raw != "" {
			if t, err := time.Parse(time.RFC3339, raw); err == nil {
				task.CompletedAt = &t
			}
		}
	}

	return task
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func boolField(fields map[string]any, key string) bool {
	b, _ := fields[key].(bool)
	return b
}

func intField(fields map[string]any, key string) int {
	switch v := fields[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func stringsField(fields map[string]any, key string) []string {
	raw, _ := fields[key].([]any)
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func subtaskField(fields map[string]any, key string) []model.Subtask {
	raw, _ := fields[key].([]any)
	out := make([]model.Subtask, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, model.Subtask{
			ID:    stringField(entry, "id"),
			Title: stringField(entry, "title"),
			Done:  boolField(entry, "done"),
		})
	}
	return out
}
