package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megtodo/internal/model"
	"megtodo/internal/store"
)

// fakeStore emulates the document store, including the JSON round trip that
// erases concrete Go types from field values.
type fakeStore struct {
	docs    []store.Document
	nextID  int
	clock   time.Time
	fail    error
	inserts int
	updates int
}

func newFakeStore() *fakeStore {
	return &fakeStore{clock: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.Local)}
}

func (f *fakeStore) ListAll(_ context.Context, _ string, desc bool) ([]store.Document, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	out := make([]store.Document, len(f.docs))
	copy(out, f.docs)
	if desc {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (f *fakeStore) Insert(_ context.Context, _ string, fields map[string]any) (string, error) {
	if f.fail != nil {
		return "", f.fail
	}
	f.inserts++
	f.nextID++
	f.clock = f.clock.Add(time.Minute)
	id := fmt.Sprintf("task-%d", f.nextID)
	f.docs = append(f.docs, store.Document{
		ID:        id,
		Fields:    normalize(fields),
		CreatedAt: f.clock,
	})
	return id, nil
}

func (f *fakeStore) Update(_ context.Context, _ string, id string, fields map[string]any) error {
	if f.fail != nil {
		return f.fail
	}
	f.updates++
	for i := range f.docs {
		if f.docs[i].ID == id {
			for key, value := range normalize(fields) {
				f.docs[i].Fields[key] = value
			}
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) Remove(_ context.Context, _ string, id string) error {
	if f.fail != nil {
		return f.fail
	}
	for i := range f.docs {
		if f.docs[i].ID == id {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return nil
		}
	}
	return nil
}

func normalize(fields map[string]any) map[string]any {
	data, err := json.Marshal(fields)
	if err != nil {
		panic(err)
	}
	out := make(map[string]any)
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return out
}

func TestCreateRejectsEmptyTitleBeforeStoreCall(t *testing.T) {
	fake := newFakeStore()
	repo := NewTaskRepository(fake)

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := repo.Create(context.Background(), model.TaskDraft{Title: title})

		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "title", validation.Field)
	}
	assert.Zero(t, fake.inserts, "validation must happen before any store call")
}

func TestCreateRejectsBadDueDate(t *testing.T) {
	repo := NewTaskRepository(newFakeStore())

	_, err := repo.Create(context.Background(), model.TaskDraft{Title: "x", DueDate: "tomorrow"})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "dueDate", validation.Field)
}

func TestCreateFillsDefaults(t *testing.T) {
	repo := NewTaskRepository(newFakeStore())

	task, err := repo.Create(context.Background(), model.TaskDraft{Title: "  Buy milk  "})
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Equal(t, model.CategoryPersonal, task.Category)
	assert.Equal(t, 60, task.EstimatedMinutes)
	assert.False(t, task.Done)
	assert.Nil(t, task.CompletedAt)
	assert.NotNil(t, task.Subtasks)
	assert.NotNil(t, task.Tags)
}

func TestLoadAllOrdersNewestFirst(t *testing.T) {
	repo := NewTaskRepository(newFakeStore())
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := repo.Create(ctx, model.TaskDraft{Title: title})
		require.NoError(t, err)
	}

	tasks, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "third", tasks[0].Title)
	assert.Equal(t, "first", tasks[2].Title)
}

func TestSetDoneSetsAndClearsCompletedAt(t *testing.T) {
	repo := NewTaskRepository(newFakeStore())
	ctx := context.Background()

	created, err := repo.Create(ctx, model.TaskDraft{Title: "x"})
	require.NoError(t, err)

	require.NoError(t, repo.SetDone(ctx, created.ID, true))
	tasks, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.True(t, tasks[0].Done)
	require.NotNil(t, tasks[0].CompletedAt, "completedAt set atomically with done")

	require.NoError(t, repo.SetDone(ctx, created.ID, false))
	tasks, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	require.False(t, tasks[0].Done)
	assert.Nil(t, tasks[0].CompletedAt, "completedAt cleared when done is unset")
}

func TestDeleteRemovesTask(t *testing.T) {
	repo := NewTaskRepository(newFakeStore())
	ctx := context.Background()

	created, err := repo.Create(ctx, model.TaskDraft{Title: "x"})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, created.ID))

	tasks, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestAddSubtaskWritesWholeArrayBack(t *testing.T) {
	fake := newFakeStore()
	repo := NewTaskRepository(fake)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.TaskDraft{Title: "x"})
	require.NoError(t, err)

	require.NoError(t, repo.AddSubtask(ctx, created.ID, "step one"))
	require.NoError(t, repo.AddSubtask(ctx, created.ID, "step two"))

	tasks, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks[0].Subtasks, 2)
	assert.Equal(t, "step one", tasks[0].Subtasks[0].Title)
	assert.Equal(t, "step two", tasks[0].Subtasks[1].Title)
	assert.NotEmpty(t, tasks[0].Subtasks[0].ID)
	assert.NotEqual(t, tasks[0].Subtasks[0].ID, tasks[0].Subtasks[1].ID)
}

func TestAddSubtaskValidatesTitle(t *testing.T) {
	repo := NewTaskRepository(newFakeStore())

	err := repo.AddSubtask(context.Background(), "task-1", "  ")

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestAddSubtaskUnknownTask(t *testing.T) {
	repo := NewTaskRepository(newFakeStore())
	err := repo.AddSubtask(context.Background(), "missing", "step")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestToggleSubtaskFlipsOneEntry(t *testing.T) {
	repo := NewTaskRepository(newFakeStore())
	ctx := context.Background()

	created, err := repo.Create(ctx, model.TaskDraft{Title: "x"})
	require.NoError(t, err)
	require.NoError(t, repo.AddSubtask(ctx, created.ID, "step one"))
	require.NoError(t, repo.AddSubtask(ctx, created.ID, "step two"))

	tasks, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	target := tasks[0].Subtasks[1].ID

	require.NoError(t, repo.ToggleSubtask(ctx, created.ID, target))
	tasks, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.False(t, tasks[0].Subtasks[0].Done)
	assert.True(t, tasks[0].Subtasks[1].Done)

	require.NoError(t, repo.ToggleSubtask(ctx, created.ID, target))
	tasks, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.False(t, tasks[0].Subtasks[1].Done)
}

func TestToggleSubtaskUnknownSubtask(t *testing.T) {
	repo := NewTaskRepository(newFakeStore())
	ctx := context.Background()

	created, err := repo.Create(ctx, model.TaskDraft{Title: "x"})
	require.NoError(t, err)

	err = repo.ToggleSubtask(ctx, created.ID, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStoreFailuresMapToStoreUnavailable(t *testing.T) {
	fake := newFakeStore()
	repo := NewTaskRepository(fake)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.TaskDraft{Title: "x"})
	require.NoError(t, err)

	fake.fail = errors.New("connection refused")

	_, err = repo.LoadAll(ctx)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = repo.Create(ctx, model.TaskDraft{Title: "y"})
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	assert.ErrorIs(t, repo.SetDone(ctx, created.ID, true), ErrStoreUnavailable)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrStoreUnavailable)
	assert.ErrorIs(t, repo.AddSubtask(ctx, created.ID, "step"), ErrStoreUnavailable)
	assert.ErrorIs(t, repo.ToggleSubtask(ctx, created.ID, "sub"), ErrStoreUnavailable)
}
