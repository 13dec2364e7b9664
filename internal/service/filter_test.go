package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megtodo/internal/model"
)

var testNow = time.Date(2026, time.March, 15, 14, 30, 0, 0, time.Local)

func taskFixture(id string, mutate func(*model.Task)) model.Task {
	task := model.Task{
		ID:               id,
		Title:            "Task " + id,
		Priority:         model.PriorityMedium,
		Category:         model.CategoryPersonal,
		EstimatedMinutes: 60,
		CreatedAt:        testNow.Add(-24 * time.Hour),
	}
	if mutate != nil {
		mutate(&task)
	}
	return task
}

func TestVisibleDefaultFilterReturnsInputUnchanged(t *testing.T) {
	tasks := []model.Task{
		taskFixture("1", nil),
		taskFixture("2", func(task *model.Task) { task.Done = true }),
		taskFixture("3", func(task *model.Task) { task.DueDate = "2020-01-01" }),
	}

	got := Visible(tasks, DefaultFilter(), testNow)

	require.Len(t, got, 3)
	for i := range tasks {
		assert.Equal(t, tasks[i].ID, got[i].ID)
	}
}

func TestVisibleStatus(t *testing.T) {
	tasks := []model.Task{
		taskFixture("active", nil),
		taskFixture("done", func(task *model.Task) { task.Done = true }),
		taskFixture("overdue", func(task *model.Task) { task.DueDate = "2020-01-01" }),
	}

	tests := []struct {
		status Status
		want   []string
	}{
		{StatusAll, []string{"active", "done", "overdue"}},
		{StatusActive, []string{"active", "overdue"}},
		{StatusDone, []string{"done"}},
		{StatusOverdue, []string{"overdue"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			f := DefaultFilter()
			f.Status = tt.status
			got := Visible(tasks, f, testNow)
			ids := make([]string, 0, len(got))
			for _, task := range got {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestVisiblePriorityAndCategory(t *testing.T) {
	tasks := []model.Task{
		taskFixture("1", func(task *model.Task) { task.Priority = model.PriorityHigh }),
		taskFixture("2", func(task *model.Task) { task.Category = model.CategoryWork }),
		taskFixture("3", func(task *model.Task) {
			task.Priority = model.PriorityHigh
			task.Category = model.CategoryWork
		}),
	}

	f := DefaultFilter()
	f.Priority = "HIGH"
	got := Visible(tasks, f, testNow)
	require.Len(t, got, 2)

	f.Category = "work"
	got = Visible(tasks, f, testNow)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)
}

func TestVisibleSearch(t *testing.T) {
	tasks := []model.Task{
		taskFixture("1", func(task *model.Task) { task.Title = "Buy groceries" }),
		taskFixture("2", func(task *model.Task) {
			task.Title = "Weekly call"
			task.Description = "Ask about the GROCERY list"
		}),
		taskFixture("3", func(task *model.Task) { task.Title = "Write report" }),
	}

	f := DefaultFilter()
	f.Search = "grocer"
	got := Visible(tasks, f, testNow)

	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}

func TestVisibleOverdueScenario(t *testing.T) {
	tasks := []model.Task{
		taskFixture("1", func(task *model.Task) {
			task.Title = "A"
			task.DueDate = "2020-01-01"
		}),
	}

	f := DefaultFilter()
	f.Status = StatusOverdue
	got := Visible(tasks, f, testNow)

	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestIsOverdue(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Task)
		want   bool
	}{
		{"no due date", nil, false},
		{"due in the past", func(task *model.Task) { task.DueDate = "2020-01-01" }, true},
		{"due today", func(task *model.Task) { task.DueDate = testNow.Format(model.DueDateLayout) }, false},
		{"due tomorrow", func(task *model.Task) { task.DueDate = testNow.AddDate(0, 0, 1).Format(model.DueDateLayout) }, false},
		{"done task is never overdue", func(task *model.Task) {
			task.DueDate = "2020-01-01"
			task.Done = true
		}, false},
		{"unparseable due date", func(task *model.Task) { task.DueDate = "someday" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOverdue(taskFixture("1", tt.mutate), testNow))
		})
	}
}
