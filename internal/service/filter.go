package service

import (
	"strings"
	"time"

	"megtodo/internal/model"
)

// Status narrows tasks by completion state.
type Status string

const (
	StatusAll     Status = "all"
	StatusActive  Status = "active"
	StatusDone    Status = "done"
	StatusOverdue Status = "overdue"
)

// FilterAll passes every priority or category.
const FilterAll = "ALL"

// Filter is the full set of narrowing criteria picked in the UI.
type Filter struct {
	Status   Status
	Priority string // FilterAll or an exact model.Priority value
	Category string // FilterAll or an exact model.Category value
	Search   string // case-insensitive substring over title and description
}

// DefaultFilter passes everything.
func DefaultFilter() Filter {
	return Filter{Status: StatusAll, Priority: FilterAll, Category: FilterAll}
}

// Visible returns the subset of tasks matching all four predicates, preserving
// the input order. It never mutates the input.
func Visible(tasks []model.Task, f Filter, now time.Time) []model.Task {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if !matchStatus(task, f.Status, now) {
			continue
		}
		if f.Priority != "" && f.Priority != FilterAll && string(task.Priority) != f.Priority {
			continue
		}
		if f.Category != "" && f.Category != FilterAll && string(task.Category) != f.Category {
			continue
		}
		if search != "" && !matchSearch(task, search) {
			continue
		}
		out = append(out, task)
	}
	return out
}

// IsOverdue reports whether the task's due day has passed. A done task is
// never overdue, regardless of its due date.
func IsOverdue(task model.Task, now time.Time) bool {
	if task.Done || task.DueDate == "" {
		return false
	}
	due, err := time.ParseInLocation(model.DueDateLayout, task.DueDate, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return due.Before(today)
}

func matchStatus(task model.Task, status Status, now time.Time) bool {
	switch status {
	case StatusActive:
		return !task.Done
	case StatusDone:
		return task.Done
	case StatusOverdue:
		return IsOverdue(task, now)
	default:
		return true
	}
}

func matchSearch(task model.Task, search string) bool {
	return strings.Contains(strings.ToLower(task.Title), search) ||
		strings.Contains(strings.ToLower(task.Description), search)
}
