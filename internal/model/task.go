package model

import "time"

// Priority of a task. The zero value is not valid; use DefaultPriority.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"

	DefaultPriority = PriorityMedium
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Category groups tasks by area of life.
type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryShopping Category = "shopping"
	CategoryHealth   Category = "health"
	CategoryLearning Category = "learning"
	CategoryOther    Category = "other"

	DefaultCategory = CategoryPersonal
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryShopping, CategoryHealth, CategoryLearning, CategoryOther:
		return true
	}
	return false
}

// DueDateLayout is the day-granular format used for due dates on the wire.
const DueDateLayout = "2006-01-02"

// Subtask is a checklist entry inside a task.
type Subtask struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Task represents a single todo item.
type Task struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Priority         Priority   `json:"priority"`
	Category         Category   `json:"category"`
	DueDate          string     `json:"dueDate,omitempty"` // DueDateLayout, empty when unset
	EstimatedMinutes int        `json:"estimatedMinutes"`
	Done             bool       `json:"done"`
	CreatedAt        time.Time  `json:"createdAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"` // non-nil iff Done
	Subtasks         []Subtask  `json:"subtasks"`
	Tags             []string   `json:"tags"`
}

// TaskDraft carries user input for a new task. The store assigns ID and CreatedAt.
type TaskDraft struct {
	Title            string
	Description      string
	Priority         Priority
	Category         Category
	DueDate          string
	EstimatedMinutes int
	Tags             []string
}
