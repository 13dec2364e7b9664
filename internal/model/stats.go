package model

// Stats are aggregates derived from the full task set, independent of filters.
type Stats struct {
	Total                 int `json:"total"`
	Done                  int `json:"done"`
	Active                int `json:"active"`
	Overdue               int `json:"overdue"`
	ProgressPercent       int `json:"progressPercent"`
	TotalMinutesRemaining int `json:"totalMinutesRemaining"`
	CompletedToday        int `json:"completedToday"`
}

// StreakState is the persisted consecutive-day completion counter.
// LastDate is the day (DueDateLayout) the streak was last advanced, empty if never.
type StreakState struct {
	Count    int    `json:"count"`
	LastDate string `json:"lastDate,omitempty"`
}

// Achievements are the unlockable badges shown next to the stats panel.
type Achievements struct {
	FirstTask   bool `json:"firstTask"`   // completed at least one task
	TenTasks    bool `json:"tenTasks"`    // completed ten tasks
	WeekStreak  bool `json:"weekStreak"`  // seven-day streak
	HundredClub bool `json:"hundredClub"` // completed a hundred tasks
}
