package service

import (
	"math"
	"time"

	"megtodo/internal/model"
)

// ComputeStats derives the dashboard counters from the entire task set,
// independent of any active filter.
func ComputeStats(tasks []model.Task, now time.Time) model.Stats {
	var stats model.Stats
	stats.Total = len(tasks)

	for _, task := range tasks {
		if task.Done {
			stats.Done++
		} else {
			stats.Active++
			stats.TotalMinutesRemaining += task.EstimatedMinutes
		}
		if IsOverdue(task, now) {
			stats.Overdue++
		}
		if completedOn(task, now) {
			stats.CompletedToday++
		}
	}

	if stats.Total > 0 {
		stats.ProgressPercent = int(math.Floor(float64(stats.Done)/float64(stats.Total)*100 + 0.5))
	}

	return stats
}

// ComputeAchievements unlocks the badges from lifetime completions and the
// current streak.
func ComputeAchievements(tasks []model.Task, streakCount int) model.Achievements {
	done := 0
	for _, task := range tasks {
		if task.Done {
			done++
		}
	}
	return model.Achievements{
		FirstTask:   done >= 1,
		TenTasks:    done >= 10,
		WeekStreak:  streakCount >= 7,
		HundredClub: done >= 100,
	}
}

// completedOn reports whether the task was completed on now's calendar day.
func completedOn(task model.Task, now time.Time) bool {
	if task.CompletedAt == nil {
		return false
	}
	completed := task.CompletedAt.In(now.Location())
	return completed.Year() == now.Year() && completed.YearDay() == now.YearDay()
}
