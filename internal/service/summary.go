package service

import (
	"fmt"
	"strings"
	"time"

	"megtodo/internal/model"
)

// BuildDailySummary renders the progress report delivered by the notifier.
func BuildDailySummary(stats model.Stats, streak model.StreakState, now time.Time) string {
	var builder strings.Builder
	builder.WriteString("📋 <b>Daily summary</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("Jan 2, 2006")))

	builder.WriteString(fmt.Sprintf("🔥 Active tasks: %d\n", stats.Active))
	builder.WriteString(fmt.Sprintf("✅ Completed today: %d\n", stats.CompletedToday))
	if stats.Overdue > 0 {
		builder.WriteString(fmt.Sprintf("⚠️ Overdue: %d\n", stats.Overdue))
	}
	builder.WriteString(fmt.Sprintf("📈 Progress: %d%%\n", stats.ProgressPercent))
	if stats.TotalMinutesRemaining > 0 {
		builder.WriteString(fmt.Sprintf("⏱ Time remaining: %s\n", FormatMinutes(stats.TotalMinutesRemaining)))
	}
	if streak.Count > 0 {
		builder.WriteString(fmt.Sprintf("🔥 Streak: %d day(s)\n", streak.Count))
	}

	return strings.TrimSpace(builder.String())
}

// FormatMinutes renders a duration estimate the way the task badges do:
// "45m", "2h", "1h 30m".
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours > 0 {
		if mins > 0 {
			return fmt.Sprintf("%dh %dm", hours, mins)
		}
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", mins)
}
