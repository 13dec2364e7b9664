// Package notify is the boundary with the external notification collaborator:
// streak celebrations and the daily summary leave the core through it.
package notify

import "context"

// Notifier delivers one-off user-facing notifications.
type Notifier interface {
	// StreakMilestone celebrates reaching a notable streak count.
	StreakMilestone(ctx context.Context, days int) error
	// DailySummary delivers the periodic progress report.
	DailySummary(ctx context.Context, text string) error
}
