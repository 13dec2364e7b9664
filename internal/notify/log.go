package notify

import (
	"context"

	"go.uber.org/zap"
)

// Log writes notifications to the application log. Used when no Telegram
// token is configured, so milestone bookkeeping still works in development.
type Log struct {
	log *zap.SugaredLogger
}

func NewLog(log *zap.SugaredLogger) *Log {
	return &Log{log: log}
}

func (l *Log) StreakMilestone(_ context.Context, days int) error {
	l.log.Infow("streak milestone reached", "days", days)
	return nil
}

func (l *Log) DailySummary(_ context.Context, text string) error {
	l.log.Infow("daily summary", "text", text)
	return nil
}
