package worklog

import (
	"context"
	"time"
)

type WorkLogRepository interface {
	GetByUserAndDate(ctx context.Context, userID string, workDate time.Time) (WorkLog, error)
	// Upsert inserts or replaces the log keyed on (user_id, work_date).
	Upsert(ctx context.Context, log WorkLog) (WorkLog, error)
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]WorkLog, error)
	CountSubmittedDays(ctx context.Context, userID string, from, to time.Time) (int, error)
	// CloseStaleOpen marks OPEN logs dated before the given day AUTO_CLOSED.
	CloseStaleOpen(ctx context.Context, before time.Time) (int64, error)
}
