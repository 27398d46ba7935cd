package worklog

import (
	"context"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
)

type WorkLogService interface {
	Upsert(ctx context.Context, actor user.Actor, req UpsertWorkLogRequest) (WorkLogResponse, error)
	ListMine(ctx context.Context, actor user.Actor, from, to string) ([]WorkLogResponse, error)
}
