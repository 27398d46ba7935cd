package wfh

import (
	"context"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
)

type WfhRequestRepository interface {
	Create(ctx context.Context, req WfhRequest) (WfhRequest, error)
	GetByID(ctx context.Context, id string) (WfhRequest, error)
	GetByIDForUpdate(ctx context.Context, id string) (WfhRequest, error)
	ListByUser(ctx context.Context, userID string, filter approval.ListFilter) ([]WfhRequest, int64, error)
	// ListAtLevel returns pending requests waiting at level whose owners fall in scope.
	ListAtLevel(ctx context.Context, level approval.Level, scope user.Scope, filter approval.ListFilter) ([]WfhRequest, int64, error)
	// UpdateReview persists the chain state and records reviewerID against the level they acted at.
	UpdateReview(ctx context.Context, req WfhRequest, actedAt approval.Level, reviewerID string) error
	Delete(ctx context.Context, id string) error
}
