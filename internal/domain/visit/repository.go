package visit

import (
	"context"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
)

type VisitRequestRepository interface {
	Create(ctx context.Context, req VisitRequest) (VisitRequest, error)
	GetByID(ctx context.Context, id string) (VisitRequest, error)
	GetByIDForUpdate(ctx context.Context, id string) (VisitRequest, error)
	ListByUser(ctx context.Context, userID string, kind *Kind, filter approval.ListFilter) ([]VisitRequest, int64, error)
	ListPending(ctx context.Context, scope user.Scope, kind *Kind, filter approval.ListFilter) ([]VisitRequest, int64, error)
	UpdateReview(ctx context.Context, req VisitRequest) error
	Delete(ctx context.Context, id string) error
}
