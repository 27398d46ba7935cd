package visit

import (
	"context"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
)

type VisitService interface {
	Create(ctx context.Context, actor user.Actor, req CreateVisitRequest) (VisitRequestResponse, error)
	Get(ctx context.Context, actor user.Actor, id string) (VisitRequestResponse, error)
	ListMine(ctx context.Context, actor user.Actor, kind *Kind, filter approval.ListFilter) (ListVisitRequestResponse, error)
	ListPending(ctx context.Context, actor user.Actor, kind *Kind, filter approval.ListFilter) (ListVisitRequestResponse, error)
	Review(ctx context.Context, actor user.Actor, id string, req approval.ReviewRequest) (VisitRequestResponse, error)
	Delete(ctx context.Context, actor user.Actor, id string) error
}
