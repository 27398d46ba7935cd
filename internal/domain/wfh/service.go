package wfh

import (
	"context"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
)

type WfhService interface {
	Create(ctx context.Context, actor user.Actor, req CreateWfhRequest) (WfhRequestResponse, error)
	Get(ctx context.Context, actor user.Actor, id string) (WfhRequestResponse, error)
	ListMine(ctx context.Context, actor user.Actor, filter approval.ListFilter) (ListWfhRequestResponse, error)
	ListPending(ctx context.Context, actor user.Actor, filter approval.ListFilter) (ListWfhRequestResponse, error)
	Review(ctx context.Context, actor user.Actor, id string, req approval.ReviewRequest) (WfhRequestResponse, error)
	Delete(ctx context.Context, actor user.Actor, id string) error
}
