package leave

import (
	"context"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
)

type LeaveService interface {
	Create(ctx context.Context, actor user.Actor, req CreateLeaveRequest) (LeaveRequestResponse, error)
	Get(ctx context.Context, actor user.Actor, id string) (LeaveRequestResponse, error)
	ListMine(ctx context.Context, actor user.Actor, filter approval.ListFilter) (ListLeaveRequestResponse, error)
	ListPending(ctx context.Context, actor user.Actor, filter approval.ListFilter) (ListLeaveRequestResponse, error)
	Review(ctx context.Context, actor user.Actor, id string, req approval.ReviewRequest) (LeaveRequestResponse, error)
	Delete(ctx context.Context, actor user.Actor, id string) error
}

type PermissionService interface {
	Create(ctx context.Context, actor user.Actor, req CreatePermissionRequest) (PermissionRequestResponse, error)
	Get(ctx context.Context, actor user.Actor, id string) (PermissionRequestResponse, error)
	ListMine(ctx context.Context, actor user.Actor, filter approval.ListFilter) (ListPermissionRequestResponse, error)
	ListPending(ctx context.Context, actor user.Actor, filter approval.ListFilter) (ListPermissionRequestResponse, error)
	Review(ctx context.Context, actor user.Actor, id string, req approval.ReviewRequest) (PermissionRequestResponse, error)
	Delete(ctx context.Context, actor user.Actor, id string) error
}
