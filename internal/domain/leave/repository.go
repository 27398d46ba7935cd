package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
)

// PendingQuery narrows a review queue. BusinessHeadID, when set, keeps only
// requests awaiting that business head.
type PendingQuery struct {
	Scope          user.Scope
	BusinessHeadID *string
	Filter         approval.ListFilter
}

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (LeaveRequest, error)
	ListByUser(ctx context.Context, userID string, filter approval.ListFilter) ([]LeaveRequest, int64, error)
	ListPending(ctx context.Context, q PendingQuery) ([]LeaveRequest, int64, error)
	// ListOverlapping returns the user's requests with the given statuses intersecting [from, to].
	ListOverlapping(ctx context.Context, userID string, from, to time.Time, statuses []approval.Status) ([]LeaveRequest, error)
	UpdateReview(ctx context.Context, req LeaveRequest) error
	Delete(ctx context.Context, id string) error
}

type PermissionRequestRepository interface {
	Create(ctx context.Context, req PermissionRequest) (PermissionRequest, error)
	GetByID(ctx context.Context, id string) (PermissionRequest, error)
	GetByIDForUpdate(ctx context.Context, id string) (PermissionRequest, error)
	ListByUser(ctx context.Context, userID string, filter approval.ListFilter) ([]PermissionRequest, int64, error)
	ListPending(ctx context.Context, q PendingQuery) ([]PermissionRequest, int64, error)
	// CountInWindow counts the user's requests with the given statuses dated within [from, to].
	CountInWindow(ctx context.Context, userID string, from, to time.Time, statuses []approval.Status) (int, error)
	// ExistsOnDate reports a non-rejected request by the user on date.
	ExistsOnDate(ctx context.Context, userID string, date time.Time) (bool, error)
	UpdateReview(ctx context.Context, req PermissionRequest) error
	Delete(ctx context.Context, id string) error
}
