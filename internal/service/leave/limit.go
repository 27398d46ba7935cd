package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
)

// CycleLimit is the per-cycle quota of leave days and of permission requests.
const CycleLimit = 4

// countedStatuses are the request states that use up quota.
var countedStatuses = []approval.Status{approval.StatusPending, approval.StatusApproved}

// LeaveExceedsLimit reports whether candidate pushes any cycle it touches over
// the leave-day quota, given the user's other non-rejected requests.
func LeaveExceedsLimit(candidate leave.LeaveRequest, existing []leave.LeaveRequest) bool {
	for _, c := range cycle.Touching(candidate.StartDate, candidate.EndDate) {
		added := candidate.DaysIn(c.Start, c.End)
		if added > CycleLimit {
			return true
		}

		var used float64
		for _, other := range existing {
			if (candidate.ID != "" && other.ID == candidate.ID) || other.Status == approval.StatusRejected {
				continue
			}
			used += other.DaysIn(c.Start, c.End)
		}
		if used+added > CycleLimit {
			return true
		}
	}
	return false
}

// PermissionExceedsLimit reports whether a new permission request is over
// quota when existing requests already sit in its cycle.
func PermissionExceedsLimit(existing int) bool {
	return existing >= CycleLimit
}

// LimitEvaluator reads prior requests and decides the exceeded flag of a new one.
// The flag is a snapshot taken at creation.
type LimitEvaluator struct {
	leaves      leave.LeaveRequestRepository
	permissions leave.PermissionRequestRepository
}

func NewLimitEvaluator(leaves leave.LeaveRequestRepository, permissions leave.PermissionRequestRepository) *LimitEvaluator {
	return &LimitEvaluator{leaves: leaves, permissions: permissions}
}

func (e *LimitEvaluator) LeaveExceeded(ctx context.Context, candidate leave.LeaveRequest) (bool, error) {
	cycles := cycle.Touching(candidate.StartDate, candidate.EndDate)
	if len(cycles) == 0 {
		return false, nil
	}
	from, to := cycles[0].Start, cycles[len(cycles)-1].End

	existing, err := e.leaves.ListOverlapping(ctx, candidate.UserID, from, to, countedStatuses)
	if err != nil {
		return false, fmt.Errorf("failed to list overlapping leave requests: %w", err)
	}
	return LeaveExceedsLimit(candidate, existing), nil
}

func (e *LimitEvaluator) PermissionExceeded(ctx context.Context, userID string, date time.Time) (bool, error) {
	c := cycle.For(date)
	count, err := e.permissions.CountInWindow(ctx, userID, c.Start, c.End, countedStatuses)
	if err != nil {
		return false, fmt.Errorf("failed to count permission requests: %w", err)
	}
	return PermissionExceedsLimit(count), nil
}
