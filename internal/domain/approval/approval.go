// Package approval holds the review rules shared by every request kind.
// Functions here are pure: they take the actor, the request owner and the
// current state and return the next state, leaving persistence to callers.
package approval

import (
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ParseDecision accepts APPROVED or REJECTED.
func ParseDecision(s string) (Status, error) {
	switch Status(s) {
	case StatusApproved, StatusRejected:
		return Status(s), nil
	}
	return "", ErrInvalidDecision
}

// TwoTier is the review state of leave and permission requests.
type TwoTier struct {
	BHStatus   Status
	HRStatus   Status
	Status     Status
	TargetBhID *string
}

func NewTwoTier(targetBhID *string) TwoTier {
	return TwoTier{
		BHStatus:   StatusPending,
		HRStatus:   StatusPending,
		Status:     StatusPending,
		TargetBhID: targetBhID,
	}
}

// ReviewTwoTier applies decision by actor. A business-head rejection is
// terminal; a business-head approval waits for HR. HR and ADMIN decide the
// overall status directly.
func ReviewTwoTier(actor user.Actor, owner user.User, state TwoTier, decision Status) (TwoTier, error) {
	if _, err := ParseDecision(string(decision)); err != nil {
		return state, err
	}
	if state.Status != StatusPending {
		return state, ErrAlreadyProcessed
	}

	switch {
	case actor.Role.IsAdminTier():
		state.HRStatus = decision
		state.Status = decision
		return state, nil

	case actor.Role.IsBHTier():
		if !businessHeadMayAct(actor, owner, state.TargetBhID) {
			return state, ErrNotAuthorized
		}
		if state.BHStatus != StatusPending {
			return state, ErrAlreadyReviewed
		}
		state.BHStatus = decision
		if decision == StatusRejected {
			state.Status = StatusRejected
		}
		return state, nil
	}

	return state, ErrNotAuthorized
}

// ReviewVisit applies decision to a site or showroom visit. Only HR and ADMIN
// review visits.
func ReviewVisit(actor user.Actor, status Status, decision Status) (Status, error) {
	if _, err := ParseDecision(string(decision)); err != nil {
		return status, err
	}
	if actor.Role.IsBHTier() {
		return status, ErrVisitApprovalForbidden
	}
	if !actor.Role.IsAdminTier() {
		return status, ErrNotAuthorized
	}
	if status != StatusPending {
		return status, ErrAlreadyProcessed
	}
	return decision, nil
}

// CanDelete reports whether actor may hard-delete any request.
func CanDelete(actor user.Actor) bool {
	return actor.Role.IsAdminTier()
}

// businessHeadMayAct checks the target and, for AE managers, the owner's designation.
func businessHeadMayAct(actor user.Actor, owner user.User, targetBhID *string) bool {
	if targetBhID != nil && *targetBhID != actor.ID {
		return false
	}
	if actor.Role == user.RoleAEManager && owner.Designation != user.DesignationAE {
		return false
	}
	return true
}
