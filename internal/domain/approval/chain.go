package approval

import "github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"

// Level is a step of the WFH review chain.
type Level int

const (
	LevelHR           Level = 1
	LevelBusinessHead Level = 2
	LevelAdmin        Level = 3
)

// LevelFor maps a role to the chain level it reviews at.
func LevelFor(role user.Role) (Level, bool) {
	switch role {
	case user.RoleHR:
		return LevelHR, true
	case user.RoleBusinessHead, user.RoleAEManager:
		return LevelBusinessHead, true
	case user.RoleAdmin:
		return LevelAdmin, true
	}
	return 0, false
}

// Chain is the review state of a WFH request.
type Chain struct {
	CurrentLevel Level
	HRStatus     Status
	BHStatus     Status
	AdminStatus  Status
	Status       Status
	TargetBhID   *string
}

func NewChain(targetBhID *string) Chain {
	return Chain{
		CurrentLevel: LevelHR,
		HRStatus:     StatusPending,
		BHStatus:     StatusPending,
		AdminStatus:  StatusPending,
		Status:       StatusPending,
		TargetBhID:   targetBhID,
	}
}

// ReviewChain applies decision at the actor's level. Only the role at the
// request's current level may act. A rejection at any level is terminal.
func ReviewChain(actor user.Actor, owner user.User, state Chain, decision Status) (Chain, error) {
	if _, err := ParseDecision(string(decision)); err != nil {
		return state, err
	}
	if state.Status != StatusPending {
		return state, ErrAlreadyProcessed
	}

	level, ok := LevelFor(actor.Role)
	if !ok {
		return state, ErrNotAuthorized
	}
	if level != state.CurrentLevel {
		return state, ErrNotYourLevel
	}
	if level == LevelBusinessHead && !businessHeadMayAct(actor, owner, state.TargetBhID) {
		return state, ErrNotAuthorized
	}

	switch level {
	case LevelHR:
		state.HRStatus = decision
	case LevelBusinessHead:
		state.BHStatus = decision
	case LevelAdmin:
		state.AdminStatus = decision
	}

	switch {
	case decision == StatusRejected:
		state.Status = StatusRejected
	case level == LevelAdmin:
		state.Status = StatusApproved
	default:
		state.CurrentLevel = level + 1
	}
	return state, nil
}
