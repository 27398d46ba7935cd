package wfh

import (
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
)

type WfhRequest struct {
	ID            string
	UserID        string
	StartDate     time.Time
	EndDate       time.Time
	Reason        string
	TargetBhID    *string
	CurrentLevel  approval.Level
	HRStatus      approval.Status
	BHStatus      approval.Status
	AdminStatus   approval.Status
	Status        approval.Status
	ReviewRemarks *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Join
	UserName *string
}

func (w *WfhRequest) Chain() approval.Chain {
	return approval.Chain{
		CurrentLevel: w.CurrentLevel,
		HRStatus:     w.HRStatus,
		BHStatus:     w.BHStatus,
		AdminStatus:  w.AdminStatus,
		Status:       w.Status,
		TargetBhID:   w.TargetBhID,
	}
}

func (w *WfhRequest) ApplyChain(c approval.Chain) {
	w.CurrentLevel = c.CurrentLevel
	w.HRStatus = c.HRStatus
	w.BHStatus = c.BHStatus
	w.AdminStatus = c.AdminStatus
	w.Status = c.Status
}
