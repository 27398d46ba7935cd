package leave

import (
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
)

type Kind string

const (
	KindCasual    Kind = "CASUAL"
	KindSick      Kind = "SICK"
	KindEarned    Kind = "EARNED"
	KindEmergency Kind = "EMERGENCY"
	KindHalfDay   Kind = "HALF_DAY"
	KindUnpaid    Kind = "UNPAID"
)

var Kinds = []Kind{KindCasual, KindSick, KindEarned, KindEmergency, KindHalfDay, KindUnpaid}

func (k Kind) IsValid() bool {
	for _, v := range Kinds {
		if v == k {
			return true
		}
	}
	return false
}

type LeaveRequest struct {
	ID              string
	UserID          string
	Kind            Kind
	StartDate       time.Time // business-time midnight
	EndDate         time.Time // business-time midnight, inclusive
	Reason          string
	TargetBhID      *string
	BHStatus        approval.Status
	HRStatus        approval.Status
	Status          approval.Status
	IsExceededLimit bool
	ReviewedBy      *string
	ReviewedAt      *time.Time
	ReviewRemarks   *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Join
	UserName *string
}

func (l *LeaveRequest) Approval() approval.TwoTier {
	return approval.TwoTier{
		BHStatus:   l.BHStatus,
		HRStatus:   l.HRStatus,
		Status:     l.Status,
		TargetBhID: l.TargetBhID,
	}
}

func (l *LeaveRequest) ApplyApproval(state approval.TwoTier) {
	l.BHStatus = state.BHStatus
	l.HRStatus = state.HRStatus
	l.Status = state.Status
}

// DaysIn counts the leave days falling inside [from, to]. A half-day leave is
// worth 0.5; any other leave counts each calendar day of the clipped range.
func (l *LeaveRequest) DaysIn(from, to time.Time) float64 {
	if l.Kind == KindHalfDay {
		if cycle.DaysBetween(from, l.StartDate) >= 0 && cycle.DaysBetween(l.StartDate, to) >= 0 {
			return 0.5
		}
		return 0
	}

	start := l.StartDate
	if cycle.DaysBetween(start, from) > 0 {
		start = from
	}
	end := l.EndDate
	if cycle.DaysBetween(to, end) > 0 {
		end = to
	}
	days := cycle.DaysBetween(start, end) + 1
	if days <= 0 {
		return 0
	}
	return float64(days)
}

// Covers reports whether the leave includes the business-time date of day.
func (l *LeaveRequest) Covers(day time.Time) bool {
	return cycle.DaysBetween(l.StartDate, day) >= 0 && cycle.DaysBetween(day, l.EndDate) >= 0
}

type PermissionRequest struct {
	ID              string
	UserID          string
	Date            time.Time // business-time midnight
	StartTime       string    // HH:MM
	EndTime         string    // HH:MM
	Reason          string
	TargetBhID      *string
	BHStatus        approval.Status
	HRStatus        approval.Status
	Status          approval.Status
	IsExceededLimit bool
	ReviewedBy      *string
	ReviewedAt      *time.Time
	ReviewRemarks   *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Join
	UserName *string
}

func (p *PermissionRequest) Approval() approval.TwoTier {
	return approval.TwoTier{
		BHStatus:   p.BHStatus,
		HRStatus:   p.HRStatus,
		Status:     p.Status,
		TargetBhID: p.TargetBhID,
	}
}

func (p *PermissionRequest) ApplyApproval(state approval.TwoTier) {
	p.BHStatus = state.BHStatus
	p.HRStatus = state.HRStatus
	p.Status = state.Status
}
