package visit

import (
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
)

// Kind tags the two visit variants stored in one table.
type Kind string

const (
	KindSite     Kind = "SITE"
	KindShowroom Kind = "SHOWROOM"
)

func (k Kind) IsValid() bool {
	return k == KindSite || k == KindShowroom
}

type VisitRequest struct {
	ID            string
	UserID        string
	Kind          Kind
	Date          time.Time // business-time midnight
	StartTime     string    // HH:MM
	EndTime       string    // HH:MM
	Location      string
	Reason        string
	TargetBhID    *string
	HRStatus      approval.Status
	Status        approval.Status
	ReviewedBy    *string
	ReviewedAt    *time.Time
	ReviewRemarks *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Join
	UserName *string
}
