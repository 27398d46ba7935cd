package postgresql

import (
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
	"github.com/google/uuid"
)

// DATE columns come back as UTC midnight; records carry business-time midnight.
func businessDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, cycle.Location)
}

func dateArg(t time.Time) string {
	return cycle.DateKey(t)
}

func statusArgs(statuses []approval.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
