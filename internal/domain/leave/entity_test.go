package leave

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, cycle.Location)
}

func TestLeaveRequest_DaysIn(t *testing.T) {
	feb := cycle.ForLabel(2026, time.February)
	mar := cycle.ForLabel(2026, time.March)

	spanning := LeaveRequest{Kind: KindCasual, StartDate: date(2026, time.February, 23), EndDate: date(2026, time.February, 28)}
	assert.Equal(t, 3.0, spanning.DaysIn(feb.Start, feb.End))
	assert.Equal(t, 3.0, spanning.DaysIn(mar.Start, mar.End))

	single := LeaveRequest{Kind: KindSick, StartDate: date(2026, time.February, 10), EndDate: date(2026, time.February, 10)}
	assert.Equal(t, 1.0, single.DaysIn(feb.Start, feb.End))
	assert.Equal(t, 0.0, single.DaysIn(mar.Start, mar.End))

	half := LeaveRequest{Kind: KindHalfDay, StartDate: date(2026, time.February, 25), EndDate: date(2026, time.February, 25)}
	assert.Equal(t, 0.5, half.DaysIn(feb.Start, feb.End))
	assert.Equal(t, 0.0, half.DaysIn(mar.Start, mar.End))
}

func TestLeaveRequest_DaysIn_UTCDates(t *testing.T) {
	// Dates scanned from a DATE column arrive as UTC midnight.
	feb := cycle.ForLabel(2026, time.February)
	l := LeaveRequest{Kind: KindCasual, StartDate: time.Date(2026, time.January, 26, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2026, time.January, 29, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 4.0, l.DaysIn(feb.Start, feb.End))
}

func TestLeaveRequest_Covers(t *testing.T) {
	l := LeaveRequest{StartDate: date(2026, time.March, 2), EndDate: date(2026, time.March, 4)}
	assert.False(t, l.Covers(date(2026, time.March, 1)))
	assert.True(t, l.Covers(date(2026, time.March, 2)))
	assert.True(t, l.Covers(date(2026, time.March, 4).Add(23*time.Hour)))
	assert.False(t, l.Covers(date(2026, time.March, 5)))
}

func TestCreateLeaveRequest_Validate(t *testing.T) {
	ok := CreateLeaveRequest{Kind: "CASUAL", StartDate: "2026-03-02", EndDate: "2026-03-04", Reason: "family"}
	assert.NoError(t, ok.Validate())

	backwards := ok
	backwards.EndDate = "2026-03-01"
	assert.Error(t, backwards.Validate())

	half := CreateLeaveRequest{Kind: "HALF_DAY", StartDate: "2026-03-02", EndDate: "2026-03-03", Reason: "clinic"}
	assert.Error(t, half.Validate())

	missing := CreateLeaveRequest{Kind: "VACATION", StartDate: "x", EndDate: "2026-03-01"}
	assert.Error(t, missing.Validate())
}

func TestCreatePermissionRequest_Validate(t *testing.T) {
	ok := CreatePermissionRequest{Date: "2026-03-02", StartTime: "10:00", EndTime: "12:00", Reason: "bank"}
	assert.NoError(t, ok.Validate())

	inverted := ok
	inverted.EndTime = "09:00"
	assert.Error(t, inverted.Validate())
}
