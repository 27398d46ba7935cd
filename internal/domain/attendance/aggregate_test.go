package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hh, mm int) time.Time {
	return time.Date(2026, time.March, day, hh, mm, 0, 0, cycle.Location)
}

func ptr(t time.Time) *time.Time { return &t }

func TestSession_TeaDeductedMeetingReported(t *testing.T) {
	a := Attendance{
		ID:           "a1",
		Date:         at(2, 9, 0),
		CheckoutTime: ptr(at(2, 18, 0)),
		Breaks: []BreakLog{
			{BreakType: BreakTea, StartTime: at(2, 11, 0), EndTime: ptr(at(2, 11, 15)), Duration: 15},
			{BreakType: BreakClientMeeting, StartTime: at(2, 14, 0), EndTime: ptr(at(2, 15, 0)), Duration: 60},
		},
	}

	s := Session(a)
	assert.Equal(t, 540, s.GrossMinutes)
	assert.Equal(t, 15, s.DeductibleMinutes)
	assert.Equal(t, 525, s.NetMinutes)
	assert.Equal(t, 60, s.MeetingMinutes)
	assert.False(t, s.Active)
}

func TestSession_OpenSessionHasNoGross(t *testing.T) {
	a := Attendance{
		ID:   "a1",
		Date: at(2, 9, 0),
		Breaks: []BreakLog{
			{BreakType: BreakLunch, Duration: 30},
		},
	}

	s := Session(a)
	assert.Equal(t, 0, s.GrossMinutes)
	assert.Equal(t, 0, s.NetMinutes)
	assert.Equal(t, 30, s.DeductibleMinutes)
	assert.True(t, s.Active)
}

func TestSession_NetNeverNegative(t *testing.T) {
	a := Attendance{
		Date:         at(2, 9, 0),
		CheckoutTime: ptr(at(2, 9, 20)),
		Breaks:       []BreakLog{{BreakType: BreakLunch, Duration: 45}},
	}
	assert.Equal(t, 0, Session(a).NetMinutes)
}

func TestAggregate_MergesSameDaySessions(t *testing.T) {
	records := []Attendance{
		{ID: "late", Date: at(3, 14, 0), CheckoutTime: ptr(at(3, 18, 30))},
		{ID: "early", Date: at(3, 9, 0), CheckoutTime: ptr(at(3, 12, 0)), Breaks: []BreakLog{{BreakType: BreakTea, Duration: 10}}},
		{ID: "prev", Date: at(2, 10, 0), CheckoutTime: ptr(at(2, 11, 0))},
		{ID: "open", Date: at(4, 9, 0)},
	}

	w := Aggregate(records)
	require.Len(t, w.Days, 3)
	assert.Equal(t, 3, w.PresentDays)

	assert.Equal(t, "2026-03-02", w.Days[0].Date)
	assert.Equal(t, 60, w.Days[0].NetMinutes)

	day := w.Days[1]
	assert.Equal(t, "2026-03-03", day.Date)
	assert.Equal(t, at(3, 9, 0), day.TimeIn)
	require.NotNil(t, day.TimeOut)
	assert.Equal(t, at(3, 18, 30), *day.TimeOut)
	assert.Equal(t, 180-10+270, day.NetMinutes)
	require.Len(t, day.Sessions, 2)
	assert.Equal(t, "early", day.Sessions[0].AttendanceID)

	open := w.Days[2]
	assert.True(t, open.HasActiveSession)
	assert.Nil(t, open.TimeOut)
	assert.Equal(t, 0, open.NetMinutes)

	assert.True(t, w.HasActiveSession)
	assert.Equal(t, 60+440, w.NetMinutes)
}

func TestAggregate_GroupsByBusinessDay(t *testing.T) {
	// 20:00 UTC on the 2nd is 01:30 on the 3rd in business time.
	checkIn := time.Date(2026, time.March, 2, 20, 0, 0, 0, time.UTC)
	w := Aggregate([]Attendance{{Date: checkIn, CheckoutTime: ptr(checkIn.Add(time.Hour))}})
	require.Len(t, w.Days, 1)
	assert.Equal(t, "2026-03-03", w.Days[0].Date)
}

func TestAggregate_Empty(t *testing.T) {
	w := Aggregate(nil)
	assert.Empty(t, w.Days)
	assert.Equal(t, 0, w.PresentDays)
	assert.False(t, w.HasActiveSession)
}

func TestEfficiencyAndConsistency(t *testing.T) {
	assert.InDelta(t, 1.0, Efficiency(1080, 2), 1e-9)
	assert.InDelta(t, 0.5, Efficiency(540, 2), 1e-9)
	assert.Equal(t, 0.0, Efficiency(100, 0))

	assert.InDelta(t, 0.75, Consistency(3, 4), 1e-9)
	assert.InDelta(t, 1.0, Consistency(6, 4), 1e-9)
	assert.Equal(t, 0.0, Consistency(2, 0))
}

func TestBreakMinutes(t *testing.T) {
	assert.Equal(t, 15, BreakMinutes(at(2, 11, 0), at(2, 11, 15)))
	assert.Equal(t, 14, BreakMinutes(at(2, 11, 0), at(2, 11, 14).Add(59*time.Second)))
	assert.Equal(t, 0, BreakMinutes(at(2, 11, 15), at(2, 11, 0)))
}

func TestWindowQuery(t *testing.T) {
	q := WindowQuery{}
	require.NoError(t, q.Validate())
	from, to, err := q.Bounds(at(10, 12, 0))
	require.NoError(t, err)
	assert.Equal(t, "2026-02-26", cycle.DateKey(from))
	assert.Equal(t, "2026-03-25", cycle.DateKey(to))

	q = WindowQuery{From: "2026-03-01", To: "2026-03-05"}
	require.NoError(t, q.Validate())
	from, to, err = q.Bounds(at(10, 12, 0))
	require.NoError(t, err)
	assert.Equal(t, at(1, 0, 0), from)
	assert.Equal(t, cycle.DayEnd(at(5, 0, 0)), to)

	bad := WindowQuery{From: "2026-03-05", To: "2026-03-01"}
	assert.Error(t, bad.Validate())
	half := WindowQuery{From: "2026-03-05"}
	assert.Error(t, half.Validate())
}
