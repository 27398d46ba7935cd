package cycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ist(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, Location)
}

func TestFor(t *testing.T) {
	cases := []struct {
		name      string
		ref       time.Time
		wantMonth time.Month
		wantYear  int
		wantStart string
		wantEnd   string
	}{
		{"mid cycle", ist(2026, time.February, 10, 12, 0), time.February, 2026, "2026-01-26", "2026-02-25"},
		{"first instant of cycle", ist(2026, time.January, 26, 0, 0), time.February, 2026, "2026-01-26", "2026-02-25"},
		{"last day of cycle", ist(2026, time.February, 25, 23, 59), time.February, 2026, "2026-01-26", "2026-02-25"},
		{"year rollover", ist(2025, time.December, 28, 9, 0), time.January, 2026, "2025-12-26", "2026-01-25"},
		{"utc instant already on the 26th in business time", time.Date(2026, time.January, 25, 19, 0, 0, 0, time.UTC), time.February, 2026, "2026-01-26", "2026-02-25"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := For(tc.ref)
			assert.Equal(t, tc.wantMonth, c.Month)
			assert.Equal(t, tc.wantYear, c.Year)
			assert.Equal(t, tc.wantStart, DateKey(c.Start))
			assert.Equal(t, tc.wantEnd, DateKey(c.End))
			assert.True(t, c.Contains(tc.ref))
		})
	}
}

func TestForLabel_Boundaries(t *testing.T) {
	c := ForLabel(2026, time.March)

	assert.Equal(t, ist(2026, time.February, 26, 0, 0), c.Start)
	assert.Equal(t, time.Date(2026, time.March, 25, 23, 59, 59, int(999*time.Millisecond), Location), c.End)
	assert.Equal(t, 28, c.Days())
	assert.Equal(t, "March 2026", c.Label())

	assert.False(t, c.Contains(c.Start.Add(-time.Millisecond)))
	assert.False(t, c.Contains(c.End.Add(time.Millisecond)))
}

func TestForLabel_NormalisesMonth(t *testing.T) {
	c := ForLabel(2026, 0)
	assert.Equal(t, time.December, c.Month)
	assert.Equal(t, 2025, c.Year)
}

func TestPrevNext(t *testing.T) {
	c := ForLabel(2026, time.January)
	assert.Equal(t, ForLabel(2025, time.December), c.Prev())
	assert.Equal(t, ForLabel(2026, time.February), c.Next())
}

func TestLatestCompleted(t *testing.T) {
	now := ist(2026, time.February, 3, 10, 0)
	c := LatestCompleted(now)
	assert.Equal(t, time.January, c.Month)
	assert.True(t, c.IsClosed(now))
	assert.False(t, For(now).IsClosed(now))
}

func TestDaysElapsed(t *testing.T) {
	c := ForLabel(2026, time.February)

	assert.Equal(t, 0, c.DaysElapsed(ist(2026, time.January, 20, 0, 0)))
	assert.Equal(t, 1, c.DaysElapsed(ist(2026, time.January, 26, 0, 0)))
	assert.Equal(t, 3, c.DaysElapsed(ist(2026, time.January, 28, 10, 0)))
	assert.Equal(t, 31, c.DaysElapsed(ist(2026, time.March, 1, 0, 0)))
}

func TestTouching(t *testing.T) {
	cycles := Touching(ist(2026, time.January, 20, 0, 0), ist(2026, time.February, 27, 0, 0))
	require.Len(t, cycles, 3)
	assert.Equal(t, time.January, cycles[0].Month)
	assert.Equal(t, time.February, cycles[1].Month)
	assert.Equal(t, time.March, cycles[2].Month)

	assert.Len(t, Touching(ist(2026, time.February, 1, 0, 0), ist(2026, time.February, 2, 0, 0)), 1)
	assert.Nil(t, Touching(ist(2026, time.February, 2, 0, 0), ist(2026, time.February, 1, 0, 0)))
}

func TestDayHelpers(t *testing.T) {
	ref := time.Date(2026, time.March, 4, 20, 0, 0, 0, time.UTC) // 01:30 on the 5th in business time

	assert.Equal(t, "2026-03-05", DateKey(ref))
	assert.Equal(t, ist(2026, time.March, 5, 0, 0), DayStart(ref))
	assert.Equal(t, 999*time.Millisecond+59*time.Second+59*time.Minute+23*time.Hour, DayEnd(ref).Sub(DayStart(ref)))

	d, err := ParseDate("2026-03-05")
	require.NoError(t, err)
	assert.Equal(t, DayStart(ref), d)

	_, err = ParseDate("05-03-2026")
	assert.Error(t, err)

	assert.Equal(t, 0, DaysBetween(ist(2026, time.March, 5, 0, 0), ist(2026, time.March, 5, 23, 0)))
	assert.Equal(t, 2, DaysBetween(ist(2026, time.February, 27, 23, 0), ist(2026, time.March, 1, 1, 0)))
	assert.Equal(t, -1, DaysBetween(ist(2026, time.March, 2, 0, 0), ist(2026, time.March, 1, 0, 0)))
}
