// Package cycle computes payroll cycle boundaries. A cycle runs from the 26th
// of one month to the 25th of the next and is named after the month it ends in.
// All wall-clock arithmetic happens in a fixed UTC+05:30 business offset.
package cycle

import (
	"fmt"
	"time"
)

// Location is the business timezone. It is a fixed offset so results never
// depend on the host's tz database.
var Location = time.FixedZone("IST", 5*60*60+30*60)

const (
	StartDay = 26
	EndDay   = 25

	DateLayout = "2006-01-02"
)

type Cycle struct {
	Start time.Time // 00:00:00.000 business time on the 26th
	End   time.Time // 23:59:59.999 business time on the 25th
	Month time.Month
	Year  int
}

// For returns the cycle that contains ref.
func For(ref time.Time) Cycle {
	year, month, day := ref.In(Location).Date()
	if day >= StartDay {
		month++
	}
	return ForLabel(year, month)
}

// ForLabel returns the cycle named after the given month, e.g. February 2026
// runs from 26 January 2026 to 25 February 2026. Out-of-range months are
// normalised the way time.Date does it.
func ForLabel(year int, month time.Month) Cycle {
	end := time.Date(year, month, EndDay, 23, 59, 59, int(999*time.Millisecond), Location)
	start := time.Date(end.Year(), end.Month()-1, StartDay, 0, 0, 0, 0, Location)
	return Cycle{
		Start: start,
		End:   end,
		Month: end.Month(),
		Year:  end.Year(),
	}
}

// LatestCompleted returns the most recent cycle whose end is before now.
func LatestCompleted(now time.Time) Cycle {
	return For(now).Prev()
}

func (c Cycle) Prev() Cycle {
	return ForLabel(c.Year, c.Month-1)
}

func (c Cycle) Next() Cycle {
	return ForLabel(c.Year, c.Month+1)
}

// Contains reports whether t falls inside the cycle, both ends inclusive.
func (c Cycle) Contains(t time.Time) bool {
	return !t.Before(c.Start) && !t.After(c.End)
}

// Days is the number of calendar days in the cycle.
func (c Cycle) Days() int {
	return DaysBetween(c.Start, c.End) + 1
}

// DaysElapsed counts cycle days that have started on or before now, capped to
// the cycle length.
func (c Cycle) DaysElapsed(now time.Time) int {
	if now.Before(c.Start) {
		return 0
	}
	if now.After(c.End) {
		return c.Days()
	}
	return DaysBetween(c.Start, now) + 1
}

// IsClosed reports whether the cycle ended before now.
func (c Cycle) IsClosed(now time.Time) bool {
	return now.After(c.End)
}

func (c Cycle) Label() string {
	return fmt.Sprintf("%s %d", c.Month, c.Year)
}

func (c Cycle) String() string {
	return fmt.Sprintf("%s (%s..%s)", c.Label(), c.Start.Format(DateLayout), c.End.Format(DateLayout))
}

// Touching returns every cycle overlapping [from, to] in chronological order.
func Touching(from, to time.Time) []Cycle {
	if to.Before(from) {
		return nil
	}
	var cycles []Cycle
	last := For(to)
	for c := For(from); !c.Start.After(last.Start); c = c.Next() {
		cycles = append(cycles, c)
	}
	return cycles
}

// DayStart returns 00:00 business time of the day containing t.
func DayStart(t time.Time) time.Time {
	y, m, d := t.In(Location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, Location)
}

// DayEnd returns 23:59:59.999 business time of the day containing t.
func DayEnd(t time.Time) time.Time {
	y, m, d := t.In(Location).Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), Location)
}

// DateKey formats the business-time calendar date of t.
func DateKey(t time.Time) string {
	return t.In(Location).Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date as business-time midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, Location)
}

// DaysBetween counts whole calendar days from a's date to b's date in business
// time. It is negative when b's date precedes a's.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.In(Location).Date()
	by, bm, bd := b.In(Location).Date()
	// UTC dates avoid any offset drift while counting.
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
