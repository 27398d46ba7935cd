package attendance

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
)

// ExpectedMinutesPerDay is the daily target used for efficiency scoring.
const ExpectedMinutesPerDay = 540

type SessionTotals struct {
	AttendanceID      string     `json:"attendance_id"`
	CheckIn           time.Time  `json:"check_in"`
	CheckOut          *time.Time `json:"check_out,omitempty"`
	GrossMinutes      int        `json:"gross_minutes"`
	DeductibleMinutes int        `json:"deductible_break_minutes"`
	MeetingMinutes    int        `json:"meeting_minutes"`
	NetMinutes        int        `json:"net_minutes"`
	Active            bool       `json:"active"`
}

type DayTotals struct {
	Date              string          `json:"date"`
	TimeIn            time.Time       `json:"time_in"`
	TimeOut           *time.Time      `json:"time_out,omitempty"`
	Sessions          []SessionTotals `json:"sessions"`
	GrossMinutes      int             `json:"gross_minutes"`
	DeductibleMinutes int             `json:"deductible_break_minutes"`
	MeetingMinutes    int             `json:"meeting_minutes"`
	NetMinutes        int             `json:"net_minutes"`
	HasActiveSession  bool            `json:"has_active_session"`
}

type WindowTotals struct {
	Days              []DayTotals `json:"days"`
	PresentDays       int         `json:"present_days"`
	GrossMinutes      int         `json:"gross_minutes"`
	DeductibleMinutes int         `json:"deductible_break_minutes"`
	MeetingMinutes    int         `json:"meeting_minutes"`
	NetMinutes        int         `json:"net_minutes"`
	HasActiveSession  bool        `json:"has_active_session"`
}

// NetHours returns net working time in hours.
func (w WindowTotals) NetHours() float64 {
	return float64(w.NetMinutes) / 60
}

// Session computes the totals of one attendance record. An open session has
// zero gross time and is flagged active.
func Session(a Attendance) SessionTotals {
	s := SessionTotals{
		AttendanceID: a.ID,
		CheckIn:      a.Date,
		CheckOut:     a.CheckoutTime,
		Active:       a.IsOpen(),
	}
	for _, b := range a.Breaks {
		switch {
		case b.BreakType.IsDeductible():
			s.DeductibleMinutes += b.Duration
		case b.BreakType.IsMeeting():
			s.MeetingMinutes += b.Duration
		}
	}
	if a.CheckoutTime != nil && a.CheckoutTime.After(a.Date) {
		s.GrossMinutes = int(a.CheckoutTime.Sub(a.Date) / time.Minute)
	}
	s.NetMinutes = max(0, s.GrossMinutes-s.DeductibleMinutes)
	return s
}

// Aggregate groups records by business-time calendar day of check-in and sums
// them per day and over the whole window. Days are returned in date order.
func Aggregate(records []Attendance) WindowTotals {
	byDay := make(map[string]*DayTotals)
	var keys []string

	for _, a := range records {
		s := Session(a)
		key := cycle.DateKey(a.Date)
		day, ok := byDay[key]
		if !ok {
			day = &DayTotals{Date: key, TimeIn: a.Date}
			byDay[key] = day
			keys = append(keys, key)
		}
		if a.Date.Before(day.TimeIn) {
			day.TimeIn = a.Date
		}
		if a.CheckoutTime != nil && (day.TimeOut == nil || a.CheckoutTime.After(*day.TimeOut)) {
			out := *a.CheckoutTime
			day.TimeOut = &out
		}
		day.Sessions = append(day.Sessions, s)
		day.GrossMinutes += s.GrossMinutes
		day.DeductibleMinutes += s.DeductibleMinutes
		day.MeetingMinutes += s.MeetingMinutes
		day.NetMinutes += s.NetMinutes
		day.HasActiveSession = day.HasActiveSession || s.Active
	}

	sort.Strings(keys)
	w := WindowTotals{Days: make([]DayTotals, 0, len(keys))}
	for _, key := range keys {
		day := byDay[key]
		sort.Slice(day.Sessions, func(i, j int) bool {
			return day.Sessions[i].CheckIn.Before(day.Sessions[j].CheckIn)
		})
		w.Days = append(w.Days, *day)
		w.GrossMinutes += day.GrossMinutes
		w.DeductibleMinutes += day.DeductibleMinutes
		w.MeetingMinutes += day.MeetingMinutes
		w.NetMinutes += day.NetMinutes
		w.HasActiveSession = w.HasActiveSession || day.HasActiveSession
	}
	w.PresentDays = len(w.Days)
	return w
}

// Efficiency is net minutes over the expected minutes for the present days.
func Efficiency(netMinutes, presentDays int) float64 {
	if presentDays <= 0 {
		return 0
	}
	return float64(netMinutes) / float64(presentDays*ExpectedMinutesPerDay)
}

// Consistency is the share of present days with a submitted work log.
func Consistency(submittedDays, presentDays int) float64 {
	if presentDays <= 0 {
		return 0
	}
	return float64(min(submittedDays, presentDays)) / float64(presentDays)
}
