package attendance

import (
	"time"
)

type BreakType string

const (
	BreakTea              BreakType = "TEA"
	BreakLunch            BreakType = "LUNCH"
	BreakClientMeeting    BreakType = "CLIENT_MEETING"
	BreakBHMeeting        BreakType = "BH_MEETING"
	BreakOnlineDiscussion BreakType = "ONLINE_DISCUSSION"
)

var BreakTypes = []BreakType{BreakTea, BreakLunch, BreakClientMeeting, BreakBHMeeting, BreakOnlineDiscussion}

func (b BreakType) IsValid() bool {
	for _, v := range BreakTypes {
		if v == b {
			return true
		}
	}
	return false
}

// IsDeductible reports whether the break is subtracted from working time.
func (b BreakType) IsDeductible() bool {
	return b == BreakTea || b == BreakLunch
}

// IsMeeting reports whether the break counts as working time.
func (b BreakType) IsMeeting() bool {
	return b == BreakClientMeeting || b == BreakBHMeeting || b == BreakOnlineDiscussion
}

// Attendance is one check-in session. A user has at most one open session.
type Attendance struct {
	ID           string
	UserID       string
	Date         time.Time // check-in instant
	CheckoutTime *time.Time
	Device       *string
	IPAddress    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Breaks []BreakLog
}

func (a *Attendance) IsOpen() bool {
	return a.CheckoutTime == nil
}

type BreakLog struct {
	ID           string
	AttendanceID string
	BreakType    BreakType
	StartTime    time.Time
	EndTime      *time.Time
	Duration     int // minutes, set on close
	CreatedAt    time.Time

	// Join
	UserID string
}

func (b *BreakLog) IsOpen() bool {
	return b.EndTime == nil
}

// BreakMinutes is the whole-minute length of a break, never negative.
func BreakMinutes(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start) / time.Minute)
}
