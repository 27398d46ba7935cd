package attendance

import (
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type CheckInRequest struct {
	Device    *string `json:"device,omitempty"`
	IPAddress *string `json:"-"`
}

type AttendanceResponse struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Date         string          `json:"date"`
	CheckoutTime *string         `json:"checkout_time,omitempty"`
	Device       *string         `json:"device,omitempty"`
	IPAddress    *string         `json:"ip_address,omitempty"`
	Breaks       []BreakResponse `json:"breaks"`
	Totals       SessionTotals   `json:"totals"`
}

func (a Attendance) ToResponse() AttendanceResponse {
	resp := AttendanceResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Date:      a.Date.Format(time.RFC3339),
		Device:    a.Device,
		IPAddress: a.IPAddress,
		Breaks:    make([]BreakResponse, 0, len(a.Breaks)),
		Totals:    Session(a),
	}
	if a.CheckoutTime != nil {
		out := a.CheckoutTime.Format(time.RFC3339)
		resp.CheckoutTime = &out
	}
	for _, b := range a.Breaks {
		resp.Breaks = append(resp.Breaks, b.ToResponse())
	}
	return resp
}

type StartBreakRequest struct {
	BreakType string `json:"break_type"`
}

func (r *StartBreakRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.BreakType) {
		errs = append(errs, validator.ValidationError{
			Field:   "break_type",
			Message: "break_type is required",
		})
	} else if !BreakType(r.BreakType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "break_type",
			Message: "break_type must be one of TEA, LUNCH, CLIENT_MEETING, BH_MEETING, ONLINE_DISCUSSION",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BreakResponse struct {
	ID           string    `json:"id"`
	AttendanceID string    `json:"attendance_id"`
	BreakType    BreakType `json:"break_type"`
	StartTime    string    `json:"start_time"`
	EndTime      *string   `json:"end_time,omitempty"`
	Duration     int       `json:"duration"`
}

func (b BreakLog) ToResponse() BreakResponse {
	resp := BreakResponse{
		ID:           b.ID,
		AttendanceID: b.AttendanceID,
		BreakType:    b.BreakType,
		StartTime:    b.StartTime.Format(time.RFC3339),
		Duration:     b.Duration,
	}
	if b.EndTime != nil {
		end := b.EndTime.Format(time.RFC3339)
		resp.EndTime = &end
	}
	return resp
}

// WindowQuery selects a date range by YYYY-MM-DD bounds. An empty query means
// the cycle containing now.
type WindowQuery struct {
	From string
	To   string
}

func (q *WindowQuery) Validate() error {
	var errs validator.ValidationErrors

	if (q.From == "") != (q.To == "") {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from and to must be provided together",
		})
	}
	if q.From != "" {
		if _, ok := validator.IsValidDate(q.From); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "from",
				Message: "from must be in YYYY-MM-DD format",
			})
		}
	}
	if q.To != "" {
		if _, ok := validator.IsValidDate(q.To); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must be in YYYY-MM-DD format",
			})
		}
	}
	if len(errs) == 0 && q.From != "" && q.To < q.From {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must not be before from",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Bounds resolves the query to business-time instants, start of from through end of to.
func (q WindowQuery) Bounds(now time.Time) (time.Time, time.Time, error) {
	if q.From == "" {
		c := cycle.For(now)
		return c.Start, c.End, nil
	}
	from, err := cycle.ParseDate(q.From)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidWindow
	}
	to, err := cycle.ParseDate(q.To)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidWindow
	}
	return from, cycle.DayEnd(to), nil
}

type SummaryResponse struct {
	UserID                 string  `json:"user_id"`
	From                   string  `json:"from"`
	To                     string  `json:"to"`
	PresentDays            int     `json:"present_days"`
	GrossMinutes           int     `json:"gross_minutes"`
	DeductibleBreakMinutes int     `json:"deductible_break_minutes"`
	MeetingMinutes         int     `json:"meeting_minutes"`
	NetMinutes             int     `json:"net_minutes"`
	NetHours               float64 `json:"net_hours"`
	Efficiency             float64 `json:"efficiency"`
	SubmittedWorkLogDays   int     `json:"submitted_work_log_days"`
	ConsistencyScore       float64 `json:"consistency_score"`
	HasActiveSession       bool    `json:"has_active_session"`
}
