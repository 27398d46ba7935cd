package payroll

import (
	"strconv"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

const (
	SelectCurrent = "current"
	SelectLatest  = "latest"
	SelectMonth   = "month"
)

// Selector picks the cycle a salary is computed for.
type Selector struct {
	Mode  string
	Month time.Month
	Year  int
}

// ParseSelector reads the cycle, month and year query values. Month and year
// together select the cycle with that label; an empty cycle means current.
func ParseSelector(mode, month, year string) (Selector, error) {
	var errs validator.ValidationErrors

	if month != "" || year != "" {
		m, err := strconv.Atoi(month)
		if err != nil || !validator.IsValidMonth(m) {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be between 1 and 12",
			})
		}
		y, err := strconv.Atoi(year)
		if err != nil || y < 2000 || y > 2100 {
			errs = append(errs, validator.ValidationError{
				Field:   "year",
				Message: "year must be a valid year",
			})
		}
		if len(errs) > 0 {
			return Selector{}, errs
		}
		return Selector{Mode: SelectMonth, Month: time.Month(m), Year: y}, nil
	}

	switch mode {
	case "", SelectCurrent:
		return Selector{Mode: SelectCurrent}, nil
	case SelectLatest:
		return Selector{Mode: SelectLatest}, nil
	}
	errs = append(errs, validator.ValidationError{
		Field:   "cycle",
		Message: "cycle must be current or latest, or provide month and year",
	})
	return Selector{}, errs
}

// Resolve turns the selector into a cycle relative to now.
func (s Selector) Resolve(now time.Time) cycle.Cycle {
	switch s.Mode {
	case SelectLatest:
		return cycle.LatestCompleted(now)
	case SelectMonth:
		return cycle.ForLabel(s.Year, s.Month)
	}
	return cycle.For(now)
}

type SettingsResponse struct {
	TimeShortageDeductionEnabled bool `json:"time_shortage_deduction_enabled"`
}

type UpdateSettingsRequest struct {
	TimeShortageDeductionEnabled *bool `json:"time_shortage_deduction_enabled"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.TimeShortageDeductionEnabled == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "time_shortage_deduction_enabled",
			Message: "time_shortage_deduction_enabled is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
