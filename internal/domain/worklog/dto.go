package worklog

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type UpsertWorkLogRequest struct {
	WorkDate string `json:"work_date"`
	Fields   Fields `json:"fields"`
	Submit   bool   `json:"submit"`
}

func (r *UpsertWorkLogRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.WorkDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "work_date",
			Message: "work_date must be in YYYY-MM-DD format",
		})
	}
	for k, v := range r.Fields {
		if validator.IsEmpty(k) {
			errs = append(errs, validator.ValidationError{
				Field:   "fields",
				Message: "field names must not be empty",
			})
			break
		}
		r.Fields[k] = strings.TrimSpace(v)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type WorkLogResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	WorkDate    string  `json:"work_date"`
	Designation string  `json:"designation"`
	Status      Status  `json:"status"`
	Fields      Fields  `json:"fields"`
	SubmittedAt *string `json:"submitted_at,omitempty"`
	UpdatedAt   string  `json:"updated_at"`
}

func (w WorkLog) ToResponse() WorkLogResponse {
	resp := WorkLogResponse{
		ID:          w.ID,
		UserID:      w.UserID,
		WorkDate:    cycle.DateKey(w.WorkDate),
		Designation: string(w.Designation),
		Status:      w.Status,
		Fields:      w.Fields,
		UpdatedAt:   w.UpdatedAt.Format(time.RFC3339),
	}
	if w.SubmittedAt != nil {
		at := w.SubmittedAt.Format(time.RFC3339)
		resp.SubmittedAt = &at
	}
	return resp
}
