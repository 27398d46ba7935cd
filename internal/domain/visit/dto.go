package visit

import (
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type CreateVisitRequest struct {
	Kind       string  `json:"visit_type"`
	Date       string  `json:"date"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	Location   string  `json:"location"`
	Reason     string  `json:"reason"`
	TargetBhID *string `json:"target_bh_id,omitempty"`
}

func (r *CreateVisitRequest) Validate() error {
	var errs validator.ValidationErrors

	if !Kind(r.Kind).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "visit_type",
			Message: "visit_type must be SITE or SHOWROOM",
		})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	start, startOK := validator.IsValidClock(r.StartTime)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time must be in HH:MM format",
		})
	}
	end, endOK := validator.IsValidClock(r.EndTime)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be in HH:MM format",
		})
	}
	if startOK && endOK && !end.After(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be after start_time",
		})
	}

	if validator.IsEmpty(r.Location) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location is required",
		})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}
	if r.TargetBhID != nil && !validator.IsValidUUID(*r.TargetBhID) {
		errs = append(errs, validator.ValidationError{
			Field:   "target_bh_id",
			Message: "target_bh_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type VisitRequestResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	UserName      *string         `json:"user_name,omitempty"`
	Kind          Kind            `json:"visit_type"`
	Date          string          `json:"date"`
	StartTime     string          `json:"start_time"`
	EndTime       string          `json:"end_time"`
	Location      string          `json:"location"`
	Reason        string          `json:"reason"`
	TargetBhID    *string         `json:"target_bh_id,omitempty"`
	HRStatus      approval.Status `json:"hr_status"`
	Status        approval.Status `json:"status"`
	ReviewedBy    *string         `json:"reviewed_by,omitempty"`
	ReviewedAt    *string         `json:"reviewed_at,omitempty"`
	ReviewRemarks *string         `json:"review_remarks,omitempty"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

func (v VisitRequest) ToResponse() VisitRequestResponse {
	resp := VisitRequestResponse{
		ID:            v.ID,
		UserID:        v.UserID,
		UserName:      v.UserName,
		Kind:          v.Kind,
		Date:          cycle.DateKey(v.Date),
		StartTime:     v.StartTime,
		EndTime:       v.EndTime,
		Location:      v.Location,
		Reason:        v.Reason,
		TargetBhID:    v.TargetBhID,
		HRStatus:      v.HRStatus,
		Status:        v.Status,
		ReviewedBy:    v.ReviewedBy,
		ReviewRemarks: v.ReviewRemarks,
		CreatedAt:     v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     v.UpdatedAt.Format(time.RFC3339),
	}
	if v.ReviewedAt != nil {
		at := v.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &at
	}
	return resp
}

type ListVisitRequestResponse struct {
	Requests   []VisitRequestResponse `json:"requests"`
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}
