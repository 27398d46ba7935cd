package leave

import (
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type CreateLeaveRequest struct {
	Kind       string  `json:"leave_type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Reason     string  `json:"reason"`
	TargetBhID *string `json:"target_bh_id,omitempty"`
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !Kind(r.Kind).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of CASUAL, SICK, EARNED, EMERGENCY, HALF_DAY, UNPAID",
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		} else if Kind(r.Kind) == KindHalfDay && !end.Equal(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "a half-day leave must start and end on the same date",
			})
		}
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

type LeaveRequestResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	UserName        *string         `json:"user_name,omitempty"`
	Kind            Kind            `json:"leave_type"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	Reason          string          `json:"reason"`
	TargetBhID      *string         `json:"target_bh_id,omitempty"`
	BHStatus        approval.Status `json:"bh_status"`
	HRStatus        approval.Status `json:"hr_status"`
	Status          approval.Status `json:"status"`
	IsExceededLimit bool            `json:"is_exceeded_limit"`
	ReviewedBy      *string         `json:"reviewed_by,omitempty"`
	ReviewedAt      *string         `json:"reviewed_at,omitempty"`
	ReviewRemarks   *string         `json:"review_remarks,omitempty"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

func (l LeaveRequest) ToResponse() LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:              l.ID,
		UserID:          l.UserID,
		UserName:        l.UserName,
		Kind:            l.Kind,
		StartDate:       cycle.DateKey(l.StartDate),
		EndDate:         cycle.DateKey(l.EndDate),
		Reason:          l.Reason,
		TargetBhID:      l.TargetBhID,
		BHStatus:        l.BHStatus,
		HRStatus:        l.HRStatus,
		Status:          l.Status,
		IsExceededLimit: l.IsExceededLimit,
		ReviewedBy:      l.ReviewedBy,
		ReviewedAt:      formatOptional(l.ReviewedAt),
		ReviewRemarks:   l.ReviewRemarks,
		CreatedAt:       l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       l.UpdatedAt.Format(time.RFC3339),
	}
}

type ListLeaveRequestResponse struct {
	Requests   []LeaveRequestResponse `json:"requests"`
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

type CreatePermissionRequest struct {
	Date       string  `json:"date"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	Reason     string  `json:"reason"`
	TargetBhID *string `json:"target_bh_id,omitempty"`
}

func (r *CreatePermissionRequest) Validate() error {
	var errs validator.ValidationErrors

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

type PermissionRequestResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	UserName        *string         `json:"user_name,omitempty"`
	Date            string          `json:"date"`
	StartTime       string          `json:"start_time"`
	EndTime         string          `json:"end_time"`
	Reason          string          `json:"reason"`
	TargetBhID      *string         `json:"target_bh_id,omitempty"`
	BHStatus        approval.Status `json:"bh_status"`
	HRStatus        approval.Status `json:"hr_status"`
	Status          approval.Status `json:"status"`
	IsExceededLimit bool            `json:"is_exceeded_limit"`
	ReviewedBy      *string         `json:"reviewed_by,omitempty"`
	ReviewedAt      *string         `json:"reviewed_at,omitempty"`
	ReviewRemarks   *string         `json:"review_remarks,omitempty"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

func (p PermissionRequest) ToResponse() PermissionRequestResponse {
	return PermissionRequestResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		UserName:        p.UserName,
		Date:            cycle.DateKey(p.Date),
		StartTime:       p.StartTime,
		EndTime:         p.EndTime,
		Reason:          p.Reason,
		TargetBhID:      p.TargetBhID,
		BHStatus:        p.BHStatus,
		HRStatus:        p.HRStatus,
		Status:          p.Status,
		IsExceededLimit: p.IsExceededLimit,
		ReviewedBy:      p.ReviewedBy,
		ReviewedAt:      formatOptional(p.ReviewedAt),
		ReviewRemarks:   p.ReviewRemarks,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       p.UpdatedAt.Format(time.RFC3339),
	}
}

type ListPermissionRequestResponse struct {
	Requests   []PermissionRequestResponse `json:"requests"`
	TotalCount int64                       `json:"total_count"`
	Page       int                         `json:"page"`
	Limit      int                         `json:"limit"`
	TotalPages int                         `json:"total_pages"`
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
