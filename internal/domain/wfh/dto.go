package wfh

import (
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type CreateWfhRequest struct {
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Reason     string  `json:"reason"`
	TargetBhID *string `json:"target_bh_id,omitempty"`
}

func (r *CreateWfhRequest) Validate() error {
	var errs validator.ValidationErrors

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
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
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

type WfhRequestResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	UserName      *string         `json:"user_name,omitempty"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	Reason        string          `json:"reason"`
	TargetBhID    *string         `json:"target_bh_id,omitempty"`
	CurrentLevel  approval.Level  `json:"current_level"`
	HRStatus      approval.Status `json:"hr_status"`
	BHStatus      approval.Status `json:"bh_status"`
	AdminStatus   approval.Status `json:"admin_status"`
	Status        approval.Status `json:"status"`
	ReviewRemarks *string         `json:"review_remarks,omitempty"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

func (w WfhRequest) ToResponse() WfhRequestResponse {
	return WfhRequestResponse{
		ID:            w.ID,
		UserID:        w.UserID,
		UserName:      w.UserName,
		StartDate:     cycle.DateKey(w.StartDate),
		EndDate:       cycle.DateKey(w.EndDate),
		Reason:        w.Reason,
		TargetBhID:    w.TargetBhID,
		CurrentLevel:  w.CurrentLevel,
		HRStatus:      w.HRStatus,
		BHStatus:      w.BHStatus,
		AdminStatus:   w.AdminStatus,
		Status:        w.Status,
		ReviewRemarks: w.ReviewRemarks,
		CreatedAt:     w.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     w.UpdatedAt.Format(time.RFC3339),
	}
}

type ListWfhRequestResponse struct {
	Requests   []WfhRequestResponse `json:"requests"`
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
}
