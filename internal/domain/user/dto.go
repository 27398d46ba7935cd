package user

import (
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID                           string             `json:"id"`
	Name                         string             `json:"name"`
	Email                        string             `json:"email"`
	Phone                        *string            `json:"phone,omitempty"`
	Role                         Role               `json:"role"`
	Designation                  Designation        `json:"designation"`
	Status                       Status             `json:"status"`
	ReportingBhID                *string            `json:"reporting_bh_id,omitempty"`
	AllocatedSalary              *decimal.Decimal   `json:"allocated_salary,omitempty"`
	SalaryDeductions             *decimal.Decimal   `json:"salary_deductions,omitempty"`
	SalaryDeductionBreakdown     DeductionBreakdown `json:"salaryDeductionBreakdown,omitempty"`
	SalaryViewEnabled            bool               `json:"salary_view_enabled"`
	TimeShortageDeductionEnabled bool               `json:"time_shortage_deduction_enabled"`
	CreatedAt                    string             `json:"created_at"`
	UpdatedAt                    string             `json:"updated_at"`
}

// ToResponse renders u. Salary fields are only included when withSalary is set.
func (u User) ToResponse(withSalary bool) UserResponse {
	resp := UserResponse{
		ID:                           u.ID,
		Name:                         u.Name,
		Email:                        u.Email,
		Phone:                        u.Phone,
		Role:                         u.Role,
		Designation:                  u.Designation,
		Status:                       u.Status,
		ReportingBhID:                u.ReportingBhID,
		SalaryViewEnabled:            u.SalaryViewEnabled,
		TimeShortageDeductionEnabled: u.TimeShortageDeductionEnabled,
		CreatedAt:                    u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:                    u.UpdatedAt.Format(time.RFC3339),
	}
	if withSalary {
		allocated := u.AllocatedSalary
		flat := u.SalaryDeductions
		resp.AllocatedSalary = &allocated
		resp.SalaryDeductions = &flat
		resp.SalaryDeductionBreakdown = u.SalaryDeductionBreakdown
	}
	return resp
}

type UserFilter struct {
	Search      string
	Role        *Role
	Designation *Designation
	Status      *Status
	Page        int
	Limit       int
}

func (f *UserFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

type ListUserResponse struct {
	Users      []UserResponse `json:"users"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

// CreateUserRequest represents request to create a new user
type CreateUserRequest struct {
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Password        string           `json:"password"`
	Phone           *string          `json:"phone,omitempty"`
	Role            string           `json:"role"`
	Designation     string           `json:"designation"`
	ReportingBhID   *string          `json:"reporting_bh_id,omitempty"`
	AllocatedSalary *decimal.Decimal `json:"allocated_salary,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}

	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "invalid phone number",
		})
	}

	if !Role(r.Role).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of EMPLOYEE, HR, BUSINESS_HEAD, AE_MANAGER, ADMIN",
		})
	}

	if !Designation(r.Designation).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "designation",
			Message: "designation must be one of LA, CRE, FA, AE, OTHER",
		})
	}

	if r.ReportingBhID != nil && !validator.IsValidUUID(*r.ReportingBhID) {
		errs = append(errs, validator.ValidationError{
			Field:   "reporting_bh_id",
			Message: "reporting_bh_id must be a valid UUID",
		})
	}

	if r.AllocatedSalary != nil && r.AllocatedSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "allocated_salary",
			Message: "allocated_salary must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "invalid phone number",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateRoleRequest struct {
	Role          string  `json:"role"`
	Designation   *string `json:"designation,omitempty"`
	ReportingBhID *string `json:"reporting_bh_id,omitempty"`
}

func (r *UpdateRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if !Role(r.Role).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of EMPLOYEE, HR, BUSINESS_HEAD, AE_MANAGER, ADMIN",
		})
	}
	if r.Designation != nil && !Designation(*r.Designation).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "designation",
			Message: "designation must be one of LA, CRE, FA, AE, OTHER",
		})
	}
	if r.ReportingBhID != nil && !validator.IsValidUUID(*r.ReportingBhID) {
		errs = append(errs, validator.ValidationError{
			Field:   "reporting_bh_id",
			Message: "reporting_bh_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateSalaryConfigRequest struct {
	AllocatedSalary              decimal.Decimal    `json:"allocated_salary"`
	SalaryDeductions             decimal.Decimal    `json:"salary_deductions"`
	SalaryDeductionBreakdown     DeductionBreakdown `json:"salaryDeductionBreakdown"`
	SalaryViewEnabled            bool               `json:"salary_view_enabled"`
	TimeShortageDeductionEnabled bool               `json:"time_shortage_deduction_enabled"`
}

func (r *UpdateSalaryConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.AllocatedSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "allocated_salary",
			Message: "allocated_salary must not be negative",
		})
	}
	if r.SalaryDeductions.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "salary_deductions",
			Message: "salary_deductions must not be negative",
		})
	}
	for i, item := range r.SalaryDeductionBreakdown {
		if err := item.Validate(); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "salaryDeductionBreakdown[" + validator.Itoa(i) + "]",
				Message: err.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if !Status(r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be ACTIVE or BLOCKED",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
