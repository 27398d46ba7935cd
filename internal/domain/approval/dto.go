package approval

import "github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"

// ReviewRequest is the body of every review endpoint.
type ReviewRequest struct {
	Decision string  `json:"decision"`
	Remarks  *string `json:"remarks,omitempty"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Decision) {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision is required",
		})
	} else if _, err := ParseDecision(r.Decision); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: err.Error(),
		})
	}
	if r.Remarks != nil && len(*r.Remarks) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "remarks",
			Message: "remarks must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListFilter pages request listings, optionally by overall status.
type ListFilter struct {
	Status *Status
	Page   int
	Limit  int
}

func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// TotalPages is the page count for total rows at the filter's limit.
func (f ListFilter) TotalPages(total int64) int {
	if f.Limit <= 0 {
		return 0
	}
	return int((total + int64(f.Limit) - 1) / int64(f.Limit))
}
