package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/visit"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/wfh"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

const (
	CodeAccountBlocked     = "ACCOUNT_BLOCKED"
	CodeSalaryViewDisabled = "SALARY_VIEW_DISABLED"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, user.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")

	// User domain errors
	case errors.Is(err, user.ErrUserBlocked):
		ForbiddenWithCode(w, CodeAccountBlocked, "Your account has been blocked. Please contact HR to reactivate it.")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrCannotDeleteSelf):
		BadRequest(w, "You cannot delete your own account", nil)
	case errors.Is(err, user.ErrInvalidReportingBH):
		BadRequest(w, "Reporting user must be a business head", nil)

	// Authorization
	case errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, approval.ErrNotAuthorized),
		errors.Is(err, approval.ErrNotYourLevel),
		errors.Is(err, approval.ErrVisitApprovalForbidden):
		Forbidden(w, err.Error())

	// Approval state
	case errors.Is(err, approval.ErrInvalidDecision):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, approval.ErrAlreadyProcessed):
		Conflict(w, "Request already processed")
	case errors.Is(err, approval.ErrAlreadyReviewed):
		Conflict(w, "Request already reviewed at this level")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrOpenSessionExists),
		errors.Is(err, attendance.ErrBreakAlreadyOpen):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrNoOpenSession),
		errors.Is(err, attendance.ErrNoOpenBreak),
		errors.Is(err, attendance.ErrInvalidWindow):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Work log domain errors
	case errors.Is(err, worklog.ErrWorkLogNotFound):
		NotFound(w, "Work log not found")
	case errors.Is(err, worklog.ErrWorkLogAlreadySubmitted),
		errors.Is(err, worklog.ErrWorkLogClosed):
		Conflict(w, err.Error())
	case errors.Is(err, worklog.ErrFutureWorkDate):
		BadRequest(w, err.Error(), nil)

	// Request domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrPermissionRequestNotFound):
		NotFound(w, "Permission request not found")
	case errors.Is(err, visit.ErrVisitRequestNotFound):
		NotFound(w, "Visit request not found")
	case errors.Is(err, wfh.ErrWfhRequestNotFound):
		NotFound(w, "WFH request not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrSalaryViewDisabled):
		ForbiddenWithCode(w, CodeSalaryViewDisabled, "Salary details are not available yet. Please come back next cycle.")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
