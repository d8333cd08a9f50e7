package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	msg := err.Error()
	switch {
	// Ownership and role rules
	case errors.Is(err, task.ErrNotAssignee),
		errors.Is(err, task.ErrNotAssigner),
		errors.Is(err, leave.ErrNotLeaveOwner),
		errors.Is(err, user.ErrForbidden),
		errors.Is(err, user.ErrAdminUndeletable),
		errors.Is(err, user.ErrCannotModifySelf):
		Forbidden(w, msg)

	// Lifecycle state
	case errors.Is(err, task.ErrInvalidTransition),
		errors.Is(err, task.ErrAlreadyResponded),
		errors.Is(err, task.ErrNotAccepted),
		errors.Is(err, task.ErrTaskNotEditable):
		writeError(w, http.StatusConflict, "INVALID_TRANSITION", msg, nil)
	case errors.Is(err, leave.ErrAlreadyDecided),
		errors.Is(err, leave.ErrNotCancellable):
		writeError(w, http.StatusConflict, "ALREADY_DECIDED", msg, nil)
	case errors.Is(err, leave.ErrOverlapConflict):
		writeError(w, http.StatusConflict, "OVERLAP_CONFLICT", msg, nil)
	case errors.Is(err, attendance.ErrAlreadyMarked):
		writeError(w, http.StatusConflict, "ALREADY_MARKED", msg, nil)

	// Business rules on well-formed input
	case errors.Is(err, task.ErrMissingArtifact),
		errors.Is(err, task.ErrRejectionReasonRequired):
		Unprocessable(w, "MISSING_ARTIFACT", msg)
	case errors.Is(err, leave.ErrInvalidRange),
		errors.Is(err, report.ErrInvalidDateRange),
		errors.Is(err, report.ErrRangeTooLong),
		errors.Is(err, attendance.ErrCheckOutBeforeIn):
		Unprocessable(w, "INVALID_RANGE", msg)
	case errors.Is(err, leave.ErrPastStartDate),
		errors.Is(err, task.ErrDueDateInPast),
		errors.Is(err, attendance.ErrFutureDate):
		Unprocessable(w, "INVALID_DATE", msg)
	case errors.Is(err, task.ErrFileTypeNotAllowed),
		errors.Is(err, task.ErrFileSizeExceeds),
		errors.Is(err, storage.ErrExtNotAllowed),
		errors.Is(err, storage.ErrFileTooLarge):
		Unprocessable(w, "INVALID_FILE", msg)
	case errors.Is(err, task.ErrAssigneeInactive),
		errors.Is(err, leave.ErrApplicantInvalid),
		errors.Is(err, leave.ErrInvalidDecision),
		errors.Is(err, attendance.ErrCheckInRequired),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, user.ErrInvalidPasswordLength),
		errors.Is(err, employee.ErrInvalidBulkAction),
		errors.Is(err, employee.ErrNoEmployeesChosen),
		errors.Is(err, employee.ErrInvalidSalary):
		Unprocessable(w, "UNPROCESSABLE", msg)

	// Not found
	case errors.Is(err, task.ErrTaskNotFound),
		errors.Is(err, task.ErrNoSubmission),
		errors.Is(err, leave.ErrLeaveNotFound),
		errors.Is(err, attendance.ErrAttendanceNotFound),
		errors.Is(err, attendance.ErrUserNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, storage.ErrFileNotFound):
		NotFound(w, msg)

	// Uniqueness
	case errors.Is(err, user.ErrUsernameExists),
		errors.Is(err, user.ErrUserEmailExists),
		errors.Is(err, user.ErrEmployeeIDExists):
		Conflict(w, msg)

	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, msg)
	case errors.Is(err, auth.ErrAccountLocked):
		Locked(w, msg)
	case errors.Is(err, auth.ErrAccountInactive),
		errors.Is(err, user.ErrUserInactive):
		Forbidden(w, msg)
	case errors.Is(err, auth.ErrPasswordChangeRequired):
		PasswordChangeRequired(w)
	case errors.Is(err, auth.ErrOTPAttemptsExceeded):
		TooManyRequests(w, msg)
	case errors.Is(err, auth.ErrOTPExpired),
		errors.Is(err, auth.ErrOTPInvalid),
		errors.Is(err, auth.ErrOTPNotFound):
		Unprocessable(w, "INVALID_OTP", msg)
	case errors.Is(err, auth.ErrPasswordReused),
		errors.Is(err, auth.ErrPasswordMismatch):
		Unprocessable(w, "INVALID_PASSWORD", msg)

	case errors.Is(err, storage.ErrInvalidPath):
		BadRequest(w, msg, nil)
	case errors.Is(err, email.ErrNotConfigured):
		ServiceUnavailable(w, "E-mail delivery is not configured")

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
