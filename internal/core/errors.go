// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

// Machine-readable error codes carried in the response envelope.
const (
	CodeMissingRequiredFields   = "MISSING_REQUIRED_FIELDS"
	CodeWeakPassword            = "WEAK_PASSWORD"
	CodeUserAlreadyExists       = "USER_ALREADY_EXISTS"
	CodeInvalidJSON             = "INVALID_JSON"
	CodeValidationError         = "VALIDATION_ERROR"
	CodeInvalidCredentials      = "INVALID_CREDENTIALS"
	CodeInsufficientPrivileges  = "INSUFFICIENT_PRIVILEGES"
	CodeMissingRefreshToken     = "MISSING_REFRESH_TOKEN"
	CodeInvalidRefreshToken     = "INVALID_REFRESH_TOKEN"
	CodeUserNotFound            = "USER_NOT_FOUND"
	CodeNotAuthenticated        = "NOT_AUTHENTICATED"
	CodeInvalidToken            = "INVALID_TOKEN"
	CodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"
	CodeResourceAccessDenied    = "RESOURCE_ACCESS_DENIED"
	CodeNotFound                = "NOT_FOUND"
	CodeRateLimited             = "RATE_LIMITED"
	CodeInternalError           = "INTERNAL_ERROR"
)

// AppError is an error that knows how to present itself at the HTTP
// boundary: status, machine code, and a caller-safe message.
type AppError struct {
	Err     error
	Message string
	Status  int
	Code    string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Status:  status,
		Code:    code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func MissingFieldsError() *AppError {
	return NewAppError(
		ErrInvalidInput,
		"email, password, first name and last name are required",
		http.StatusBadRequest,
		CodeMissingRequiredFields,
	)
}

func WeakPasswordError() *AppError {
	return NewAppError(
		ErrInvalidInput,
		"password must be at least 8 characters long",
		http.StatusBadRequest,
		CodeWeakPassword,
	)
}

// DuplicateUserError deliberately reports 400 rather than 409 to match
// the existing API contract.
func DuplicateUserError() *AppError {
	return NewAppError(
		ErrDuplicateKey,
		"a user with this email already exists",
		http.StatusBadRequest,
		CodeUserAlreadyExists,
	)
}

func InvalidJSONError() *AppError {
	return NewAppError(
		ErrInvalidInput,
		"request body is not valid JSON",
		http.StatusBadRequest,
		CodeInvalidJSON,
	)
}

func ValidationError(message string) *AppError {
	return NewAppError(
		ErrInvalidInput,
		message,
		http.StatusBadRequest,
		CodeValidationError,
	)
}

func InvalidCredentialsError() *AppError {
	return NewAppError(
		ErrUnauthorized,
		"invalid email or password",
		http.StatusUnauthorized,
		CodeInvalidCredentials,
	)
}

func InsufficientPrivilegesError() *AppError {
	return NewAppError(
		ErrForbidden,
		"account does not have the requested privileges",
		http.StatusForbidden,
		CodeInsufficientPrivileges,
	)
}

func MissingRefreshTokenError() *AppError {
	return NewAppError(
		ErrInvalidInput,
		"refresh token is required",
		http.StatusBadRequest,
		CodeMissingRefreshToken,
	)
}

func InvalidRefreshTokenError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"refresh token is invalid or expired",
		http.StatusUnauthorized,
		CodeInvalidRefreshToken,
	)
}

func UserNotFoundError() *AppError {
	return NewAppError(
		ErrNotFound,
		"user not found or deactivated",
		http.StatusNotFound,
		CodeUserNotFound,
	)
}

func NotAuthenticatedError() *AppError {
	return NewAppError(
		ErrUnauthorized,
		"authentication required",
		http.StatusUnauthorized,
		CodeNotAuthenticated,
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"access token is invalid",
		http.StatusUnauthorized,
		CodeInvalidToken,
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(
		ErrTokenExpired,
		"access token has expired",
		http.StatusUnauthorized,
		CodeInvalidToken,
	)
}

func InsufficientPermissionsError() *AppError {
	return NewAppError(
		ErrForbidden,
		"insufficient permissions",
		http.StatusForbidden,
		CodeInsufficientPermissions,
	)
}

// ResourceAccessDeniedError is used for ownership denials. The message
// stays generic so the response does not reveal whether the resource
// exists.
func ResourceAccessDeniedError() *AppError {
	return NewAppError(
		ErrForbidden,
		"access to this resource is denied",
		http.StatusForbidden,
		CodeResourceAccessDenied,
	)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		resource+" not found",
		http.StatusNotFound,
		CodeNotFound,
	)
}

func InternalError(err error) *AppError {
	return NewAppError(
		err,
		"an internal error occurred",
		http.StatusInternalServerError,
		CodeInternalError,
	)
}

// FormatValidationError flattens a validator.ValidationErrors into a
// single caller-facing message.
func FormatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "email":
			parts = append(parts, fe.Field()+" must be a valid email address")
		case "min":
			parts = append(
				parts,
				fe.Field()+" must be at least "+fe.Param()+" characters",
			)
		case "max":
			parts = append(
				parts,
				fe.Field()+" must be at most "+fe.Param()+" characters",
			)
		case "oneof":
			parts = append(
				parts,
				fe.Field()+" must be one of: "+fe.Param(),
			)
		case "e164":
			parts = append(parts, fe.Field()+" must be a valid phone number")
		default:
			parts = append(parts, fe.Field()+" is invalid")
		}
	}

	return strings.Join(parts, "; ")
}
