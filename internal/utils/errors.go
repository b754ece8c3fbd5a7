package utils

import "fmt"

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

// Standard error codes for the application
const (
	// Resource errors
	ErrNotFound     = "NOT_FOUND"
	ErrDuplicate    = "DUPLICATE"
	ErrInvalidInput = "INVALID_INPUT"
	ErrEmptyText    = "EMPTY_TEXT"

	// Authentication/Authorization errors
	ErrUnauthorized  = "UNAUTHORIZED"
	ErrNotAuthorized = "NOT_AUTHORIZED" // Authenticated but acting on someone else's record
	ErrInvalidToken  = "INVALID_TOKEN"

	// User-specific errors
	ErrUserNotFound       = "USER_NOT_FOUND"
	ErrUserAlreadyExists  = "USER_ALREADY_EXISTS"
	ErrDomainNotAllowed   = "DOMAIN_NOT_ALLOWED"
	ErrInvalidCredentials = "INVALID_CREDENTIALS"

	// Relationship errors
	ErrAlreadyRequested = "ALREADY_REQUESTED"
	ErrAlreadyFriends   = "ALREADY_FRIENDS"

	// Actor communication errors
	ErrActorTimeout = "ACTOR_TIMEOUT"

	// Upload errors
	ErrFileTooLarge = "FILE_TOO_LARGE"

	ErrDatabase = "database_error"
)

// Error creation helper functions
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

// Specific error creators for common cases
func NewUserNotFoundError(userID string) *AppError {
	return &AppError{
		Code:    ErrUserNotFound,
		Message: "User not found: " + userID,
	}
}

func NewDomainNotAllowedError(domain string) *AppError {
	return &AppError{
		Code:    ErrDomainNotAllowed,
		Message: fmt.Sprintf("Only %s email addresses are allowed", domain),
	}
}

func NewNotAuthorizedError(reason string) *AppError {
	return &AppError{
		Code:    ErrNotAuthorized,
		Message: "Not authorized: " + reason,
	}
}

func NewEmptyTextError() *AppError {
	return &AppError{
		Code:    ErrEmptyText,
		Message: "Message text must not be empty",
	}
}

func NewActorTimeoutError(actorName string) *AppError {
	return &AppError{
		Code:    ErrActorTimeout,
		Message: "Actor communication timeout: " + actorName,
	}
}

// Helper method to check if an error is of a specific type
func IsErrorCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrNotFound, ErrUserNotFound:
		return 404 // http.StatusNotFound
	case ErrInvalidInput, ErrEmptyText, ErrDomainNotAllowed, ErrFileTooLarge:
		return 400 // http.StatusBadRequest
	case ErrUnauthorized, ErrInvalidToken, ErrInvalidCredentials:
		return 401 // http.StatusUnauthorized
	case ErrNotAuthorized:
		return 403 // http.StatusForbidden
	case ErrDuplicate, ErrUserAlreadyExists, ErrAlreadyRequested, ErrAlreadyFriends:
		return 409 // http.StatusConflict
	case ErrDatabase, ErrActorTimeout:
		return 500 // http.StatusInternalServerError
	default:
		return 500 // http.StatusInternalServerError for unknown errors
	}
}
