package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrEmailRegistered is returned when registration reuses an email.
	ErrEmailRegistered = errors.New("Email already registered")
	// ErrPasswordTooShort is returned when a password is under 6 characters.
	ErrPasswordTooShort = errors.New("Password too short")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrNoteNotFound is returned when a note lookup scoped to the
	// session user matches nothing.
	ErrNoteNotFound = errors.New("Note not found")
	// ErrInvalidResetToken is returned for unknown, used, or expired
	// password reset tokens.
	ErrInvalidResetToken = errors.New("Invalid or expired token")
	// ErrEmailNotFound is returned when a password reset is requested
	// for an email with no account.
	ErrEmailNotFound = errors.New("Email not found")
)

// HTTPError pairs a domain error with the status JSON routes answer with.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// MapToHTTP maps domain errors to HTTP errors. Anything unmapped is an
// internal error; the original message is not leaked to the client.
func MapToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrEmailRegistered),
		errors.Is(err, ErrPasswordTooShort),
		errors.Is(err, ErrInvalidResetToken):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNoteNotFound), errors.Is(err, ErrEmailNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
