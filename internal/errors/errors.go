package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for the transport layer.
type Kind string

const (
	KindOK              Kind = "ok"
	KindNotFound        Kind = "not_found"
	KindForbidden       Kind = "forbidden"
	KindConflict        Kind = "conflict"
	KindInvalidInput    Kind = "invalid_input"
	KindUnauthenticated Kind = "unauthenticated"
	KindInternal        Kind = "internal_error"
)

// Error is a classified domain error. Message is safe to show to callers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NotFound(message string) *Error        { return New(KindNotFound, message) }
func Forbidden(message string) *Error       { return New(KindForbidden, message) }
func Conflict(message string) *Error        { return New(KindConflict, message) }
func InvalidInput(message string) *Error    { return New(KindInvalidInput, message) }
func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }

// Internal wraps an unexpected fault. The cause is kept for logging only.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

var (
	// ErrUserNotFound is returned when a user is absent.
	ErrUserNotFound = NotFound("user not found")
	// ErrPropertyNotFound is returned when a property is absent or hidden from the actor.
	ErrPropertyNotFound = NotFound("property not found")
	// ErrContactNotFound is returned when a contact is absent.
	ErrContactNotFound = NotFound("contact not found")
	// ErrNotAuthorized is the generic access-control denial.
	ErrNotAuthorized = Forbidden("not authorized for this action")
	// ErrAlreadyContacted is returned for a second contact on the same listing.
	ErrAlreadyContacted = Conflict("conflict: already contacted")
	// ErrEmailTaken is returned when the email belongs to another account.
	ErrEmailTaken = Conflict("email already registered")
	// ErrOwnListing is returned when an owner tries to contact their own listing.
	ErrOwnListing = InvalidInput("invalid operation: cannot contact own listing")
	// ErrListingInactive is returned when updating a soft-deleted listing.
	ErrListingInactive = InvalidInput("invalid operation: listing is inactive")
	// ErrFlagReasonRequired is returned when flagging without a reason.
	ErrFlagReasonRequired = InvalidInput("flag reason is required")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = Unauthenticated("invalid email or password")
	// ErrAccountBlocked is returned when a blocked user authenticates.
	ErrAccountBlocked = Unauthenticated("your account is blocked")
	// ErrInvalidToken is returned for missing, invalid or expired credentials.
	ErrInvalidToken = Unauthenticated("invalid or expired credential")
)

// KindOf reports the classification of err. Unclassified errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return KindOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Response is the uniform envelope returned by every operation.
type Response struct {
	Success bool        `json:"success"`
	Status  Kind        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// OK builds a success envelope.
func OK(message string, data interface{}) Response {
	return Response{Success: true, Status: KindOK, Message: message, Data: data}
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Kind       Kind
	Cause      error
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string, kind Kind) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Kind:       kind,
	}
}

// ToResponse converts an HTTPError to the failure envelope.
func (e *HTTPError) ToResponse() Response {
	return Response{
		Success: false,
		Status:  e.Kind,
		Message: e.Message,
	}
}

// StatusFor maps a kind to its wire-level status code.
func StatusFor(kind Kind) int {
	switch kind {
	case KindOK:
		return http.StatusOK
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// KindForStatus classifies a bare status code, for errors raised by the HTTP framework itself.
func KindForStatus(code int) Kind {
	switch {
	case code < 400:
		return KindOK
	case code == http.StatusUnauthorized:
		return KindUnauthenticated
	case code == http.StatusForbidden:
		return KindForbidden
	case code == http.StatusNotFound:
		return KindNotFound
	case code == http.StatusConflict:
		return KindConflict
	case code < 500:
		return KindInvalidInput
	default:
		return KindInternal
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Internal details never reach the message.
func MapErrorToHTTP(err error) *HTTPError {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return &HTTPError{StatusCode: StatusFor(e.Kind), Message: e.Message, Kind: e.Kind, Cause: err}
	}
	return &HTTPError{
		StatusCode: http.StatusInternalServerError,
		Message:    "internal server error",
		Kind:       KindInternal,
		Cause:      err,
	}
}
