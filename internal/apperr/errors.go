package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies application errors so the HTTP boundary can map them to
// status codes without inspecting messages.
type Kind string

const (
	KindBadRequest   Kind = "bad_request"
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindInternal     Kind = "internal"
)

// Severity grades how loudly an error should be reported.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Category groups errors by subsystem for log filtering.
type Category string

const (
	CategoryValidation    Category = "validation"
	CategoryAuth          Category = "authentication"
	CategoryAuthorization Category = "authorization"
	CategoryDatabase      Category = "database"
	CategoryBusinessLogic Category = "business_logic"
	CategorySystem        Category = "system"
)

// Error is the application error type raised by services and repositories.
// The wrapped cause, if any, is reachable through errors.Unwrap.
type Error struct {
	Kind        Kind
	Message     string
	UserMessage string
	Details     map[string]any
	Fields      map[string]string
	Severity    Severity
	Category    Category
	cause       error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is lets errors.Is match two application errors by kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// WithDetail attaches a contextual detail and returns the same error.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// WithUserMessage overrides the user-facing message.
func (e *Error) WithUserMessage(msg string) *Error {
	e.UserMessage = msg
	return e
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(cause error) *Error {
	e.cause = cause
	return e
}

func newError(kind Kind, severity Severity, category Category, message string) *Error {
	return &Error{
		Kind:     kind,
		Message:  message,
		Severity: severity,
		Category: category,
	}
}

// BadRequest reports malformed input: invalid identifiers, unknown enum
// values, empty update payloads.
func BadRequest(format string, args ...any) *Error {
	return newError(KindBadRequest, SeverityLow, CategoryValidation, fmt.Sprintf(format, args...))
}

// Validation reports field-level constraint violations.
func Validation(message string, fields map[string]string) *Error {
	err := newError(KindValidation, SeverityLow, CategoryValidation, message)
	err.Fields = fields
	return err
}

// NotFound reports an absent entity that the caller required to exist.
func NotFound(resource string, id string) *Error {
	err := newError(KindNotFound, SeverityLow, CategoryDatabase, fmt.Sprintf("%s not found", resource))
	err.UserMessage = fmt.Sprintf("%s not found in the system.", resource)
	if id != "" {
		err = err.WithDetail("id", id)
	}
	return err
}

// Unauthorized reports missing or invalid credentials.
func Unauthorized(message string) *Error {
	return newError(KindUnauthorized, SeverityMedium, CategoryAuth, message)
}

// Forbidden reports an authenticated caller lacking permission.
func Forbidden(message string) *Error {
	return newError(KindForbidden, SeverityMedium, CategoryAuthorization, message)
}

// Internal wraps an unexpected failure with the operation that raised it.
func Internal(op string, cause error) *Error {
	err := newError(KindInternal, SeverityHigh, CategoryDatabase, fmt.Sprintf("%s failed", op))
	err.UserMessage = "Something went wrong. Please try again later."
	err.cause = cause
	return err
}

// KindOf extracts the kind of an application error, or KindInternal for
// anything unrecognised.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// StatusOf maps an error to the conventional HTTP status for its kind.
func StatusOf(err error) int {
	switch KindOf(err) {
	case KindBadRequest:
		return fiber.StatusBadRequest
	case KindValidation:
		return fiber.StatusUnprocessableEntity
	case KindNotFound:
		return fiber.StatusNotFound
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// FieldsOf returns the field-level validation failures carried by an
// error, or nil.
func FieldsOf(err error) map[string]string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

// UserMessageOf returns the user-facing message for an error, falling back
// to a generic one for unexpected failures.
func UserMessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		if appErr.UserMessage != "" {
			return appErr.UserMessage
		}
		if appErr.Kind != KindInternal {
			return appErr.Message
		}
	}
	return "An error occurred. Please try again or contact support."
}
