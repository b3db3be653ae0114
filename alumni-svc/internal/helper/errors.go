package helper

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindInvalidCode
	KindExpired
	KindUnauthenticated
	KindUnauthorized
	KindServiceUnavailable
	KindRateLimited
)

var kindMeta = map[ErrorKind]struct {
	status int
	code   string
}{
	KindInternal:           {fiber.StatusInternalServerError, "internal_error"},
	KindValidation:         {fiber.StatusBadRequest, "validation_error"},
	KindConflict:           {fiber.StatusConflict, "conflict"},
	KindNotFound:           {fiber.StatusNotFound, "not_found"},
	KindInvalidCode:        {fiber.StatusBadRequest, "invalid_code"},
	KindExpired:            {fiber.StatusBadRequest, "code_expired"},
	KindUnauthenticated:    {fiber.StatusUnauthorized, "unauthenticated"},
	KindUnauthorized:       {fiber.StatusForbidden, "unauthorized"},
	KindServiceUnavailable: {fiber.StatusServiceUnavailable, "service_unavailable"},
	KindRateLimited:        {fiber.StatusTooManyRequests, "rate_limited"},
}

func (k ErrorKind) Status() int {
	return kindMeta[k].status
}

func (k ErrorKind) Code() string {
	return kindMeta[k].code
}

// AppError is a business-rule failure with a message that is safe to show to clients.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
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

func NewError(kind ErrorKind, msg string) *AppError {
	return &AppError{Kind: kind, Message: msg}
}

func ValidationError(msg string) *AppError { return NewError(KindValidation, msg) }
func ConflictError(msg string) *AppError { return NewError(KindConflict, msg) }
func NotFoundError(msg string) *AppError { return NewError(KindNotFound, msg) }
func InvalidCodeError(msg string) *AppError { return NewError(KindInvalidCode, msg) }
func ExpiredError(msg string) *AppError { return NewError(KindExpired, msg) }
func UnauthenticatedError(msg string) *AppError { return NewError(KindUnauthenticated, msg) }
func UnauthorizedError(msg string) *AppError { return NewError(KindUnauthorized, msg) }
func UnavailableError(msg string) *AppError { return NewError(KindServiceUnavailable, msg) }
func RateLimitedError(msg string) *AppError { return NewError(KindRateLimited, msg) }

// InternalError wraps an unexpected failure. The cause is logged, never rendered.
func InternalError(msg string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf reports the kind of err, treating anything that is not an AppError as internal.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
