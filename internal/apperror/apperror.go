package apperror

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/go-errors/errors"
)

type ErrorType string

const (
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeInvalidInput ErrorType = "INVALID_INPUT"
	ErrTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrTypeForbidden    ErrorType = "FORBIDDEN"
	ErrTypeConflict     ErrorType = "CONFLICT"
	ErrTypeUnsupported  ErrorType = "UNSUPPORTED_MEDIA_TYPE"
	ErrTypeTooLarge     ErrorType = "TOO_LARGE"
	ErrTypeRateLimit    ErrorType = "RATE_LIMIT"
	ErrTypeUnavailable  ErrorType = "UNAVAILABLE"
	ErrTypeInternal     ErrorType = "INTERNAL"
)

type DomainError struct {
	Type    ErrorType
	Message string
	Details any
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) StackTrace() []byte {
	return e.Stack
}

// WithDetails attaches a client-visible payload, e.g. a field error map.
func (e *DomainError) WithDetails(details any) *DomainError {
	e.Details = details
	return e
}

func New(errType ErrorType, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		if stackErr, ok := err.(*goerrors.Error); ok {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

func NotFound(message string, err error) *DomainError {
	return New(ErrTypeNotFound, message, err)
}

func InvalidInput(message string, err error) *DomainError {
	return New(ErrTypeInvalidInput, message, err)
}

func Unauthorized(message string, err error) *DomainError {
	return New(ErrTypeUnauthorized, message, err)
}

func Forbidden(message string, err error) *DomainError {
	return New(ErrTypeForbidden, message, err)
}

func Conflict(message string, err error) *DomainError {
	return New(ErrTypeConflict, message, err)
}

func Unsupported(message string, err error) *DomainError {
	return New(ErrTypeUnsupported, message, err)
}

func TooLarge(message string, err error) *DomainError {
	return New(ErrTypeTooLarge, message, err)
}

func RateLimit(message string, err error) *DomainError {
	return New(ErrTypeRateLimit, message, err)
}

func Unavailable(message string, err error) *DomainError {
	return New(ErrTypeUnavailable, message, err)
}

func Internal(message string, err error) *DomainError {
	return New(ErrTypeInternal, message, err)
}

// As returns the first DomainError in err's chain.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func Is(err error, t ErrorType) bool {
	de, ok := As(err)
	return ok && de.Type == t
}

// HTTPStatus maps err to the status code the API answers with.
// Errors that are not DomainErrors are 500.
func HTTPStatus(err error) int {
	de, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch de.Type {
	case ErrTypeNotFound:
		return http.StatusNotFound
	case ErrTypeInvalidInput:
		return http.StatusBadRequest
	case ErrTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrTypeForbidden:
		return http.StatusForbidden
	case ErrTypeConflict:
		return http.StatusConflict
	case ErrTypeUnsupported:
		return http.StatusUnsupportedMediaType
	case ErrTypeTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrTypeRateLimit:
		return http.StatusTooManyRequests
	case ErrTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
