package errx

import (
	"errors"
	"fmt"
)

// Kind-ошибки домена; хендлеры мапят их на HTTP-статусы через errors.Is.
var (
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("not found")
	ErrCorrelationNotFound = errors.New("correlation token not found")
	ErrNoProposals         = errors.New("no proposals to compare")
	ErrUpstreamUnavailable = errors.New("upstream model unavailable")
	ErrMalformedOutput     = errors.New("malformed model output")
)

// Error связывает kind с человекочитаемым сообщением и причиной.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func (e *Error) Is(target error) bool {
	if errors.Is(e.Kind, target) {
		return true
	}
	return e.Cause != nil && errors.Is(e.Cause, target)
}

// New создает доменную ошибку указанного рода.
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap сохраняет исходную причину для логов, наружу выставляя kind.
func Wrap(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}
