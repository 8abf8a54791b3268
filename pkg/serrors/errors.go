package serrors

import (
	"errors"
)

// BaseError is an error with a stable machine-readable code that is safe to show to API callers.
type BaseError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	LocaleKey string `json:"locale_key,omitempty"`
}

func NewError(code string, message string, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func (e *BaseError) Error() string {
	return e.Message
}

// Is matches any BaseError carrying the same code.
func (e *BaseError) Is(target error) bool {
	var t *BaseError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// As returns the first BaseError in err's chain.
func As(err error) (*BaseError, bool) {
	var be *BaseError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// CodeOf returns the code of the first BaseError in err's chain.
func CodeOf(err error) (string, bool) {
	if be, ok := As(err); ok {
		return be.Code, true
	}
	return "", false
}
