package service

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrLinkNotFound       = errors.New("link not found")
	ErrDeferredNotFound   = errors.New("deferred link not found")
	ErrShortCodeExhausted = errors.New("could not allocate a unique short code")
	ErrCodeTaken          = errors.New("custom code is already in use")
)

// ValidationError carries a client-facing message and matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}
