package core

import "github.com/pkg/errors"

// FieldError ties a validation failure to a single input field, keyed by the
// field's JSON name.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a request-level validation failure. When Fields is set
// the API renders a field→message map; otherwise Err carries the message.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown marks an error as unrecoverable; catching one anywhere in a
// request triggers a graceful server stop.
type shutdown struct {
	message string
}

// NewShutdownError returns an error that signals a graceful shutdown.
func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

// IsShutdown checks whether the shutdown marker is anywhere in err's cause chain.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
