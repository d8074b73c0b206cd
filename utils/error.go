package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// ValidationError marks a user-facing input rejection, raised before any
// write. Handlers map it to 400; everything else is a storage or remote
// failure and maps to 500.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
