package normalize

import (
	"errors"
	"fmt"
)

// ValidationError marks input that is malformed, oversized or otherwise
// unprocessable. The pipeline driver maps it to a 400-class error payload;
// every other error becomes a 500.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
