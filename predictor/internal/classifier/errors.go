package classifier

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMeasurement = errors.New("invalid measurement")
	ErrUnknownStrategy    = errors.New("unknown strategy")
)

// ValidationError names the first field that violates its domain. It matches
// ErrInvalidMeasurement with errors.Is.
type ValidationError struct {
	Field      string      `json:"field"`
	Constraint string      `json:"constraint"`
	Value      interface{} `json:"value,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidMeasurement, e.Field, e.Constraint)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidMeasurement
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
