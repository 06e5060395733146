package classifier

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// measurementValidate is shared by all goroutines; validator caches struct
// metadata and is safe for concurrent use.
var measurementValidate *validator.Validate

func init() {
	measurementValidate = validator.New()
	measurementValidate.RegisterTagNameFunc(jsonFieldName)
	_ = measurementValidate.RegisterValidation("finite", validateFinite)
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func validateFinite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Validate checks every supplied field against its domain and returns a
// *ValidationError for the first violation.
func (m Measurement) Validate() error {
	err := measurementValidate.Struct(m)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidMeasurement, err)
	}

	fe := fieldErrs[0]
	return &ValidationError{
		Field:      fe.Field(),
		Constraint: describeConstraint(fe.Tag(), fe.Param()),
		Value:      fe.Value(),
	}
}

func describeConstraint(tag, param string) string {
	switch tag {
	case "gt":
		return "must be greater than " + param
	case "gte":
		if param == "0" {
			return "must not be negative"
		}
		return "must be at least " + param
	case "finite":
		return "must be a finite number"
	case "required":
		return "is required"
	default:
		return "failed " + tag + " check"
	}
}
