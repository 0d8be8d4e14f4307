package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	appErrors "retroboard/pkg/errors"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields under their wire names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidateStruct validates a struct based on its validation tags. Failures
// are returned as a validation AppError carrying the code of the first
// failing rule.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError formats validation errors into readable messages
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return appErrors.NewValidationError(err.Error()).WithCode(appErrors.CodeMalformedRequest)
	}

	messages := make([]string, 0, len(validationErrors))
	fields := make(map[string]interface{}, len(validationErrors))
	for _, e := range validationErrors {
		msg := formatFieldError(e)
		messages = append(messages, msg)
		fields[e.Namespace()] = msg
	}

	return appErrors.NewValidationError(strings.Join(messages, "; ")).
		WithCode(codeFor(validationErrors[0])).
		WithDetail("fields", fields)
}

// codeFor maps a failed rule to an API error code. Size rules only count as
// session-count errors on lists.
func codeFor(e validator.FieldError) string {
	switch e.Tag() {
	case "min", "max", "len":
		if isList(e) {
			return appErrors.CodeInvalidSessionCount
		}
		return appErrors.CodeMalformedRequest
	case "unique":
		return appErrors.CodeDuplicateSessions
	default:
		return appErrors.CodeMalformedRequest
	}
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		switch {
		case isList(e):
			return fmt.Sprintf("%s must contain at least %s items", field, e.Param())
		case isNumber(e):
			return fmt.Sprintf("%s must be at least %s", field, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max":
		switch {
		case isList(e):
			return fmt.Sprintf("%s must contain at most %s items", field, e.Param())
		case isNumber(e):
			return fmt.Sprintf("%s must be at most %s", field, e.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "unique":
		return fmt.Sprintf("%s must not contain duplicates", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func isList(e validator.FieldError) bool {
	return e.Kind() == reflect.Slice || e.Kind() == reflect.Array
}

func isNumber(e validator.FieldError) bool {
	switch e.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
