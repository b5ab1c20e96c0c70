// Package validation provides request validation for the safety API and
// data-quality checks for the interaction catalog.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is wrapped by every *Error
var ErrValidation = errors.New("validation failed")

// FieldError describes one invalid field of a request
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries the per-field details of a rejected request
type Error struct {
	Details []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Field+": "+d.Message)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

func (e *Error) Unwrap() error {
	return ErrValidation
}

// RequestValidator decodes and validates JSON request bodies
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a validator reporting fields by their json names
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v}
}

// DecodeAndValidate reads a JSON body into dst and validates its struct tags.
// Any problem is returned as *Error, except an *http.MaxBytesError from a
// capped body which is passed through unchanged.
func (v *RequestValidator) DecodeAndValidate(body io.Reader, dst any) error {
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return &Error{Details: []FieldError{decodeFailure(err)}}
	}
	return v.Validate(dst)
}

// Validate checks the struct tags of s
func (v *RequestValidator) Validate(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &Error{Details: []FieldError{{Field: "body", Message: err.Error()}}}
	}

	details := make([]FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, FieldError{
			Field:   fe.Field(),
			Message: describe(fe),
		})
	}
	return &Error{Details: details}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.Slice {
			return "is required and must be an array of strings"
		}
		return "must not be empty"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed the %q rule", fe.Tag())
	}
}

func decodeFailure(err error) FieldError {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, io.EOF):
		return FieldError{Field: "body", Message: "request body is empty"}
	case errors.As(err, &syntaxErr):
		return FieldError{Field: "body", Message: fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		expected := "a JSON object"
		switch typeErr.Type.Kind() {
		case reflect.Slice:
			expected = "an array of strings"
		case reflect.String:
			expected = "a string"
		}
		return FieldError{Field: field, Message: "must be " + expected}
	default:
		return FieldError{Field: "body", Message: "malformed JSON"}
	}
}
