package lib

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var (
	ErrEmptyBody    = errors.New("request body is empty")
	ErrTrailingData = errors.New("request body must contain a single JSON object")
)

var validate = newValidator()

// newValidator reports fields by their JSON names so errors line up with the
// form inputs that produced them.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
}

// FieldError represents a clean validation error for APIs
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is a structured validation error
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// ExtractAndValidateBody decodes a single JSON object into T, rejecting
// unknown fields, then runs its validate tags.
func ExtractAndValidateBody[T any](r *http.Request) (*T, error) {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	var body T
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyBody
		}
		return nil, err
	}
	if dec.More() {
		return nil, ErrTrailingData
	}

	if err := Validate(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

// Validate runs the struct's validate tags and maps failures to field errors.
func Validate(v any) error {
	err := validate.Struct(v)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return mapValidationErrors(ve)
	}
	return err
}

var tagMessages = map[string]func(e validator.FieldError) string{
	"required": func(validator.FieldError) string { return "is required" },
	"email":    func(validator.FieldError) string { return "must be a valid email address" },
	"url":      func(validator.FieldError) string { return "must be a valid URL" },
	"uuid":     func(validator.FieldError) string { return "must be a valid UUID" },
	"uuid4":    func(validator.FieldError) string { return "must be a valid UUID" },
	"oneof":    func(e validator.FieldError) string { return "must be one of: " + e.Param() },
	"gt":       func(e validator.FieldError) string { return "must be greater than " + e.Param() },
	"gte":      func(e validator.FieldError) string { return "must be greater than or equal to " + e.Param() },
	"lte":      func(e validator.FieldError) string { return "must be less than or equal to " + e.Param() },
	"len":      func(e validator.FieldError) string { return "must be exactly " + e.Param() + " characters" },
	"min":      func(e validator.FieldError) string { return bound("at least", e) },
	"max":      func(e validator.FieldError) string { return bound("at most", e) },
}

// bound phrases min/max for numbers, collections and strings.
func bound(word string, e validator.FieldError) string {
	switch e.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "must be " + word + " " + e.Param()
	case reflect.Slice, reflect.Array, reflect.Map:
		return "must contain " + word + " " + e.Param() + " items"
	}
	return "must be " + word + " " + e.Param() + " characters"
}

// fieldPath drops the root struct name: "QuoteRequest.lines[0].quantity"
// becomes "lines[0].quantity".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return e.Field()
}

func mapValidationErrors(errs validator.ValidationErrors) *ValidationError {
	out := &ValidationError{}
	for _, e := range errs {
		message := "is invalid"
		if msg, ok := tagMessages[e.Tag()]; ok {
			message = msg(e)
		}
		out.Errors = append(out.Errors, FieldError{Field: fieldPath(e), Message: message})
	}
	return out
}
