// Package validate parses path parameters and JSON bodies into typed
// requests. Every parse yields a Result that either holds the value or lists
// the offending fields.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Issue describes one rejected field. Field is empty for body-level problems.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Error is returned by Result.Err when parsing failed.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Field == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type Result[T any] struct {
	Value  T
	Issues []Issue
}

func (r Result[T]) OK() bool {
	return len(r.Issues) == 0
}

func (r Result[T]) Err() error {
	if r.OK() {
		return nil
	}
	return &Error{Issues: r.Issues}
}

func ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func fail[T any](issues ...Issue) Result[T] {
	return Result[T]{Issues: issues}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339 timestamps and plain dates, with or without a time part.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

var structValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("timestamp", func(fl validator.FieldLevel) bool {
		_, err := ParseTimestamp(fl.Field().String())
		return err == nil
	})
	// The builtin uuid tag only matches lowercase hex.
	v.RegisterValidation("uuid_anycase", func(fl validator.FieldLevel) bool {
		_, ok := parseID(fl.Field().String())
		return ok
	})
	return v
}

// parseID accepts the hyphenated 36 character form in either case.
func parseID(raw string) (uuid.UUID, bool) {
	if len(raw) != 36 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// PathUUID reads the chi URL parameter name and requires a hyphenated UUID.
func PathUUID(r *http.Request, name string) Result[uuid.UUID] {
	id, valid := parseID(chi.URLParam(r, name))
	if !valid {
		return fail[uuid.UUID](Issue{Field: name, Message: "must be a valid UUID"})
	}
	return ok(id)
}

// Body decodes a single JSON value from the request body into T and runs its
// validate tags.
func Body[T any](r *http.Request) Result[T] {
	var v T
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&v); err != nil {
		return fail[T](decodeIssue(err))
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fail[T](decodeIssue(err))
		}
		return fail[T](Issue{Message: "unexpected data after JSON body"})
	}
	if err := structValidator.Struct(v); err != nil {
		return fail[T](fieldIssues(err)...)
	}
	return ok(v)
}

func decodeIssue(err error) Issue {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return Issue{Message: "request body is required"}
	case errors.As(err, &maxErr):
		return Issue{Message: fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)}
	case errors.As(err, &typeErr):
		return Issue{Field: typeErr.Field, Message: "expected " + jsonKind(typeErr.Type)}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return Issue{Message: "malformed JSON"}
	default:
		return Issue{Message: "invalid request body"}
	}
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Struct:
		return "object"
	default:
		return t.Kind().String()
	}
}

func fieldIssues(err error) []Issue {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Issue{{Message: err.Error()}}
	}

	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, Issue{Field: fe.Field(), Message: message(fe)})
	}
	return issues
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must not be empty"
	case "uuid_anycase":
		return "must be a valid UUID"
	case "timestamp":
		return "must be a date or RFC 3339 timestamp"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
