package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds the size of a request body
const maxBodyBytes = 1 << 20

var validate = newValidator()

// newValidator reports fields by their json name so issues read the way the
// client wrote the payload
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})
	return v
}

// decodeJSON strictly decodes the body of r into dst and validates it.
// Every returned issue is meant for a VALIDATION_ERROR problem.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) []string {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return []string{decodeIssue(err)}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return []string{"body: must contain a single JSON object"}
	}

	return validationIssues(dst)
}

// validationIssues runs the validate tags of v, one issue per violation
func validationIssues(v any) []string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	issues := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}

	return issues
}

// decodeIssue describes a decoding failure without leaking Go internals
func decodeIssue(err error) string {
	var (
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		timeErr     *time.ParseError
		maxBytesErr *http.MaxBytesError
	)

	switch {
	case errors.Is(err, io.EOF):
		return "body: required"
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "body: malformed JSON"
	case errors.As(err, &syntaxErr):
		return "body: malformed JSON"
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return "body: must be a JSON object"
		}
		return fmt.Sprintf("%s: must be %s", typeErr.Field, jsonType(typeErr.Type))
	case errors.As(err, &timeErr):
		return fmt.Sprintf("date-time: %q is not RFC 3339", timeErr.Value)
	case errors.As(err, &maxBytesErr):
		return fmt.Sprintf("body: larger than %d bytes", maxBytesErr.Limit)
	}

	if field, found := strings.CutPrefix(err.Error(), "json: unknown field "); found {
		return fmt.Sprintf("%s: unknown field", strings.Trim(field, `"`))
	}

	return "body: " + err.Error()
}

// jsonType names the JSON type a Go type decodes from
func jsonType(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		if t == reflect.TypeOf(time.Time{}) {
			return "date-time string"
		}
		return "object"
	}
}
