package hubrun

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Static errors for err113 compliance.
var (
	// ErrArgsConflict reports a caller contract violation: a call supplied
	// both positional and keyword arguments. It is returned before any
	// network I/O is attempted.
	ErrArgsConflict = errors.New("positional and keyword arguments are mutually exclusive")

	// ErrMixedPayload reports that a paginated call saw both aggregated
	// array pages and a non-array final payload. A well-behaved server
	// never produces this; it is a defect-detection invariant, not a
	// recoverable condition.
	ErrMixedPayload = errors.New("pagination mixed array pages with a non-array payload")

	// ErrPositionalQuery reports positional arguments supplied to a
	// read-only verb, which has no body to carry them. Like ErrArgsConflict
	// it is a caller contract violation, never silently coerced.
	ErrPositionalQuery = errors.New("positional arguments require a body-carrying method")

	// ErrUnsupportedMethod reports a method outside the fixed verb set.
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")

	// ErrUnsupportedQuery reports keyword arguments of a type the query
	// encoder cannot handle.
	ErrUnsupportedQuery = errors.New("unsupported keyword argument type")
)

// RequestError represents a non-2xx response whose body did not parse as a
// structured error document. The buffered body is preserved so the top-level
// boundary can still print it; the original network body has already been
// consumed and must not be read again.
type RequestError struct {
	StatusCode int
	URL        string
	Body       []byte
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %s", http.StatusText(e.StatusCode), e.URL, strings.TrimSpace(string(e.Body)))
}

// FieldError is one entry of the "errors" array in a structured error body.
type FieldError struct {
	Resource string `json:"resource,omitempty"`
	Field    string `json:"field,omitempty"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
}

// StructuredError is the classified form of a server-reported failure. It is
// immutable once constructed and preserves the status and URL of the failing
// exchange.
type StructuredError struct {
	StatusCode       int
	URL              string
	Message          string       `json:"message"`
	DocumentationURL string       `json:"documentation_url,omitempty"`
	Errors           []FieldError `json:"errors,omitempty"`
}

// Error implements the error interface with a single-line summary.
func (e *StructuredError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "Unknown error"
	}

	return fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
}

// Render produces the human-readable multi-line form used by top-level error
// printing:
//
//	Validation Failed. Errors:
//	* Label: missing
//
// with a trailing "Documentation: <url>" paragraph when the server supplied
// a documentation reference.
func (e *StructuredError) Render() string {
	var builder strings.Builder

	msg := e.Message
	if msg == "" {
		msg = "Unknown error"
	}

	builder.WriteString(msg)

	if len(e.Errors) > 0 {
		builder.WriteString(". Errors:")

		for _, fieldErr := range e.Errors {
			builder.WriteString("\n* ")

			switch fieldErr.Code {
			case "custom":
				builder.WriteString(fieldErr.Resource + ": " + fieldErr.Message)
			case "missing":
				builder.WriteString(fieldErr.Resource + ": missing")
			default:
				builder.WriteString(fieldErr.Resource + ": " + fieldErr.Field + " " + fieldErr.Code)
			}
		}
	}

	builder.WriteString("\n")

	if e.DocumentationURL != "" {
		builder.WriteString("\nDocumentation: " + e.DocumentationURL + "\n")
	}

	return builder.String()
}

// Classify inspects a failed exchange and upgrades it to a StructuredError
// when the buffered body is a JSON object carrying at least a "message" or
// "documentation_url" key. Otherwise the original error is returned
// unchanged, body intact. Classifying the same buffered body twice yields
// structurally equal results.
func Classify(reqErr *RequestError) error {
	var doc struct {
		Message          string       `json:"message"`
		DocumentationURL string       `json:"documentation_url"`
		Errors           []FieldError `json:"errors"`
	}

	err := json.Unmarshal(reqErr.Body, &doc)
	if err != nil {
		return reqErr
	}

	if doc.Message == "" && doc.DocumentationURL == "" {
		return reqErr
	}

	return &StructuredError{
		StatusCode:       reqErr.StatusCode,
		URL:              reqErr.URL,
		Message:          doc.Message,
		DocumentationURL: doc.DocumentationURL,
		Errors:           doc.Errors,
	}
}

// IsStructured checks whether the error carries a classified server failure.
func IsStructured(err error) bool {
	structured := &StructuredError{}

	return errors.As(err, &structured)
}

// IsNotFound checks if the error reports a 404 from either error shape.
func IsNotFound(err error) bool {
	return HasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if the error reports a 401 from either error shape.
func IsUnauthorized(err error) bool {
	return HasStatus(err, http.StatusUnauthorized)
}

// HasStatus checks whether the error carries the given HTTP status code.
func HasStatus(err error, status int) bool {
	structured := &StructuredError{}
	if errors.As(err, &structured) {
		return structured.StatusCode == status
	}

	reqErr := &RequestError{}
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == status
	}

	return false
}
