package hubrun

import "net/http"

// Logger is the logging interface consumed by the transport layer. The CLI
// adapts its zerolog logger to this interface; library consumers may plug in
// anything else.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config carries the resolved settings a client needs. It is assembled once
// per process run from merged configuration.
//
// At most one credential mode is active: a non-empty Username selects Basic
// auth (Password may be empty), otherwise a non-empty Token selects Bearer
// auth, otherwise requests are sent unauthenticated. A caller who supplies a
// username has expressed explicit intent to override any ambient token.
type Config struct {
	// BaseURL is prefixed to relative request paths.
	BaseURL string

	// Token is an opaque credential sent as "Authorization: bearer <token>".
	Token string

	// Username and Password select Basic auth when Username is non-empty.
	Username string
	Password string

	// Accept is the requested media type. Empty means application/json.
	Accept string

	// NoForwardAuth marks the Authorization header (and any queued
	// non-forwarding extras) as not resent when a request is redirected to a
	// different host.
	NoForwardAuth bool

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Debug enables request/response logging through Logger. Credential
	// values are always rendered as a fixed placeholder, never verbatim.
	Debug bool

	// Logger receives transport diagnostics. Nil disables logging.
	Logger Logger
}

// Response is one raw HTTP exchange as seen by the pagination driver. The
// body is fully buffered; Headers and StatusCode come straight from the wire.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Result is the outcome of one logical API call: every response received
// while following "next" links, in receive order, plus the aggregated
// payload.
//
// If any page decoded to a JSON array, Payload is the concatenation of all
// array elements across all pages ([]interface{}). Otherwise Payload is the
// last non-array page payload seen, or nil when no page carried a body.
type Result struct {
	Responses []*Response
	Payload   interface{}
}

// Last returns the final response received, or nil when no exchange
// completed.
func (r *Result) Last() *Response {
	if len(r.Responses) == 0 {
		return nil
	}

	return r.Responses[len(r.Responses)-1]
}
