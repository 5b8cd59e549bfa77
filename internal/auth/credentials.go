// Package auth selects the authentication mode for outgoing requests and
// owns the redaction of credential material in diagnostic output.
package auth

import (
	"encoding/base64"

	"github.com/hubworks-io/hubrun/internal/constants"
)

// Mode is the selected authentication scheme.
type Mode int

const (
	// ModeNone sends no Authorization header.
	ModeNone Mode = iota

	// ModeBasic sends base64-encoded user:pass credentials.
	ModeBasic

	// ModeBearer sends an opaque token.
	ModeBearer
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeBasic:
		return "basic"
	case ModeBearer:
		return "bearer"
	case ModeNone:
		return "none"
	default:
		return "unknown"
	}
}

// Credentials is an immutable selection of one authentication mode plus its
// precomputed Authorization header value.
type Credentials struct {
	mode  Mode
	value string
}

// Select picks exactly one authentication mode. A non-empty username selects
// Basic auth regardless of whether a token is also present: supplying a
// username is explicit intent to override any ambient token. Otherwise a
// non-empty token selects Bearer. Otherwise requests go out unauthenticated.
func Select(token, username, password string) Credentials {
	switch {
	case username != "":
		encoded := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))

		return Credentials{mode: ModeBasic, value: "Basic " + encoded}
	case token != "":
		return Credentials{mode: ModeBearer, value: "bearer " + token}
	default:
		return Credentials{mode: ModeNone}
	}
}

// Mode returns the selected authentication mode.
func (c Credentials) Mode() Mode {
	return c.mode
}

// Empty reports whether no credential is active.
func (c Credentials) Empty() bool {
	return c.mode == ModeNone
}

// HeaderValue returns the Authorization header value, or "" for ModeNone.
func (c Credentials) HeaderValue() string {
	return c.value
}

// Redacted returns the placeholder rendered in place of the real header
// value in debug output, or "" when no credential is active.
func (c Credentials) Redacted() string {
	if c.mode == ModeNone {
		return ""
	}

	return constants.RedactedPlaceholder
}
