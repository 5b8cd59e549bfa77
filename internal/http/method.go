package http

import (
	"fmt"
	"strings"

	"github.com/hubworks-io/hubrun/pkg/hubrun"
)

// Method is one member of the fixed verb set. The runner never synthesizes
// verbs at runtime; anything outside this set is rejected up front.
type Method string

const (
	MethodHead   Method = "HEAD"
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPatch  Method = "PATCH"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// Methods lists every supported verb in a stable order.
func Methods() []Method {
	return []Method{MethodHead, MethodGet, MethodPost, MethodPatch, MethodPut, MethodDelete}
}

// ParseMethod maps a case-insensitive verb token to a Method.
func ParseMethod(token string) (Method, error) {
	method := Method(strings.ToUpper(strings.TrimSpace(token)))
	for _, known := range Methods() {
		if method == known {
			return method, nil
		}
	}

	return "", fmt.Errorf("%w: %q", hubrun.ErrUnsupportedMethod, token)
}

// HasBody reports whether the verb carries a request body. Read-only verbs
// serialize keyword arguments as a query string instead.
func (m Method) HasBody() bool {
	switch m {
	case MethodPost, MethodPatch, MethodPut:
		return true
	case MethodHead, MethodGet, MethodDelete:
		return false
	default:
		return false
	}
}
