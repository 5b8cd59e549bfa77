package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"
	"github.com/hubworks-io/hubrun/internal/constants"
	"github.com/hubworks-io/hubrun/pkg/hubrun"
)

// Request describes one logical API call before it becomes an HTTP exchange.
//
// Positional and Keyword are mutually exclusive: a call supplies positional
// arguments (serialized as a JSON array body), keyword arguments (a JSON
// object body for mutating verbs, a query string for read-only verbs), or
// neither. Supplying both is a caller bug and is rejected before any network
// I/O.
type Request struct {
	Method Method
	Path   string

	// Positional arguments, serialized as a JSON array body on mutating
	// verbs.
	Positional []interface{}

	// Keyword arguments: a map (string keys) or a struct with url tags.
	Keyword interface{}
}

// hasKeyword reports whether keyword arguments were supplied. A nil or empty
// map counts as absent; any struct counts as present.
func (r *Request) hasKeyword() bool {
	switch kw := r.Keyword.(type) {
	case nil:
		return false
	case url.Values:
		return len(kw) > 0
	case map[string]string:
		return len(kw) > 0
	case map[string]interface{}:
		return len(kw) > 0
	default:
		return true
	}
}

// queryValues encodes keyword arguments as URL query values. Maps are copied
// key by key; anything else goes through go-querystring, which understands
// structs with url tags.
func queryValues(keyword interface{}) (url.Values, error) {
	switch kw := keyword.(type) {
	case nil:
		return nil, nil
	case url.Values:
		return kw, nil
	case map[string]string:
		values := make(url.Values, len(kw))
		for key, value := range kw {
			values.Set(key, value)
		}

		return values, nil
	case map[string]interface{}:
		values := make(url.Values, len(kw))
		for key, value := range kw {
			values.Set(key, fmt.Sprint(value))
		}

		return values, nil
	default:
		values, err := query.Values(keyword)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", hubrun.ErrUnsupportedQuery, err)
		}

		return values, nil
	}
}

// build turns a Request into a ready-to-send *http.Request: resolves the
// full URL, serializes the body or query string, and attaches the standard
// header set. No network I/O happens here.
func (c *Client) build(req *Request) (*nethttp.Request, error) {
	if _, err := ParseMethod(string(req.Method)); err != nil {
		return nil, err
	}

	if len(req.Positional) > 0 && req.hasKeyword() {
		return nil, hubrun.ErrArgsConflict
	}

	if len(req.Positional) > 0 && !req.Method.HasBody() {
		return nil, hubrun.ErrPositionalQuery
	}

	target := req.Path
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = strings.TrimSuffix(c.baseURL, "/") + "/" + strings.TrimPrefix(target, "/")
	}

	var body []byte

	switch {
	case req.Method.HasBody() && len(req.Positional) > 0:
		encoded, err := json.Marshal(req.Positional)
		if err != nil {
			return nil, fmt.Errorf("encoding positional arguments: %w", err)
		}

		body = encoded
	case req.Method.HasBody() && req.hasKeyword():
		encoded, err := json.Marshal(req.Keyword)
		if err != nil {
			return nil, fmt.Errorf("encoding keyword arguments: %w", err)
		}

		body = encoded
	case !req.Method.HasBody() && req.hasKeyword():
		values, err := queryValues(req.Keyword)
		if err != nil {
			return nil, err
		}

		if len(values) > 0 {
			target = target + "?" + values.Encode()
		}
	}

	httpReq, err := nethttp.NewRequest(string(req.Method), target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	httpReq.ContentLength = int64(len(body))

	httpReq.Header.Set("Accept", c.accept)
	httpReq.Header.Set("Content-Type", constants.ContentTypeJSON)
	httpReq.Header.Set("Content-Length", strconv.Itoa(len(body)))
	httpReq.Header.Set("User-Agent", c.userAgent)

	if !c.creds.Empty() {
		httpReq.Header.Set("Authorization", c.creds.HeaderValue())
	}

	return httpReq, nil
}
