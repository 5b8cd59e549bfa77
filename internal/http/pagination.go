package http

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hubworks-io/hubrun/pkg/hubrun"
)

// Execute drives one logical call to completion: it sends the request,
// decodes each page, and follows the Link header's "next" relation until
// exhausted. Pages are fetched strictly sequentially; the URL of page N+1 is
// only known after reading a header of page N. Pagination stops at the first
// failing page.
//
// Array pages are concatenated element-wise into the aggregated payload.
// A non-array page becomes the pending final payload. Seeing both is a
// contract violation on the server's side and surfaces as ErrMixedPayload.
func (c *Client) Execute(ctx context.Context, req *Request) (*hubrun.Result, error) {
	result := &hubrun.Result{}

	var (
		aggregate []interface{}
		final     interface{}
		sawArray  bool
	)

	current := req

	for {
		resp, err := c.Do(ctx, current)
		if resp != nil {
			result.Responses = append(result.Responses, resp)
		}

		if err != nil {
			return result, err
		}

		if len(resp.Body) > 0 {
			var payload interface{}

			err = json.Unmarshal(resp.Body, &payload)
			if err != nil {
				return result, fmt.Errorf("decoding response body: %w", err)
			}

			if elements, ok := payload.([]interface{}); ok {
				aggregate = append(aggregate, elements...)
				sawArray = true
			} else if payload != nil {
				final = payload
			}
		}

		next := nextLink(resp.Headers.Get("Link"))
		if next == "" {
			break
		}

		// The next-link URL is already fully formed: reuse the method,
		// suppress body and query.
		current = &Request{Method: current.Method, Path: next}
	}

	if sawArray && final != nil {
		return result, hubrun.ErrMixedPayload
	}

	if sawArray {
		result.Payload = aggregate
	} else {
		result.Payload = final
	}

	return result, nil
}

// nextLink extracts the URL of the first entry carrying relation "next" from
// a Link-style header. Entries are comma-separated "<url>; rel=name" pairs;
// quotes around the relation are optional and one entry may carry several
// space-separated relations.
func nextLink(header string) string {
	if header == "" {
		return ""
	}

	for _, entry := range strings.Split(header, ",") {
		segments := strings.Split(entry, ";")
		if len(segments) < 2 {
			continue
		}

		target := strings.TrimSpace(segments[0])
		target = strings.TrimPrefix(target, "<")
		target = strings.TrimSuffix(target, ">")

		for _, param := range segments[1:] {
			key, value, found := strings.Cut(strings.TrimSpace(param), "=")
			if !found || strings.TrimSpace(key) != "rel" {
				continue
			}

			relations := strings.Trim(strings.TrimSpace(value), `"`)
			for _, relation := range strings.Fields(relations) {
				if relation == "next" {
					return target
				}
			}
		}
	}

	return ""
}
