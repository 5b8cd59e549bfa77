package script

import (
	"context"

	apihttp "github.com/hubworks-io/hubrun/internal/http"
	"github.com/hubworks-io/hubrun/pkg/hubrun"
)

// Client is the object handed to scripts. It exposes one method per HTTP
// verb plus a WithResponses variant of each that also returns the ordered
// raw response list. Read-only verbs take an optional keyword map serialized
// as a query string; mutating verbs take either a single keyword map (JSON
// object body) or any other sequence of values (JSON array body).
type Client struct {
	ctx context.Context
	api *apihttp.Client
}

// NewClient wraps an API client for script invocation.
func NewClient(ctx context.Context, api *apihttp.Client) *Client {
	return &Client{ctx: ctx, api: api}
}

// splitBody maps a script call's trailing arguments onto the request shape:
// one map argument is a keyword (object) body, anything else is a positional
// (array) body.
func splitBody(args []interface{}) ([]interface{}, interface{}) {
	if len(args) == 0 {
		return nil, nil
	}

	if len(args) == 1 {
		if keyword, ok := args[0].(map[string]interface{}); ok {
			return nil, keyword
		}
	}

	return args, nil
}

func firstParams(params []map[string]interface{}) interface{} {
	if len(params) == 0 || len(params[0]) == 0 {
		return nil
	}

	return params[0]
}

func (c *Client) read(method apihttp.Method, path string, params []map[string]interface{}) (*hubrun.Result, error) {
	return c.api.Execute(c.ctx, &apihttp.Request{
		Method:  method,
		Path:    path,
		Keyword: firstParams(params),
	})
}

func (c *Client) write(method apihttp.Method, path string, args []interface{}) (*hubrun.Result, error) {
	positional, keyword := splitBody(args)

	return c.api.Execute(c.ctx, &apihttp.Request{
		Method:     method,
		Path:       path,
		Positional: positional,
		Keyword:    keyword,
	})
}

// Head issues a HEAD request and returns the aggregated payload.
func (c *Client) Head(path string, params ...map[string]interface{}) (interface{}, error) {
	result, err := c.read(apihttp.MethodHead, path, params)
	if err != nil {
		return nil, err
	}

	return result.Payload, nil
}

// Get issues a GET request, follows pagination, and returns the aggregated
// payload.
func (c *Client) Get(path string, params ...map[string]interface{}) (interface{}, error) {
	result, err := c.read(apihttp.MethodGet, path, params)
	if err != nil {
		return nil, err
	}

	return result.Payload, nil
}

// Delete issues a DELETE request and returns the payload, if any.
func (c *Client) Delete(path string, params ...map[string]interface{}) (interface{}, error) {
	result, err := c.read(apihttp.MethodDelete, path, params)
	if err != nil {
		return nil, err
	}

	return result.Payload, nil
}

// Post issues a POST request and returns the payload.
func (c *Client) Post(path string, args ...interface{}) (interface{}, error) {
	result, err := c.write(apihttp.MethodPost, path, args)
	if err != nil {
		return nil, err
	}

	return result.Payload, nil
}

// Patch issues a PATCH request and returns the payload.
func (c *Client) Patch(path string, args ...interface{}) (interface{}, error) {
	result, err := c.write(apihttp.MethodPatch, path, args)
	if err != nil {
		return nil, err
	}

	return result.Payload, nil
}

// Put issues a PUT request and returns the payload.
func (c *Client) Put(path string, args ...interface{}) (interface{}, error) {
	result, err := c.write(apihttp.MethodPut, path, args)
	if err != nil {
		return nil, err
	}

	return result.Payload, nil
}

// WithResponses variants return the full Result, payload plus the ordered
// list of raw responses received while paginating.

// HeadWithResponses issues a HEAD request.
func (c *Client) HeadWithResponses(path string, params ...map[string]interface{}) (*hubrun.Result, error) {
	return c.read(apihttp.MethodHead, path, params)
}

// GetWithResponses issues a GET request and follows pagination.
func (c *Client) GetWithResponses(path string, params ...map[string]interface{}) (*hubrun.Result, error) {
	return c.read(apihttp.MethodGet, path, params)
}

// DeleteWithResponses issues a DELETE request.
func (c *Client) DeleteWithResponses(path string, params ...map[string]interface{}) (*hubrun.Result, error) {
	return c.read(apihttp.MethodDelete, path, params)
}

// PostWithResponses issues a POST request.
func (c *Client) PostWithResponses(path string, args ...interface{}) (*hubrun.Result, error) {
	return c.write(apihttp.MethodPost, path, args)
}

// PatchWithResponses issues a PATCH request.
func (c *Client) PatchWithResponses(path string, args ...interface{}) (*hubrun.Result, error) {
	return c.write(apihttp.MethodPatch, path, args)
}

// PutWithResponses issues a PUT request.
func (c *Client) PutWithResponses(path string, args ...interface{}) (*hubrun.Result, error) {
	return c.write(apihttp.MethodPut, path, args)
}
