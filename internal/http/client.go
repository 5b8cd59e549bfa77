// Package http implements the authenticated paginated request pipeline: it
// builds HTTP requests from logical calls, issues them synchronously, follows
// "next" Link relations across pages, and classifies non-2xx responses.
package http

import (
	"context"
	"fmt"
	"io"
	nethttp "net/http"

	"github.com/hubworks-io/hubrun/internal/auth"
	"github.com/hubworks-io/hubrun/internal/constants"
	"github.com/hubworks-io/hubrun/pkg/hubrun"
)

// Client issues API requests. It is owned by a single logical caller: the
// one-shot extra-header queue and the redirect policy assume one in-flight
// call at a time, so a Client must not be shared across concurrent requests.
type Client struct {
	baseURL    string
	creds      auth.Credentials
	accept     string
	userAgent  string
	debug      bool
	logger     hubrun.Logger
	httpClient *nethttp.Client

	// One-shot header queues, consumed and cleared by the next build even
	// when the subsequent send fails. Forwarding extras survive redirects;
	// non-forwarding extras are stripped when a redirect leaves the original
	// host.
	extraHeaders     [][2]string
	noForwardExtras  [][2]string
	noForwardActive  []string
	noForwardAuthSet bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for transport diagnostics.
func WithLogger(logger hubrun.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithAccept overrides the Accept media type.
func WithAccept(accept string) Option {
	return func(c *Client) {
		if accept != "" {
			c.accept = accept
		}
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithNoForwardAuth marks the Authorization header as non-forwarding: it is
// not resent when a request is redirected to a different host.
func WithNoForwardAuth(noForward bool) Option {
	return func(c *Client) {
		c.noForwardAuthSet = noForward
	}
}

// WithHTTPClient swaps the underlying transport. The redirect policy is
// reapplied to the replacement.
func WithHTTPClient(httpClient *nethttp.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a client for the given base URL and credentials.
func NewClient(baseURL string, creds auth.Credentials, opts ...Option) *Client {
	client := &Client{
		baseURL:    baseURL,
		creds:      creds,
		accept:     constants.DefaultAccept,
		userAgent:  constants.DefaultUserAgent,
		httpClient: &nethttp.Client{},
	}

	for _, opt := range opts {
		opt(client)
	}

	client.httpClient.CheckRedirect = client.checkRedirect

	return client
}

// NewClientFromConfig creates a client from resolved settings: credential
// selection follows hubrun.Config's precedence (username over token), and
// every non-zero field becomes the matching option.
func NewClientFromConfig(cfg *hubrun.Config) *Client {
	creds := auth.Select(cfg.Token, cfg.Username, cfg.Password)

	return NewClient(cfg.BaseURL, creds,
		WithAccept(cfg.Accept),
		WithUserAgent(cfg.UserAgent),
		WithNoForwardAuth(cfg.NoForwardAuth),
		WithLogger(cfg.Logger),
		WithDebug(cfg.Debug),
	)
}

// QueueHeader attaches an extra header to the next request only. The header
// is forwarded across redirects.
func (c *Client) QueueHeader(name, value string) {
	c.extraHeaders = append(c.extraHeaders, [2]string{name, value})
}

// QueueNoForwardHeader attaches an extra header to the next request only,
// marked as not resent when the request is redirected to a different host.
func (c *Client) QueueNoForwardHeader(name, value string) {
	c.noForwardExtras = append(c.noForwardExtras, [2]string{name, value})
}

// checkRedirect strips non-forwarding headers once a redirect leaves the
// host of the original request.
func (c *Client) checkRedirect(req *nethttp.Request, via []*nethttp.Request) error {
	if len(via) >= 10 {
		return fmt.Errorf("stopped after %d redirects", len(via))
	}

	if req.URL.Host != via[0].URL.Host {
		for _, name := range c.noForwardActive {
			req.Header.Del(name)
		}
	}

	return nil
}

// consumeExtras attaches the queued one-shot headers to the built request
// and clears both queues. The queues are consumed exactly once regardless of
// whether the subsequent send succeeds.
func (c *Client) consumeExtras(httpReq *nethttp.Request) {
	c.noForwardActive = c.noForwardActive[:0]

	if c.noForwardAuthSet {
		c.noForwardActive = append(c.noForwardActive, "Authorization")
	}

	for _, header := range c.extraHeaders {
		httpReq.Header.Set(header[0], header[1])
	}

	for _, header := range c.noForwardExtras {
		httpReq.Header.Set(header[0], header[1])
		c.noForwardActive = append(c.noForwardActive, header[0])
	}

	c.extraHeaders = nil
	c.noForwardExtras = nil
}

// Do performs exactly one HTTP exchange: build, send, buffer the body, and
// classify a non-2xx status. A response paired with a non-nil error means the
// server answered but reported failure; a nil response means no response was
// obtainable at all.
func (c *Client) Do(ctx context.Context, req *Request) (*hubrun.Response, error) {
	httpReq, err := c.build(req)
	if err != nil {
		return nil, err
	}

	c.consumeExtras(httpReq)
	c.logRequest(httpReq)

	httpResp, err := c.httpClient.Do(httpReq.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &hubrun.Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	c.logResponse(httpReq, resp)

	if resp.StatusCode < constants.HTTPStatusOKFloor || resp.StatusCode >= constants.HTTPStatusOKCeiling {
		reqErr := &hubrun.RequestError{
			StatusCode: resp.StatusCode,
			URL:        httpReq.URL.String(),
			Body:       body,
		}

		return resp, hubrun.Classify(reqErr)
	}

	return resp, nil
}

// logRequest emits the outgoing exchange with credentials redacted.
func (c *Client) logRequest(httpReq *nethttp.Request) {
	if !c.debug || c.logger == nil {
		return
	}

	fields := map[string]interface{}{
		"method": httpReq.Method,
		"url":    httpReq.URL.String(),
	}

	if httpReq.Header.Get("Authorization") != "" {
		fields["authorization"] = c.creds.Redacted()
	}

	c.logger.Debug("HTTP Request", fields)
}

func (c *Client) logResponse(httpReq *nethttp.Request, resp *hubrun.Response) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Response", map[string]interface{}{
		"method": httpReq.Method,
		"url":    httpReq.URL.String(),
		"status": resp.StatusCode,
		"bytes":  len(resp.Body),
	})
}

// Verb helpers. Each performs one logical call through the pagination
// driver; keyword may be nil.

// Head issues a HEAD request.
func (c *Client) Head(ctx context.Context, path string, keyword interface{}) (*hubrun.Result, error) {
	return c.Execute(ctx, &Request{Method: MethodHead, Path: path, Keyword: keyword})
}

// Get issues a GET request and follows pagination.
func (c *Client) Get(ctx context.Context, path string, keyword interface{}) (*hubrun.Result, error) {
	return c.Execute(ctx, &Request{Method: MethodGet, Path: path, Keyword: keyword})
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, keyword interface{}) (*hubrun.Result, error) {
	return c.Execute(ctx, &Request{Method: MethodDelete, Path: path, Keyword: keyword})
}

// Post issues a POST request with a JSON object body.
func (c *Client) Post(ctx context.Context, path string, keyword interface{}) (*hubrun.Result, error) {
	return c.Execute(ctx, &Request{Method: MethodPost, Path: path, Keyword: keyword})
}

// Patch issues a PATCH request with a JSON object body.
func (c *Client) Patch(ctx context.Context, path string, keyword interface{}) (*hubrun.Result, error) {
	return c.Execute(ctx, &Request{Method: MethodPatch, Path: path, Keyword: keyword})
}

// Put issues a PUT request with a JSON object body.
func (c *Client) Put(ctx context.Context, path string, keyword interface{}) (*hubrun.Result, error) {
	return c.Execute(ctx, &Request{Method: MethodPut, Path: path, Keyword: keyword})
}
