// Package api is the single chokepoint for all calls against the reader
// backend. It owns header injection, timeouts, the response envelope, and
// the normalization of every failure into a typed *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 10 * time.Second

// CredentialSource supplies the bearer token for outbound requests and
// clears it when the server rejects it. The session layer plugs its
// persistent store in here.
type CredentialSource interface {
	Token() string
	Clear() error
}

// Options configures a Client. BaseURL is required; everything else has
// a sensible default.
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	AppName     string
	AppVersion  string
	Credentials CredentialSource
	Logger      *slog.Logger
}

// Client is an authenticated reader API client.
type Client struct {
	baseURL    string
	appName    string
	appVersion string
	creds      CredentialSource
	http       *http.Client
	log        *slog.Logger

	mu        sync.Mutex
	onExpired []func()
}

// New creates a Client. The Timeout applies per request; callers pass a
// context for earlier cancellation.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		appName:    opts.AppName,
		appVersion: opts.AppVersion,
		creds:      opts.Credentials,
		log:        log,
		http:       &http.Client{Timeout: timeout},
	}
}

// OnAuthFailure registers a listener invoked when the server answers 401.
// Listeners run synchronously, once per rejected response, after the
// credential has been cleared. Multiple listeners are supported.
func (c *Client) OnAuthFailure(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onExpired = append(c.onExpired, fn)
}

// Call routes a logical endpoint name, executes the request, and decodes
// the envelope's data block into out (skipped when out is nil).
func (c *Client) Call(ctx context.Context, name string, params map[string]string, query url.Values, body, out any) error {
	env, err := c.callEnvelope(ctx, name, params, query, body)
	if err != nil {
		return err
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{Kind: KindUnknown, Message: "malformed response data", cause: err}
		}
	}
	return nil
}

// CallPage executes a paginated list endpoint, decoding the items into
// items (a pointer to a slice) and returning the page metadata unchanged.
func (c *Client) CallPage(ctx context.Context, name string, params map[string]string, query url.Values, items any) (PageMeta, error) {
	env, err := c.callEnvelope(ctx, name, params, query, nil)
	if err != nil {
		return PageMeta{}, err
	}
	var pg page
	if err := json.Unmarshal(env.Data, &pg); err != nil {
		return PageMeta{}, &Error{Kind: KindUnknown, Message: "malformed paginated response", cause: err}
	}
	if len(pg.Items) > 0 {
		if err := json.Unmarshal(pg.Items, items); err != nil {
			return PageMeta{}, &Error{Kind: KindUnknown, Message: "malformed page items", cause: err}
		}
	}
	return pg.PageMeta, nil
}

// Download streams a raw (non-envelope) endpoint, e.g. book content.
// The caller must close the returned reader.
func (c *Client) Download(ctx context.Context, name string, params map[string]string) (io.ReadCloser, error) {
	ep, path, err := Route(name, params)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, ep.Method, path, nil, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		return nil, c.statusError(resp)
	}
	return resp.Body, nil
}

func (c *Client) callEnvelope(ctx context.Context, name string, params map[string]string, query url.Values, body any) (*Envelope, error) {
	ep, path, err := Route(name, params)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, ep.Method, path, query, body)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", "endpoint", name, "err", err)
		return nil, c.transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()
	c.log.Debug("request done",
		"endpoint", name, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.statusError(resp)
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &Error{Kind: KindUnknown, Status: resp.StatusCode, Message: "malformed response envelope", cause: err}
	}
	if !env.Success {
		msg := env.Message
		if msg == "" && len(env.Errors) > 0 {
			msg = env.Errors[0]
		}
		return nil, &Error{Kind: KindUnknown, Status: resp.StatusCode, Message: msg}
	}
	return &env, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-App-Name", c.appName)
	req.Header.Set("X-App-Version", c.appVersion)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.creds != nil {
		if token := c.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// statusError turns a non-2xx response into a typed error. A 401 carries
// the one cross-cutting side effect in the client: the stored credential
// is cleared and auth-failure listeners fire.
func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var env Envelope
	msg := ""
	if json.Unmarshal(body, &env) == nil {
		msg = env.Message
		if msg == "" && len(env.Errors) > 0 {
			msg = env.Errors[0]
		}
	}

	kind := classify(resp.StatusCode)
	if kind == KindUnauthorized {
		c.expireCredential()
	}
	return &Error{Kind: kind, Status: resp.StatusCode, Message: msg, Body: body}
}

// transportError classifies failures where no response arrived.
func (c *Client) transportError(err error) error {
	kind := KindNetwork
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		kind = KindTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, cause: err}
}

func (c *Client) expireCredential() {
	if c.creds != nil {
		if err := c.creds.Clear(); err != nil {
			c.log.Debug("clearing credential failed", "err", err)
		}
	}
	c.mu.Lock()
	listeners := make([]func(), len(c.onExpired))
	copy(listeners, c.onExpired)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}
