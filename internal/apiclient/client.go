// Package apiclient is the single configured HTTP client for the Q&A REST API.
//
// It attaches the stored session token to every request, tags requests with an
// X-Request-ID, and turns a 401 into a forced logout: credentials are cleared, the
// navigator is sent to the login entry point and unauthorized hooks run.
// There is no retry policy; a failed call is returned to the caller as is.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/and161185/stackclone/internal/errs"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// Defaults used when the corresponding option is not given.
const (
	DefaultBaseURL    = "http://localhost:8000/api"
	DefaultAuthScheme = "Token"
	DefaultLoginPath  = "/?login=true"

	maxBody = 8 << 20
)

// Credentials is the token source consulted on every request and cleared on 401.
type Credentials interface {
	Token() string
	Clear() error
}

// Navigator moves the front end to another route.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// Navigate calls f(path).
func (f NavigatorFunc) Navigate(path string) { f(path) }

// Client issues JSON requests against the API base URL.
type Client struct {
	base      string
	http      *http.Client
	creds     Credentials
	scheme    string
	loginPath string
	nav       Navigator
	log       *zap.Logger

	mu    sync.Mutex
	hooks []func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying *http.Client (cookie jar, transport, timeouts).
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithAuthScheme sets the Authorization scheme, e.g. "Token" or "Bearer".
func WithAuthScheme(scheme string) Option {
	return func(c *Client) {
		if s := strings.TrimSpace(scheme); s != "" {
			c.scheme = s
		}
	}
}

// WithNavigator sets where a forced logout redirects.
func WithNavigator(nav Navigator) Option { return func(c *Client) { c.nav = nav } }

// WithLoginPath overrides the route used on forced logout.
func WithLoginPath(path string) Option { return func(c *Client) { c.loginPath = path } }

// WithLogger sets the structured logger.
func WithLogger(log *zap.Logger) Option { return func(c *Client) { c.log = log } }

// New builds a Client for baseURL. creds may not be nil.
func New(baseURL string, creds Credentials, opts ...Option) (*Client, error) {
	if creds == nil {
		return nil, errors.New("apiclient: nil credentials")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("apiclient: base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: base url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		base:      strings.TrimRight(u.String(), "/"),
		http:      http.DefaultClient,
		creds:     creds,
		scheme:    DefaultAuthScheme,
		loginPath: DefaultLoginPath,
		nav:       NavigatorFunc(func(string) {}),
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the normalized API origin and prefix.
func (c *Client) BaseURL() string { return c.base }

// OnUnauthorized registers fn to run after a 401 has cleared the credentials.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, fn)
}

// Do sends a JSON request. body is marshalled when non-nil; out is filled from a
// non-empty 2xx response when non-nil.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var (
		rdr io.Reader
		ct  string
	)
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
		ct = "application/json"
	}
	return c.send(ctx, method, path, query, rdr, ct, out)
}

// Get issues GET path?query.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Patch issues PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete issues DELETE path.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// FormField is a plain multipart field.
type FormField struct {
	Name, Value string
}

// FormFile is a multipart file part.
type FormFile struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Form is a multipart/form-data body.
type Form struct {
	Fields []FormField
	Files  []FormFile
}

// SendForm sends f as multipart/form-data.
func (c *Client) SendForm(ctx context.Context, method, path string, f Form, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, fld := range f.Fields {
		if err := w.WriteField(fld.Name, fld.Value); err != nil {
			return err
		}
	}
	for _, file := range f.Files {
		part, err := w.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return fmt.Errorf("read %s: %w", file.Filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.send(ctx, method, path, nil, &buf, w.FormDataContentType(), out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.creds.Token(); tok != "" {
		req.Header.Set("Authorization", c.scheme+" "+tok)
	}
	reqID := newRequestID()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Duration("dur", time.Since(start)),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %s %s: %w", errs.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	c.log.Info("api",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", reqID),
		zap.Duration("dur", time.Since(start)),
	)
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %w", errs.ErrTransport, method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.expire()
		return errs.NewAPIError(method, path, resp.StatusCode, data)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.NewAPIError(method, path, resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// expire performs the forced logout that follows any 401.
func (c *Client) expire() {
	if err := c.creds.Clear(); err != nil {
		c.log.Error("clear credentials after 401", zap.Error(err))
	}
	c.nav.Navigate(c.loginPath)

	c.mu.Lock()
	hooks := append([]func(){}, c.hooks...)
	c.mu.Unlock()
	for _, h := range hooks {
		h()
	}
}

func newRequestID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return id.String()
}
