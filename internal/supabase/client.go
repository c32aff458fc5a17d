package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/vytor/skillswap/internal/errors"
	"github.com/vytor/skillswap/internal/logger"
	"github.com/vytor/skillswap/internal/metrics"
	"github.com/vytor/skillswap/internal/session"
)

// Client talks to a Supabase project over HTTP: GoTrue for auth, PostgREST
// for rows and Storage for objects. It holds no per-user state; the
// caller's access token is taken from the request context.
type Client struct {
	baseURL    string
	anonKey    string
	bucket     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBucket sets the storage bucket used for uploads and public URLs.
func WithBucket(bucket string) Option {
	return func(c *Client) {
		c.bucket = bucket
	}
}

// New returns a Client for the project at baseURL.
func New(baseURL, anonKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		bucket:     "avatars",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response from the hosted backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase status %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase status %d: %s", e.Status, e.Message)
}

// StatusCode lets callers tell a refused token from an unreachable backend.
func (e *APIError) StatusCode() int {
	return e.Status
}

// errorBody covers the error shapes of GoTrue, PostgREST and Storage.
type errorBody struct {
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	ErrorDescription string          `json:"error_description"`
	Error            string          `json:"error"`
	ErrorCode        string          `json:"error_code"`
	Code             json.RawMessage `json:"code"`
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		for _, m := range []string{eb.Msg, eb.Message, eb.ErrorDescription, eb.Error} {
			if m != "" {
				apiErr.Message = m
				break
			}
		}
		apiErr.Code = eb.ErrorCode
		if apiErr.Code == "" && len(eb.Code) > 0 {
			apiErr.Code = strings.Trim(string(eb.Code), `"`)
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// bearer returns the signed-in user's access token, or the anon key.
func (c *Client) bearer(ctx context.Context) string {
	if s := session.FromContext(ctx); s != nil && s.AccessToken != "" {
		return s.AccessToken
	}
	return c.anonKey
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any, token string) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// do sends req and decodes a JSON response into out when out is non-nil.
// Failures are returned as UPSTREAM_ERROR AppErrors carrying the backend's
// message.
func (c *Client) do(ctx context.Context, service string, req *http.Request, out any) (err error) {
	log := logger.FromContext(ctx).WithPrefix("supabase").WithField("service", service)
	start := time.Now()
	defer func() { metrics.ObserveUpstream(service, start, err) }()

	log.Debug("%s %s", req.Method, req.URL.Path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed: %v", err)
		return apperrors.NewUpstreamError("", fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err))
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		apiErr := parseAPIError(resp.StatusCode, body)
		log.Warn("request rejected: status=%d, body=%s", resp.StatusCode, string(body))
		return apperrors.NewUpstreamError(apiErr.Message, apiErr)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error("failed to decode response: %v", err)
		return apperrors.NewUpstreamError("", fmt.Errorf("decode %s response: %w", service, err))
	}
	return nil
}
