// Package gateway executes requests against the shop's HTTP API and maps
// transport failures and non-2xx statuses onto the domain error taxonomy.
// It holds no session state and never retries.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"gurkerl-cli/internal/config"
	"gurkerl-cli/internal/domain"
	"gurkerl-cli/internal/logging"
)

const (
	userAgent = "gurkerlcli/0.1.0"
	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 8 << 20
)

// Request describes one API call. AuthToken is attached as a bearer token when set.
type Request struct {
	Method    string
	Path      string
	Query     url.Values
	Body      any
	AuthToken string
}

type Response struct {
	Status  int
	Header  http.Header
	Cookies []*http.Cookie
	Body    []byte
}

// Decode unmarshals the JSON body into out. An empty body leaves out untouched.
func (r *Response) Decode(out any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return &domain.InvalidResponseError{Status: r.Status, Body: string(r.Body), Reason: err.Error()}
	}
	return nil
}

// Executor is implemented by the gateway and by session-bound wrappers around it.
type Executor interface {
	Execute(ctx context.Context, req Request) (*Response, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	maxBody    int64
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithHTTPClient uses a copy of hc for all requests. The copy's timeout is
// forced to the fixed gateway timeout unless already shorter; hc is not modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		clone := *hc
		c.httpClient = &clone
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logging.Nop(),
		maxBody:    maxBodyBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Timeout == 0 || c.httpClient.Timeout > config.RequestTimeout {
		c.httpClient.Timeout = config.RequestTimeout
	}
	return c
}

func (c *Client) Execute(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	requestID := ulid.Make().String()
	httpReq.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("→ request", "method", req.Method, "path", req.Path, "id", requestID)
	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, transportError(ctx, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, &domain.InvalidResponseError{
			Status: resp.StatusCode,
			Reason: fmt.Sprintf("response body exceeds %d bytes", c.maxBody),
		}
	}
	c.logger.Debug("← response", "status", resp.StatusCode, "method", req.Method, "path", req.Path,
		"id", requestID, "elapsed", time.Since(start).Truncate(time.Millisecond))

	out := &Response{
		Status:  resp.StatusCode,
		Header:  resp.Header,
		Cookies: resp.Cookies(),
		Body:    body,
	}
	if err := statusError(req.Path, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("x-origin", "WEB")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.AuthToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.AuthToken)
	}
	return httpReq, nil
}

func statusError(path string, resp *Response) error {
	switch {
	case resp.Status >= 200 && resp.Status < 300:
		return nil
	case resp.Status == http.StatusUnauthorized || resp.Status == http.StatusForbidden:
		return &domain.AuthenticationError{Reason: errorMessage(resp.Body), Status: resp.Status}
	case resp.Status == http.StatusNotFound:
		return &domain.NotFoundError{Path: path}
	case resp.Status == http.StatusTooManyRequests:
		return &domain.NetworkError{Kind: domain.NetworkRateLimited}
	default:
		return &domain.InvalidResponseError{Status: resp.Status, Body: string(resp.Body), Reason: errorMessage(resp.Body)}
	}
}

// errorMessage extracts the server's "message" field when the body is JSON.
func errorMessage(body []byte) string {
	var payload struct {
		Message  string   `json:"message"`
		Messages []string `json:"messages"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return strings.Join(payload.Messages, "; ")
}

func transportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return domain.ErrInterrupted
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &domain.NetworkError{Kind: domain.NetworkTimeout, Err: err}
	}
	return &domain.NetworkError{Kind: domain.NetworkConnectionFailed, Err: err}
}
