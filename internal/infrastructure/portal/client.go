package portal

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
	"time"

	"github.com/go-fee-portal/internal/pkg/id"
)

const maxBodyBytes = 1 << 20

// ErrNullBody is returned when an endpoint answers with a bare JSON null,
// which carries no status to act on.
var ErrNullBody = errors.New("null response body")

// Client talks to the three portal endpoints. It never retries and does not
// look at HTTP status codes: the JSON status field is the only success signal.
type Client struct {
	base *url.URL
	http *http.Client
	log  *slog.Logger
}

// NewClient builds a client for baseURL. A zero timeout keeps the transport
// default.
func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse portal base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("portal base url %q must be absolute", baseURL)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{base: u, http: &http.Client{Timeout: timeout}, log: log}, nil
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginEnvelope, error) {
	var out LoginEnvelope
	if err := c.do(ctx, http.MethodPost, PathLogin, "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*VerifyEnvelope, error) {
	var out VerifyEnvelope
	if err := c.do(ctx, http.MethodPost, PathVerifyOTP, "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Dashboard(ctx context.Context, token string) (*DashboardEnvelope, error) {
	var out DashboardEnvelope
	if err := c.do(ctx, http.MethodGet, PathDashboard, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.ResolveReference(&url.URL{Path: path}).String(), body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	reqID := id.New()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	c.log.Debug("portal call", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", reqID, "duration", time.Since(start))

	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return fmt.Errorf("decode %s response (http %d): %w", path, resp.StatusCode, ErrNullBody)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response (http %d): %w", path, resp.StatusCode, err)
	}
	return nil
}
