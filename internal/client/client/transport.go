package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ascor/notifycli/internal/logging"
	"github.com/google/uuid"
)

const (
	// APIPrefix is prepended to every request path.
	APIPrefix = "/api/v1/"

	// DefaultTimeout bounds every request including reading the body.
	DefaultTimeout = 10 * time.Second

	// RequestIDHeader carries a per-request id for log correlation.
	RequestIDHeader = "X-Request-Id"

	maxBodySize = 4 << 20
)

// Request describes one call to the service.
type Request struct {
	Method string
	Path   string
	Body   any
	Token  string
}

// Response is the raw outcome of a call that reached the service.
type Response struct {
	StatusCode int
	Body       []byte
}

// DecodeJSON unmarshals the response body into v.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}
	return nil
}

// Doer is the subset of *http.Client used by Transport.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Transport issues requests to the service.
type Transport struct {
	http    Doer
	timeout time.Duration
	log     logging.Logger
}

// NewTransport returns a Transport with the given per-request timeout.
// A zero timeout selects DefaultTimeout.
func NewTransport(timeout time.Duration, log logging.Logger) *Transport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Transport{http: &http.Client{}, timeout: timeout, log: log}
}

// WithDoer replaces the underlying HTTP client.
func (t *Transport) WithDoer(d Doer) *Transport {
	t.http = d
	return t
}

// BaseURL turns a user-entered host into the API base URL. A host without a
// scheme is assumed to be plain http.
func BaseURL(host string) string {
	h := strings.TrimSpace(host)
	h = strings.TrimRight(h, "/")
	if h == "" {
		return ""
	}
	if !strings.Contains(h, "://") {
		h = "http://" + h
	}
	return h + APIPrefix
}

// Do performs r against host. The call is aborted after the transport
// timeout; the caller's context can cancel it earlier.
func (t *Transport) Do(ctx context.Context, host string, r Request) (*Response, error) {
	base := BaseURL(host)
	if base == "" {
		return nil, ErrNoHost
	}

	method := r.Method
	if method == "" {
		method = http.MethodPost
	}

	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: encode request: %v", ErrTransport, err)
		}
		body = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, base+strings.TrimLeft(r.Path, "/"), body)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.Token)
	req.Header.Set(RequestIDHeader, requestID)

	log := t.log.With("request_id", requestID, "method", method, "path", r.Path)
	started := time.Now()

	resp, err := t.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err, "elapsed", time.Since(started))
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Warn(ctx, "reading response failed", "error", err, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}

	log.Debug(ctx, "request done", "status", resp.StatusCode, "elapsed", time.Since(started))
	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}
