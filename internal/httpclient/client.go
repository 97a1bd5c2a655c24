package httpclient

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptrace"
	"time"
)

// DefaultMaxBodyBytes caps how much of a response body is read
const DefaultMaxBodyBytes = 5 * 1024 * 1024

// Client wraps http.Client and provides methods for making traced requests
type Client struct {
	httpClient   *http.Client
	maxBodyBytes int64
}

// TimingInfo holds performance timing information for a request
type TimingInfo struct {
	DNSStart     time.Time
	DNSDone      time.Time
	ConnectStart time.Time
	ConnectDone  time.Time
	TLSStart     time.Time
	TLSDone      time.Time
	GotFirstByte time.Time
	RequestStart time.Time
	RequestDone  time.Time
}

// TTFB returns the time to first byte, zero when it was not observed
func (t *TimingInfo) TTFB() time.Duration {
	if t == nil || t.GotFirstByte.IsZero() {
		return 0
	}
	return t.GotFirstByte.Sub(t.RequestStart)
}

// DNS returns the lookup duration, zero for reused connections and IP hosts
func (t *TimingInfo) DNS() time.Duration {
	return span(t, func(t *TimingInfo) (time.Time, time.Time) { return t.DNSStart, t.DNSDone })
}

// Connect returns the TCP connect duration, zero for reused connections
func (t *TimingInfo) Connect() time.Duration {
	return span(t, func(t *TimingInfo) (time.Time, time.Time) { return t.ConnectStart, t.ConnectDone })
}

// TLS returns the handshake duration, zero for plain HTTP
func (t *TimingInfo) TLS() time.Duration {
	return span(t, func(t *TimingInfo) (time.Time, time.Time) { return t.TLSStart, t.TLSDone })
}

func span(t *TimingInfo, bounds func(*TimingInfo) (time.Time, time.Time)) time.Duration {
	if t == nil {
		return 0
	}
	start, done := bounds(t)
	if start.IsZero() || done.IsZero() {
		return 0
	}
	return done.Sub(start)
}

// Total returns the full request duration including the body read
func (t *TimingInfo) Total() time.Duration {
	if t == nil || t.RequestDone.IsZero() {
		return 0
	}
	return t.RequestDone.Sub(t.RequestStart)
}

// Response holds the HTTP response along with its body and timing information
type Response struct {
	StatusCode int
	Proto      string // e.g., "HTTP/2.0"
	Header     http.Header
	FinalURL   string // URL after redirects
	Body       []byte // truncated at the client's body limit
	Timings    *TimingInfo
}

// Option customizes a Client
type Option func(*Client)

// WithTimeout sets an overall per-request timeout. Zero keeps the transport defaults.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithMaxBodyBytes limits how much of each body is kept
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// NewClient creates a new HTTP client with the configured transport.
// Redirects are followed with the net/http defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Transport: NewTransport(),
		},
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a traced GET request and reads the body.
// Non-2xx responses are not errors; callers inspect StatusCode.
func (c *Client) Get(ctx context.Context, url, userAgent string) (*Response, error) {
	timings := &TimingInfo{
		RequestStart: time.Now(),
	}

	trace := &httptrace.ClientTrace{
		DNSStart: func(_ httptrace.DNSStartInfo) {
			timings.DNSStart = time.Now()
		},
		DNSDone: func(_ httptrace.DNSDoneInfo) {
			timings.DNSDone = time.Now()
		},
		ConnectStart: func(_, _ string) {
			timings.ConnectStart = time.Now()
		},
		ConnectDone: func(_, _ string, _ error) {
			timings.ConnectDone = time.Now()
		},
		TLSHandshakeStart: func() {
			timings.TLSStart = time.Now()
		},
		TLSHandshakeDone: func(_ tls.ConnectionState, _ error) {
			timings.TLSDone = time.Now()
		},
		GotFirstResponseByte: func() {
			timings.GotFirstByte = time.Now()
		},
	}

	req, err := http.NewRequestWithContext(
		httptrace.WithClientTrace(ctx, trace),
		http.MethodGet,
		url,
		nil,
	)
	if err != nil {
		return nil, err
	}

	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	} else {
		req.Header.Set("User-Agent", "sitescan/1.0")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return nil, err
	}

	timings.RequestDone = time.Now()

	return &Response{
		StatusCode: resp.StatusCode,
		Proto:      resp.Proto,
		Header:     resp.Header,
		FinalURL:   resp.Request.URL.String(),
		Body:       body,
		Timings:    timings,
	}, nil
}
