package scanner

import (
	"context"
	"errors"
	"net"
	"strings"
)

var (
	ErrInvalidBaseURL   = errors.New("invalid base URL")
	ErrUnknownCategory  = errors.New("unknown scan category")
	ErrNoCategories     = errors.New("no scan categories selected")
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
)

// Error type constants used when logging per-URL failures
const (
	ErrorTimeout = "timeout"
	ErrorDNS     = "dns_error"
	ErrorTLS     = "tls_error"
	ErrorNetwork = "network_error"
	ErrorHTTP    = "http_error"
	ErrorParse   = "parse_error"
)

// ClassifyError determines the error type from a Go error
// Returns the error type constant and a human-readable message
func ClassifyError(err error) (string, string) {
	if err == nil {
		return "", ""
	}

	errMsg := err.Error()

	if errors.Is(err, ErrUnexpectedStatus) {
		return ErrorHTTP, errMsg
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTimeout, "request timeout"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorTimeout, "request timeout"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrorDNS, "DNS lookup failed"
	}

	if strings.Contains(errMsg, "tls") || strings.Contains(errMsg, "TLS") {
		return ErrorTLS, "TLS handshake failed"
	}
	if strings.Contains(errMsg, "certificate") || strings.Contains(errMsg, "x509") {
		return ErrorTLS, "certificate error"
	}

	if strings.Contains(errMsg, "connection refused") {
		return ErrorNetwork, "connection refused"
	}
	if strings.Contains(errMsg, "connection reset") {
		return ErrorNetwork, "connection reset"
	}
	if strings.Contains(errMsg, "no such host") {
		return ErrorDNS, "host not found"
	}

	return ErrorNetwork, errMsg
}
