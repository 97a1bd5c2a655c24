package httpclient

import (
	"net/http"
	"time"
)

// NewTransport creates the HTTP transport shared by every fetch of a scan.
// A crawl fans out to one host, so the per-host idle pool is sized generously.
func NewTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,

		// Maximum number of idle connections across all hosts
		MaxIdleConns: 100,

		// Maximum number of idle connections per host
		MaxIdleConnsPerHost: 50,

		// How long an idle connection stays in the pool
		IdleConnTimeout: 90 * time.Second,

		// Timeout for TLS handshake
		TLSHandshakeTimeout: 10 * time.Second,

		// Timeout for expecting response headers after request is sent
		ResponseHeaderTimeout: 30 * time.Second,

		ForceAttemptHTTP2: true,
	}
}
