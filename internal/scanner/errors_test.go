package scanner

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"status", fmt.Errorf("%w: %d", ErrUnexpectedStatus, 500), ErrorHTTP},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), ErrorTimeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "nope.invalid"}, ErrorDNS},
		{"tls", errors.New("tls: handshake failure"), ErrorTLS},
		{"cert", errors.New("x509: certificate signed by unknown authority"), ErrorTLS},
		{"refused", errors.New("dial tcp: connection refused"), ErrorNetwork},
		{"other", errors.New("something odd"), ErrorNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msg := ClassifyError(tt.err)
			if got != tt.want {
				t.Errorf("expected %s, got %s (%s)", tt.want, got, msg)
			}
		})
	}

	if typ, msg := ClassifyError(nil); typ != "" || msg != "" {
		t.Errorf("nil error should classify as empty, got %q %q", typ, msg)
	}
}
