package scanner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAdminPanelProbe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin":
			w.Write([]byte("admin login"))
		case "/wp-admin":
			w.WriteHeader(http.StatusForbidden)
		case "/dashboard":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	probe := &AdminPanelProbe{
		source: newTestSource(DefaultOptions()),
		paths:  mustSignatures(t).AdminPaths,
		limit:  4,
	}
	panels := probe.Probe(context.Background(), server.URL+"/ignored/path")

	if len(panels) != 3 {
		t.Fatalf("expected 3 panels, got %+v", panels)
	}

	want := []struct {
		path       string
		typ        string
		confidence float64
		status     int
	}{
		{"/admin", AdminTypeStandard, 1.0, http.StatusOK},
		{"/wp-admin", AdminTypePotential, 0.5, http.StatusForbidden},
		{"/dashboard", AdminTypePotential, 0.5, http.StatusInternalServerError},
	}
	for i, w := range want {
		p := panels[i]
		if p.URL != server.URL+w.path {
			t.Errorf("panel %d: expected URL %s, got %s", i, server.URL+w.path, p.URL)
		}
		if p.Type != w.typ || p.Confidence != w.confidence || p.StatusCode != w.status {
			t.Errorf("panel %d: unexpected record %+v", i, p)
		}
		if p.DetectionMethod != "direct_access" {
			t.Errorf("panel %d: unexpected detection method %q", i, p.DetectionMethod)
		}
	}
}

func TestClassifyAdminResponse(t *testing.T) {
	if got := classifyAdminResponse("u", http.StatusNotFound); got != nil {
		t.Errorf("404 should not produce a record, got %+v", got)
	}
	if got := classifyAdminResponse("u", http.StatusUnauthorized); got == nil || got.Type != AdminTypePotential {
		t.Errorf("401 should be a potential panel, got %+v", got)
	}
	if got := classifyAdminResponse("u", http.StatusOK); got == nil || got.Confidence != 1.0 {
		t.Errorf("200 should be a standard panel, got %+v", got)
	}
}
