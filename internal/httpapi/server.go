package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/olegrjumin/sitescan/internal/logging"
	"github.com/olegrjumin/sitescan/internal/service"
)

// NewServer creates and configures a new HTTP server
func NewServer(addr string, logger *logging.Logger, svc *service.Service, allowedOrigins []string) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: NewHandler(logger, svc, allowedOrigins),
	}
}

// NewHandler builds the routed handler with CORS and request logging
func NewHandler(logger *logging.Logger, svc *service.Service, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler)

	mux.HandleFunc("POST /scan", startScanHandler(svc))
	mux.HandleFunc("GET /status/{id}", statusHandler(svc))
	mux.HandleFunc("GET /results/{id}", resultsHandler(svc))
	mux.HandleFunc("DELETE /scan/{id}", deleteScanHandler(svc))
	mux.HandleFunc("GET /scans", listScansHandler(svc))

	// Server-sent status updates
	mux.HandleFunc("GET /events/{id}", eventsHandler(svc, logger))

	return loggingMiddleware(logger, corsMiddleware(allowedOrigins, mux))
}

// healthHandler handles GET requests to /health
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "sitescan-api",
	})
}

// writeJSON sets the Content-Type header, writes status and encodes data
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// If encoding fails the client has gone away; nothing left to report
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
