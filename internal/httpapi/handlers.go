package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/olegrjumin/sitescan/internal/logging"
	"github.com/olegrjumin/sitescan/internal/scanner"
	"github.com/olegrjumin/sitescan/internal/service"
)

// scanRequest represents the JSON request body for POST /scan
type scanRequest struct {
	BaseURL     string   `json:"base_url"`
	ScanOptions []string `json:"scan_options,omitempty"`
}

type scanStartedResponse struct {
	ScanID  string        `json:"scan_id"`
	Message string        `json:"message"`
	Status  scanner.Phase `json:"status"`
}

// startScanHandler handles POST /scan
// Validates the request, starts the scan in the background and returns its ID
func startScanHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		if req.BaseURL == "" {
			writeError(w, http.StatusBadRequest, "base_url is required")
			return
		}

		categories, err := scanner.ParseCategories(req.ScanOptions)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		status, err := svc.StartScan(r.Context(), req.BaseURL, categories)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, scanStartedResponse{
			ScanID:  status.ID,
			Message: "Scan started successfully",
			Status:  status.Status,
		})
	}
}

// statusHandler handles GET /status/{id}
func statusHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := svc.Status(r.PathValue("id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}

// resultsHandler handles GET /results/{id}; only completed scans have results
func resultsHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.Results(r.PathValue("id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// deleteScanHandler handles DELETE /scan/{id}
func deleteScanHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.PathValue("id")); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Scan deleted successfully"})
	}
}

// listScansHandler handles GET /scans, keyed by scan ID
func listScansHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries := svc.List()
		byID := make(map[string]service.ScanSummary, len(summaries))
		for _, s := range summaries {
			byID[s.ID] = s
		}
		writeJSON(w, http.StatusOK, byID)
	}
}

// eventsHandler streams status snapshots of one scan as server-sent events.
// The stream ends after the terminal snapshot or when the client goes away.
func eventsHandler(svc *service.Service, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "Streaming not supported")
			return
		}

		id := r.PathValue("id")
		updates, cancel, err := svc.Subscribe(id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case status, ok := <-updates:
				if !ok {
					return
				}
				data, err := json.Marshal(status)
				if err != nil {
					logger.Error("Failed to marshal status event", "scan_id", id, "error", err)
					continue
				}
				fmt.Fprint(w, "event: status\n")
				fmt.Fprintf(w, "data: %s\n\n", data)
				flusher.Flush()
			}
		}
	}
}

// writeServiceError maps service errors onto HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrScanNotFound):
		writeError(w, http.StatusNotFound, "Scan not found")
	case errors.Is(err, service.ErrScanNotCompleted), errors.Is(err, service.ErrScanActive):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
