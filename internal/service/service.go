package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/olegrjumin/sitescan/internal/logging"
	"github.com/olegrjumin/sitescan/internal/scanner"
)

var (
	ErrScanNotFound     = errors.New("scan not found")
	ErrScanNotCompleted = errors.New("scan not completed")
	ErrScanActive       = errors.New("cannot delete active scan")
)

// Runner executes one scan. *scanner.Scanner satisfies it.
type Runner interface {
	RunScan(ctx context.Context, baseURL string, categories []scanner.Category, opts ...scanner.RunOption) (*scanner.Report, error)
}

// ScanStatus is the externally visible state of one scan
type ScanStatus struct {
	ID          string          `json:"id"`
	Status      scanner.Phase   `json:"status"`
	Progress    float64         `json:"progress"` // 0 to 100
	CurrentTask string          `json:"current_task"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     *time.Time      `json:"end_time"`
	Results     *scanner.Report `json:"results"`
	Error       string          `json:"error,omitempty"`
}

// ScanSummary is the short form used when listing scans
type ScanSummary struct {
	ID        string        `json:"-"`
	Status    scanner.Phase `json:"status"`
	StartTime time.Time     `json:"start_time"`
	EndTime   *time.Time    `json:"end_time"`
	Progress  float64       `json:"progress"`
}

// Service provides the business logic layer for scans.
// It sits between the HTTP transport layer and the scanner and keeps every
// scan it started in memory until it is deleted.
type Service struct {
	runner Runner
	logger *logging.Logger

	mu    sync.RWMutex
	scans map[string]*scanEntry

	running sync.WaitGroup
}

type scanEntry struct {
	status      ScanStatus
	subscribers map[int]chan ScanStatus
	nextSub     int
}

// New creates a new Service instance
func New(runner Runner, logger *logging.Logger) *Service {
	return &Service{
		runner: runner,
		logger: logger,
		scans:  make(map[string]*scanEntry),
	}
}

// StartScan validates the request, registers a scan and runs it in the
// background. An empty category list means a full scan.
func (s *Service) StartScan(ctx context.Context, baseURL string, categories []scanner.Category) (ScanStatus, error) {
	if len(categories) == 0 {
		categories = []scanner.Category{scanner.CategoryFull}
	}
	if err := scanner.Validate(baseURL, categories); err != nil {
		return ScanStatus{}, err
	}

	status := ScanStatus{
		ID:          uuid.NewString(),
		Status:      scanner.PhaseInitializing,
		Progress:    0,
		CurrentTask: "Starting scan",
		StartTime:   time.Now(),
	}

	s.mu.Lock()
	s.scans[status.ID] = &scanEntry{
		status:      status,
		subscribers: make(map[int]chan ScanStatus),
	}
	s.mu.Unlock()

	s.logger.Info("Scan registered", "scan_id", status.ID, "base_url", baseURL, "categories", categories)

	// The scan outlives the request that started it
	runCtx := context.WithoutCancel(ctx)

	s.running.Add(1)
	go func() {
		defer s.running.Done()
		s.run(runCtx, status.ID, baseURL, categories)
	}()

	return status, nil
}

func (s *Service) run(ctx context.Context, id, baseURL string, categories []scanner.Category) {
	reporter := scanner.ProgressFunc(func(ctx context.Context, p scanner.Progress) error {
		return s.update(id, p)
	})

	report, err := s.runner.RunScan(ctx, baseURL, categories, scanner.WithProgress(reporter))

	// RunScan reports its own terminal snapshot; this covers runners that do not
	if err != nil {
		s.update(id, scanner.Progress{Status: scanner.PhaseFailed, CurrentTask: "Scan failed", Error: err.Error()})
		s.logger.Warn("Scan failed", "scan_id", id, "error", err)
		return
	}
	s.update(id, scanner.Progress{Status: scanner.PhaseCompleted, Progress: 100, CurrentTask: "Scan completed", Report: report})
	s.logger.Info("Scan finished", "scan_id", id, "urls", len(report.VisitedURLs))
}

// update applies a progress snapshot and fans it out to subscribers.
// Snapshots arriving after a terminal one are ignored.
func (s *Service) update(id string, p scanner.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.scans[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrScanNotFound, id)
	}
	if entry.status.Status.Terminal() {
		return nil
	}

	st := &entry.status
	st.Status = p.Status
	st.CurrentTask = p.CurrentTask
	if p.Status != scanner.PhaseFailed {
		st.Progress = p.Progress
	}

	if p.Status.Terminal() {
		now := time.Now()
		st.EndTime = &now
	}
	switch p.Status {
	case scanner.PhaseCompleted:
		st.Results = p.Report
	case scanner.PhaseFailed:
		st.Error = p.Error
	}

	entry.broadcast()
	return nil
}

// Status returns the current snapshot of a scan
func (s *Service) Status(id string) (ScanStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.scans[id]
	if !ok {
		return ScanStatus{}, ErrScanNotFound
	}
	return entry.status, nil
}

// Results returns the report of a completed scan
func (s *Service) Results(id string) (*scanner.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.scans[id]
	if !ok {
		return nil, ErrScanNotFound
	}
	if entry.status.Status != scanner.PhaseCompleted {
		return nil, fmt.Errorf("%w. Current status: %s", ErrScanNotCompleted, entry.status.Status)
	}
	return entry.status.Results, nil
}

// Delete forgets a completed or failed scan
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.scans[id]
	if !ok {
		return ErrScanNotFound
	}
	if !entry.status.Status.Terminal() {
		return ErrScanActive
	}

	delete(s.scans, id)
	s.logger.Info("Scan deleted", "scan_id", id)
	return nil
}

// List returns a summary of every known scan, oldest first
func (s *Service) List() []ScanSummary {
	s.mu.RLock()
	summaries := make([]ScanSummary, 0, len(s.scans))
	for id, entry := range s.scans {
		summaries = append(summaries, ScanSummary{
			ID:        id,
			Status:    entry.status.Status,
			StartTime: entry.status.StartTime,
			EndTime:   entry.status.EndTime,
			Progress:  entry.status.Progress,
		})
	}
	s.mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].StartTime.Equal(summaries[j].StartTime) {
			return summaries[i].ID < summaries[j].ID
		}
		return summaries[i].StartTime.Before(summaries[j].StartTime)
	})
	return summaries
}

// Wait blocks until every running scan has finished or ctx is done
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
