package scanner

import (
	"context"
	"fmt"

	"github.com/olegrjumin/sitescan/internal/logging"
)

// Phase is the lifecycle state reported to progress listeners
type Phase string

const (
	PhaseInitializing Phase = "initializing"
	PhaseRunning      Phase = "running"
	PhaseCompleted    Phase = "completed"
	PhaseFailed       Phase = "failed"
)

// Terminal reports whether no further updates follow this phase
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseFailed
}

// Progress is one status snapshot emitted by RunScan
type Progress struct {
	Status      Phase   `json:"status"`
	Progress    float64 `json:"progress"` // 0 to 100
	CurrentTask string  `json:"current_task"`
	Error       string  `json:"error,omitempty"`

	// Report is set on the completed snapshot only
	Report *Report `json:"-"`
}

// ProgressReporter receives status snapshots. Its errors and panics are
// logged and otherwise ignored.
type ProgressReporter interface {
	ReportProgress(ctx context.Context, p Progress) error
}

// ProgressFunc adapts a function to ProgressReporter
type ProgressFunc func(ctx context.Context, p Progress) error

// ReportProgress calls f
func (f ProgressFunc) ReportProgress(ctx context.Context, p Progress) error {
	return f(ctx, p)
}

// notifier delivers snapshots to an optional reporter
type notifier struct {
	reporter ProgressReporter
	logger   *logging.Logger
}

func (n *notifier) notify(ctx context.Context, p Progress) {
	if n.reporter == nil {
		return
	}

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("progress reporter panicked: %v", r)
			}
		}()
		return n.reporter.ReportProgress(ctx, p)
	}()
	if err != nil {
		n.logger.Error("Progress update failed", "status", p.Status, "task", p.CurrentTask, "error", err)
	}
}
