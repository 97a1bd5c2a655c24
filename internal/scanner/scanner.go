package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olegrjumin/sitescan/internal/logging"
)

// Scanner runs reconnaissance scans against a single domain.
// One Scanner can run many scans; each RunScan owns its own state.
type Scanner struct {
	client Fetcher
	logger *logging.Logger
	opts   Options
}

// New creates a new Scanner
func New(client Fetcher, logger *logging.Logger, opts Options) *Scanner {
	return &Scanner{
		client: client,
		logger: logger,
		opts:   opts.withDefaults(),
	}
}

// RunOption customizes a single RunScan call
type RunOption func(*runConfig)

type runConfig struct {
	reporter ProgressReporter
}

// WithProgress sends lifecycle snapshots to reporter
func WithProgress(reporter ProgressReporter) RunOption {
	return func(c *runConfig) {
		c.reporter = reporter
	}
}

// RunScan checks robots.txt, crawls baseURL, runs the selected detectors
// concurrently and assembles the report. Per-page failures only shrink the
// results; an error is returned for invalid input or a fault in the
// orchestration itself.
func (s *Scanner) RunScan(ctx context.Context, baseURL string, categories []Category, opts ...RunOption) (report *Report, err error) {
	var rc runConfig
	for _, opt := range opts {
		opt(&rc)
	}
	n := &notifier{reporter: rc.reporter, logger: s.logger}

	startedAt := time.Now()
	progress := 0.0

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scan aborted: %v", r)
			report = nil
		}
		if err != nil {
			s.logger.Error("Scan failed", "base_url", baseURL, "error", err)
			n.notify(ctx, Progress{Status: PhaseFailed, Progress: progress, CurrentTask: "Scan failed", Error: err.Error()})
		}
	}()

	n.notify(ctx, Progress{Status: PhaseInitializing, Progress: 0, CurrentTask: "Initializing scan"})

	detectors, err := expandDetectors(categories)
	if err != nil {
		return nil, err
	}
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	rootURL := canonicalURL(base)

	sigs, err := LoadSignatures()
	if err != nil {
		return nil, err
	}

	s.logger.Info("Scan started", "base_url", rootURL, "categories", categories)

	source := newPageSource(s.client, s.logger, s.opts)
	visited := NewVisitedSet()

	progress = 5
	n.notify(ctx, Progress{Status: PhaseRunning, Progress: progress, CurrentTask: "Analyzing robots.txt"})
	robots := &RobotsReader{source: source}
	hidden := robots.ReadRobots(ctx, rootURL)

	progress = 10
	n.notify(ctx, Progress{Status: PhaseRunning, Progress: progress, CurrentTask: "Crawling site"})
	crawler := newCrawler(source, visited, s.logger, s.opts)
	root, err := crawler.Crawl(ctx, rootURL)
	if err != nil {
		return nil, err
	}
	urls := visited.URLs()

	progress = 50
	n.notify(ctx, Progress{Status: PhaseRunning, Progress: progress, CurrentTask: fmt.Sprintf("Crawl complete: %d URLs", len(urls))})

	findings, err := s.runDetectors(ctx, source, sigs, rootURL, urls, detectors, n, &progress)
	if err != nil {
		return nil, err
	}

	report = &Report{
		SiteStructure: root,
		VisitedURLs:   urls,
		HiddenURLs:    hidden,
		LoginForms:    orEmpty(findings.loginForms),
		AdminPanels:   orEmpty(findings.adminPanels),
		APIKeys:       orEmpty(findings.apiKeys),
		WalletKeys:    orEmpty(findings.walletKeys),
		PaymentInfo:   orEmpty(findings.payments),
		ScanMetadata: ScanMetadata{
			BaseURL:          rootURL,
			TotalURLsScanned: len(urls),
			ScanOptions:      append([]Category(nil), categories...),
			DetectorsRun:     detectors,
			StartedAt:        startedAt,
			FinishedAt:       time.Now(),
		},
	}

	s.logger.Info("Scan completed",
		"base_url", rootURL,
		"urls", len(urls),
		"login_forms", len(report.LoginForms),
		"admin_panels", len(report.AdminPanels),
		"api_keys", len(report.APIKeys),
		"wallet_keys", len(report.WalletKeys),
		"payment_info", len(report.PaymentInfo),
		"duration", time.Since(startedAt),
	)

	progress = 100
	n.notify(ctx, Progress{Status: PhaseCompleted, Progress: progress, CurrentTask: "Scan completed", Report: report})

	return report, nil
}

// Validate checks a scan request without running it
func Validate(baseURL string, categories []Category) error {
	if _, err := expandDetectors(categories); err != nil {
		return err
	}
	if _, err := parseBaseURL(baseURL); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	return nil
}

// findings collects detector output; each field is written by one detector only
type findings struct {
	loginForms  []LoginForm
	adminPanels []AdminPanel
	apiKeys     []APIKey
	walletKeys  []WalletKey
	payments    []PaymentInfo
}

// runDetectors fans the selected detectors out and waits for all of them.
// progress moves from 50 to 100 as detectors finish.
func (s *Scanner) runDetectors(ctx context.Context, source *pageSource, sigs *Signatures, baseURL string, urls []string,
	detectors []Category, n *notifier, progress *float64) (findings, error) {
	var (
		out  findings
		mu   sync.Mutex
		done int
		g    errgroup.Group
	)

	limit := s.opts.DetectorConcurrency
	finished := func(c Category) {
		mu.Lock()
		done++
		*progress = 50 + 50*float64(done)/float64(len(detectors))
		p := Progress{Status: PhaseRunning, Progress: *progress, CurrentTask: fmt.Sprintf("%s scan complete", c)}
		// notify under the lock so listeners see progress in order
		n.notify(ctx, p)
		mu.Unlock()
	}

	for _, c := range detectors {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%s detector panicked: %v", c, r)
				}
			}()

			switch c {
			case CategoryLogin:
				d := &LoginFormDetector{source: source, limit: limit, logger: s.logger}
				out.loginForms = d.Detect(ctx, urls)
			case CategoryAdmin:
				p := &AdminPanelProbe{source: source, paths: sigs.AdminPaths, limit: limit}
				out.adminPanels = p.Probe(ctx, baseURL)
			case CategoryAPIKeys:
				d := &SecretScanner{source: source, sigs: sigs, limit: limit}
				out.apiKeys = d.Detect(ctx, urls)
			case CategoryWallet:
				d := &WalletScanner{source: source, sigs: sigs, limit: limit}
				out.walletKeys = d.Detect(ctx, urls)
			case CategoryPayment:
				d := &PaymentScanner{source: source, sigs: sigs, limit: limit, logger: s.logger}
				out.payments = d.Detect(ctx, urls)
			}
			finished(c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return findings{}, err
	}

	return out, nil
}

func orEmpty[T any](records []T) []T {
	if records == nil {
		return []T{}
	}
	return records
}
