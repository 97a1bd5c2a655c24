package scanner

// Options holds tunables for a scan
type Options struct {
	// UserAgent is the User-Agent header sent with every fetch
	UserAgent string

	// MaxInFlight caps concurrent crawl fetches. Zero means one goroutine per
	// discovered link with no cap.
	MaxInFlight int

	// DetectorConcurrency caps page re-fetches in flight inside one detector
	DetectorConcurrency int

	// ReuseBodies keeps crawl bodies in memory so detectors skip the re-fetch
	ReuseBodies bool
}

// DefaultOptions returns Options with sensible defaults
func DefaultOptions() Options {
	return Options{
		UserAgent:           "sitescan/1.0",
		MaxInFlight:         0,
		DetectorConcurrency: 8,
		ReuseBodies:         false,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.UserAgent == "" {
		o.UserAgent = def.UserAgent
	}
	if o.DetectorConcurrency <= 0 {
		o.DetectorConcurrency = def.DetectorConcurrency
	}
	if o.MaxInFlight < 0 {
		o.MaxInFlight = 0
	}
	return o
}
