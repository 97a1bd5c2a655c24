package scanner

import "sync"

// VisitedSet records every URL the crawler has claimed.
// Claim is an atomic test-and-set; URLs keeps first-claim order so detectors
// walk the corpus in the same order on every run.
type VisitedSet struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
}

// NewVisitedSet creates an empty set
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{
		seen: make(map[string]struct{}),
	}
}

// Claim marks url as visited and reports whether this call was the first
func (v *VisitedSet) Claim(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.seen[url]; ok {
		return false
	}
	v.seen[url] = struct{}{}
	v.order = append(v.order, url)
	return true
}

// Contains reports whether url has been claimed
func (v *VisitedSet) Contains(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.seen[url]
	return ok
}

// Len returns the number of claimed URLs
func (v *VisitedSet) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.order)
}

// URLs returns a copy of the claimed URLs in claim order
func (v *VisitedSet) URLs() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}
