package scanner

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestVisitedSet_ClaimIsTestAndSet(t *testing.T) {
	set := NewVisitedSet()

	if !set.Claim("http://example.com/") {
		t.Fatal("first claim should succeed")
	}
	if set.Claim("http://example.com/") {
		t.Error("second claim of the same URL should fail")
	}
	if !set.Contains("http://example.com/") {
		t.Error("claimed URL should be contained")
	}
	if set.Contains("http://example.com/other") {
		t.Error("unclaimed URL should not be contained")
	}
}

func TestVisitedSet_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	set := NewVisitedSet()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if set.Claim("http://example.com/race") {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("expected exactly one winning claim, got %d", wins.Load())
	}
	if set.Len() != 1 {
		t.Errorf("expected 1 URL, got %d", set.Len())
	}
}

func TestVisitedSet_URLsKeepsClaimOrder(t *testing.T) {
	set := NewVisitedSet()
	for _, u := range []string{"c", "a", "b", "a"} {
		set.Claim(u)
	}

	got := set.URLs()
	want := []string{"c", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	got[0] = "mutated"
	if set.URLs()[0] != "c" {
		t.Error("URLs should return a copy")
	}
}
