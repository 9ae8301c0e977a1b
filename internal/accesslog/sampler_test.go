package accesslog

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSamplerAllowsFirstEmission(t *testing.T) {
	t.Parallel()

	s := NewSampler(time.Second)
	if !s.Allow(time.Unix(100, 0)) {
		t.Fatal("expected first emission to pass")
	}
}

func TestSamplerSuppressesWithinInterval(t *testing.T) {
	t.Parallel()

	s := NewSampler(time.Second)
	now := time.Unix(100, 0)
	if !s.Allow(now) {
		t.Fatal("expected first emission to pass")
	}
	for i := 0; i < 9; i++ {
		now = now.Add(100 * time.Millisecond)
		if s.Allow(now) {
			t.Fatalf("emission at %v should be suppressed", now)
		}
	}
}

func TestSamplerAllowsAfterIntervalElapses(t *testing.T) {
	t.Parallel()

	s := NewSampler(time.Second)
	now := time.Unix(100, 0)
	if !s.Allow(now) {
		t.Fatal("expected first emission to pass")
	}
	if s.Allow(now.Add(999 * time.Millisecond)) {
		t.Fatal("expected emission inside interval to be suppressed")
	}
	if !s.Allow(now.Add(time.Second)) {
		t.Fatal("expected emission after interval to pass")
	}
}

func TestSamplerDefaultsNonPositiveInterval(t *testing.T) {
	t.Parallel()

	s := NewSampler(0)
	now := time.Unix(100, 0)
	if !s.Allow(now) {
		t.Fatal("expected first emission to pass")
	}
	if s.Allow(now.Add(500 * time.Millisecond)) {
		t.Fatal("expected default one second interval to suppress")
	}
	if !s.Allow(now.Add(DefaultSampleInterval)) {
		t.Fatal("expected emission after default interval to pass")
	}
}

func TestSamplerConcurrentCallersAgreeOnOneWinner(t *testing.T) {
	t.Parallel()

	s := NewSampler(time.Second)
	now := time.Unix(100, 0)

	var passed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Allow(now) {
				passed.Add(1)
			}
		}()
	}
	wg.Wait()
	if got := passed.Load(); got != 1 {
		t.Fatalf("passed = %d, want exactly 1", got)
	}

	// A fresh interval admits exactly one more winner.
	if !s.Allow(now.Add(time.Second)) {
		t.Fatal("expected new interval to admit an emission")
	}
}
