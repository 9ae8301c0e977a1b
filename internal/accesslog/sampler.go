package accesslog

import (
	"sync/atomic"
	"time"
)

// DefaultSampleInterval bounds error-severity log volume to one emission per
// second when no interval is configured.
const DefaultSampleInterval = time.Second

// Sampler rate-limits error-severity log emission to at most one pass per
// fixed interval. A single sampler is shared by all requests in the process.
type Sampler struct {
	interval time.Duration
	lastPass atomic.Int64 // unix nanos of the last emission that passed
}

// NewSampler creates a sampler with the given interval. Non-positive
// intervals fall back to DefaultSampleInterval.
func NewSampler(interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Sampler{interval: interval}
}

// Allow reports whether an emission at now may pass. The first emission after
// a quiet interval always passes; emissions inside an already-consumed
// interval are dropped, never queued. Concurrent callers race on a
// compare-and-swap so exactly one of them wins a fresh interval.
func (s *Sampler) Allow(now time.Time) bool {
	for {
		last := s.lastPass.Load()
		if now.UnixNano()-last < int64(s.interval) {
			return false
		}
		if s.lastPass.CompareAndSwap(last, now.UnixNano()) {
			return true
		}
	}
}
