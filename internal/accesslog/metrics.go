package accesslog

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink records request latency into a histogram labeled by the
// textual response status code.
type PrometheusSink struct {
	latency *prometheus.HistogramVec
}

// NewPrometheusSink registers the response status histogram with reg.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	latency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_status_seconds",
			Help:    "Request processing latency in seconds by response status code",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)
	if err := reg.Register(latency); err != nil {
		return nil, fmt.Errorf("register response status histogram: %w", err)
	}
	return &PrometheusSink{latency: latency}, nil
}

// ObserveStatus records one latency observation for the given status code.
func (s *PrometheusSink) ObserveStatus(status int, elapsed time.Duration) {
	if s == nil || s.latency == nil {
		return
	}
	s.latency.WithLabelValues(strconv.Itoa(status)).Observe(elapsed.Seconds())
}
