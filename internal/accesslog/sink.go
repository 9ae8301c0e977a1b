package accesslog

import (
	"time"

	"github.com/rs/zerolog"
)

// Severity classifies an emitted request record.
type Severity string

const (
	SeverityDebug Severity = "DEBUG"
	SeverityError Severity = "ERROR"
)

// LogSink receives finalized request records. Implementations must not block
// request completion and must never fail the request path; delivery is best
// effort.
type LogSink interface {
	Emit(sev Severity, rec Record)
}

// MetricsSink receives exactly one latency observation per request,
// regardless of outcome or log sampling.
type MetricsSink interface {
	ObserveStatus(status int, elapsed time.Duration)
}

// ZerologSink emits request records through a zerolog logger. Optional fields
// are omitted from the event when absent.
type ZerologSink struct {
	logger zerolog.Logger
}

// NewZerologSink wraps logger as a LogSink.
func NewZerologSink(logger zerolog.Logger) *ZerologSink {
	return &ZerologSink{logger: logger}
}

// Emit writes the record at debug or error level.
func (s *ZerologSink) Emit(sev Severity, rec Record) {
	if s == nil {
		return
	}
	evt := s.logger.Debug()
	if sev == SeverityError {
		evt = s.logger.Error()
	}
	if rec.RemoteAddr != "" {
		evt = evt.Str("remote_addr", rec.RemoteAddr)
	}
	evt = evt.Str("method", rec.Method).
		Str("path", rec.Path).
		Int("status", rec.Status)
	if rec.Referer != "" {
		evt = evt.Str("referer", rec.Referer)
	}
	if rec.UserAgent != "" {
		evt = evt.Str("user_agent", rec.UserAgent)
	}
	if rec.Forwarded != "" {
		evt = evt.Str("forwarded", rec.Forwarded)
	}
	evt.Dur("elapsed", rec.Elapsed).Msg("http request")
}
