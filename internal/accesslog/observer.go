package accesslog

import (
	"net/http"
	"time"

	"github.com/louisbranch/accesslog/internal/platform/httpx"
)

// Options adjusts observer behavior.
type Options struct {
	// SampleInterval bounds error-severity log volume: at most one error log
	// passes per interval. Defaults to DefaultSampleInterval.
	SampleInterval time.Duration
}

// Observer wires per-request logging and latency metrics into an HTTP
// handler chain. All requests share one observer; the only cross-request
// state is the error-log sampler.
type Observer struct {
	logs    LogSink
	metrics MetricsSink
	sampler *Sampler
	clock   func() time.Time
}

// New creates an observer emitting to the given sinks. Either sink may be
// nil, in which case its emission is skipped.
func New(logs LogSink, metrics MetricsSink, opts Options) *Observer {
	return &Observer{
		logs:    logs,
		metrics: metrics,
		sampler: NewSampler(opts.SampleInterval),
		clock:   time.Now,
	}
}

// statusRecorder captures the status code written by the downstream handler
// without consuming the response.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(p)
}

// Middleware returns the observability middleware. Each request is observed
// exactly once: metadata is extracted before the handler runs, the measured
// latency covers exactly the handler invocation, and emission completes
// before control returns to the caller.
//
// A downstream panic is recorded with the 500 fallback status and re-raised
// unchanged once bookkeeping completes; the panic value itself carries no
// status code, so the real outcome is collapsed to the fallback. Recovery is
// owned by whatever sits above this middleware in the chain.
func (o *Observer) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newRecord(r)
			sw := &statusRecorder{ResponseWriter: w}
			start := o.now()
			defer func() {
				recovered := recover()
				rec.Elapsed = o.now().Sub(start)
				switch {
				case recovered != nil:
					rec.Status = http.StatusInternalServerError
				case sw.status == 0:
					// Handler wrote nothing; net/http sends 200 on return.
					rec.Status = http.StatusOK
				default:
					rec.Status = sw.status
				}
				o.emit(rec)
				if recovered != nil {
					panic(recovered)
				}
			}()
			next.ServeHTTP(sw, r)
		})
	}
}

// emit classifies the finalized record and hands it to the sinks. The
// metrics observation is unconditional; only error-severity logs pass
// through the sampler.
func (o *Observer) emit(rec Record) {
	if o.logs != nil {
		if rec.Status >= http.StatusInternalServerError {
			if o.sampler.Allow(o.now()) {
				o.logs.Emit(SeverityError, rec)
			}
		} else {
			o.logs.Emit(SeverityDebug, rec)
		}
	}
	if o.metrics != nil {
		o.metrics.ObserveStatus(rec.Status, rec.Elapsed)
	}
}

func (o *Observer) now() time.Time {
	if o.clock == nil {
		return time.Now()
	}
	return o.clock()
}
