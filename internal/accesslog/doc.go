// Package accesslog implements request/response observability middleware.
//
// The middleware observes every request that flows through it: it captures
// request metadata before the handler runs, measures handler latency, emits
// one structured log record per request, and records the latency into a
// histogram labeled by status code. Responses with status >= 500 log at error
// severity and are rate-sampled to bound log volume during error bursts;
// everything else logs at debug severity, unsampled.
//
// The middleware is a transparent pass-through. The downstream response, or
// a downstream panic, reaches the caller unchanged; only the logging and
// metrics side effects are added.
package accesslog
