package accesslog

import (
	"net/http"
	"time"
	"unicode/utf8"
)

// Record captures the observable attributes of a single request. Optional
// fields hold the empty string when the request did not carry them. Status
// and Elapsed keep their zero sentinels until the handler completes; they are
// set exactly once, before emission. A record is never shared across
// requests.
type Record struct {
	RemoteAddr string
	Method     string
	Path       string
	Status     int
	Referer    string
	UserAgent  string
	Forwarded  string
	Elapsed    time.Duration
}

// newRecord extracts request metadata before the handler runs, so the capture
// does not depend on a possibly-mutated request after downstream processing.
// It is a pure function of the request.
func newRecord(r *http.Request) Record {
	return Record{
		RemoteAddr: r.RemoteAddr,
		Method:     r.Method,
		Path:       r.URL.Path,
		Referer:    headerText(r, "Referer"),
		UserAgent:  headerText(r, "User-Agent"),
		Forwarded:  headerText(r, "Forwarded"),
	}
}

// headerText returns the named header when it decodes as valid text. A
// missing or garbled header yields the empty string; decoding failures are
// never surfaced.
func headerText(r *http.Request, name string) string {
	value := r.Header.Get(name)
	if !utf8.ValidString(value) {
		return ""
	}
	return value
}
