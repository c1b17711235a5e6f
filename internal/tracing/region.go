package tracing

import (
	"context"
	"sync"
)

// Region is an open measurement scope over a span. Callers pair StartRegion
// with a deferred End so the span is closed on every exit path. All methods
// are safe on a Region started outside an active trace, where they do nothing.
type Region struct {
	trace *Trace
	span  *Span
	mu    sync.Mutex
	md    Metadata
	fail  bool
	done  bool
}

// StartRegion opens a span named name on the trace bound to ctx and returns
// the region handle. If no trace is bound the returned region is a no-op:
// tracing is optional instrumentation, never a hard dependency.
func StartRegion(ctx context.Context, name string, md Metadata) *Region {
	trace, ok := FromContext(ctx)
	if !ok {
		return &Region{}
	}
	span := trace.openSpan(name)
	if span == nil {
		return &Region{}
	}
	return &Region{
		trace: trace,
		span:  span,
		md:    mergeMetadata(md),
	}
}

// Set records a single metadata entry, attached to the span at close time.
// Later writes to the same key overwrite earlier ones.
func (r *Region) Set(key string, value interface{}) {
	r.AddMetadata(Metadata{key: value})
}

// AddMetadata merges md into the metadata pending for this region.
func (r *Region) AddMetadata(md Metadata) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.span == nil || r.done || len(md) == 0 {
		return
	}
	r.md = mergeMetadata(r.md, md)
}

// Fail marks the region's span as failed and records the error message. The
// error itself is untouched; re-raising it is the caller's business.
func (r *Region) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.span == nil || r.done {
		return
	}
	r.fail = true
	if err != nil {
		r.md = mergeMetadata(r.md, Metadata{"error": err.Error()})
	}
}

// End closes the span exactly once, recording its duration, status and the
// merged metadata. Safe to call repeatedly; only the first call takes effect.
func (r *Region) End() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.span == nil || r.done {
		return
	}
	r.done = true
	status := StatusOk
	if r.fail {
		status = StatusFailed
	}
	r.trace.closeSpan(r.span, status, r.md)
}
