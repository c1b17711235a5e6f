package tracing

import (
	"context"
	"github.com/google/uuid"
)

type traceContextKey struct{}

// Begin creates a new Trace for the given request and binds it to the returned
// context. The context is the registry: each request carries its own binding,
// so concurrent requests can never observe each other's spans. An empty
// requestID is replaced with a generated one. Beginning a trace on a context
// that already carries an unfinished trace is a programming error and fails
// with ErrTraceAlreadyBound.
func Begin(ctx context.Context, requestID string) (context.Context, *Trace, error) {
	if existing, ok := FromContext(ctx); ok && !existing.ended() {
		return ctx, nil, ErrTraceAlreadyBound
	}
	if requestID == "" {
		requestID = "req_" + uuid.NewString()
	}
	trace := newTrace(requestID)
	return context.WithValue(ctx, traceContextKey{}, trace), trace, nil
}

// FromContext returns the trace bound to the context, or false if the context
// is untraced. Measurement calls against an untraced context silently no-op.
func FromContext(ctx context.Context) (*Trace, bool) {
	trace, ok := ctx.Value(traceContextKey{}).(*Trace)
	return trace, ok
}
