package tracing

import (
	"errors"
	"sync"
	"time"
)

// Trace collects the spans belonging to a single in-flight request. It is
// created by Begin, populated through the measurement API, and sealed exactly
// once by End. Spans are kept in the order they were opened regardless of when
// they close.
type Trace struct {
	requestID string
	startedAt time.Time
	mu        sync.Mutex
	spans     []*Span
	finalized bool
}

func newTrace(requestID string) *Trace {
	return &Trace{
		requestID: requestID,
		startedAt: time.Now(),
	}
}

func (t *Trace) RequestID() string {
	return t.requestID
}

func (t *Trace) StartedAt() time.Time {
	return t.startedAt
}

// ended reports whether End has sealed the trace.
func (t *Trace) ended() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finalized
}

// openSpan appends a new open span. Spans opened after finalization are
// dropped rather than surfaced as an error, since a straggling measurement
// must never crash the pipeline it observes.
func (t *Trace) openSpan(name string) *Span {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finalized {
		return nil
	}
	span := &Span{
		Name:      name,
		StartTime: time.Now(),
	}
	t.spans = append(t.spans, span)
	return span
}

// closeSpan seals the span with its end time, status and merged metadata.
// Closing twice or closing against a finalized trace is a no-op.
func (t *Trace) closeSpan(span *Span, status Status, md Metadata) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if span == nil || span.Closed() || t.finalized {
		return
	}
	span.EndTime = time.Now()
	span.Duration = span.EndTime.Sub(span.StartTime)
	span.Status = status
	span.Metadata = md
}

// End finalizes the trace: the span list is sealed, the total duration is
// fixed to now minus the trace start, and the immutable result is returned.
// Spans still open at this point belong to work that outlived the request and
// are discarded. Calling End twice is a usage error and returns ErrTraceEnded.
func (t *Trace) End() (*FinalizedTrace, error) {
	if t == nil {
		return nil, ErrNoActiveTrace
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finalized {
		return nil, ErrTraceEnded
	}
	t.finalized = true

	finalized := &FinalizedTrace{
		RequestID:     t.requestID,
		StartedAt:     t.startedAt,
		TotalDuration: time.Since(t.startedAt),
	}
	for _, span := range t.spans {
		if !span.Closed() {
			continue
		}
		finalized.Spans = append(finalized.Spans, *span)
	}
	return finalized, nil
}

// FinalizedTrace is the sealed, read-only result of one request trace, ready
// to be summarized and discarded.
type FinalizedTrace struct {
	RequestID     string
	StartedAt     time.Time
	TotalDuration time.Duration
	Spans         []Span
}

func (ft *FinalizedTrace) TotalDurationMs() float64 {
	return roundMs(ft.TotalDuration)
}

var (
	ErrNoActiveTrace     = errors.New("no active trace bound to the given context")
	ErrTraceEnded        = errors.New("trace has already been ended")
	ErrTraceAlreadyBound = errors.New("an active trace is already bound to the given context")
)
