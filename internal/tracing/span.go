package tracing

import (
	"fmt"
	"math"
	"time"
)

type Status string

const (
	StatusOk     Status = "ok"
	StatusFailed Status = "failed"
)

// Metadata carries diagnostic context attached to a span, e.g. token counts or
// query sizes. Values are restricted to strings, numbers and booleans so that
// serialization stays well-defined; anything else is stringified on attach.
type Metadata map[string]interface{}

// Span is a single named, timed unit of work. It is mutable while open and
// treated as immutable once EndTime has been set.
type Span struct {
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time,omitempty"`
	// Duration is only meaningful once the span is closed.
	Duration time.Duration `json:"-"`
	Status   Status        `json:"status"`
	Metadata Metadata      `json:"metadata,omitempty"`
}

func (s *Span) Closed() bool {
	return !s.EndTime.IsZero()
}

// DurationMs returns the span duration in milliseconds, rounded to two
// decimals the way it is reported to clients.
func (s *Span) DurationMs() float64 {
	return roundMs(s.Duration)
}

func roundMs(d time.Duration) float64 {
	return math.Round(d.Seconds()*1000*100) / 100
}

// mergeMetadata merges the given maps left to right, later keys overwriting
// earlier ones with the same name. Returns nil if nothing was set.
func mergeMetadata(mds ...Metadata) Metadata {
	var merged Metadata
	for _, md := range mds {
		for key, value := range md {
			if merged == nil {
				merged = make(Metadata)
			}
			merged[key] = sanitizeValue(value)
		}
	}
	return merged
}

func sanitizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case string, bool:
		return v
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return v
	case float32, float64:
		return v
	case time.Duration:
		return roundMs(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
