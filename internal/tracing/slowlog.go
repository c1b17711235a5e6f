package tracing

import (
	"go.uber.org/zap"
	"time"
)

// SlowTraceLogger logs a finalized trace only when its total duration exceeds
// a threshold. The tracing core exposes the finalized structure; whether and
// how to log it is this collaborator's decision.
type SlowTraceLogger struct {
	logger    *zap.Logger
	threshold time.Duration
}

func NewSlowTraceLogger(logger *zap.Logger, threshold time.Duration) *SlowTraceLogger {
	return &SlowTraceLogger{
		logger:    logger,
		threshold: threshold,
	}
}

func (stl *SlowTraceLogger) Observe(ft *FinalizedTrace) {
	if ft == nil || ft.TotalDuration <= stl.threshold {
		return
	}
	report := Summarize(ft)
	stl.logger.Warn(
		"Request exceeded slow trace threshold",
		zap.String("request_id", report.RequestID),
		zap.Float64("total_duration_ms", report.TotalDurationMs),
		zap.Float64("threshold_ms", roundMs(stl.threshold)),
		zap.Any("breakdown", report.Breakdown),
	)
}
