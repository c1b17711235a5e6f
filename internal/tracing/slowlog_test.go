package tracing

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"testing"
	"time"
)

func TestSlowTraceLogger_Observe(t *testing.T) {
	t.Run("Logs a trace exceeding the threshold", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		stl := NewSlowTraceLogger(zap.New(core), 50*time.Millisecond)
		stl.Observe(finalizedTraceFixture())
		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		fields := entry.ContextMap()
		assert.Equal(t, "r1", fields["request_id"])
		assert.Equal(t, float64(100), fields["total_duration_ms"])
	})

	t.Run("Stays silent below the threshold", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		stl := NewSlowTraceLogger(zap.New(core), 200*time.Millisecond)
		stl.Observe(finalizedTraceFixture())
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("Ignores a nil trace", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		stl := NewSlowTraceLogger(zap.New(core), 0)
		stl.Observe(nil)
		assert.Equal(t, 0, logs.Len())
	})
}
