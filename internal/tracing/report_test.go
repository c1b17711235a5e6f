package tracing

import (
	"bytes"
	"encoding/json"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func finalizedTraceFixture() *FinalizedTrace {
	start := time.Now()
	return &FinalizedTrace{
		RequestID:     "r1",
		StartedAt:     start,
		TotalDuration: 100 * time.Millisecond,
		Spans: []Span{
			{
				Name:      "query_transformation",
				StartTime: start,
				EndTime:   start.Add(60 * time.Millisecond),
				Duration:  60 * time.Millisecond,
				Status:    StatusOk,
				Metadata:  Metadata{"model": "gpt-4o-mini"},
			},
			{
				Name:      "elasticsearch_query",
				StartTime: start.Add(60 * time.Millisecond),
				EndTime:   start.Add(90 * time.Millisecond),
				Duration:  30 * time.Millisecond,
				Status:    StatusOk,
			},
			{
				Name:      "elasticsearch_query",
				StartTime: start.Add(90 * time.Millisecond),
				EndTime:   start.Add(100 * time.Millisecond),
				Duration:  10 * time.Millisecond,
				Status:    StatusFailed,
			},
		},
	}
}

func TestSummarize(t *testing.T) {
	t.Run("Sums durations per operation name", func(t *testing.T) {
		report := Summarize(finalizedTraceFixture())
		assert.Equal(t, "r1", report.RequestID)
		assert.Equal(t, float64(100), report.TotalDurationMs)
		assert.Equal(t, float64(60), report.Breakdown["query_transformation"].DurationMs)
		assert.Equal(t, float64(40), report.Breakdown["elasticsearch_query"].DurationMs)
	})

	t.Run("Computes percentages of the total duration", func(t *testing.T) {
		report := Summarize(finalizedTraceFixture())
		assert.Equal(t, float64(60), report.Breakdown["query_transformation"].Percent)
		assert.Equal(t, float64(40), report.Breakdown["elasticsearch_query"].Percent)
	})

	t.Run("Leaves percentages at zero when the total is zero", func(t *testing.T) {
		finalized := &FinalizedTrace{RequestID: "r1", Spans: finalizedTraceFixture().Spans}
		report := Summarize(finalized)
		assert.Equal(t, float64(0), report.Breakdown["query_transformation"].Percent)
	})

	t.Run("Keeps the chronological detail listing in open order", func(t *testing.T) {
		report := Summarize(finalizedTraceFixture())
		require.Len(t, report.Operations, 3)
		assert.Equal(t, "query_transformation", report.Operations[0].Name)
		assert.Equal(t, "elasticsearch_query", report.Operations[1].Name)
		assert.Equal(t, StatusFailed, report.Operations[2].Status)
	})

	t.Run("Marshals to the documented response shape", func(t *testing.T) {
		report := Summarize(finalizedTraceFixture())
		report.Operations = nil
		encoded, err := json.Marshal(report)
		require.Nil(t, err)
		var decoded map[string]interface{}
		require.Nil(t, json.Unmarshal(encoded, &decoded))
		assert.Equal(t, "r1", decoded["request_id"])
		assert.Equal(t, float64(100), decoded["total_duration_ms"])
		breakdown := decoded["breakdown"].(map[string]interface{})
		transformation := breakdown["query_transformation"].(map[string]interface{})
		assert.Equal(t, float64(60), transformation["duration_ms"])
		assert.Equal(t, float64(60), transformation["percent"])
	})
}

func TestReport_Ranked(t *testing.T) {
	t.Run("Sorts operations descending by duration", func(t *testing.T) {
		report := Summarize(finalizedTraceFixture())
		ranked := report.Ranked()
		require.Len(t, ranked, 2)
		assert.Equal(t, "query_transformation", ranked[0].Name)
		assert.Equal(t, "elasticsearch_query", ranked[1].Name)
	})

	t.Run("Breaks ties by first occurrence", func(t *testing.T) {
		start := time.Now()
		finalized := &FinalizedTrace{
			RequestID:     "r1",
			TotalDuration: 20 * time.Millisecond,
			Spans: []Span{
				{Name: "stage_b", StartTime: start, Duration: 10 * time.Millisecond, EndTime: start.Add(time.Millisecond), Status: StatusOk},
				{Name: "stage_a", StartTime: start, Duration: 10 * time.Millisecond, EndTime: start.Add(time.Millisecond), Status: StatusOk},
			},
		}
		ranked := Summarize(finalized).Ranked()
		require.Len(t, ranked, 2)
		assert.Equal(t, "stage_b", ranked[0].Name)
		assert.Equal(t, "stage_a", ranked[1].Name)
	})
}

func TestReport_WriteSummary(t *testing.T) {
	t.Run("Renders the table header and the ranked rows", func(t *testing.T) {
		report := Summarize(finalizedTraceFixture())
		var buf bytes.Buffer
		require.Nil(t, report.WriteSummary(&buf))
		rendered := buf.String()
		assert.Contains(t, rendered, "PERFORMANCE TRACE SUMMARY - Request r1")
		assert.Contains(t, rendered, "Total Duration: 100.00ms")
		assert.Contains(t, rendered, "Operation")
		assert.Contains(t, rendered, "Duration (ms)")
		assert.Contains(t, rendered, "query_transformation")
		assert.Contains(t, rendered, "60.0%")
	})

	t.Run("Includes the chronological detail with metadata", func(t *testing.T) {
		report := Summarize(finalizedTraceFixture())
		var buf bytes.Buffer
		require.Nil(t, report.WriteSummary(&buf))
		rendered := buf.String()
		assert.Contains(t, rendered, "Detailed Timeline:")
		assert.Contains(t, rendered, `{"model":"gpt-4o-mini"}`)
		assert.Contains(t, rendered, "[failed]")
	})

	t.Run("Surfaces a write error from the middle of the rendering", func(t *testing.T) {
		report := Summarize(finalizedTraceFixture())
		var full bytes.Buffer
		require.Nil(t, report.WriteSummary(&full))
		writer := &failingWriter{failAfter: full.Len() / 2}
		err := report.WriteSummary(writer)
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "writer full")
	})
}

type failingWriter struct {
	failAfter int
	written   int
}

func (fw *failingWriter) Write(p []byte) (int, error) {
	if fw.written+len(p) > fw.failAfter {
		return 0, errors.New("writer full")
	}
	fw.written += len(p)
	return len(p), nil
}
