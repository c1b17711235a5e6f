package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/Avelius/StockSleuth/internal/query_server/handler"
	"github.com/Avelius/StockSleuth/internal/query_server/router"
	"github.com/Avelius/StockSleuth/internal/query_server/service/stocks/model"
	"github.com/Avelius/StockSleuth/internal/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type fakeTransformer struct{}

func (f *fakeTransformer) Transform(ctx context.Context, naturalQuery string) map[string]interface{} {
	tracing.Measure(ctx, "query_transformation", nil, func(ctx context.Context) error {
		time.Sleep(time.Millisecond)
		return nil
	})
	return map[string]interface{}{
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
	}
}

type fakeStockQueryService struct {
	err error
}

func (f *fakeStockQueryService) Search(
	ctx context.Context,
	esQuery map[string]interface{},
) ([]model.StockResult, int64, error) {
	var results []model.StockResult
	err := tracing.Measure(ctx, "elasticsearch_query", nil, func(ctx context.Context) error {
		if f.err != nil {
			return f.err
		}
		results = []model.StockResult{{ID: "ASML", Name: "ASML Holding", Score: 10.5}}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return results, 42, nil
}

func newTestServer(t *testing.T, sqs *fakeStockQueryService, tracingEnabled bool) *httptest.Server {
	r := router.CreateRouter(
		context.Background(),
		&fakeTransformer{},
		sqs,
		tracing.NewSlowTraceLogger(zap.NewNop(), time.Minute),
		tracingEnabled,
		zap.NewNop(),
	)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func postSearch(t *testing.T, server *httptest.Server, body string) (*http.Response, handler.SearchResponseDTO) {
	res, err := http.Post(server.URL+"/search", "application/json", bytes.NewBufferString(body))
	require.Nil(t, err)
	t.Cleanup(func() { res.Body.Close() })
	var response handler.SearchResponseDTO
	if res.StatusCode == http.StatusOK {
		require.Nil(t, json.NewDecoder(res.Body).Decode(&response))
	}
	return res, response
}

func TestSearchHandler(t *testing.T) {
	t.Run("Returns results with the performance breakdown", func(t *testing.T) {
		server := newTestServer(t, &fakeStockQueryService{}, true)
		res, response := postSearch(t, server, `{"query": "tech companies with high ROE", "request_id": "r1"}`)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		require.Len(t, response.Results, 1)
		assert.Equal(t, "ASML Holding", response.Results[0].Name)
		assert.Equal(t, int64(42), response.TotalMatches)
		require.NotNil(t, response.Performance)
		assert.Equal(t, "r1", response.Performance.RequestId)
		assert.Greater(t, response.Performance.TotalDurationMs, float64(0))
		assert.Contains(t, response.Performance.Breakdown, "query_transformation")
		assert.Contains(t, response.Performance.Breakdown, "elasticsearch_query")
	})

	t.Run("Generates a request id when none is supplied", func(t *testing.T) {
		server := newTestServer(t, &fakeStockQueryService{}, true)
		_, response := postSearch(t, server, `{"query": "tech companies"}`)
		require.NotNil(t, response.Performance)
		assert.Contains(t, response.RequestId, "req_")
	})

	t.Run("Omits the breakdown when include_trace is false", func(t *testing.T) {
		server := newTestServer(t, &fakeStockQueryService{}, true)
		_, response := postSearch(t, server, `{"query": "tech companies", "include_trace": false}`)
		assert.Nil(t, response.Performance)
		require.Len(t, response.Results, 1)
	})

	t.Run("Serves requests normally with tracing disabled", func(t *testing.T) {
		server := newTestServer(t, &fakeStockQueryService{}, false)
		res, response := postSearch(t, server, `{"query": "tech companies"}`)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Nil(t, response.Performance)
		require.Len(t, response.Results, 1)
	})

	t.Run("Rejects an empty query", func(t *testing.T) {
		server := newTestServer(t, &fakeStockQueryService{}, true)
		res, _ := postSearch(t, server, `{"query": ""}`)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("Rejects a malformed payload", func(t *testing.T) {
		server := newTestServer(t, &fakeStockQueryService{}, true)
		res, _ := postSearch(t, server, `{"query": `)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("Returns 500 when the search backend fails", func(t *testing.T) {
		server := newTestServer(t, &fakeStockQueryService{err: errors.New("search backend unavailable")}, true)
		res, _ := postSearch(t, server, `{"query": "tech companies"}`)
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	})

	t.Run("Keeps concurrent request breakdowns isolated", func(t *testing.T) {
		server := newTestServer(t, &fakeStockQueryService{}, true)
		const requests = 16
		var wg sync.WaitGroup
		responses := make([]handler.SearchResponseDTO, requests)
		for i := 0; i < requests; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				body := fmt.Sprintf(`{"query": "tech companies", "request_id": "r%d"}`, i)
				res, err := http.Post(server.URL+"/search", "application/json", bytes.NewBufferString(body))
				if err != nil {
					return
				}
				defer res.Body.Close()
				_ = json.NewDecoder(res.Body).Decode(&responses[i])
			}(i)
		}
		wg.Wait()
		for i, response := range responses {
			require.NotNil(t, response.Performance, "request %d missing performance", i)
			assert.Equal(t, fmt.Sprintf("r%d", i), response.Performance.RequestId)
		}
	})
}
