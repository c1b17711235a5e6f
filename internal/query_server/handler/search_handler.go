package handler

import (
	"context"
	"encoding/json"
	"github.com/Avelius/StockSleuth/internal/query_server/service/stocks"
	"github.com/Avelius/StockSleuth/internal/query_server/service/transform"
	"github.com/Avelius/StockSleuth/internal/tracing"
	"go.uber.org/zap"
	"io"
	"net/http"
)

// SearchHandler creates a handler for natural language stock searches.
// @Summary Search stocks using a natural language query.
// @Tags search
// @Accept json
// @Produce json
// @Param search body SearchRequestDTO true "The natural language search request"
// @Success 200 {object} SearchResponseDTO "Formatted results with the performance breakdown"
// @Failure 400 {object} ErrorMessage "Invalid request payload"
// @Failure 500 {object} ErrorMessage "Internal server error"
// @Router /search [post]
func SearchHandler(
	ctx context.Context,
	qts transform.QueryTransformer,
	sqs stocks.StockQueryService,
	stl *tracing.SlowTraceLogger,
	tracingEnabled bool,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequestDTO
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Error("Error encountered when decoding request body", zap.Error(err))
			HttpError(w, "Invalid request payload", http.StatusBadRequest, logger)
			return
		}

		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logger.Error("Error encountered when closing request body", zap.Error(err))
			}
		}(r.Body)

		if req.Query == "" {
			HttpError(w, "Query must not be empty", http.StatusBadRequest, logger)
			return
		}

		requestCtx := r.Context()
		var trace *tracing.Trace
		if tracingEnabled {
			tracedCtx, startedTrace, err := tracing.Begin(requestCtx, req.RequestId)
			if err != nil {
				logger.Error("Error encountered when beginning request trace", zap.Error(err))
			} else {
				requestCtx = tracedCtx
				trace = startedTrace
			}
		}

		esQuery := qts.Transform(requestCtx, req.Query)
		results, totalMatches, searchErr := sqs.Search(requestCtx, esQuery)

		var finalized *tracing.FinalizedTrace
		if trace != nil {
			finalized, err = trace.End()
			if err != nil {
				logger.Error("Error encountered when ending request trace", zap.Error(err))
			} else if stl != nil {
				stl.Observe(finalized)
			}
		}

		if searchErr != nil {
			logger.Error("Error encountered when searching stocks", zap.Error(searchErr))
			HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
			return
		}

		response := SearchResponseDTO{
			EsQuery:      esQuery,
			Results:      convertStockResultsToDTO(results),
			TotalMatches: totalMatches,
		}
		if finalized != nil {
			response.RequestId = finalized.RequestID
			if req.IncludeTrace == nil || *req.IncludeTrace {
				response.Performance = convertReportToPerformanceDTO(tracing.Summarize(finalized))
			}
		} else if req.RequestId != "" {
			response.RequestId = req.RequestId
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(response)
		if err != nil {
			logger.Error("Error encountered when encoding response", zap.Error(err))
			HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
			return
		}
	}
}

// HealthHandler reports service liveness.
// @Summary Health check.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string "Service status"
// @Router /health [get]
func HealthHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		if err != nil {
			logger.Error("Error encountered when encoding health response", zap.Error(err))
		}
	}
}
