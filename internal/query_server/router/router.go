package router

import (
	"context"
	"github.com/Avelius/StockSleuth/internal/query_server/handler"
	"github.com/Avelius/StockSleuth/internal/query_server/service/stocks"
	"github.com/Avelius/StockSleuth/internal/query_server/service/transform"
	"github.com/Avelius/StockSleuth/internal/tracing"
	"go.uber.org/zap"
	"net/http"
)
import "github.com/gorilla/mux"

func CreateRouter(
	ctx context.Context,
	queryTransformer transform.QueryTransformer,
	stockQueryService stocks.StockQueryService,
	slowTraceLogger *tracing.SlowTraceLogger,
	tracingEnabled bool,
	logger *zap.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.Handle(
		"/search", handler.SearchHandler(
			ctx,
			queryTransformer,
			stockQueryService,
			slowTraceLogger,
			tracingEnabled,
			logger,
		),
	).Methods("POST")

	r.Handle(
		"/health", handler.HealthHandler(logger),
	).Methods("GET")

	return r
}
