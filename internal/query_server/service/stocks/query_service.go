package stocks

import (
	"context"
	"encoding/json"
	"github.com/Avelius/StockSleuth/internal/db/elasticsearch/bootstrapper"
	"github.com/Avelius/StockSleuth/internal/db/elasticsearch/client"
	"github.com/Avelius/StockSleuth/internal/query_server/service/stocks/helper"
	"github.com/Avelius/StockSleuth/internal/query_server/service/stocks/model"
	"github.com/Avelius/StockSleuth/internal/tracing"
	"go.uber.org/zap"
	"time"
)

const timeout = 10 * time.Second
const querySize = 10

const esQueryOperation = "elasticsearch_query"
const formatOperation = "result_formatting"

// StockQueryService executes a transformed Elasticsearch query against the
// stocks index and formats the hits into stock results. The second return
// value is the total number of matching documents, which can exceed the
// number of returned results since result pages are capped.
type StockQueryService interface {
	Search(ctx context.Context, esQuery map[string]interface{}) ([]model.StockResult, int64, error)
}

type StockQueryServiceImpl struct {
	sc     client.SearchClient
	logger *zap.Logger
}

func NewStockQueryServiceImpl(sc client.SearchClient, logger *zap.Logger) *StockQueryServiceImpl {
	return &StockQueryServiceImpl{
		sc:     sc,
		logger: logger,
	}
}

func (sqs *StockQueryServiceImpl) Search(
	ctx context.Context,
	esQuery map[string]interface{},
) ([]model.StockResult, int64, error) {
	queryJson, err := json.Marshal(esQuery)
	if err != nil {
		sqs.logger.Error("Error when marshalling query to JSON", zap.Error(err))
		return nil, 0, err
	}

	region := tracing.StartRegion(ctx, esQueryOperation, tracing.Metadata{
		"index":      bootstrapper.StockIndexName,
		"query_size": len(queryJson),
	})
	localQuerySize := querySize
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	hits, err := sqs.sc.Search(queryCtx, string(queryJson), []string{bootstrapper.StockIndexName}, &localQuerySize)
	if err != nil {
		sqs.logger.Error("Error encountered when searching the stock index", zap.Error(err))
		region.Fail(err)
		region.End()
		return nil, 0, err
	}
	totalMatches, err := sqs.sc.Count(queryCtx, string(queryJson), []string{bootstrapper.StockIndexName})
	if err != nil {
		// A failed count must not fail a search that already has its hits.
		sqs.logger.Warn("Error encountered when counting matching stocks", zap.Error(err))
		totalMatches = int64(len(hits))
	}
	region.Set("result_count", len(hits))
	region.Set("total_matches", totalMatches)
	region.End()

	var results []model.StockResult
	_ = tracing.Measure(ctx, formatOperation, nil, func(ctx context.Context) error {
		results = helper.ConvertFromHits(hits)
		return nil
	})
	return results, totalMatches, nil
}
