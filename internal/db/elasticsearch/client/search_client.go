package client

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/Avelius/StockSleuth/internal/db/elasticsearch/model"
	"github.com/elastic/go-elasticsearch/v8"
	"strings"
)

const DefaultSearchResultSize = 10

// SearchClient is the search surface of the Elasticsearch backend.
type SearchClient interface {
	// Search searches for documents in the given indices.
	// https://www.elastic.co/guide/en/elasticsearch/reference/master/search-search.html
	// queryResultSize is the number of results to return, -1 for default
	Search(ctx context.Context, query string, indices []string, queryResultSize *int) ([]model.HitSource, error)
	// Count counts the number of documents in the index matching the query
	// https://www.elastic.co/guide/en/elasticsearch/reference/master/search-count.html
	Count(ctx context.Context, query string, indices []string) (int64, error)
}

type SearchClientImpl struct {
	es *elasticsearch.Client
}

func NewSearchClientImpl(es *elasticsearch.Client) *SearchClientImpl {
	return &SearchClientImpl{es: es}
}

func (sc *SearchClientImpl) Search(
	ctx context.Context,
	query string,
	indices []string,
	queryResultSize *int,
) ([]model.HitSource, error) {
	res, err := sc.es.Search(
		sc.es.Search.WithContext(ctx),
		sc.es.Search.WithIndex(indices...),
		sc.es.Search.WithBody(strings.NewReader(query)),
		sc.es.Search.WithSize(getQuerySize(queryResultSize)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("failed to execute query: %s", res.String())
	}

	var esResponse model.EsResponse
	if err := json.NewDecoder(res.Body).Decode(&esResponse); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	return esResponse.Hits.HitArray, nil
}

func (sc *SearchClientImpl) Count(
	ctx context.Context,
	query string,
	indices []string,
) (int64, error) {
	res, err := sc.es.Count(
		sc.es.Count.WithContext(ctx),
		sc.es.Count.WithIndex(indices...),
		sc.es.Count.WithBody(strings.NewReader(query)),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("failed to execute query: %s", res.String())
	}

	var countResponse model.CountResponse
	if err := json.NewDecoder(res.Body).Decode(&countResponse); err != nil {
		return 0, fmt.Errorf("failed to decode response body: %w", err)
	}

	return int64(countResponse.Count), nil
}

func getQuerySize(queryResultSize *int) int {
	if queryResultSize == nil || *queryResultSize < 0 {
		return DefaultSearchResultSize
	}
	return *queryResultSize
}
