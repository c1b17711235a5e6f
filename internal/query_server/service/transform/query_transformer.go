package transform

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/Avelius/StockSleuth/internal/cache"
	"github.com/Avelius/StockSleuth/internal/llm"
	"github.com/Avelius/StockSleuth/internal/tracing"
	"go.uber.org/zap"
	"strings"
)

const transformOperation = "query_transformation"

// QueryTransformer turns a natural language query into an Elasticsearch query
// body. Transformation never fails the request: on any LLM error the service
// falls back to a match_all query so the pipeline keeps serving.
type QueryTransformer interface {
	Transform(ctx context.Context, naturalQuery string) map[string]interface{}
}

type QueryTransformerService struct {
	client llm.ChatClient
	cache  cache.TranslationCache[map[string]interface{}]
	logger *zap.Logger
}

// NewQueryTransformerService creates the transformer. translationCache may be
// nil to disable caching.
func NewQueryTransformerService(
	client llm.ChatClient,
	translationCache cache.TranslationCache[map[string]interface{}],
	logger *zap.Logger,
) *QueryTransformerService {
	return &QueryTransformerService{
		client: client,
		cache:  translationCache,
		logger: logger,
	}
}

func (qts *QueryTransformerService) Transform(
	ctx context.Context,
	naturalQuery string,
) map[string]interface{} {
	region := tracing.StartRegion(ctx, transformOperation, tracing.Metadata{
		"query_length": len(naturalQuery),
		"model":        qts.client.Model(),
	})
	defer region.End()

	cacheKey := strings.ToLower(strings.TrimSpace(naturalQuery))
	if qts.cache != nil {
		if cached, err := qts.cache.Get(cacheKey); err == nil {
			region.Set("from_cache", true)
			return cached
		}
	}
	region.Set("from_cache", false)

	response, err := qts.client.ChatCompletion(ctx, llm.ChatRequest{
		Messages: []llm.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(naturalQuery)},
		},
		Tools:      []llm.Tool{queryTool()},
		ToolChoice: &llm.ToolChoice{Type: "function", Function: llm.ToolChoiceName{Name: toolName}},
	})
	if err != nil {
		qts.logger.Error("Error encountered in query transformation", zap.Error(err))
		region.Fail(err)
		return fallbackQuery()
	}
	region.Set("total_tokens", response.Usage.TotalTokens)

	esQuery, err := extractQuery(response)
	if err != nil {
		qts.logger.Error("Error encountered when extracting transformed query", zap.Error(err))
		region.Fail(err)
		return fallbackQuery()
	}

	if qts.cache != nil {
		if err := qts.cache.Put(cacheKey, esQuery); err != nil {
			qts.logger.Warn("Failed to cache transformed query", zap.Error(err))
		}
	}
	return esQuery
}

func extractQuery(response *llm.ChatResponse) (map[string]interface{}, error) {
	toolCalls := response.Choices[0].Message.ToolCalls
	if len(toolCalls) == 0 {
		return nil, ErrNoToolCall
	}
	var esQuery map[string]interface{}
	if err := json.Unmarshal([]byte(toolCalls[0].Function.Arguments), &esQuery); err != nil {
		return nil, err
	}
	if _, ok := esQuery["query"]; !ok {
		return nil, ErrMissingQueryClause
	}
	return esQuery, nil
}

func fallbackQuery() map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"match_all": map[string]interface{}{},
		},
	}
}

var (
	ErrNoToolCall         = errors.New("chat completion response contained no tool call")
	ErrMissingQueryClause = errors.New("transformed query is missing the query clause")
)
