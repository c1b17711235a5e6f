package handler

// SearchRequestDTO represents a natural language search request
// @swagger:model SearchRequestDTO
type SearchRequestDTO struct {
	// The natural language query, e.g. "tech companies with high ROE"
	Query string `json:"query"`
	// Optional caller-supplied request id; generated when absent
	RequestId string `json:"request_id,omitempty"`
	// Whether to embed the performance breakdown in the response, default true
	IncludeTrace *bool `json:"include_trace,omitempty"`
}

// StockResultDTO represents one formatted stock hit
// @swagger:model StockResultDTO
type StockResultDTO struct {
	Id               string  `json:"id"`
	Score            float64 `json:"score"`
	Name             string  `json:"name"`
	Isin             string  `json:"isin,omitempty"`
	Description      string  `json:"description,omitempty"`
	EquitySector     string  `json:"equity_sector,omitempty"`
	EquityIndustry   string  `json:"equity_industry,omitempty"`
	Currency         string  `json:"currency,omitempty"`
	SizeLabel        string  `json:"size_label,omitempty"`
	ValueGrowthLabel string  `json:"value_growth_label,omitempty"`
	RoeTtm           float64 `json:"roe_ttm"`
	DivYieldTtm      float64 `json:"div_yield_ttm"`
	PriceEarnings    float64 `json:"price_earnings_ex_extra_ttm"`
	MarketCap        float64 `json:"market_cap"`
}

// OperationStatsDTO is the aggregated duration and share of one operation
// @swagger:model OperationStatsDTO
type OperationStatsDTO struct {
	DurationMs float64 `json:"duration_ms"`
	Percent    float64 `json:"percent"`
}

// PerformanceDTO is the per-request performance breakdown
// @swagger:model PerformanceDTO
type PerformanceDTO struct {
	RequestId       string                       `json:"request_id"`
	TotalDurationMs float64                      `json:"total_duration_ms"`
	Breakdown       map[string]OperationStatsDTO `json:"breakdown"`
}

// SearchResponseDTO represents the response to a search request
// @swagger:model SearchResponseDTO
type SearchResponseDTO struct {
	RequestId string `json:"request_id,omitempty"`
	// The Elasticsearch query the natural language query was transformed into
	EsQuery map[string]interface{} `json:"es_query"`
	Results []StockResultDTO       `json:"results"`
	// The total number of matching documents, which can exceed len(results)
	TotalMatches int64 `json:"total_matches"`
	// The performance breakdown, present when tracing was active
	Performance *PerformanceDTO `json:"performance,omitempty"`
}

// ErrorMessage represents an error response
// @swagger:model ErrorMessage
type ErrorMessage struct {
	Message string `json:"message"`
}
