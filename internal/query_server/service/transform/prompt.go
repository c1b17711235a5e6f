package transform

import (
	"fmt"
	"github.com/Avelius/StockSleuth/internal/llm"
)

const systemPrompt = "You transform natural language queries into Elasticsearch query DSL format."

const toolName = "create_elasticsearch_query"

// stockMappings is the schema of the stocks index, embedded in the prompt so
// the model only emits fields that actually exist.
const stockMappings = `{"mappings": {
    "properties": {
    "analyst_consensus_price_target": {
        "properties": {
        "currency": { "type": "keyword" },
        "price": { "type": "float" },
        "nr_analysts": { "type": "integer" }
        }
    },
    "analyst_recommendation_count": { "type": "integer" },
    "analyst_upward_potential": { "type": "float" },
    "currency": { "type": "keyword" },
    "debt_equity_latest": { "type": "float" },
    "description": { "type": "text" },
    "div_yield_current": { "type": "float" },
    "div_yield_ttm": { "type": "float" },
    "dividend_payout_ratio_ttm": { "type": "float" },
    "eps_growth_last_5y": { "type": "float" },
    "eps_ttm": { "type": "float" },
    "equity_industry": { "type": "keyword" },
    "equity_sector": { "type": "keyword" },
    "financial_health_stars": { "type": "integer" },
    "growth_stars": { "type": "integer" },
    "isin": { "type": "keyword" },
    "market_cap": { "type": "float" },
    "name": { "type": "text" },
    "net_profit_margin_ttm": { "type": "float" },
    "number_of_employees": { "type": "integer" },
    "price_book_latest": { "type": "float" },
    "price_earnings_ex_extra_ttm": { "type": "float" },
    "price_sales_ttm": { "type": "float" },
    "roe_ttm": { "type": "float" },
    "size_label": { "type": "keyword" },
    "value_growth_label": { "type": "keyword" },
    "value_stars": { "type": "integer" }
    }
}}`

const promptExamples = `Example queries:
1. "European banks with high dividends" ->
{
    "query": {
        "bool": {
            "must": [
                {"term": {"currency": "EUR"}},
                {"term": {"equity_industry": "Banks"}},
                {"range": {"div_yield_ttm": {"gt": 0.03}}}
            ]
        }
    }
}

2. "Large growth companies in Technology sector" ->
{
    "query": {
        "bool": {
            "must": [
                {"term": {"size_label": "LARGE"}},
                {"term": {"value_growth_label": "GROWTH"}},
                {"term": {"equity_sector": "TECHNOLOGY"}}
            ]
        }
    }
}

3. "Companies with upwards potential of 5%, covered by 5 analysts and with debt to equity lower than 40%" ->
{
    "query": {
        "bool": {
            "must": [
                {"range": {"analyst_upward_potential": {"gte": 0.05}}},
                {"range": {"analyst_consensus_price_target.nr_analysts": {"gte": 5}}},
                {"range": {"debt_equity_latest": {"lte": 0.4}}}
            ]
        }
    }
}`

func buildUserPrompt(naturalQuery string) string {
	return fmt.Sprintf(
		"Query: %q\n\nRules for Elasticsearch field names and values:\n%s\n"+
			"If a user does not specify that the number should be exact, assume that better is also fine.\n\n%s",
		naturalQuery,
		stockMappings,
		promptExamples,
	)
}

func queryTool() llm.Tool {
	boolClause := map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type":                 "object",
			"additionalProperties": true,
		},
	}
	return llm.Tool{
		Type: "function",
		Function: llm.ToolFunction{
			Name:        toolName,
			Description: "Create an Elasticsearch query from natural language",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"bool": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"must":     boolClause,
									"should":   boolClause,
									"must_not": boolClause,
									"filter":   boolClause,
								},
								"additionalProperties": true,
							},
						},
						"required": []string{"bool"},
					},
				},
				"required": []string{"query"},
			},
		},
	}
}
