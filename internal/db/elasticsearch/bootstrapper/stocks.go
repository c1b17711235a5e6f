package bootstrapper

const StockIndexName = "stocks"

var stockIndex = map[string]interface{}{
	"settings": map[string]interface{}{
		"number_of_shards":   1,
		"number_of_replicas": 1,
	},
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"analyst_consensus_price_target": map[string]interface{}{
				"properties": map[string]interface{}{
					"currency": map[string]interface{}{
						"type": "keyword",
					},
					"price": map[string]interface{}{
						"type": "float",
					},
					"nr_analysts": map[string]interface{}{
						"type": "integer",
					},
				},
			},
			"analyst_recommendation_count": map[string]interface{}{
				"type": "integer",
			},
			"analyst_upward_potential": map[string]interface{}{
				"type": "float",
			},
			"currency": map[string]interface{}{
				"type": "keyword",
			},
			"debt_equity_latest": map[string]interface{}{
				"type": "float",
			},
			"description": map[string]interface{}{
				"type": "text",
			},
			"div_yield_current": map[string]interface{}{
				"type": "float",
			},
			"div_yield_ttm": map[string]interface{}{
				"type": "float",
			},
			"dividend_payout_ratio_ttm": map[string]interface{}{
				"type": "float",
			},
			"eps_growth_last_5y": map[string]interface{}{
				"type": "float",
			},
			"eps_ttm": map[string]interface{}{
				"type": "float",
			},
			"equity_industry": map[string]interface{}{
				"type": "keyword",
			},
			"equity_sector": map[string]interface{}{
				"type": "keyword",
			},
			"financial_health_stars": map[string]interface{}{
				"type": "integer",
			},
			"growth_stars": map[string]interface{}{
				"type": "integer",
			},
			"isin": map[string]interface{}{
				"type": "keyword",
			},
			"market_cap": map[string]interface{}{
				"type": "float",
			},
			"name": map[string]interface{}{
				"type": "text",
			},
			"net_profit_margin_ttm": map[string]interface{}{
				"type": "float",
			},
			"number_of_employees": map[string]interface{}{
				"type": "integer",
			},
			"price_book_latest": map[string]interface{}{
				"type": "float",
			},
			"price_earnings_ex_extra_ttm": map[string]interface{}{
				"type": "float",
			},
			"price_sales_ttm": map[string]interface{}{
				"type": "float",
			},
			"roe_ttm": map[string]interface{}{
				"type": "float",
			},
			"size_label": map[string]interface{}{
				"type": "keyword",
			},
			"value_growth_label": map[string]interface{}{
				"type": "keyword",
			},
			"value_stars": map[string]interface{}{
				"type": "integer",
			},
		},
	},
}
