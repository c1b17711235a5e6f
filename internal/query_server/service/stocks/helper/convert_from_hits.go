package helper

import (
	esModel "github.com/Avelius/StockSleuth/internal/db/elasticsearch/model"
	"github.com/Avelius/StockSleuth/internal/query_server/service/stocks/model"
)

const descriptionLimit = 200

// ConvertFromHits maps raw Elasticsearch hits into stock results. Source
// documents are user data, so missing or oddly typed fields fall back to zero
// values instead of failing the conversion.
func ConvertFromHits(hits []esModel.HitSource) []model.StockResult {
	var results []model.StockResult
	for _, hit := range hits {
		results = append(results, model.StockResult{
			ID:               hit.ID,
			Score:            hit.Score,
			Name:             safeString(hit.Source, "name"),
			Isin:             safeString(hit.Source, "isin"),
			Description:      truncate(safeString(hit.Source, "description"), descriptionLimit),
			EquitySector:     safeString(hit.Source, "equity_sector"),
			EquityIndustry:   safeString(hit.Source, "equity_industry"),
			Currency:         safeString(hit.Source, "currency"),
			SizeLabel:        safeString(hit.Source, "size_label"),
			ValueGrowthLabel: safeString(hit.Source, "value_growth_label"),
			RoeTtm:           safeFloat(hit.Source, "roe_ttm"),
			DivYieldTtm:      safeFloat(hit.Source, "div_yield_ttm"),
			PriceEarnings:    safeFloat(hit.Source, "price_earnings_ex_extra_ttm"),
			MarketCap:        safeFloat(hit.Source, "market_cap"),
		})
	}
	return results
}

func safeString(source map[string]interface{}, key string) string {
	value, ok := source[key].(string)
	if !ok {
		return ""
	}
	return value
}

func safeFloat(source map[string]interface{}, key string) float64 {
	switch value := source[key].(type) {
	case float64:
		return value
	case float32:
		return float64(value)
	case int:
		return float64(value)
	case int64:
		return float64(value)
	default:
		return 0
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
