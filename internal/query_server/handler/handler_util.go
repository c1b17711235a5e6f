package handler

import (
	"encoding/json"
	"github.com/Avelius/StockSleuth/internal/query_server/service/stocks/model"
	"github.com/Avelius/StockSleuth/internal/tracing"
	"go.uber.org/zap"
	"net/http"
)

func HttpError(w http.ResponseWriter, message string, code int, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(ErrorMessage{Message: message})
	if err != nil {
		logger.Error("Error encountered when encoding error response", zap.Error(err))
	}
}

func convertStockResultsToDTO(results []model.StockResult) []StockResultDTO {
	dtos := make([]StockResultDTO, 0, len(results))
	for _, result := range results {
		dtos = append(dtos, StockResultDTO{
			Id:               result.ID,
			Score:            result.Score,
			Name:             result.Name,
			Isin:             result.Isin,
			Description:      result.Description,
			EquitySector:     result.EquitySector,
			EquityIndustry:   result.EquityIndustry,
			Currency:         result.Currency,
			SizeLabel:        result.SizeLabel,
			ValueGrowthLabel: result.ValueGrowthLabel,
			RoeTtm:           result.RoeTtm,
			DivYieldTtm:      result.DivYieldTtm,
			PriceEarnings:    result.PriceEarnings,
			MarketCap:        result.MarketCap,
		})
	}
	return dtos
}

func convertReportToPerformanceDTO(report *tracing.Report) *PerformanceDTO {
	breakdown := make(map[string]OperationStatsDTO, len(report.Breakdown))
	for name, stats := range report.Breakdown {
		breakdown[name] = OperationStatsDTO{
			DurationMs: stats.DurationMs,
			Percent:    stats.Percent,
		}
	}
	return &PerformanceDTO{
		RequestId:       report.RequestID,
		TotalDurationMs: report.TotalDurationMs,
		Breakdown:       breakdown,
	}
}
