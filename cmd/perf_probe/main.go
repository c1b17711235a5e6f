package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"github.com/Avelius/StockSleuth/internal/config"
	esClient "github.com/Avelius/StockSleuth/internal/db/elasticsearch/client"
	"github.com/Avelius/StockSleuth/internal/llm"
	"github.com/Avelius/StockSleuth/internal/query_server/service/stocks"
	"github.com/Avelius/StockSleuth/internal/query_server/service/transform"
	"github.com/Avelius/StockSleuth/internal/tracing"
	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
	"net/http"
	"os"
	"time"
)

// perf_probe runs a query through the full pipeline with tracing enabled and
// prints the per-stage breakdown, for diagnosing where request time goes.
func main() {
	query := flag.String("query", "", "natural language query to probe")
	iterations := flag.Int("iterations", 1, "number of times to run the query")
	configPath := flag.String("config", "", "path to an optional YAML config file")
	flag.Parse()

	if *query == "" || *iterations < 1 {
		fmt.Fprintln(os.Stderr, "usage: perf_probe -query <text> [-iterations n] [-config path]")
		os.Exit(2)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.EsAddresses(),
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.Elasticsearch.InsecureSkipVerify},
		},
	})
	if err != nil {
		logger.Fatal("Failed to create elasticsearch client", zap.Error(err))
	}

	chatClient, err := llm.NewChatClient(llm.Options{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		Timeout:     time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	// No translation cache here: each iteration should pay the full LLM cost
	// so the breakdown reflects an uncached request.
	queryTransformer := transform.NewQueryTransformerService(chatClient, nil, logger)
	stockQueryService := stocks.NewStockQueryServiceImpl(esClient.NewSearchClientImpl(es), logger)

	var totals []float64
	for i := 1; i <= *iterations; i++ {
		fmt.Printf("Iteration %d/%d\n", i, *iterations)
		ctx, trace, err := tracing.Begin(context.Background(), fmt.Sprintf("probe_iter_%d", i))
		if err != nil {
			logger.Fatal("Failed to begin trace", zap.Error(err))
		}

		esQuery := queryTransformer.Transform(ctx, *query)
		results, totalMatches, err := stockQueryService.Search(ctx, esQuery)
		if err != nil {
			logger.Warn("Search failed", zap.Error(err))
		}

		finalized, err := trace.End()
		if err != nil {
			logger.Fatal("Failed to end trace", zap.Error(err))
		}
		report := tracing.Summarize(finalized)
		totals = append(totals, report.TotalDurationMs)

		fmt.Printf("Results found: %d of %d total matches\n", len(results), totalMatches)
		if err := report.WriteSummary(os.Stdout); err != nil {
			logger.Fatal("Failed to write trace summary", zap.Error(err))
		}
	}

	if *iterations > 1 {
		minTotal, maxTotal, sum := totals[0], totals[0], 0.0
		for _, total := range totals {
			if total < minTotal {
				minTotal = total
			}
			if total > maxTotal {
				maxTotal = total
			}
			sum += total
		}
		fmt.Printf("Average time: %.2fms\n", sum/float64(len(totals)))
		fmt.Printf("Min time: %.2fms\n", minTotal)
		fmt.Printf("Max time: %.2fms\n", maxTotal)
	}
}
