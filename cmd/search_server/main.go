package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"github.com/Avelius/StockSleuth/internal/cache"
	"github.com/Avelius/StockSleuth/internal/config"
	"github.com/Avelius/StockSleuth/internal/db/elasticsearch/bootstrapper"
	esClient "github.com/Avelius/StockSleuth/internal/db/elasticsearch/client"
	"github.com/Avelius/StockSleuth/internal/llm"
	"github.com/Avelius/StockSleuth/internal/query_server/router"
	"github.com/Avelius/StockSleuth/internal/query_server/service/stocks"
	"github.com/Avelius/StockSleuth/internal/query_server/service/transform"
	"github.com/Avelius/StockSleuth/internal/tracing"
	"github.com/dgraph-io/ristretto"
	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
	"net/http"
	"time"
)

// @title StockSleuth API
// @version 1.0
// @description Semantic stock search: natural language queries transformed into Elasticsearch queries, with per-request performance tracing.

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	flag.Parse()

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

	bs := bootstrapper.NewBootstrapper(es, logger)
	err = bs.BootstrapElasticsearch()
	if err != nil {
		logger.Error("Failed to bootstrap elasticsearch", zap.Error(err))
	}

	var translationCache cache.TranslationCache[map[string]interface{}]
	if cfg.Cache.Enabled {
		ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: cfg.Cache.NumCounters,
			MaxCost:     cfg.Cache.MaxCost,
			BufferItems: 64,
		})
		if err != nil {
			logger.Fatal("Failed to create translation cache", zap.Error(err))
		}
		translationCache = cache.NewTranslationCacheImpl[map[string]interface{}](ristrettoCache, logger)
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

	queryTransformer := transform.NewQueryTransformerService(chatClient, translationCache, logger)
	stockQueryService := stocks.NewStockQueryServiceImpl(esClient.NewSearchClientImpl(es), logger)
	slowTraceLogger := tracing.NewSlowTraceLogger(
		logger,
		time.Duration(cfg.Tracing.SlowThresholdMs)*time.Millisecond,
	)

	r := router.CreateRouter(
		context.Background(),
		queryTransformer,
		stockQueryService,
		slowTraceLogger,
		cfg.Tracing.Enabled,
		logger,
	)
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	logger.Info("Starting search server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal("Failed to serve", zap.Error(err))
	}
}
