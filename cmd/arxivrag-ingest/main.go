// Command arxivrag-ingest loads a CSV of arXiv abstracts, embeds the
// documents in batches and upserts them into the Qdrant collection. It is an
// offline job meant to run before the API server takes traffic.
package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/arxivrag/internal/config"
	"github.com/kailas-cloud/arxivrag/internal/corpus"
	dbRedis "github.com/kailas-cloud/arxivrag/internal/db/redis"
	logpkg "github.com/kailas-cloud/arxivrag/internal/logger"
	"github.com/kailas-cloud/arxivrag/internal/metrics"
	"github.com/kailas-cloud/arxivrag/internal/repository/embcache"
	qdrantrepo "github.com/kailas-cloud/arxivrag/internal/repository/qdrant"
	openaiProv "github.com/kailas-cloud/arxivrag/internal/transport/openai"
	ingestuc "github.com/kailas-cloud/arxivrag/internal/usecase/ingest"
	"github.com/kailas-cloud/arxivrag/internal/version"
)

func main() {
	csvPath := flag.String("csv", "", "path to the CSV file (overrides config)")
	collection := flag.String("collection", "", "target collection name (overrides config)")
	batchSize := flag.Int("batch", 0, "embedding batch size (overrides config)")
	maxRows := flag.Int("max-rows", 0, "ingest at most this many rows (0 = all)")
	flag.Parse()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if *csvPath != "" {
		cfg.Ingest.CSVPath = *csvPath
	}
	if *collection != "" {
		cfg.Qdrant.Collection = *collection
	}
	if *batchSize > 0 {
		cfg.Embedding.BatchSize = *batchSize
	}
	if cfg.Ingest.CSVPath == "" {
		logger.Fatal("No CSV path configured, pass -csv or set ingest.csv_path")
	}

	logger.Info("Starting arxivrag ingestion",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("csv", cfg.Ingest.CSVPath),
		zap.String("collection", cfg.Qdrant.Collection),
		zap.Int("batch_size", cfg.Embedding.BatchSize),
	)

	metrics.Register()

	docs, err := corpus.LoadCSV(cfg.Ingest.CSVPath)
	if err != nil {
		logger.Fatal("Failed to load CSV", zap.Error(err))
	}
	if *maxRows > 0 && len(docs) > *maxRows {
		docs = docs[:*maxRows]
	}
	logger.Info("CSV loaded", zap.Int("documents", len(docs)))

	repo, err := qdrantrepo.New(qdrantrepo.Config{
		Host:       cfg.Qdrant.Host,
		Port:       cfg.Qdrant.Port,
		APIKey:     cfg.Qdrant.APIKey,
		UseTLS:     cfg.Qdrant.UseTLS,
		Collection: cfg.Qdrant.Collection,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("Failed to connect to Qdrant", zap.Error(err))
	}
	defer repo.Close()

	base := openaiProv.NewEmbedder(&openaiProv.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})

	// The cache pays off on re-runs: unchanged rows are re-embedded for free.
	var embedder ingestuc.Embedder = base
	if len(cfg.Cache.Addrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(context.Background(), 30*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}

		ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
		embedder = embcache.New(base, store, cfg.Embedding.Model, ttl, metrics.EmbeddingCacheTotal, logger)
	}

	svc := ingestuc.New(repo, embedder, cfg.Embedding.Dimensions, logger).
		WithBatchSize(cfg.Embedding.BatchSize)

	res, err := svc.Run(context.Background(), docs)
	if err != nil {
		logger.Fatal("Ingestion failed",
			zap.Error(err),
			zap.Int("documents_done", res.Documents),
		)
	}

	logger.Info("Ingestion finished",
		zap.Int("documents", res.Documents),
		zap.Int("batches", res.Batches),
		zap.Int("tokens", res.Tokens),
		zap.Duration("duration", res.Duration),
	)
}
