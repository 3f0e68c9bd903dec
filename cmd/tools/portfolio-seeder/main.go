// cmd/tools/portfolio-seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"esg-retrofit-workers/internal/cache"
	"esg-retrofit-workers/internal/common/config"
	"esg-retrofit-workers/internal/common/database"
	"esg-retrofit-workers/internal/common/logger"
	"esg-retrofit-workers/internal/models"
	"esg-retrofit-workers/internal/repository"
	"esg-retrofit-workers/internal/repository/postgres"
	"esg-retrofit-workers/internal/repository/search"
	"esg-retrofit-workers/internal/repository/synthetic"
)

// Sink receives the generated portfolio.
type Sink interface {
	Migrate(ctx context.Context) error
	SaveProperties(ctx context.Context, properties []models.Property) error
	SaveTargets(ctx context.Context, targets []models.Target) error
	SaveActions(ctx context.Context, actions []models.RetrofitAction) error
}

type Indexer interface {
	EnsureIndex(ctx context.Context) error
	IndexProperties(ctx context.Context, properties []models.Property) error
}

// ScoreInvalidator drops cached scores of reseeded properties.
type ScoreInvalidator interface {
	Invalidate(ctx context.Context, propertyIDs ...string) error
}

type summary struct {
	Properties int
	Targets    int
	Actions    int
	Indexed    bool
	Evicted    int
}

// seed copies every record of src into sink and, when indexer is non-nil, into the search index.
func seed(ctx context.Context, src repository.Portfolio, sink Sink, indexer Indexer, scores ScoreInvalidator) (summary, error) {
	var s summary

	properties, err := src.ListProperties(ctx)
	if err != nil {
		return s, fmt.Errorf("list properties: %w", err)
	}
	targets, err := src.ListTargets(ctx)
	if err != nil {
		return s, fmt.Errorf("list targets: %w", err)
	}
	actions, err := src.ListActions(ctx)
	if err != nil {
		return s, fmt.Errorf("list actions: %w", err)
	}

	if sink != nil {
		if err := sink.Migrate(ctx); err != nil {
			return s, fmt.Errorf("migrate: %w", err)
		}
		if err := sink.SaveProperties(ctx, properties); err != nil {
			return s, fmt.Errorf("save properties: %w", err)
		}
		if err := sink.SaveTargets(ctx, targets); err != nil {
			return s, fmt.Errorf("save targets: %w", err)
		}
		if err := sink.SaveActions(ctx, actions); err != nil {
			return s, fmt.Errorf("save actions: %w", err)
		}
		s.Properties, s.Targets, s.Actions = len(properties), len(targets), len(actions)
	}

	if indexer != nil {
		if err := indexer.EnsureIndex(ctx); err != nil {
			return s, fmt.Errorf("ensure index: %w", err)
		}
		if err := indexer.IndexProperties(ctx, properties); err != nil {
			return s, fmt.Errorf("index properties: %w", err)
		}
		s.Indexed = true
	}

	if scores != nil && len(properties) > 0 {
		ids := make([]string, len(properties))
		for i, p := range properties {
			ids[i] = p.ID
		}
		if err := scores.Invalidate(ctx, ids...); err != nil {
			return s, fmt.Errorf("invalidate cached scores: %w", err)
		}
		s.Evicted = len(ids)
	}
	return s, nil
}

func main() {
	seedValue := flag.Int64("seed", 0, "Generator seed (defaults to portfolio.seed)")
	count := flag.Int("count", 0, "Number of properties (defaults to portfolio.property_count)")
	skipDB := flag.Bool("skip-db", false, "Do not write to PostgreSQL")
	skipIndex := flag.Bool("skip-index", false, "Do not write to Elasticsearch")
	skipCache := flag.Bool("skip-cache", false, "Do not evict cached scores in Redis")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	zapLog, err := logger.New(cfg.Logging.Level, "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()

	if *seedValue == 0 {
		*seedValue = cfg.Portfolio.Seed
	}
	if *count == 0 {
		*count = cfg.Portfolio.PropertyCount
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	gen, err := synthetic.New(*seedValue, *count, time.Now())
	if err != nil {
		zapLog.Fatal("failed to generate portfolio", zap.Error(err))
	}

	var sink Sink
	if !*skipDB {
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			zapLog.Fatal("failed to open postgres", zap.Error(err))
		}
		defer pg.Close()
		if err := pg.Ping(ctx); err != nil {
			zapLog.Fatal("postgres unavailable", zap.Error(err))
		}
		sink = postgres.NewStore(pg.DB)
	}

	var indexer Indexer
	if !*skipIndex {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("failed to create elasticsearch client", zap.Error(err))
		}
		indexer = search.NewPropertyIndex(es.Client, cfg.Portfolio.IndexName)
	}

	var scores ScoreInvalidator
	if !*skipCache {
		rdb, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			zapLog.Fatal("failed to create redis client", zap.Error(err))
		}
		defer rdb.Close()
		scores = cache.NewScoreCache(rdb.Client, time.Duration(cfg.Portfolio.ScoreCacheTTL)*time.Second)
	}

	s, err := seed(ctx, gen, sink, indexer, scores)
	if err != nil {
		zapLog.Fatal("seeding failed", zap.Error(err))
	}
	zapLog.Info("portfolio seeded",
		zap.Int64("seed", *seedValue),
		zap.Int("properties", s.Properties),
		zap.Int("targets", s.Targets),
		zap.Int("actions", s.Actions),
		zap.Bool("indexed", s.Indexed),
		zap.Int("evicted", s.Evicted),
	)
}
