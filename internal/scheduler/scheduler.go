// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"time"

	"esg-retrofit-workers/internal/common/metrics"
	"esg-retrofit-workers/internal/esg"
	"esg-retrofit-workers/internal/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	JobReindex   = "reindex"
	JobWarmCache = "warm_cache"

	runTimeout = 2 * time.Minute
)

// PropertySource lists the portfolio with scores already computed.
type PropertySource interface {
	ListProperties(ctx context.Context) ([]models.Property, error)
}

type Indexer interface {
	EnsureIndex(ctx context.Context) error
	IndexProperties(ctx context.Context, properties []models.Property) error
}

type ScoreWriter interface {
	Set(ctx context.Context, propertyID string, scores esg.Scores) error
}

// Config holds the cron expressions, standard five-field syntax.
type Config struct {
	ReindexCron   string
	WarmCacheCron string
}

// Scheduler keeps the search index and the score cache in step with the property source.
type Scheduler struct {
	cron    *cron.Cron
	cfg     Config
	source  PropertySource
	indexer Indexer
	cache   ScoreWriter
	logger  *zap.Logger
}

func NewScheduler(cfg Config, source PropertySource, indexer Indexer, cache ScoreWriter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:    cron.New(),
		cfg:     cfg,
		source:  source,
		indexer: indexer,
		cache:   cache,
		logger:  logger,
	}
}

// Start registers the jobs and starts the cron loop. A job with an invalid expression is
// logged and skipped.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if s.indexer != nil {
		if _, err := s.cron.AddFunc(s.cfg.ReindexCron, s.runReindex); err != nil {
			s.logger.Error("failed to schedule reindex", zap.String("spec", s.cfg.ReindexCron), zap.Error(err))
		}
	}
	if s.cache != nil {
		if _, err := s.cron.AddFunc(s.cfg.WarmCacheCron, s.runWarmCache); err != nil {
			s.logger.Error("failed to schedule cache warm-up", zap.String("spec", s.cfg.WarmCacheCron), zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) runReindex() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	s.record(JobReindex, s.Reindex(ctx))
}

func (s *Scheduler) runWarmCache() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	s.record(JobWarmCache, s.WarmCache(ctx))
}

func (s *Scheduler) record(job string, err error) {
	if err != nil {
		metrics.ESGScheduledRuns.WithLabelValues(job, "error").Inc()
		s.logger.Error("scheduled job failed", zap.String("job", job), zap.Error(err))
		return
	}
	metrics.ESGScheduledRuns.WithLabelValues(job, "success").Inc()
}

// Reindex pushes the full portfolio into the search index.
func (s *Scheduler) Reindex(ctx context.Context) error {
	properties, err := s.source.ListProperties(ctx)
	if err != nil {
		return err
	}
	if err := s.indexer.EnsureIndex(ctx); err != nil {
		return err
	}
	if err := s.indexer.IndexProperties(ctx, properties); err != nil {
		return err
	}

	s.logger.Info("portfolio reindexed", zap.Int("properties", len(properties)))
	return nil
}

// WarmCache writes the current scores of every property to the cache. A failed write is
// logged and the remaining properties are still processed.
func (s *Scheduler) WarmCache(ctx context.Context) error {
	properties, err := s.source.ListProperties(ctx)
	if err != nil {
		return err
	}

	var firstErr error
	warmed := 0
	for _, p := range properties {
		if err := s.cache.Set(ctx, p.ID, p.Scores); err != nil {
			s.logger.Warn("failed to cache scores", zap.String("propertyId", p.ID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		warmed++
	}

	s.logger.Info("score cache warmed", zap.Int("cached", warmed), zap.Int("properties", len(properties)))
	return firstErr
}
