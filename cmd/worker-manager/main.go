// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"esg-retrofit-workers/internal/cache"
	"esg-retrofit-workers/internal/common/aws"
	"esg-retrofit-workers/internal/common/camunda"
	"esg-retrofit-workers/internal/common/config"
	"esg-retrofit-workers/internal/common/database"
	"esg-retrofit-workers/internal/common/logger"
	"esg-retrofit-workers/internal/common/observability"
	"esg-retrofit-workers/internal/reporting"
	"esg-retrofit-workers/internal/repository"
	"esg-retrofit-workers/internal/repository/postgres"
	"esg-retrofit-workers/internal/repository/search"
	"esg-retrofit-workers/internal/repository/synthetic"
	"esg-retrofit-workers/internal/scheduler"
	"esg-retrofit-workers/internal/server/handlers"
	"esg-retrofit-workers/internal/server/router"
	"esg-retrofit-workers/internal/session"
	"esg-retrofit-workers/pkg/registry"

	tracksessionevent "esg-retrofit-workers/internal/workers/gamification/track-session-event"
	generateportfolioreport "esg-retrofit-workers/internal/workers/portfolio/generate-portfolio-report"
	searchproperties "esg-retrofit-workers/internal/workers/portfolio/search-properties"
	projectretrofitimpact "esg-retrofit-workers/internal/workers/retrofit/project-retrofit-impact"
	computeesgscores "esg-retrofit-workers/internal/workers/scoring/compute-esg-scores"
	calculatetargetprogress "esg-retrofit-workers/internal/workers/targets/calculate-target-progress"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func pingWithRetry(ctx context.Context, c handlers.Checker, log *zap.Logger) error {
	return retryWithBackoff(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return c.Ping(pingCtx)
	}, 5, time.Second, log, c.Name()+" connection")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting worker manager",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("portfolioSource", cfg.Portfolio.Source),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("failed to initialise observability", zap.Error(err))
	}

	zeebe, err := camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	})
	if err != nil {
		zapLog.Fatal("zeebe client failed", zap.Error(err))
	}
	defer zeebe.Close()
	checkers := []handlers.Checker{zeebe}

	// Portfolio source
	var portfolio repository.Portfolio
	switch cfg.Portfolio.Source {
	case config.SourcePostgres:
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			zapLog.Fatal("failed to open postgres", zap.Error(err))
		}
		defer pg.Close()
		if err := pingWithRetry(ctx, pg, zapLog); err != nil {
			zapLog.Fatal("postgres unavailable", zap.Error(err))
		}
		store := postgres.NewStore(pg.DB)
		if err := store.Migrate(ctx); err != nil {
			zapLog.Fatal("failed to migrate portfolio schema", zap.Error(err))
		}
		portfolio = store
		checkers = append(checkers, pg)
	default:
		gen, err := synthetic.New(cfg.Portfolio.Seed, cfg.Portfolio.PropertyCount, time.Now())
		if err != nil {
			zapLog.Fatal("failed to generate synthetic portfolio", zap.Error(err))
		}
		portfolio = gen
	}

	// Redis: score cache and planning sessions
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("failed to create redis client", zap.Error(err))
	}
	defer rdb.Close()
	if err := pingWithRetry(ctx, rdb, zapLog); err != nil {
		zapLog.Fatal("redis unavailable", zap.Error(err))
	}
	checkers = append(checkers, rdb)
	scoreCache := cache.NewScoreCache(rdb.Client, time.Duration(cfg.Portfolio.ScoreCacheTTL)*time.Second)
	sessions := session.NewRedisStore(rdb.Client, cfg.Session.KeyPrefix)

	// Elasticsearch: property search
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		zapLog.Fatal("failed to create elasticsearch client", zap.Error(err))
	}
	if err := pingWithRetry(ctx, es, zapLog); err != nil {
		zapLog.Fatal("elasticsearch unavailable", zap.Error(err))
	}
	checkers = append(checkers, es)
	index := search.NewPropertyIndex(es.Client, cfg.Portfolio.IndexName)
	if err := index.EnsureIndex(ctx); err != nil {
		zapLog.Fatal("failed to ensure property index", zap.Error(err))
	}

	reports := reporting.NewService(portfolio, reporting.BudgetLimits{
		Default: cfg.Portfolio.DefaultBudget,
		Min:     cfg.Portfolio.MinBudget,
		Max:     cfg.Portfolio.MaxBudget,
	}, log)

	var notifier generateportfolioreport.Notifier
	if cfg.Notifications.Enabled {
		n, err := aws.NewNotifierFromRegion(ctx, cfg.Notifications.AWSRegion, aws.NotifierConfig{
			TopicARN:   cfg.Notifications.SNSTopicARN,
			From:       cfg.Notifications.SESFrom,
			Recipients: cfg.Notifications.ReportRecipients,
		})
		if err != nil {
			zapLog.Fatal("failed to create report notifier", zap.Error(err))
		}
		notifier = n
	}

	tracker := session.NewTracker(sessions, portfolio, portfolio, session.TrackerConfig{
		TTL:           time.Duration(cfg.Session.TTL) * time.Second,
		DefaultBudget: cfg.Portfolio.DefaultBudget,
		MinBudget:     cfg.Portfolio.MinBudget,
		MaxBudget:     cfg.Portfolio.MaxBudget,
		Points:        cfg.Session.Points,
	}, log)

	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Warn("activity registry unavailable, task types will not be checked",
			zap.String("path", cfg.Registry.Path), zap.Error(err))
	}

	jobHandlers := []struct {
		taskType string
		handler  camunda.JobHandler
	}{
		{computeesgscores.TaskType, computeesgscores.NewHandler(computeesgscores.LoadConfig(cfg), portfolio, scoreCache, log)},
		{projectretrofitimpact.TaskType, projectretrofitimpact.NewHandler(projectretrofitimpact.LoadConfig(cfg), reports, log)},
		{calculatetargetprogress.TaskType, calculatetargetprogress.NewHandler(calculatetargetprogress.LoadConfig(cfg), reports, log)},
		{generateportfolioreport.TaskType, generateportfolioreport.NewHandler(generateportfolioreport.LoadConfig(cfg), reports, notifier, log)},
		{searchproperties.TaskType, searchproperties.NewHandler(searchproperties.LoadConfig(cfg), index, log)},
		{tracksessionevent.TaskType, tracksessionevent.NewHandler(tracksessionevent.LoadConfig(cfg), tracker, log)},
	}

	var workers []*camunda.Worker
	for _, h := range jobHandlers {
		if !config.IsWorkerEnabled(cfg, h.taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", h.taskType))
			continue
		}
		if reg != nil {
			if _, ok := reg.FindByTaskType(h.taskType); !ok {
				zapLog.Warn("task type missing from activity registry", zap.String("taskType", h.taskType))
			}
		}
		wc := config.GetWorkerConfig(cfg, h.taskType)
		workers = append(workers, camunda.StartWorker(zeebe.Zeebe(), h.taskType, camunda.WorkerOptions{
			Name:          cfg.App.Name,
			MaxJobsActive: wc.MaxJobsActive,
			Timeout:       config.GetDuration(wc.Timeout),
		}, h.handler, obs, log))
	}
	zapLog.Info("workers started", zap.Int("count", len(workers)))

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(scheduler.Config{
			ReindexCron:   cfg.Scheduler.ReindexCron,
			WarmCacheCron: cfg.Scheduler.WarmCacheCron,
		}, portfolio, index, scoreCache, zapLog)
		if err := sched.Reindex(ctx); err != nil {
			zapLog.Warn("initial reindex failed", zap.Error(err))
		}
		sched.Start()
	}

	srv := &http.Server{
		Addr: cfg.Server.Address,
		Handler: router.New(
			handlers.NewHealthHandler(zapLog, checkers...),
			handlers.NewPortfolioHandler(portfolio, reports, zapLog),
			zapLog,
		),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}
	go func() {
		zapLog.Info("http server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zapLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("http server shutdown", zap.Error(err))
	}
	if sched != nil {
		sched.Stop()
	}
	for _, w := range workers {
		w.Stop()
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("observability shutdown", zap.Error(err))
	}
	zapLog.Info("worker manager stopped")
}
