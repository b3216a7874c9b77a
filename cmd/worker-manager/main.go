// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"match-workers/internal/common/camunda"
	"match-workers/internal/common/config"
	"match-workers/internal/common/database"
	"match-workers/internal/common/logger"
	"match-workers/internal/common/observability"
	"match-workers/internal/common/scheduler"
	"match-workers/internal/matching"
	"match-workers/internal/matching/enrichment"
	"match-workers/internal/matching/pool"
	"match-workers/internal/profiles"
	"match-workers/pkg/registry"

	cc "match-workers/internal/workers/matching/compute-compatibility"
	cmt "match-workers/internal/workers/matching/create-match-ticket"
	gms "match-workers/internal/workers/matching/generate-match-suggestions"
	rmf "match-workers/internal/workers/matching/record-match-feedback"
	rms "match-workers/internal/workers/matching/refresh-match-suggestions"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.Observability.ServiceName,
		observability.WithJaegerEndpoint(cfg.Observability.JaegerEndpoint))
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Zeebe ---
	zeebe, err := camunda.NewClient(ctx, camunda.ConfigFromApp(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()
	err = camunda.Retry(ctx, camunda.DefaultRetryConfig, log, "PostgreSQL connection", func(ctx context.Context) error {
		if err := pg.Ping(ctx); err != nil {
			return err
		}
		return pg.Migrate(ctx)
	})
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Elasticsearch ---
	esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		zapLog.Fatal("elasticsearch init failed", zap.Error(err))
	}
	index := cfg.Database.Elasticsearch.ProfileIndex
	err = camunda.Retry(ctx, camunda.DefaultRetryConfig, log, "Elasticsearch connection", func(ctx context.Context) error {
		if err := esClient.Ping(ctx); err != nil {
			return err
		}
		return esClient.EnsureProfileIndex(ctx, index)
	})
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully", zap.String("index", index))

	// --- Redis ---
	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()
	err = camunda.Retry(ctx, camunda.DefaultRetryConfig, log, "Redis connection", rdb.Ping)
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	zapLog.Info("Redis connected successfully")

	// --- Matching core ---
	var store pool.Store
	switch cfg.Matching.TicketStore {
	case "redis":
		store = pool.NewRedisStore(rdb.GetClient(), cfg.Matching.TicketTTL)
	default:
		store = pool.NewMemoryStore(cfg.Matching.TicketTTL)
	}

	defs, err := pool.LoadDefinitions(cfg.Matching.PoolsFile)
	if err != nil {
		zapLog.Fatal("pool definitions failed", zap.Error(err))
	}

	matchmaker, err := pool.NewMatchmaker(pool.Config{
		Threshold: cfg.Matching.PoolThreshold,
		Cap:       cfg.Matching.PoolCap,
		TTL:       cfg.Matching.TicketTTL,
	}, defs, store, log)
	if err != nil {
		zapLog.Fatal("matchmaker init failed", zap.Error(err))
	}

	var enricher matching.Enricher
	if cfg.Matching.Enrichment.Enabled {
		enricher = enrichment.NewGenAIEnricher(&enrichment.Config{
			BaseURL:    cfg.APIs.GenAI.BaseURL,
			APIKey:     cfg.APIs.GenAI.APIKey,
			Timeout:    config.GetDuration(cfg.APIs.GenAI.Timeout),
			MaxRetries: cfg.Matching.Enrichment.MaxRetries,
		}, log)
	}

	engine, err := matching.NewEngine(matching.Config{
		Weights:           cfg.Matching.Weights,
		Lambda:            cfg.Matching.Lambda,
		Epsilon:           cfg.Matching.Epsilon,
		OutputCap:         cfg.Matching.OutputCap,
		EnrichmentTimeout: cfg.Matching.Enrichment.Timeout,
	}, matchmaker, enricher, log, matching.WithObservability(obs))
	if err != nil {
		zapLog.Fatal("matching engine init failed", zap.Error(err))
	}

	repo := profiles.NewRepository(profiles.Config{
		ProfileCacheTTL: cfg.Matching.ProfileCacheTTL,
		RequestCacheTTL: cfg.Matching.RequestCacheTTL,
	}, pg.GetDB(), rdb.GetClient(), log)
	search := profiles.NewSearch(esClient.Client, index, log)

	zapLog.Info("Matching core initialized",
		zap.Int("pools", len(defs)),
		zap.String("ticketStore", cfg.Matching.TicketStore),
		zap.Bool("enrichment", enricher != nil),
	)

	// --- Workers ---
	workers := camunda.NewWorkerGroup(zeebe.GetClient(), obs, log)

	workers.Start(gms.TaskType, config.GetWorkerConfig(cfg, gms.TaskType),
		gms.NewHandler(gms.LoadConfig(cfg), engine, repo, search, log))
	workers.Start(rms.TaskType, config.GetWorkerConfig(cfg, rms.TaskType),
		rms.NewHandler(rms.LoadConfig(cfg), engine, repo, log))
	workers.Start(cc.TaskType, config.GetWorkerConfig(cfg, cc.TaskType),
		cc.NewHandler(cc.LoadConfig(cfg), engine, repo, log))
	workers.Start(cmt.TaskType, config.GetWorkerConfig(cfg, cmt.TaskType),
		cmt.NewHandler(cmt.LoadConfig(cfg), matchmaker, repo, search, log))
	workers.Start(rmf.TaskType, config.GetWorkerConfig(cfg, rmf.TaskType),
		rmf.NewHandler(rmf.LoadConfig(cfg), repo, log))

	zapLog.Info("Workers registered", zap.Int("running", workers.Running()))
	checkRegistry(cfg.App.RegistryPath, zapLog, gms.TaskType, rms.TaskType, cc.TaskType, cmt.TaskType, rmf.TaskType)

	// --- Background jobs ---
	sched := scheduler.New(log, time.Minute)
	err = sched.Add("purge-tickets", cfg.Matching.PurgeSchedule, func(ctx context.Context) error {
		n, err := matchmaker.Purge(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("expired tickets purged", map[string]interface{}{"count": n})
		}
		return nil
	})
	if err != nil {
		zapLog.Fatal("scheduler init failed", zap.Error(err))
	}
	sched.Start()

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{
			"postgres": checkStatus(pg.Ping(ctx)),
			"redis":    checkStatus(rdb.Ping(ctx)),
			"zeebe":    checkStatus(zeebe.HealthCheck(ctx)),
		}
		code := http.StatusOK
		for _, s := range checks {
			if s != "ok" {
				code = http.StatusServiceUnavailable
			}
		}
		checks["status"] = "ready"
		if code != http.StatusOK {
			checks["status"] = "not_ready"
		}
		writeStatus(w, code, checks)
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Observability.HTTPAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}
	sched.Stop()
	workers.Close()

	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// checkRegistry reports task types served here that the activity registry does not describe.
func checkRegistry(path string, log *zap.Logger, taskTypes ...string) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry not loaded", zap.String("path", path), zap.Error(err))
		return
	}
	if err := reg.Validate(); err != nil {
		log.Warn("activity registry invalid", zap.String("path", path), zap.Error(err))
		return
	}
	if missing := reg.Missing(taskTypes...); len(missing) > 0 {
		log.Warn("task types missing from activity registry", zap.Strings("taskTypes", missing))
		return
	}
	log.Info("Activity registry verified", zap.String("version", reg.Version), zap.Int("activities", len(reg.Activities)))
}

func checkStatus(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}

func writeStatus(w http.ResponseWriter, code int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
