// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"pathway-workers/internal/common/camunda"
	"pathway-workers/internal/common/config"
	"pathway-workers/internal/common/database"
	"pathway-workers/internal/common/logger"
	"pathway-workers/internal/common/observability"
	"pathway-workers/pkg/registry"

	// Evaluation Workers (4)
	crs "pathway-workers/internal/workers/evaluation/check-readiness-score"
	ep "pathway-workers/internal/workers/evaluation/evaluate-pathways"
	ro "pathway-workers/internal/workers/evaluation/route-outcome"
	vp "pathway-workers/internal/workers/evaluation/validate-profile"

	// Catalog Workers (3)
	qc "pathway-workers/internal/workers/catalog/query-catalog"
	sp "pathway-workers/internal/workers/catalog/search-programs"
	vcs "pathway-workers/internal/workers/catalog/verify-sources"

	// Planning Workers (1)
	bap "pathway-workers/internal/workers/planning/build-action-plan"

	// Session Workers (1)
	csr "pathway-workers/internal/workers/session/create-session-record"

	// Notification Workers (1)
	npr "pathway-workers/internal/workers/notification/notify-plan-ready"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	// Bootstrap logger; replaced with the configured one once config loads.
	zapLog := logger.New("info", "console")

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	shutdownTracer, err := observability.InitTracer(cfg.Tracing, "worker-manager")
	if err != nil {
		zapLog.Warn("tracing init failed, continuing without traces", zap.Error(err))
		shutdownTracer = func(context.Context) error { return nil }
	}

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	workers := camunda.NewManager(zeebeClient, zapLog)

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- START: Register ALL 10 Workers ---

	// --- 1. Evaluation Workers (4) ---
	if cfg.Workers[vp.TaskType].Enabled {
		handler := vp.NewHandler(
			&vp.Config{
				Timeout: config.GetDuration(cfg.Workers[vp.TaskType].Timeout),
			},
			log,
		)
		workers.Start(vp.TaskType, cfg.Workers[vp.TaskType], handler.Handle)
	}

	if cfg.Workers[ep.TaskType].Enabled {
		handler := ep.NewHandler(
			&ep.Config{
				DefaultTopN:    cfg.Evaluation.DefaultTopN,
				ResultCacheTTL: config.GetDuration(cfg.Evaluation.ResultCacheTTL),
				Timeout:        config.GetDuration(cfg.Workers[ep.TaskType].Timeout),
			},
			pg.DB, redis.Client, obs, log,
		)
		workers.Start(ep.TaskType, cfg.Workers[ep.TaskType], handler.Handle)
	}

	if cfg.Workers[crs.TaskType].Enabled {
		handler := crs.NewHandler(
			&crs.Config{
				HighBandMin:   70,
				MediumBandMin: 40,
				Timeout:       config.GetDuration(cfg.Workers[crs.TaskType].Timeout),
			},
			log,
		)
		workers.Start(crs.TaskType, cfg.Workers[crs.TaskType], handler.Handle)
	}

	if cfg.Workers[ro.TaskType].Enabled {
		handler := ro.NewHandler(
			&ro.Config{
				OrgTierTTL: config.GetDuration(cfg.Evaluation.OrgTierTTL),
				Timeout:    config.GetDuration(cfg.Workers[ro.TaskType].Timeout),
			},
			pg.DB, redis.Client, log,
		)
		workers.Start(ro.TaskType, cfg.Workers[ro.TaskType], handler.Handle)
	}

	// --- 2. Catalog Workers (3) ---
	if cfg.Workers[qc.TaskType].Enabled {
		handler := qc.NewHandler(
			&qc.Config{
				Timeout: config.GetDuration(cfg.Workers[qc.TaskType].Timeout),
			},
			pg.DB, log,
		)
		workers.Start(qc.TaskType, cfg.Workers[qc.TaskType], handler.Handle)
	}

	if cfg.Workers[sp.TaskType].Enabled {
		handler := sp.NewHandler(
			&sp.Config{
				IndexName: "university_programs",
				Timeout:   config.GetDuration(cfg.Workers[sp.TaskType].Timeout),
			},
			esClient.Client, log,
		)
		workers.Start(sp.TaskType, cfg.Workers[sp.TaskType], handler.Handle)
	}

	if cfg.Workers[vcs.TaskType].Enabled {
		handler := vcs.NewHandler(
			&vcs.Config{
				RequestTimeout: config.GetDuration(cfg.Sources.RequestTimeout),
				UserAgent:      cfg.Sources.UserAgent,
				MaxSources:     cfg.Sources.MaxSources,
				Timeout:        config.GetDuration(cfg.Workers[vcs.TaskType].Timeout),
			},
			pg.DB, log,
		)
		workers.Start(vcs.TaskType, cfg.Workers[vcs.TaskType], handler.Handle)
	}

	// --- 3. Planning Workers (1) ---
	if cfg.Workers[bap.TaskType].Enabled {
		handler := bap.NewHandler(
			&bap.Config{
				Timeout: config.GetDuration(cfg.Workers[bap.TaskType].Timeout),
			},
			log,
		)
		workers.Start(bap.TaskType, cfg.Workers[bap.TaskType], handler.Handle)
	}

	// --- 4. Session Workers (1) ---
	if cfg.Workers[csr.TaskType].Enabled {
		handler := csr.NewHandler(
			&csr.Config{
				Timeout: config.GetDuration(cfg.Workers[csr.TaskType].Timeout),
			},
			pg.DB, log,
		)
		workers.Start(csr.TaskType, cfg.Workers[csr.TaskType], handler.Handle)
	}

	// --- 5. Notification Workers (1) ---
	if cfg.Workers[npr.TaskType].Enabled {
		handler, err := npr.NewHandler(
			&npr.Config{
				EmailEnabled: cfg.Notifications.Email.Enabled,
				SMSEnabled:   cfg.Notifications.SMS.Enabled,
				FromEmail:    cfg.Notifications.Email.FromEmail,
				AWSRegion:    cfg.Notifications.AWS.Region,
				Timeout:      config.GetDuration(cfg.Workers[npr.TaskType].Timeout),
			},
			log,
		)
		if err != nil {
			zapLog.Fatal("failed to create notify-plan-ready handler", zap.Error(err))
		}
		workers.Start(npr.TaskType, cfg.Workers[npr.TaskType], handler.Handle)
	}

	zapLog.Info("All workers registered successfully", zap.Int("count", workers.Count()))

	// Cross-check the activity registry document. A stale or broken registry
	// should not stop the workers, so failures only warn.
	if reg, err := registry.LoadRegistry(cfg.Registry.Path); err != nil {
		zapLog.Warn("Activity registry not loaded", zap.String("path", cfg.Registry.Path), zap.Error(err))
	} else if err := registry.Validate(reg); err != nil {
		zapLog.Warn("Activity registry invalid", zap.String("path", cfg.Registry.Path), zap.Error(err))
	} else {
		zapLog.Info("Activity registry loaded", zap.Int("activities", len(reg.Activities)))
	}

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
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

	if err := shutdownTracer(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down tracer", zap.Error(err))
	}

	workers.Close()

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

