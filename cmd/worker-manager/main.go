// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"match-workers/internal/common/camunda"
	"match-workers/internal/common/config"
	"match-workers/internal/common/logger"
	"match-workers/internal/common/observability"
	"match-workers/internal/common/validation"
	"match-workers/internal/resume"

	erf "match-workers/internal/workers/matching/extract-resume-features"
	gmm "match-workers/internal/workers/matching/generate-missing-matches"
	rcj "match-workers/internal/workers/matching/rank-candidates-for-job"
	rjc "match-workers/internal/workers/matching/recommend-jobs-for-candidate"
	scm "match-workers/internal/workers/matching/score-candidate-match"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("envFile", cfg.EnvFile),
	)

	// Input schemas are embedded; a broken one should stop startup, not the first job.
	if _, err := validation.Default(); err != nil {
		zapLog.Fatal("input schemas failed to compile", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully", zap.String("gateway", cfg.Camunda.BrokerAddress))

	// --- Init backends ---
	b, err := connectBackends(ctx, cfg, zapLog, log)
	if err != nil {
		zapLog.Fatal("backend initialization failed", zap.Error(err))
	}
	defer b.close(zapLog)

	matchDriver, err := b.newDriver(cfg, log)
	if err != nil {
		zapLog.Fatal("match driver configuration invalid", zap.Error(err))
	}

	// --- Register workers ---
	var workers []worker.JobWorker
	start := func(taskType string, handler worker.JobHandler) {
		workers = append(workers, camunda.StartWorker(
			zeebe.GetClient(), taskType, config.GetWorkerConfig(cfg, taskType), handler, obs, log,
		))
	}
	timeoutFor := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	if config.IsWorkerEnabled(cfg, scm.TaskType) {
		handler := scm.NewHandler(
			&scm.Config{Timeout: timeoutFor(scm.TaskType)},
			matchDriver, b.enhancer, log,
		)
		start(scm.TaskType, handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, erf.TaskType) {
		var indexer erf.Indexer
		if b.index != nil {
			indexer = b.index
		}
		extractor := resume.New(resume.Options{Names: resume.ProseRecognizer{}})
		handler := erf.NewHandler(
			&erf.Config{Timeout: timeoutFor(erf.TaskType)},
			extractor, indexer, log,
		)
		start(erf.TaskType, handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, rjc.TaskType) {
		handler := rjc.NewHandler(
			&rjc.Config{Timeout: timeoutFor(rjc.TaskType), DefaultTopN: cfg.Matching.DefaultTopN},
			matchDriver, log,
		)
		start(rjc.TaskType, handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, rcj.TaskType) {
		handler := rcj.NewHandler(
			&rcj.Config{Timeout: timeoutFor(rcj.TaskType), DefaultTopN: cfg.Matching.DefaultTopN},
			matchDriver, log,
		)
		start(rcj.TaskType, handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, gmm.TaskType) {
		var notifier gmm.Notifier
		if b.notifier != nil {
			notifier = b.notifier
		}
		handler := gmm.NewHandler(
			&gmm.Config{Timeout: timeoutFor(gmm.TaskType)},
			matchDriver, notifier, log,
		)
		start(gmm.TaskType, handler.Handle)
	}

	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := zeebe.HealthCheck(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "component": "zeebe", "error": err.Error()})
			return
		}
		if err := b.ready(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
			return
		}
		writeStatus(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.HealthPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	camunda.StopWorkers(workers, log)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("error stopping health server", zap.Error(err))
	}

	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped")
}

func writeStatus(w http.ResponseWriter, code int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
