// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"match-workers/internal/common/config"
	"match-workers/internal/common/logger"
	"match-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Recorder receives per-job measurements. *observability.Observability
// satisfies it.
type Recorder interface {
	RecordJobProcessed(ctx context.Context, taskType string)
	RecordJobDuration(ctx context.Context, taskType string, duration time.Duration)
}

// Instrument wraps handler so every job updates the active gauge and the
// duration metrics for taskType. rec may be nil.
func Instrument(taskType string, handler worker.JobHandler, rec Recorder) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		start := time.Now()
		defer func() {
			elapsed := time.Since(start)
			active.Dec()
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
			if rec != nil {
				rec.RecordJobProcessed(context.Background(), taskType)
				rec.RecordJobDuration(context.Background(), taskType, elapsed)
			}
		}()

		handler(client, job)
	}
}

// StartWorker opens a job worker for taskType using the worker's configured
// concurrency and job timeout.
func StartWorker(
	client zbc.Client,
	taskType string,
	cfg config.WorkerConfig,
	handler worker.JobHandler,
	rec Recorder,
	log logger.Logger,
) worker.JobWorker {
	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, rec)).
		MaxJobsActive(cfg.MaxJobsActive).
		Timeout(config.GetDuration(cfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": cfg.MaxJobsActive,
		"timeoutMs":     cfg.Timeout,
	})
	return jobWorker
}

// StopWorkers closes every worker and waits for in-flight jobs.
func StopWorkers(workers []worker.JobWorker, log logger.Logger) {
	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}
	log.Info("workers stopped", map[string]interface{}{"count": len(workers)})
}
