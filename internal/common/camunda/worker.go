package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"

	"pathway-workers/internal/common/config"
	"pathway-workers/internal/common/metrics"
)

// HandlerFunc is the job callback every worker package exposes as Handle.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// Manager opens job workers against a shared Zeebe client and closes them
// together on shutdown.
type Manager struct {
	client  zbc.Client
	logger  *zap.Logger
	workers []openWorker
}

type openWorker struct {
	taskType string
	worker   worker.JobWorker
}

func NewManager(client zbc.Client, log *zap.Logger) *Manager {
	return &Manager{
		client: client,
		logger: log,
	}
}

// Instrument wraps a job handler so every polled job is reflected in the
// shared worker metrics: the active gauge for the task type while the
// handler runs, and the duration histogram once it returns.
func Instrument(taskType string, handler HandlerFunc) HandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer func() {
			metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		}()
		handler(client, job)
	}
}

// Start opens a job poller for the task type. Disabled workers are skipped.
func (m *Manager) Start(taskType string, wcfg config.WorkerConfig, handler HandlerFunc) {
	if !wcfg.Enabled {
		m.logger.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	jw := m.client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(Instrument(taskType, handler))).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	m.workers = append(m.workers, openWorker{taskType: taskType, worker: jw})

	m.logger.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}

// Count returns the number of workers currently polling.
func (m *Manager) Count() int {
	return len(m.workers)
}

// Close stops job polling on every open worker and waits for in-flight jobs.
func (m *Manager) Close() {
	for _, w := range m.workers {
		m.logger.Info("stopping worker", zap.String("taskType", w.taskType))
		w.worker.Close()
	}
	m.logger.Info("all workers stopped", zap.Int("count", len(m.workers)))
}
