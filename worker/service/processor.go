package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"imageImporter/jobs"
	"imageImporter/worker/models"
	"imageImporter/worker/repository"
)

var (
	jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "importer_jobs_total",
		Help: "Import jobs processed by outcome.",
	}, []string{"result"})

	jobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "importer_job_duration_seconds",
		Help:    "Wall time of one import job.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	})

	imagesReconciledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "importer_images_reconciled_total",
		Help: "Catalog rows written by imports.",
	}, []string{"action"})
)

type JobStore interface {
	MarkStarted(ctx context.Context, id string) error
	SetProgress(ctx context.Context, id string, progress int) error
	Finish(ctx context.Context, id string, result jobs.Result) error
	Fail(ctx context.Context, id string, message string) error
}

type FolderImporter interface {
	ImportFolder(ctx context.Context, folderID string, progress ProgressFunc) ([]models.TransferResult, error)
}

// Processor runs one import job end to end and records its outcome.
type Processor struct {
	store      JobStore
	sessions   repository.Sessions
	importer   FolderImporter
	reconciler *Reconciler
	logger     *zap.Logger
}

func NewProcessor(store JobStore, sessions repository.Sessions, importer FolderImporter, reconciler *Reconciler, logger *zap.Logger) *Processor {
	return &Processor{
		store:      store,
		sessions:   sessions,
		importer:   importer,
		reconciler: reconciler,
		logger:     logger,
	}
}

// Process imports msg.FolderID. Import errors end up in the job result; the
// returned error only reports that the job record could not be written.
func (p *Processor) Process(ctx context.Context, msg *jobs.Message) (err error) {
	logger := p.logger.With(
		zap.String("job_id", msg.JobID),
		zap.String("trace_id", msg.TraceID),
		zap.String("folder_id", msg.FolderID),
	)
	// Outcomes are recorded even when shutdown cancels ctx mid-job.
	storeCtx := context.WithoutCancel(ctx)

	if err := p.store.MarkStarted(storeCtx, msg.JobID); err != nil {
		if errors.Is(err, jobs.ErrJobTerminal) {
			logger.Info("Job already ended, skipping redelivery")
			return nil
		}
		return fmt.Errorf("mark job %s started: %w", msg.JobID, err)
	}

	start := time.Now()
	logger.Info("Starting import job")

	defer func() {
		jobDuration.Observe(time.Since(start).Seconds())
		r := recover()
		if r == nil {
			return
		}
		jobsTotal.WithLabelValues("crashed").Inc()
		logger.Error("Import job panicked", zap.Any("panic", r), zap.Stack("stack"))
		err = p.store.Fail(storeCtx, msg.JobID, fmt.Sprintf("job panicked: %v", r))
	}()

	result := p.run(ctx, msg, logger)
	if result.Succeeded() {
		jobsTotal.WithLabelValues("success").Inc()
		logger.Info("Import completed",
			zap.Int("imported", result.Imported),
			zap.Int("updated", result.Updated),
			zap.Int("total", result.Total),
		)
	} else {
		jobsTotal.WithLabelValues("failed").Inc()
		logger.Error("Import job failed", zap.String("error", result.Error))
	}

	return p.store.Finish(storeCtx, msg.JobID, result)
}

func (p *Processor) run(ctx context.Context, msg *jobs.Message, logger *zap.Logger) jobs.Result {
	session, err := p.sessions.Open(ctx)
	if err != nil {
		return jobs.Failure(err.Error())
	}
	defer func() {
		session.Close()
		logger.Debug("Database session closed")
	}()

	lastProgress := -1
	progress := func(done, total int) {
		percent := done * 100 / total
		if percent == lastProgress {
			return
		}
		lastProgress = percent
		if err := p.store.SetProgress(context.WithoutCancel(ctx), msg.JobID, percent); err != nil {
			logger.Warn("Failed to record progress", zap.Error(err))
		}
	}

	uploaded, err := p.importer.ImportFolder(ctx, msg.FolderID, progress)
	if err != nil {
		return jobs.Failure(err.Error())
	}

	counts, err := p.reconciler.Reconcile(ctx, session.Images(), uploaded)
	if err != nil {
		return jobs.Failure(err.Error())
	}
	imagesReconciledTotal.WithLabelValues("inserted").Add(float64(counts.Imported))
	imagesReconciledTotal.WithLabelValues("updated").Add(float64(counts.Updated))

	return jobs.Success(counts.Imported, counts.Updated, counts.Total)
}
