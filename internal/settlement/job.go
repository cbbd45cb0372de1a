package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/kevtech-systems/maziwa/internal/jobs"
	"github.com/kevtech-systems/maziwa/jobs"
)

// Job processes weekly settlement tasks.
type Job struct {
	service  *Service
	logger   *slog.Logger
	location *time.Location
	metrics  *jobmetrics.Metrics
}

// NewJob constructs a job handler. The location fixes the timezone the week
// window is evaluated in, independent of the host clock. A nil metrics falls
// back to the default registerer.
func NewJob(service *Service, logger *slog.Logger, location *time.Location, metrics *jobmetrics.Metrics) *Job {
	if location == nil {
		location = time.UTC
	}
	if metrics == nil {
		metrics = jobmetrics.NewMetrics(nil)
	}
	return &Job{service: service, logger: logger, location: location, metrics: metrics}
}

// Handle fulfils the asynq.HandlerFunc contract.
func (j *Job) Handle(ctx context.Context, task *asynq.Task) (err error) {
	tracker := j.metrics.Track(jobs.TaskSettlementRun)
	defer func() { err = tracker.End(err) }()

	var payload jobs.SettlementRunPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.CompanyID == 0 {
		return asynq.SkipRetry
	}
	asOf := payload.ScheduledFor
	if asOf.IsZero() {
		asOf = time.Now()
	}
	asOf = asOf.In(j.location)

	report, err := j.service.Run(ctx, payload.CompanyID, asOf)
	if err != nil {
		if errors.Is(err, ErrAlreadySettled) {
			if j.logger != nil {
				j.logger.Info("week already settled, skipping", slog.Int64("company_id", payload.CompanyID))
			}
			return nil
		}
		if j.logger != nil {
			j.logger.Error("settlement run", slog.Int64("company_id", payload.CompanyID), slog.Any("error", err))
		}
		return err
	}
	if j.logger != nil {
		j.logger.Info("settlement task done",
			slog.Int64("company_id", payload.CompanyID),
			slog.String("run_id", report.RunID.String()),
			slog.Int("groups", len(report.Results)),
		)
	}
	return nil
}

// FanOut enqueues one settlement task per active company. It backs the weekly
// cron trigger and the manual admin trigger.
type FanOut struct {
	repo   Repository
	client *asynq.Client
	logger *slog.Logger
}

// NewFanOut constructs the fan-out helper.
func NewFanOut(repo Repository, client *asynq.Client, logger *slog.Logger) *FanOut {
	return &FanOut{repo: repo, client: client, logger: logger}
}

// Handle expands the cron tick into per-company tasks.
func (f *FanOut) Handle(ctx context.Context, _ *asynq.Task) error {
	ids, err := f.repo.ActiveCompanyIDs(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, id := range ids {
		task, err := jobs.NewSettlementRunTask(id, now)
		if err != nil {
			return err
		}
		if _, err := f.client.EnqueueContext(ctx, task, asynq.MaxRetry(2)); err != nil {
			if f.logger != nil {
				f.logger.Error("enqueue settlement run", slog.Int64("company_id", id), slog.Any("error", err))
			}
			continue
		}
	}
	return nil
}
