package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/kevtech-systems/maziwa/internal/app"
	"github.com/kevtech-systems/maziwa/internal/dnd"
	jobmetrics "github.com/kevtech-systems/maziwa/internal/jobs"
	"github.com/kevtech-systems/maziwa/internal/observability"
	"github.com/kevtech-systems/maziwa/internal/platform/db"
	"github.com/kevtech-systems/maziwa/internal/settlement"
	"github.com/kevtech-systems/maziwa/internal/shared"
	"github.com/kevtech-systems/maziwa/internal/sms"
	"github.com/kevtech-systems/maziwa/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	location, err := cfg.SettlementLocation()
	if err != nil {
		logger.Error("resolve settlement timezone", slog.Any("error", err))
		os.Exit(1)
	}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	asynqClient := asynq.NewClient(redisOpts)
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq client close", slog.Any("error", err))
		}
	}()

	settlementRepo := settlement.NewRepository(pool)
	settlementService := settlement.NewService(settlement.ServiceConfig{
		Repo:      settlementRepo,
		DND:       dnd.NewRepository(pool),
		Transport: sms.NewClient(cfg.SMSBaseURL, cfg.SMSAPIKey, cfg.SMSSender),
		Guard:     shared.NewIdempotencyStore(pool),
		Metrics:   observability.NewMetrics(),
		Logger:    logger,
		Timeout:   cfg.SettlementTimeout,
	})

	settlementJob := settlement.NewJob(settlementService, logger, location, jobmetrics.NewMetrics(nil))
	fanOut := settlement.NewFanOut(settlementRepo, asynqClient, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts,
		Logger:    logger,
		Location:  location,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskSettlementFanOut, Handler: fanOut.Handle},
			{Type: jobs.TaskSettlementRun, Handler: settlementJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			// Saturday evening, after the last delivery of the settlement week.
			{Spec: "0 18 * * 6", Task: jobs.NewSettlementFanOutTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
