package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/kevtech-systems/maziwa/internal/app"
	"github.com/kevtech-systems/maziwa/internal/auth"
	"github.com/kevtech-systems/maziwa/internal/dashboard"
	"github.com/kevtech-systems/maziwa/internal/dnd"
	"github.com/kevtech-systems/maziwa/internal/expenses"
	"github.com/kevtech-systems/maziwa/internal/observability"
	"github.com/kevtech-systems/maziwa/internal/platform/cache"
	"github.com/kevtech-systems/maziwa/internal/platform/db"
	"github.com/kevtech-systems/maziwa/internal/products"
	"github.com/kevtech-systems/maziwa/internal/purchases"
	"github.com/kevtech-systems/maziwa/internal/reports"
	"github.com/kevtech-systems/maziwa/internal/salesledger"
	"github.com/kevtech-systems/maziwa/internal/settlement"
	"github.com/kevtech-systems/maziwa/internal/stock"
	"github.com/kevtech-systems/maziwa/internal/suppliers"
	"github.com/kevtech-systems/maziwa/internal/users"
	"github.com/kevtech-systems/maziwa/jobs"
	"github.com/kevtech-systems/maziwa/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	// The report cache is best-effort; serve uncached when redis is down.
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, report cache disabled", slog.Any("error", err))
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	authMiddleware := auth.NewMiddleware(tokens)

	userRepo := users.NewRepository(pool)
	userService := users.NewService(userRepo)
	userHandler := users.NewHandler(logger, userService)
	authHandler := auth.NewHandler(logger, tokens, userRepo)

	supplierHandler := suppliers.NewHandler(logger, suppliers.NewService(suppliers.NewRepository(pool)))
	productHandler := products.NewHandler(logger, products.NewService(products.NewRepository(pool)))
	stockHandler := stock.NewHandler(logger, stock.NewService(stock.NewRepository(pool)))
	purchaseHandler := purchases.NewHandler(logger, purchases.NewService(purchases.NewRepository(pool)))
	saleHandler := salesledger.NewHandler(logger, salesledger.NewService(salesledger.NewRepository(pool)))
	expenseHandler := expenses.NewHandler(logger, expenses.NewService(expenses.NewRepository(pool)))

	dashboardService := dashboard.NewService(dashboard.NewRepository(pool), time.Now)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	pdfClient := report.NewClient(cfg.GotenbergURL)
	reportRenderer, err := reports.NewRenderer(pdfClient)
	if err != nil {
		logger.Error("init report renderer", slog.Any("error", err))
		os.Exit(1)
	}
	reportService := reports.NewService(reports.ServiceConfig{
		Builder:  reports.NewBuilder(reports.NewRepository(pool), time.Now),
		Cache:    redisClient,
		CacheTTL: cfg.ReportCacheTTL,
		Metrics:  metrics,
		Logger:   logger,
	})
	reportHandler := reports.NewHandler(logger, reportService, reportRenderer)

	dndHandler := dnd.NewHandler(logger, dnd.NewRepository(pool))

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	asynqClient := asynq.NewClient(redisOpts)
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq client close", slog.Any("error", err))
		}
	}()
	settlementHandler := settlement.NewHandler(logger, asynqClient, time.Now)

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterConfig{
		Config:  cfg,
		Metrics: metrics,

		AuthMiddleware: authMiddleware,
		Auth:           authHandler,
		Dashboard:      dashboardHandler,
		Suppliers:      supplierHandler,
		Products:       productHandler,
		Stock:          stockHandler,
		Purchases:      purchaseHandler,
		Sales:          saleHandler,
		Expenses:       expenseHandler,
		Users:          userHandler,
		Reports:        reportHandler,
		Settlement:     settlementHandler,
		DND:            dndHandler,
		Jobs:           jobHandler,
	}, app.MiddlewareConfig{
		Logger:  logger,
		Config:  cfg,
		Metrics: metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
