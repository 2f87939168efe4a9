package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/services"
	"github.com/SscSPs/hifzmaal_backend/internal/events"
	"github.com/SscSPs/hifzmaal_backend/internal/metrics"
	"github.com/SscSPs/hifzmaal_backend/internal/middleware"
	"github.com/SscSPs/hifzmaal_backend/internal/platform/clock"
	"github.com/SscSPs/hifzmaal_backend/internal/platform/config"
	"github.com/SscSPs/hifzmaal_backend/internal/repositories/database/pgsql"
	"github.com/SscSPs/hifzmaal_backend/pkg/database"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("component", "worker"))
	slog.SetDefault(logger)

	logger.Info("Starting hifzmaal worker")

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = middleware.WithLogger(ctx, logger)

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	collector := metrics.NewCollector(logger)
	publisher := events.New(cfg.AMQPURL, cfg.AMQPExchange, logger)
	defer publisher.Close()

	container := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), services.Dependencies{
		Clock:   clock.New(),
		Events:  publisher,
		Metrics: collector,
	})

	logger.Info("Worker configured",
		slog.Duration("recurring_interval", cfg.RecurringInterval),
		slog.Duration("reminder_interval", cfg.ReminderInterval))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		runEvery(gctx, logger, "recurring", cfg.RecurringInterval, func(ctx context.Context) {
			result, err := container.Recurring.ProcessRecurringTransactions(ctx)
			if err != nil {
				logger.Error("Recurring run failed", slog.String("error", err.Error()))
				return
			}
			logger.Info("Recurring run complete",
				slog.Int("scanned", result.Scanned),
				slog.Int("generated", result.Generated),
				slog.Int("skipped", result.Skipped),
				slog.Int("failed", result.Failed))
		})
		return nil
	})

	g.Go(func() error {
		runEvery(gctx, logger, "zakat_reminders", cfg.ReminderInterval, func(ctx context.Context) {
			sent, err := container.Zakat.SendZakatReminders(ctx)
			if err != nil {
				logger.Error("Zakat reminder run failed", slog.String("error", err.Error()))
				return
			}
			logger.Info("Zakat reminder run complete", slog.Int("sent", sent))
		})
		return nil
	})

	g.Go(func() error {
		runEvery(gctx, logger, "overdue_bills", cfg.ReminderInterval, func(ctx context.Context) {
			flipped, err := container.Bill.CheckOverdueBills(ctx)
			if err != nil {
				logger.Error("Overdue bill run failed", slog.String("error", err.Error()))
				return
			}
			logger.Info("Overdue bill run complete", slog.Int("marked_overdue", flipped))
		})
		return nil
	})

	g.Go(func() error {
		runEvery(gctx, logger, "bill_reminders", cfg.ReminderInterval, func(ctx context.Context) {
			sent, err := container.Bill.SendBillReminders(ctx)
			if err != nil {
				logger.Error("Bill reminder run failed", slog.String("error", err.Error()))
				return
			}
			logger.Info("Bill reminder run complete", slog.Int("sent", sent))
		})
		return nil
	})

	g.Go(func() error {
		runEvery(gctx, logger, "auto_savings", cfg.RecurringInterval, func(ctx context.Context) {
			result, err := container.Savings.ProcessAutoContributions(ctx)
			if err != nil {
				logger.Error("Auto savings run failed", slog.String("error", err.Error()))
				return
			}
			logger.Info("Auto savings run complete",
				slog.Int("scanned", result.Scanned),
				slog.Int("contributed", result.Contributed),
				slog.Int("failed", result.Failed))
		})
		return nil
	})

	if cfg.MetricsEnabled {
		server := collector.StartMetricsServer(cfg.MetricsAddr)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return collector.Shutdown(shutdownCtx, server)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

// runEvery runs job once immediately and then on every tick until ctx is done.
func runEvery(ctx context.Context, logger *slog.Logger, name string, interval time.Duration, job func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Running initial job", slog.String("job", name))
	job(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Job loop stopped", slog.String("job", name))
			return
		case <-ticker.C:
			job(ctx)
		}
	}
}
