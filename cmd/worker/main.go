// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/avelez/stockroom-be/internal/adapters/notify"
	"github.com/avelez/stockroom-be/internal/pkg/config"
	"github.com/avelez/stockroom-be/internal/pkg/logger"
	"github.com/avelez/stockroom-be/internal/workers"
)

func main() {
	slogger := logger.SetupLogger("info", "json")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)

	if err := run(cfg, slogger); err != nil {
		slogger.Error("worker exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, slogger *slog.Logger) error {
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr),
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues))

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Asynq.RedisAddr,
			Password: cfg.Asynq.RedisPassword,
			DB:       cfg.Asynq.RedisDB,
		},
		asynq.Config{
			Concurrency:    cfg.Asynq.Concurrency,
			Queues:         cfg.Asynq.Queues,
			StrictPriority: cfg.Asynq.StrictPriority,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				slogger.ErrorContext(ctx, "task processing failed",
					slog.String("type", task.Type()),
					slog.String("payload", string(task.Payload())),
					slog.String("error", err.Error()))
			}),
			RetryDelayFunc:  retryDelay,
			ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
			HealthCheckFunc: func(err error) {
				if err != nil {
					slogger.Error("worker health check failed", slog.String("error", err.Error()))
				}
			},
			Logger: &asynqLogger{logger: slogger.With(slog.String("component", "asynq"))},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notify.TypeStockNotification,
		workers.NewNotificationProcessor(slogger).ProcessStockNotification)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(mux)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("run worker server: %w", err)
		}
		return nil
	case sig := <-shutdown:
		slogger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	srv.Shutdown()
	slogger.Info("worker shutdown complete")
	return nil
}

// retryDelay doubles the delay per attempt and caps it at ten minutes.
func retryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	const (
		base = time.Second
		max  = 10 * time.Minute
	)
	delay := base << uint(n)
	if delay > max {
		return max
	}
	return delay
}

// asynqLogger adapts slog to asynq's logging interface.
type asynqLogger struct {
	logger *slog.Logger
}

func (l *asynqLogger) Debug(args ...interface{}) { l.logger.Debug(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...interface{})  { l.logger.Info(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...interface{})  { l.logger.Warn(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...interface{}) { l.logger.Error(fmt.Sprint(args...)) }

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
