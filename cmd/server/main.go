// Package main is the entry point for the rental inventory server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vyrodovalexey/rental-inventory/internal/config"
	"github.com/vyrodovalexey/rental-inventory/internal/describe"
	"github.com/vyrodovalexey/rental-inventory/internal/events"
	"github.com/vyrodovalexey/rental-inventory/internal/imaging"
	"github.com/vyrodovalexey/rental-inventory/internal/inventory"
	"github.com/vyrodovalexey/rental-inventory/internal/notify"
	"github.com/vyrodovalexey/rental-inventory/internal/server"
	"github.com/vyrodovalexey/rental-inventory/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := config.LoadDotEnv(".env"); err != nil {
		basicLogger, _ := zap.NewProduction()
		basicLogger.Fatal("failed to read .env file", zap.Error(err))
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Use a basic logger for startup errors
		basicLogger, _ := zap.NewProduction()
		basicLogger.Fatal("failed to load configuration", zap.Error(err))
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		basicLogger, _ := zap.NewProduction()
		basicLogger.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("configuration loaded",
		zap.Int("server_port", cfg.ServerPort),
		zap.Int("probe_port", cfg.ProbePort),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("shutdown_timeout", cfg.ShutdownTimeout),
		zap.Bool("metrics_enabled", cfg.MetricsEnabled),
		zap.String("genai_model", cfg.GenAIModel),
		zap.Duration("toast_duration", cfg.ToastDuration),
		zap.String("events_backend", cfg.EventsBackend),
	)

	ctx := context.Background()

	generator, err := describe.NewGeminiGenerator(ctx, cfg.GenAIAPIKey, describe.Options{Model: cfg.GenAIModel}, logger)
	if err != nil {
		logger.Error("failed to create description generator", zap.Error(err))
		return 1
	}

	publisher, err := createPublisher(cfg, logger)
	if err != nil {
		logger.Error("failed to create event publisher", zap.Error(err))
		return 1
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to close event publisher", zap.Error(err))
		}
	}()

	center := notify.NewCenter(cfg.ToastDuration)
	defer center.Close()

	svc := inventory.NewService(
		store.NewMemoryStore(),
		generator,
		imaging.NewEncoder(imaging.MaxDimension),
		center,
		publisher,
		logger,
	)

	if cfg.SeedDemo {
		if err := svc.Seed(ctx, inventory.DemoInventory()); err != nil {
			logger.Error("failed to seed demo inventory", zap.Error(err))
			return 1
		}
	}

	srv := server.New(cfg, logger, server.Dependencies{Inventory: svc, Toasts: center})

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	// Wait for shutdown signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", zap.Error(err))
		return 1
	case sig := <-shutdown:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			return 1
		}
	}

	logger.Info("server stopped")
	return 0
}

// initLogger initializes a zap logger with the specified log level.
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	zapConfig := zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapConfig.Build()
}

// createPublisher creates the inventory event publisher for the configured
// backend.
func createPublisher(cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	switch cfg.EventsBackend {
	case config.EventsBackendNone, "":
		logger.Info("event publishing disabled")
		return events.NopPublisher{}, nil
	case config.EventsBackendRedis:
		logger.Info("event publishing: redis",
			zap.String("addr", cfg.RedisAddr),
			zap.Int("db", cfg.RedisDB),
		)
		p, err := events.NewRedisPublisher(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("creating redis publisher: %w", err)
		}
		return p, nil
	case config.EventsBackendNATS:
		logger.Info("event publishing: nats", zap.String("url", cfg.NATSURL))
		p, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			return nil, fmt.Errorf("creating nats publisher: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown events backend: %s", cfg.EventsBackend)
	}
}
