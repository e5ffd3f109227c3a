package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aescanero/dago-node-classifier/internal/classifier"
	"github.com/aescanero/dago-node-classifier/internal/config"
	"github.com/aescanero/dago-node-classifier/internal/eval/template"
	"github.com/aescanero/dago-node-classifier/internal/metrics"
	"github.com/aescanero/dago-node-classifier/internal/responder"
	"github.com/aescanero/dago-node-classifier/internal/store"
	"github.com/aescanero/dago-node-classifier/internal/worker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set at build time
	Version = "dev"
	// BuildTime is set at build time
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting classifier worker",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("worker_id", cfg.WorkerID),
	)

	// Log configuration (without sensitive data)
	logger.Info("configuration loaded", zap.String("config", cfg.String()))

	// Load decision trees
	treeFile, registry, err := config.LoadTrees(cfg.TreesFile)
	if err != nil {
		logger.Fatal("failed to load trees", zap.Error(err))
	}
	logger.Info("trees loaded",
		zap.String("file", cfg.TreesFile),
		zap.Strings("trees", registry.Names()),
		zap.Int("rules", len(treeFile.Rules)),
	)

	prompter, err := template.ParsePrompter(template.NewEngine(), cfg.PromptTemplate)
	if err != nil {
		logger.Fatal("failed to parse prompt template", zap.Error(err))
	}

	// Initialize responder
	r, err := responder.New(cfg, treeFile.Rules, logger)
	if err != nil {
		logger.Fatal("failed to initialize responder", zap.Error(err))
	}
	logger.Info("responder initialized",
		zap.String("responder", cfg.Responder),
		zap.String("model", cfg.LLMModel),
	)

	collector := metrics.NewCollector("", nil)

	classifierInstance, err := classifier.New(registry, r, logger,
		classifier.WithDefaultTree(cfg.TreeName),
		classifier.WithPrompter(prompter),
		classifier.WithMetrics(collector),
	)
	if err != nil {
		logger.Fatal("failed to initialize classifier", zap.Error(err))
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	results := store.NewRedisStore(redisClient, cfg.ResultTTL, logger)

	// Initialize worker
	w := worker.NewWorker(cfg, redisClient, classifierInstance, results, logger)

	// Start worker
	if err := w.Start(); err != nil {
		logger.Fatal("failed to start worker", zap.Error(err))
	}

	// Start health server
	healthServer := worker.NewHealthServer(cfg.HealthPort, w, collector.Handler(), logger)
	if err := healthServer.Start(); err != nil {
		logger.Fatal("failed to start health server", zap.Error(err))
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("classifier worker running, press Ctrl+C to stop")
	<-sigChan

	logger.Info("shutdown signal received, stopping worker")

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		if err := healthServer.Stop(); err != nil {
			logger.Error("failed to stop health server", zap.Error(err))
		}

		if err := w.Stop(); err != nil {
			logger.Error("failed to stop worker", zap.Error(err))
		}

		if err := redisClient.Close(); err != nil {
			logger.Error("failed to close redis connection", zap.Error(err))
		}
	}()

	select {
	case <-done:
		logger.Info("worker stopped gracefully")
	case <-time.After(cfg.RequestTimeout + 10*time.Second):
		logger.Warn("shutdown timeout exceeded, forcing exit")
	}
}

// initLogger initializes the logger
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
