package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lab-analysis-server/internal/api"
	"github.com/lab-analysis-server/internal/audit"
	"github.com/lab-analysis-server/internal/domain"
	"github.com/lab-analysis-server/internal/cache"
	"github.com/lab-analysis-server/internal/config"
	"github.com/lab-analysis-server/internal/database"
	"github.com/lab-analysis-server/internal/notify"
	"github.com/lab-analysis-server/internal/repository"
	"github.com/lab-analysis-server/internal/service"
	"github.com/lab-analysis-server/pkg/extract"
	"github.com/lab-analysis-server/pkg/llm"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := newLogger(cfg.Logging)
	logger.WithFields(logrus.Fields{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Starting lab analysis server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database and migrations
	db, err := database.NewConnection(ctx, &cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	runner, err := database.NewMigrationRunner(database.URL(&cfg.Database), "migrations", logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create migration runner")
	}
	if err := runner.Up(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}
	runner.Close()

	storage := repository.NewAnalysisStorage(db.Pool, logger)

	// Analysis cache (local LRU + optional Redis tier)
	resultCache, err := cache.NewResultCache(cfg.Cache, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize result cache")
	}
	defer resultCache.Close()

	// Model client with rate limiting and circuit breaking
	generator := llm.NewResilientGenerator(
		llm.NewClient(cfg.LLM, logger),
		cfg.LLM.RateLimit,
		logger,
	)

	// Email delivery
	var notifier *notify.EmailNotifier
	if cfg.Email.Enabled {
		notifier = notify.NewEmailNotifier(cfg.Email, logger)
	}

	// Request audit store
	auditStore := newAuditStore(cfg.Audit, logger)
	defer auditStore.Close()

	// Core services
	classifier := service.NewReportClassifier(logger)
	selector := service.NewTemplateSelector(logger, service.DefaultTemplateCatalog())
	normalizer := service.NewMetricNormalizer(logger)

	analyzer := service.NewAnalyzerService(
		logger, storage, generator, classifier, selector, normalizer,
		resultCache, notifierOrNil(notifier), cfg.LLM.Timeout,
	)
	profiles := service.NewProfileAggregator(
		logger, storage, generator, selector,
		cfg.Profile.HistoryReportLimit, cfg.Profile.HistoryValueLimit, cfg.LLM.Timeout,
	)
	analyzer.SetProfileRefresher(profiles)

	server := api.NewServer(configManager, logger, analyzer, profiles, storage, extract.NewPlainText(), auditStore)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	// Start server
	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

// notifierOrNil avoids handing the analyzer a non-nil interface wrapping a
// nil notifier.
func notifierOrNil(n *notify.EmailNotifier) domain.Notifier {
	if n == nil {
		return nil
	}
	return n
}

// newLogger builds the process logger from configuration.
func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}

// newAuditStore builds the configured audit backend, falling back to the
// no-op store when auditing is disabled or fails to initialize.
func newAuditStore(cfg domain.AuditConfig, logger *logrus.Logger) audit.Store {
	switch cfg.Backend {
	case "sqlite":
		store, err := audit.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			logger.WithError(err).Warn("Failed to open SQLite audit store, auditing disabled")
			return audit.NopStore{}
		}
		return store
	case "postgres":
		store, err := audit.NewPostgresStoreFromURL(cfg.DSN)
		if err != nil {
			logger.WithError(err).Warn("Failed to open Postgres audit store, auditing disabled")
			return audit.NopStore{}
		}
		return store
	default:
		return audit.NopStore{}
	}
}
