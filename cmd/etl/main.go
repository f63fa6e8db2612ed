package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/escapement-etl/internal/adapter/csvsource"
	"github.com/couchcryptid/escapement-etl/internal/adapter/filesink"
	"github.com/couchcryptid/escapement-etl/internal/adapter/gazetteer"
	httpadapter "github.com/couchcryptid/escapement-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/escapement-etl/internal/adapter/kafka"
	"github.com/couchcryptid/escapement-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/escapement-etl/internal/config"
	"github.com/couchcryptid/escapement-etl/internal/domain"
	"github.com/couchcryptid/escapement-etl/internal/observability"
	"github.com/couchcryptid/escapement-etl/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Coordinate lookup enrichment (feature-flagged via GAZETTEER_PATH).
	var gaz domain.Gazetteer
	if cfg.GazetteerPath != "" {
		table, err := gazetteer.Load(cfg.GazetteerPath)
		if err != nil {
			logger.Error("failed to load gazetteer", "path", cfg.GazetteerPath, "error", err)
			return 1
		}
		gaz = table
		metrics.GazetteerEnabled.Set(1)
		logger.Info("gazetteer enabled", "path", cfg.GazetteerPath, "sites", table.Len())
	} else {
		logger.Info("gazetteer disabled")
	}

	source := csvsource.New(cfg, logger, metrics)
	transformer := pipeline.NewTransformer(gaz, logger, metrics)

	loaders := []pipeline.Loader{filesink.New(cfg, logger)}

	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		loaders = append(loaders, writer)
		logger.Info("kafka sink enabled",
			"summary_topic", cfg.KafkaSummaryTopic,
			"locations_topic", cfg.KafkaLocationsTopic,
		)
	}

	if cfg.ArchiveEnabled {
		archive, err := sqlite.Open(cfg.ArchivePath)
		if err != nil {
			logger.Error("failed to open run archive", "path", cfg.ArchivePath, "error", err)
			return 1
		}
		defer func() {
			if err := archive.Close(); err != nil {
				logger.Error("archive close error", "error", err)
			}
		}()
		loaders = append(loaders, archive)
		logger.Info("run archive enabled", "path", cfg.ArchivePath)
	}

	p := pipeline.New(source, transformer, loaders, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Single batch run; the service exits when the run finishes.
	exitCode := 0
	if _, err := p.Run(ctx); err != nil {
		logger.Error("pipeline error", "error", err)
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return exitCode
}
