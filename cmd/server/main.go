package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/well-construction-service/internal/adapter/filestore"
	httpadapter "github.com/couchcryptid/well-construction-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/well-construction-service/internal/adapter/kafka"
	"github.com/couchcryptid/well-construction-service/internal/config"
	"github.com/couchcryptid/well-construction-service/internal/observability"
	"github.com/couchcryptid/well-construction-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Document publication is feature-flagged via KAFKA_ENABLED.
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("document publication enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("document publication disabled")
	}

	svc := pipeline.New(filestore.New(cfg.DataDir), publisher, logger, metrics, pipeline.Options{
		TableSuffix:     cfg.TableSuffix,
		LookupFile:      cfg.LookupFile,
		AquiferFile:     cfg.AquiferFile,
		DefinitionsFile: cfg.DefinitionsFile,
		InputSorted:     cfg.InputSorted,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, logger, cfg.RequestTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
