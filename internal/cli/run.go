package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tracedump/tracedump/internal/classifier"
	"github.com/tracedump/tracedump/internal/client"
	"github.com/tracedump/tracedump/internal/config"
	"github.com/tracedump/tracedump/internal/domain"
	"github.com/tracedump/tracedump/internal/dumper"
	"github.com/tracedump/tracedump/internal/pkg/logger"
	"github.com/tracedump/tracedump/internal/report"
	"github.com/tracedump/tracedump/internal/storage"
)

// loadConfig loads configuration and applies CLI flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if trackingURL != "" {
		cfg.Tracking.URL = trackingURL
	}
	if username != "" {
		cfg.Tracking.Username = username
	}
	if password != "" {
		cfg.Tracking.Password = password
	}
	if apiPrefix != "" {
		cfg.Tracking.APIPrefix = apiPrefix
	}
	if output != "" {
		cfg.Dump.Output = output
	}
	if len(keywords) > 0 {
		cfg.Dump.Keywords = keywords
	}
	if concurrency > 0 {
		cfg.Dump.Concurrency = concurrency
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runDump is the shared command body: health check, traversal, file
// write, summary, optional upload. Only the initial connectivity check is
// fatal; write and upload failures are logged and the summary still
// prints from the in-memory document.
func runDump(scope domain.DumpScope, experimentID, defaultOutput string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Sentry.Enabled() {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			Debug:       cfg.Sentry.Debug,
			Release:     "tracedump@" + Version,
		}); err != nil {
			logger.Warn("failed to initialize Sentry", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx := context.Background()

	trackingClient := client.New(client.Config{
		BaseURL:    cfg.Tracking.URL,
		APIPrefix:  cfg.Tracking.APIPrefix,
		Username:   cfg.Tracking.Username,
		Password:   cfg.Tracking.Password,
		Timeout:    cfg.Tracking.Timeout(),
		MaxResults: cfg.Dump.MaxResults,
	}, logger.Log)

	// Connectivity failure at startup is the one fatal error class.
	if err := trackingClient.Health(ctx); err != nil {
		logger.Error("failed to connect to tracking server", zap.Error(err))
		captureError(cfg, err)
		return err
	}

	opts := []classifier.Option{classifier.WithKeywords(classifier.KeywordSet(cfg.Dump.Keywords))}
	if scope == domain.ScopeLangGraph {
		opts = append(opts, classifier.WithArtifactPatterns(classifier.LangGraphArtifactPatterns()))
	}
	cls := classifier.New(trackingClient, logger.Log, opts...)

	svc := dumper.NewService(trackingClient, cls, logger.Log, dumper.Options{
		Scope:        scope,
		ExperimentID: experimentID,
		TrackingURL:  cfg.Tracking.URL,
		Concurrency:  cfg.Dump.Concurrency,
	})

	dump, err := svc.Dump(ctx)
	if err != nil {
		captureError(cfg, err)
		return err
	}

	outputPath := cfg.Dump.Output
	if outputPath == "" {
		outputPath = defaultOutput
	}

	if err := report.WriteFile(dump, outputPath); err != nil {
		logger.Error("failed to save trace dump", zap.Error(err))
	} else {
		logger.Info("trace dump saved", zap.String("path", outputPath))
	}

	report.PrintSummary(os.Stdout, dump)
	fmt.Printf("Output file: %s\n", outputPath)

	if cfg.Storage.Enabled() {
		uploadDump(ctx, cfg, dump, outputPath)
	}

	return nil
}

// uploadDump mirrors the written document into object storage. Best
// effort: a failure is logged and never changes the exit code.
func uploadDump(ctx context.Context, cfg *config.Config, dump *domain.Dump, outputPath string) {
	uploader, err := storage.NewUploader(storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		Bucket:    cfg.Storage.Bucket,
	}, logger.Log)
	if err != nil {
		logger.Error("failed to create storage uploader", zap.Error(err))
		return
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		logger.Error("failed to read dump for upload", zap.Error(err))
		return
	}

	// Dumps of the same server are distinguished by a fresh upload ID,
	// not by mutating the document itself.
	objectName := fmt.Sprintf("dumps/%s/%s", uuid.New().String(), filepath.Base(outputPath))
	if err := uploader.Upload(ctx, objectName, data); err != nil {
		logger.Error("failed to upload dump", zap.Error(err))
	}
}

func captureError(cfg *config.Config, err error) {
	if cfg.Sentry.Enabled() {
		sentry.CaptureException(err)
	}
}
