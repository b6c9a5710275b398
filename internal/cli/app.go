package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/climate-report/internal/adapter/countries"
	"github.com/couchcryptid/climate-report/internal/adapter/dataset"
	kafkaadapter "github.com/couchcryptid/climate-report/internal/adapter/kafka"
	"github.com/couchcryptid/climate-report/internal/adapter/snapshot"
	"github.com/couchcryptid/climate-report/internal/config"
	"github.com/couchcryptid/climate-report/internal/domain"
	"github.com/couchcryptid/climate-report/internal/observability"
	"github.com/couchcryptid/climate-report/internal/pipeline"
)

// newMetrics registers with the default Prometheus registry; tests swap it
// for unregistered metrics.
var newMetrics = observability.NewMetrics

// app holds what every command shares: configuration, logging, metrics and
// the dataset pipeline.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *observability.Metrics
	pipeline *pipeline.Pipeline
	writer   *kafkaadapter.Writer
}

// newApp loads configuration and wires the pipeline. withSink attaches the
// Kafka writer when Kafka is enabled.
func newApp(cmd *cobra.Command, withSink bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return nil, err
	}
	if verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}

	logger := observability.NewLogger(cfg)
	metrics := newMetrics()

	resolver := countries.NewCachedResolver(
		countries.NewResolver(cfg.ResolverMaxDistance, logger),
		cfg.ResolverCacheSize,
		metrics,
	)

	a := &app{cfg: cfg, logger: logger, metrics: metrics}

	var loader pipeline.BatchLoader
	if withSink && cfg.KafkaEnabled {
		a.writer = kafkaadapter.NewWriter(cfg, logger)
		loader = a.writer
		logger.Info("kafka sink enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	source := dataset.FileSource{
		CO2Path:       cfg.Path(cfg.CO2File),
		EmissionsPath: cfg.Path(cfg.EmissionsFile),
		SeaLevelPath:  cfg.Path(cfg.SeaLevelFile),
		CoastlinePath: cfg.Path(cfg.CoastlineFile),
	}
	a.pipeline = pipeline.New(source, resolver, loader, logger, metrics, cfg.BatchSize)
	return a, nil
}

// build runs the pipeline and, when configured, writes snapshots and
// publishes to Kafka. Sink failures are logged and do not fail the build.
func (a *app) build(ctx context.Context) (*domain.Dataset, error) {
	ds, err := a.pipeline.Build(ctx)
	if err != nil {
		return nil, err
	}

	if a.cfg.SnapshotDir != "" {
		if _, err := snapshot.NewWriter(a.cfg.SnapshotDir, a.logger).WriteAll(ds); err != nil {
			a.logger.Error("snapshot failed", "error", err)
		}
	}
	if err := a.pipeline.Publish(ctx, ds); err != nil {
		a.logger.Error("publish failed", "error", err)
	}
	return ds, nil
}

func (a *app) close() {
	if a.writer != nil {
		if err := a.writer.Close(); err != nil {
			a.logger.Error("kafka writer close error", "error", err)
		}
	}
}
