package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/climate-report/internal/domain"
	"github.com/couchcryptid/climate-report/internal/observability"
)

// Source reads the raw report tables.
type Source interface {
	CO2(ctx context.Context) ([]domain.CO2Reading, error)
	Emissions(ctx context.Context) (domain.WideEmissions, domain.CleanStats, error)
	SeaLevel(ctx context.Context) ([]domain.SeaLevelReading, error)
	Coastlines(ctx context.Context) ([]domain.CoastlineRecord, error)
}

// BatchLoader writes long-form emission records to a destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, records []domain.EmissionRecord) error
}

// Pipeline builds the report dataset: load, clean, resolve country codes,
// melt the emissions table and join coastlines to geometry.
type Pipeline struct {
	source    Source
	resolver  domain.CountryResolver
	loader    BatchLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	batchSize int

	ready   atomic.Bool
	dataset atomic.Pointer[domain.Dataset]
}

// New creates a Pipeline. resolver and loader may be nil: without a resolver
// every country stays unresolved, without a loader Publish is a no-op.
func New(src Source, resolver domain.CountryResolver, loader BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Pipeline{
		source:    src,
		resolver:  resolver,
		loader:    loader,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// CheckReadiness returns nil once a dataset has been built.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("dataset has not been built yet")
	}
	return nil
}

// Dataset returns the most recently built dataset, or nil before the first build.
func (p *Pipeline) Dataset() *domain.Dataset {
	return p.dataset.Load()
}

// Build loads every table and produces a new dataset. A failed build leaves
// any previously built dataset in place.
func (p *Pipeline) Build(ctx context.Context) (*domain.Dataset, error) {
	start := time.Now()
	ds, err := p.build(ctx)
	if err != nil {
		p.metrics.BuildErrors.Inc()
		p.logger.Error("dataset build failed", "error", err)
		return nil, err
	}

	p.dataset.Store(ds)
	p.ready.Store(true)
	p.metrics.DatasetReady.Set(1)
	p.metrics.BuildDuration.Observe(time.Since(start).Seconds())

	summary := ds.Summary()
	p.logger.Info("dataset built",
		"co2", summary["co2"],
		"emissions", summary["emissions"],
		"sea_level", summary["sea_level"],
		"coastlines", summary["coastlines"],
		"geo_coastlines", summary["geo_coastlines"],
		"duration", time.Since(start),
	)
	return ds, nil
}

func (p *Pipeline) build(ctx context.Context) (*domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	co2, err := p.source.CO2(ctx)
	if err != nil {
		return nil, fmt.Errorf("load co2: %w", err)
	}
	p.metrics.RowsLoaded.WithLabelValues("co2").Add(float64(len(co2)))

	wide, stats, err := p.source.Emissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load emissions: %w", err)
	}
	p.metrics.RowsLoaded.WithLabelValues("emissions").Add(float64(stats.Kept()))
	p.metrics.RowsDropped.WithLabelValues("blank").Add(float64(stats.Blank))
	p.metrics.RowsDropped.WithLabelValues("aggregate").Add(float64(stats.Aggregates))

	sea, err := p.source.SeaLevel(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sea level: %w", err)
	}
	p.metrics.RowsLoaded.WithLabelValues("sea_level").Add(float64(len(sea)))

	coasts, err := p.source.Coastlines(ctx)
	if err != nil {
		return nil, fmt.Errorf("load coastlines: %w", err)
	}
	p.metrics.RowsLoaded.WithLabelValues("coastlines").Add(float64(len(coasts)))

	// The source may hand out shared slices; resolve into copies.
	wide.Rows = slices.Clone(wide.Rows)
	coasts = slices.Clone(coasts)

	codes := make(map[string]int)
	for i := range wide.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		wide.Rows[i].NumericCode = p.resolve(ctx, codes, wide.Rows[i].Country)
	}
	for i := range coasts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if coasts[i].Resolved() {
			continue
		}
		coasts[i].NumericCode = p.resolve(ctx, codes, coasts[i].Country)
	}

	geo := domain.GeoJoin(coasts)
	if missing := domain.UnresolvedCountries(coasts); len(missing) > 0 {
		p.logger.Info("coastline rows without geometry", "count", len(missing), "countries", missing)
	}

	return &domain.Dataset{
		CO2:           co2,
		Emissions:     domain.Melt(wide),
		SeaLevel:      sea,
		Coastlines:    coasts,
		GeoCoastlines: geo,
		GeneratedAt:   domain.Now(),
	}, nil
}

// resolve looks a country up once per build and records the outcome.
func (p *Pipeline) resolve(ctx context.Context, seen map[string]int, name string) int {
	if code, ok := seen[name]; ok {
		return code
	}
	code := domain.ResolveCountryCode(ctx, p.resolver, name, p.logger)
	if code == domain.UnresolvedCode {
		p.metrics.CountryResolutions.WithLabelValues("unresolved").Inc()
	} else {
		p.metrics.CountryResolutions.WithLabelValues("resolved").Inc()
	}
	seen[name] = code
	return code
}

// Publish forwards the dataset's measured emission records to the loader in
// batches. Records without a value are not published.
func (p *Pipeline) Publish(ctx context.Context, ds *domain.Dataset) error {
	if p.loader == nil || ds == nil {
		return nil
	}
	records := domain.ChartableEmissions(ds.Emissions)
	for start := 0; start < len(records); start += p.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+p.batchSize, len(records))
		batch := records[start:end]
		if err := p.loader.LoadBatch(ctx, batch); err != nil {
			p.metrics.PublishErrors.Inc()
			p.logger.Error("publish batch failed", "error", err, "batch_size", len(batch), "offset", start)
			return fmt.Errorf("publish emissions: %w", err)
		}
		p.metrics.RecordsPublished.Add(float64(len(batch)))
	}
	p.logger.Info("emissions published", "records", len(records))
	return nil
}
