package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-report/internal/domain"
	"github.com/couchcryptid/climate-report/internal/observability"
	"github.com/couchcryptid/climate-report/internal/pipeline"
	"github.com/couchcryptid/climate-report/internal/report"
)

// --- mocks ---

type mockSource struct {
	co2       []domain.CO2Reading
	wide      domain.WideEmissions
	stats     domain.CleanStats
	sea       []domain.SeaLevelReading
	coasts    []domain.CoastlineRecord
	errOnLoad string
}

func (m *mockSource) fail(table string) error {
	if m.errOnLoad == table {
		return errors.New(table + " unavailable")
	}
	return nil
}

func (m *mockSource) CO2(_ context.Context) ([]domain.CO2Reading, error) {
	return m.co2, m.fail("co2")
}

func (m *mockSource) Emissions(_ context.Context) (domain.WideEmissions, domain.CleanStats, error) {
	return m.wide, m.stats, m.fail("emissions")
}

func (m *mockSource) SeaLevel(_ context.Context) ([]domain.SeaLevelReading, error) {
	return m.sea, m.fail("sea_level")
}

func (m *mockSource) Coastlines(_ context.Context) ([]domain.CoastlineRecord, error) {
	return m.coasts, m.fail("coastlines")
}

type mockResolver struct {
	codes map[string]int
	calls map[string]int
}

func (m *mockResolver) ResolveNumeric(_ context.Context, name string) (int, error) {
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
	code, ok := m.codes[name]
	if !ok {
		return 0, domain.ErrCountryNotFound
	}
	return code, nil
}

type mockLoader struct {
	batches [][]domain.EmissionRecord
	err     error
}

func (m *mockLoader) LoadBatch(_ context.Context, records []domain.EmissionRecord) error {
	if m.err != nil {
		return m.err
	}
	m.batches = append(m.batches, append([]domain.EmissionRecord(nil), records...))
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSource() *mockSource {
	return &mockSource{
		co2: []domain.CO2Reading{{Year: 1990.0411, MonthlyAverage: 353.86}},
		wide: domain.WideEmissions{
			Years: []int{1970, 1971},
			Rows: []domain.WideEmissionRow{
				{Code: "ESP", Country: "Spain", NumericCode: domain.UnresolvedCode, Values: []float64{10, 12}},
				{Code: "DEU", Country: "Germany", NumericCode: domain.UnresolvedCode, Values: []float64{30, math.NaN()}},
			},
		},
		stats: domain.CleanStats{Loaded: 5, Blank: 1, Aggregates: 2},
		sea:   []domain.SeaLevelReading{{DecimalYear: 1993.01, GMSLmm: -37.24}},
		coasts: []domain.CoastlineRecord{
			{Country: "Spain", NumericCode: domain.UnresolvedCode, CoastlineKm: 4964, CoastPerArea: 9.8},
			{Country: "Norway", NumericCode: 578, CoastlineKm: 25148, CoastPerArea: 77.7},
			{Country: "Atlantis", NumericCode: domain.UnresolvedCode, CoastlineKm: 1000},
		},
	}
}

func newResolver() *mockResolver {
	return &mockResolver{codes: map[string]int{"Spain": 724, "Germany": 276}}
}

// --- tests ---

func TestPipeline_Build(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() { domain.SetClock(nil) })

	metrics := observability.NewMetricsForTesting()
	resolver := newResolver()
	p := pipeline.New(newSource(), resolver, nil, discardLogger(), metrics, 50)

	require.Error(t, p.CheckReadiness(context.Background()))
	assert.Nil(t, p.Dataset())

	ds, err := p.Build(context.Background())
	require.NoError(t, err)

	require.NoError(t, p.CheckReadiness(context.Background()))
	assert.Same(t, ds, p.Dataset())
	assert.Equal(t, fakeClock.Now(), ds.GeneratedAt)

	want := []domain.EmissionRecord{
		{Code: "ESP", Country: "Spain", NumericCode: 724, Year: 1970, Emissions: 10},
		{Code: "DEU", Country: "Germany", NumericCode: 276, Year: 1970, Emissions: 30},
		{Code: "ESP", Country: "Spain", NumericCode: 724, Year: 1971, Emissions: 12},
		{Code: "DEU", Country: "Germany", NumericCode: 276, Year: 1971, Emissions: math.NaN()},
	}
	nanEqual := cmp.Comparer(func(a, b float64) bool {
		return a == b || (math.IsNaN(a) && math.IsNaN(b))
	})
	if diff := cmp.Diff(want, ds.Emissions, nanEqual); diff != "" {
		t.Fatalf("emissions mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, ds.Coastlines, 3)
	assert.Equal(t, 724, ds.Coastlines[0].NumericCode)
	assert.Equal(t, 578, ds.Coastlines[1].NumericCode)
	assert.Equal(t, domain.UnresolvedCode, ds.Coastlines[2].NumericCode)
	require.Len(t, ds.GeoCoastlines, 2)

	assert.Equal(t, 1, resolver.calls["Spain"], "names resolve once per build")
	assert.Zero(t, resolver.calls["Norway"], "codes from the file are kept")

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DatasetReady), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.RowsLoaded.WithLabelValues("emissions")), 0, "rows left after cleaning")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RowsLoaded.WithLabelValues("co2")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.RowsLoaded.WithLabelValues("coastlines")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.RowsDropped.WithLabelValues("aggregate")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RowsDropped.WithLabelValues("blank")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.CountryResolutions.WithLabelValues("resolved")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.CountryResolutions.WithLabelValues("unresolved")), 0)
}

func TestPipeline_Build_UnresolvedEmissionCountryStaysCharted(t *testing.T) {
	src := newSource()
	src.wide.Rows = append(src.wide.Rows, domain.WideEmissionRow{
		Code: "KOS", Country: "Kosovo", NumericCode: domain.UnresolvedCode, Values: []float64{8, 9},
	})
	p := pipeline.New(src, newResolver(), nil, discardLogger(), observability.NewMetricsForTesting(), 50)

	ds, err := p.Build(context.Background())
	require.NoError(t, err)

	var kosovo []domain.EmissionRecord
	for _, r := range ds.Emissions {
		if r.Country == "Kosovo" {
			kosovo = append(kosovo, r)
		}
	}
	require.Len(t, kosovo, 2)
	for _, r := range kosovo {
		assert.Equal(t, domain.UnresolvedCode, r.NumericCode)
	}

	values, ok := report.EmissionsChart(ds.Emissions, 0)["data"].(map[string]any)["values"].([]domain.EmissionRecord)
	require.True(t, ok)
	assert.Contains(t, values, kosovo[0])
	assert.Contains(t, values, kosovo[1])
}

func TestPipeline_Build_NilResolver(t *testing.T) {
	p := pipeline.New(newSource(), nil, nil, discardLogger(), observability.NewMetricsForTesting(), 50)

	ds, err := p.Build(context.Background())
	require.NoError(t, err)

	for _, r := range ds.Emissions {
		assert.Equal(t, domain.UnresolvedCode, r.NumericCode)
	}
	require.Len(t, ds.GeoCoastlines, 1)
	assert.Equal(t, "Norway", ds.GeoCoastlines[0].Country)
}

func TestPipeline_Build_SourceErrors(t *testing.T) {
	for _, table := range []string{"co2", "emissions", "sea_level", "coastlines"} {
		t.Run(table, func(t *testing.T) {
			src := newSource()
			src.errOnLoad = table
			metrics := observability.NewMetricsForTesting()
			p := pipeline.New(src, newResolver(), nil, discardLogger(), metrics, 50)

			ds, err := p.Build(context.Background())
			require.Error(t, err)
			assert.Nil(t, ds)
			assert.Contains(t, err.Error(), table+" unavailable")
			assert.Error(t, p.CheckReadiness(context.Background()))
			assert.InDelta(t, 1, testutil.ToFloat64(metrics.BuildErrors), 0)
		})
	}
}

func TestPipeline_Build_FailureKeepsPreviousDataset(t *testing.T) {
	src := newSource()
	p := pipeline.New(src, newResolver(), nil, discardLogger(), observability.NewMetricsForTesting(), 50)

	first, err := p.Build(context.Background())
	require.NoError(t, err)

	src.errOnLoad = "co2"
	_, err = p.Build(context.Background())
	require.Error(t, err)

	assert.Same(t, first, p.Dataset())
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Build_ContextCancelled(t *testing.T) {
	p := pipeline.New(newSource(), newResolver(), nil, discardLogger(), observability.NewMetricsForTesting(), 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Build(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, p.Dataset())
}

func TestPipeline_Publish_Batches(t *testing.T) {
	loader := &mockLoader{}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(newSource(), newResolver(), loader, discardLogger(), metrics, 2)

	ds, err := p.Build(context.Background())
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), ds))

	require.Len(t, loader.batches, 2)
	assert.Len(t, loader.batches[0], 2)
	assert.Len(t, loader.batches[1], 1, "NaN record is not published")
	for _, batch := range loader.batches {
		for _, r := range batch {
			assert.True(t, r.HasValue())
		}
	}
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.RecordsPublished), 0)
}

func TestPipeline_Publish_LoaderError(t *testing.T) {
	loader := &mockLoader{err: errors.New("broker down")}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(newSource(), newResolver(), loader, discardLogger(), metrics, 50)

	ds, err := p.Build(context.Background())
	require.NoError(t, err)

	err = p.Publish(context.Background(), ds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PublishErrors), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.RecordsPublished), 0)
}

func TestPipeline_Publish_NoLoader(t *testing.T) {
	p := pipeline.New(newSource(), newResolver(), nil, discardLogger(), observability.NewMetricsForTesting(), 50)

	ds, err := p.Build(context.Background())
	require.NoError(t, err)
	assert.NoError(t, p.Publish(context.Background(), ds))
}
