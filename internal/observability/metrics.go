package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "climate_report"

// Metrics holds the Prometheus counters, histograms, and gauges for the report build.
type Metrics struct {
	RowsLoaded    *prometheus.CounterVec // labels: table={co2,emissions,sea_level,coastlines}
	RowsDropped   *prometheus.CounterVec // labels: reason={aggregate,blank}
	BuildDuration prometheus.Histogram
	BuildErrors   prometheus.Counter
	DatasetReady  prometheus.Gauge

	// Country resolution metrics.
	CountryResolutions *prometheus.CounterVec // labels: outcome={resolved,unresolved}
	ResolverCache      *prometheus.CounterVec // labels: result={hit,miss}

	// Output metrics.
	PageRenders      prometheus.Counter
	RecordsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
}

// NewMetrics creates and registers all report metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsLoaded,
		m.RowsDropped,
		m.BuildDuration,
		m.BuildErrors,
		m.DatasetReady,
		m.CountryResolutions,
		m.ResolverCache,
		m.PageRenders,
		m.RecordsPublished,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_loaded_total",
			Help:      "Usable rows taken from the source CSV files by table, after rows without a value or country are dropped.",
		}, []string{"table"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Emission rows removed during cleaning by reason; not included in rows_loaded_total.",
		}, []string{"reason"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of a complete load-clean-reshape build.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		BuildErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_errors_total",
			Help:      "Total failed dataset builds.",
		}),
		DatasetReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_ready",
			Help:      "1 once the cleaned dataset is available, 0 otherwise.",
		}),
		CountryResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "country_resolutions_total",
			Help:      "Country name to ISO numeric code lookups by outcome.",
		}, []string{"outcome"}),
		ResolverCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolver_cache_total",
			Help:      "Country resolver cache lookups by result.",
		}, []string{"result"}),
		PageRenders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_renders_total",
			Help:      "Total report pages rendered.",
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_published_total",
			Help:      "Emission records written to the Kafka sink.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed Kafka sink batches.",
		}),
	}
}
