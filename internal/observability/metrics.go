package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// escapement batch pipeline.
type Metrics struct {
	RecordsExtracted prometheus.Counter
	ExtractSource    *prometheus.CounterVec // labels: source={local,remote}
	RunsCompleted    prometheus.Counter
	RunErrors        prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Transform metrics.
	CoordinatesFilled   prometheus.Counter
	RowsWithoutCoords   prometheus.Counter
	LongitudesCorrected prometheus.Counter
	SpeciesSummarized   prometheus.Gauge
	LocationsEmitted    prometheus.Gauge
	RunDuration         prometheus.Histogram
	GazetteerEnabled    prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "escapement_etl",
			Name:      "records_extracted_total",
			Help:      "Total observation rows decoded from the source dataset.",
		}),
		ExtractSource: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "escapement_etl",
			Name:      "extract_source_total",
			Help:      "Dataset acquisitions by source (local file or remote fetch).",
		}, []string{"source"}),
		RunsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "escapement_etl",
			Name:      "runs_completed_total",
			Help:      "Total pipeline runs that completed successfully.",
		}),
		RunErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "escapement_etl",
			Name:      "run_errors_total",
			Help:      "Total pipeline runs that aborted with an error.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "escapement_etl",
			Name:      "pipeline_running",
			Help:      "1 while a run is in progress, 0 otherwise.",
		}),
		CoordinatesFilled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "escapement_etl",
			Name:      "coordinates_filled_total",
			Help:      "Observation rows whose coordinates were filled from the gazetteer.",
		}),
		RowsWithoutCoords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "escapement_etl",
			Name:      "rows_without_coordinates_total",
			Help:      "Observation rows still lacking coordinates after enrichment.",
		}),
		LongitudesCorrected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "escapement_etl",
			Name:      "longitudes_corrected_total",
			Help:      "Location points whose longitude sign was flipped by the sanitizer.",
		}),
		SpeciesSummarized: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "escapement_etl",
			Name:      "species_summarized",
			Help:      "Distinct species in the most recent summary table.",
		}),
		LocationsEmitted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "escapement_etl",
			Name:      "locations_emitted",
			Help:      "Distinct location points in the most recent run.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "escapement_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete extract-transform-load run.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		GazetteerEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "escapement_etl",
			Name:      "gazetteer_enabled",
			Help:      "1 when coordinate lookup enrichment is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.RecordsExtracted,
		m.ExtractSource,
		m.RunsCompleted,
		m.RunErrors,
		m.PipelineRunning,
		m.CoordinatesFilled,
		m.RowsWithoutCoords,
		m.LongitudesCorrected,
		m.SpeciesSummarized,
		m.LocationsEmitted,
		m.RunDuration,
		m.GazetteerEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsExtracted:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "escapement_etl", Name: "records_extracted_total"}),
		ExtractSource:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "escapement_etl", Name: "extract_source_total"}, []string{"source"}),
		RunsCompleted:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "escapement_etl", Name: "runs_completed_total"}),
		RunErrors:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "escapement_etl", Name: "run_errors_total"}),
		PipelineRunning:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "escapement_etl", Name: "pipeline_running"}),
		CoordinatesFilled:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "escapement_etl", Name: "coordinates_filled_total"}),
		RowsWithoutCoords:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "escapement_etl", Name: "rows_without_coordinates_total"}),
		LongitudesCorrected: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "escapement_etl", Name: "longitudes_corrected_total"}),
		SpeciesSummarized:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "escapement_etl", Name: "species_summarized"}),
		LocationsEmitted:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "escapement_etl", Name: "locations_emitted"}),
		RunDuration:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "escapement_etl", Name: "run_duration_seconds"}),
		GazetteerEnabled:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "escapement_etl", Name: "gazetteer_enabled"}),
	}
}
