package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	GenerationAttemptsTotal  metric.Int64Counter
	GenerationFailuresTotal  metric.Int64Counter
	ValidationFailuresTotal  metric.Int64Counter
	TripsStoredTotal         metric.Int64Counter
	PipelineDurationSeconds  metric.Float64Histogram
	ContextLookupErrorsTotal metric.Int64Counter
	DbQueryErrorsTotal       metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments exactly once,
// using the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("TasteTrip")
		m := &AppMetrics{}
		var err error

		m.GenerationAttemptsTotal, err = meter.Int64Counter(
			"generation_attempts_total",
			metric.WithDescription("Total number of itinerary generation attempts issued"),
			metric.WithUnit("{attempt}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create generation_attempts_total: %v", err)
		}

		m.GenerationFailuresTotal, err = meter.Int64Counter(
			"generation_failures_total",
			metric.WithDescription("Total number of generation calls that failed or produced unparseable output"),
			metric.WithUnit("{failure}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create generation_failures_total: %v", err)
		}

		m.ValidationFailuresTotal, err = meter.Int64Counter(
			"validation_failures_total",
			metric.WithDescription("Total number of itineraries rejected for under-using supplied places"),
			metric.WithUnit("{failure}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create validation_failures_total: %v", err)
		}

		m.TripsStoredTotal, err = meter.Int64Counter(
			"trips_stored_total",
			metric.WithDescription("Total number of trips persisted"),
			metric.WithUnit("{trip}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trips_stored_total: %v", err)
		}

		m.PipelineDurationSeconds, err = meter.Float64Histogram(
			"pipeline_duration_seconds",
			metric.WithDescription("End-to-end duration of the itinerary generation pipeline"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create pipeline_duration_seconds: %v", err)
		}

		m.ContextLookupErrorsTotal, err = meter.Int64Counter(
			"context_lookup_errors_total",
			metric.WithDescription("Total number of failed places/weather/cuisine lookups absorbed by the pipeline"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create context_lookup_errors_total: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the application metrics, initializing them against the
// current global MeterProvider on first use. Safe for concurrent callers.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
