package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/johnquangdev/followupsync/internal/domain/entities"
)

// Metrics holds Prometheus metrics for the extraction pipeline.
//
// All metrics are prefixed with "followupsync_":
//   - followupsync_extractions_total{strategy,fallback_reason}
//   - followupsync_extraction_duration_seconds{strategy}
//   - followupsync_generator_requests_total{provider,outcome}
//   - followupsync_generator_duration_seconds{provider}
type Metrics struct {
	registry *prometheus.Registry

	ExtractionsTotal   *prometheus.CounterVec
	ExtractionDuration *prometheus.HistogramVec
	GeneratorTotal     *prometheus.CounterVec
	GeneratorDuration  *prometheus.HistogramVec
}

// New registers pipeline metrics on a fresh registry along with Go and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ExtractionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "followupsync_extractions_total",
				Help: "Total number of completed extractions",
			},
			[]string{"strategy", "fallback_reason"}, // reason is "" when no fallback happened
		),
		ExtractionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "followupsync_extraction_duration_seconds",
				Help:    "Duration of extraction including generation",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"strategy"},
		),
		GeneratorTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "followupsync_generator_requests_total",
				Help: "Total number of text generation calls",
			},
			[]string{"provider", "outcome"},
		),
		GeneratorDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "followupsync_generator_duration_seconds",
				Help:    "Duration of text generation calls",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),
	}
}

// ObserveExtraction records one finished extraction
func (m *Metrics) ObserveExtraction(strategy entities.Strategy, fallbackReason string, elapsed time.Duration) {
	m.ExtractionsTotal.WithLabelValues(string(strategy), fallbackReason).Inc()
	m.ExtractionDuration.WithLabelValues(string(strategy)).Observe(elapsed.Seconds())
}

// ObserveGenerator records one generation call
func (m *Metrics) ObserveGenerator(provider string, err error, elapsed time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.GeneratorTotal.WithLabelValues(provider, outcome).Inc()
	m.GeneratorDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
