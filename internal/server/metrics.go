package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/catalogue"
)

// Metrics holds Prometheus metrics for the HTTP API and catalogue reloads.
//
// Metrics:
//   - shrinetips_http_request_duration_seconds{method,route,status}
//   - shrinetips_parse_total{result} - "ok", "not_tooltip" or "filtered"
//   - shrinetips_matched_lines_total - lines classified under an effect
//   - shrinetips_unknown_lines_total - lines placed in the unknown group
//   - shrinetips_reload_total{result} - "ok" or "error"
//   - shrinetips_catalogue_version
//   - shrinetips_catalogue_matchers
//   - shrinetips_catalogue_skipped_patterns
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	ParseTotal      *prometheus.CounterVec
	MatchedLines    prometheus.Counter
	UnknownLines    prometheus.Counter
	ReloadTotal     *prometheus.CounterVec

	CatalogueVersion  prometheus.Gauge
	CatalogueMatchers prometheus.Gauge
	CatalogueSkipped  prometheus.Gauge
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shrinetips_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"method", "route", "status"},
		),
		ParseTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shrinetips_parse_total",
				Help: "Total number of submitted item texts by outcome",
			},
			[]string{"result"},
		),
		MatchedLines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shrinetips_matched_lines_total",
			Help: "Total number of lines classified under an effect",
		}),
		UnknownLines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shrinetips_unknown_lines_total",
			Help: "Total number of lines matched by no effect",
		}),
		ReloadTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shrinetips_reload_total",
				Help: "Total number of catalogue reloads by outcome",
			},
			[]string{"result"},
		),
		CatalogueVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shrinetips_catalogue_version",
			Help: "Version of the published knowledge base",
		}),
		CatalogueMatchers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shrinetips_catalogue_matchers",
			Help: "Number of compiled patterns in the published catalogue",
		}),
		CatalogueSkipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shrinetips_catalogue_skipped_patterns",
			Help: "Number of knowledge-base patterns left out of the published catalogue",
		}),
	}

	reg.MustRegister(
		m.RequestDuration,
		m.ParseTotal,
		m.MatchedLines,
		m.UnknownLines,
		m.ReloadTotal,
		m.CatalogueVersion,
		m.CatalogueMatchers,
		m.CatalogueSkipped,
	)
	return m
}

// ObserveCatalogue records a successfully published catalogue.
func (m *Metrics) ObserveCatalogue(c *catalogue.Catalogue) {
	m.ReloadTotal.WithLabelValues("ok").Inc()
	m.setCatalogue(c)
}

// ObserveReloadError records a failed reload.
func (m *Metrics) ObserveReloadError(error) {
	m.ReloadTotal.WithLabelValues("error").Inc()
}

func (m *Metrics) setCatalogue(c *catalogue.Catalogue) {
	m.CatalogueVersion.Set(float64(c.Version()))
	m.CatalogueMatchers.Set(float64(len(c.Matchers())))
	m.CatalogueSkipped.Set(float64(len(c.Skipped())))
}
