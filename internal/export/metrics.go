package export

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for export runs. A nil *Metrics is a no-op.
type Metrics struct {
	exports  *prometheus.CounterVec
	rows     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the export collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "urlexport_exports_total",
				Help: "Export runs by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "urlexport_export_rows_total",
				Help: "CSV data rows written by kind.",
			},
			[]string{"kind"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "urlexport_export_duration_seconds",
				Help:    "Time spent building an export file.",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"kind"},
		),
	}
	for _, c := range []prometheus.Collector{m.exports, m.rows, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe records a finished run.
func (m *Metrics) Observe(r *Result) {
	if m == nil || r == nil {
		return
	}
	kind := string(r.Kind)
	m.exports.WithLabelValues(kind, r.Outcome.String()).Inc()
	m.rows.WithLabelValues(kind).Add(float64(r.Rows))
	m.duration.WithLabelValues(kind).Observe(r.Duration.Seconds())
}
