package fs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds the Prometheus collectors of a table.
// A nil *Metrics records nothing.
type Metrics struct {
	operationsTotal *prometheus.CounterVec
	recordsWritten  prometheus.Counter
}

// NewMetrics creates the table collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tablet_operations_total",
				Help: "Total number of table operations",
			},
			[]string{"operation", "status"},
		),
		recordsWritten: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tablet_records_written_total",
				Help: "Total number of record files written by insert or update",
			},
		),
	}
}

func (m *Metrics) observe(operation string, err error) {
	if m == nil {
		return
	}
	status := statusSuccess
	if err != nil {
		status = statusError
	}
	m.operationsTotal.WithLabelValues(operation, status).Inc()
}

func (m *Metrics) written() {
	if m == nil {
		return
	}
	m.recordsWritten.Inc()
}
