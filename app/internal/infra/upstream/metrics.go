package upstream

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"example.com/storefront/app/internal/domain/outcome"
)

// Metrics counts upstream calls per operation and result.
type Metrics struct {
	CallsTotal   *prometheus.CounterVec
	CallDuration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		CallsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Subsystem: "upstream",
				Name:      "calls_total",
				Help:      "Upstream API calls by operation and result",
			},
			[]string{"op", "result"}, // result=ok/rejected/transport
		),
		CallDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "storefront",
				Subsystem: "upstream",
				Name:      "call_duration_seconds",
				Help:      "Upstream API call latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
}

func (m *Metrics) observe(op string, err error, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, outcome.ErrRejected):
		result = "rejected"
	default:
		result = "transport"
	}
	m.CallsTotal.WithLabelValues(op, result).Inc()
	m.CallDuration.WithLabelValues(op).Observe(d.Seconds())
}
