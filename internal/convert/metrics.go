package convert

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds conversion instrumentation.
type Metrics struct {
	conversions *prometheus.CounterVec
	duration    prometheus.Histogram
	cacheHits   prometheus.Counter
}

// NewMetrics creates conversion metrics registered with reg.
// A nil registerer leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		conversions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "urdfconv",
			Name:      "conversions_total",
			Help:      "Robot description conversions by result.",
		}, []string{"result"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "urdfconv",
			Name:      "conversion_seconds",
			Help:      "Time spent parsing and mapping a robot description.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "urdfconv",
			Name:      "cache_hits_total",
			Help:      "Conversions served from the result cache.",
		}),
	}
}
