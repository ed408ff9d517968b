package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "attendance"

// metrics is nil-safe so an unmetered store pays nothing.
type metrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer, s *Store) *metrics {
	m := &metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of cache hits",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of cache misses",
		}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Total number of entries removed from the cache",
		}, []string{"reason"}),
	}

	size := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "cache",
		Name:      "entries",
		Help:      "Number of entries currently held by the cache",
	}, func() float64 { return float64(s.Len()) })

	reg.MustRegister(m.hits, m.misses, m.evictions, size)
	return m
}

func (m *metrics) hit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *metrics) miss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *metrics) evicted(reason string, n int) {
	if m != nil {
		m.evictions.WithLabelValues(reason).Add(float64(n))
	}
}
