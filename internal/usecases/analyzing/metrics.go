package analyzing

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Nomes dos caches usados como label
const (
	cacheData      = "data"
	cacheAnalytics = "analytics"
	cacheQuery     = "query"
)

// Metrics agrupa os coletores Prometheus do motor de análises
type Metrics struct {
	cacheHits    *prometheus.CounterVec
	cacheMisses  *prometheus.CounterVec
	reloads      prometheus.Counter
	rejected     prometheus.Counter
	records      prometheus.Gauge
	loadDuration prometheus.Histogram
}

// NewMetrics cria e registra os coletores. Com registerer nil os coletores
// funcionam mas não são expostos.
func NewMetrics(namespace string, registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Acertos de cache por tipo de cache.",
		}, []string{"cache"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Faltas de cache por tipo de cache.",
		}, []string{"cache"}),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_reloads_total",
			Help:      "Quantidade de cargas completas do snapshot.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_entries_total",
			Help:      "Entradas descartadas durante as cargas.",
		}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_records",
			Help:      "Registros mensais no snapshot atual.",
		}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_load_duration_seconds",
			Help:      "Duração das cargas do snapshot.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if registerer != nil {
		registerer.MustRegister(m.cacheHits, m.cacheMisses, m.reloads, m.rejected, m.records, m.loadDuration)
	}

	return m
}

func (m *Metrics) hit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

func (m *Metrics) miss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

func (m *Metrics) observeLoad(seconds float64, records, rejected int) {
	m.reloads.Inc()
	m.loadDuration.Observe(seconds)
	m.records.Set(float64(records))
	m.rejected.Add(float64(rejected))
}
