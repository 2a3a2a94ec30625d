package font

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts resolver activity. A nil *Metrics records nothing.
type Metrics struct {
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	fetches     prometheus.Counter
	fetchErrors prometheus.Counter
}

// NewMetrics creates the resolver counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "font_cache_hits_total",
			Help: "Total font descriptor cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "font_cache_misses_total",
			Help: "Total font descriptor cache misses",
		}),
		fetches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "font_fetches_total",
			Help: "Total font fetches performed against the provider",
		}),
		fetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "font_fetch_errors_total",
			Help: "Total failed font fetches",
		}),
	}

	reg.MustRegister(m.cacheHits, m.cacheMisses, m.fetches, m.fetchErrors)

	return m
}

func (m *Metrics) hit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) miss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

func (m *Metrics) fetched() {
	if m == nil {
		return
	}
	m.fetches.Inc()
}

func (m *Metrics) fetchFailed() {
	if m == nil {
		return
	}
	m.fetchErrors.Inc()
}
