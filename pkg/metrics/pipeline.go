package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rent_radar"

// Pipeline exposes per-stage counters of the scoring pipeline.
type Pipeline struct {
	rowsDropped   *prometheus.CounterVec
	cellsNulled   *prometheus.CounterVec
	providerCalls *prometheus.CounterVec
	cacheHits     prometheus.Counter
	considered    *prometheus.GaugeVec
	runDuration   *prometheus.HistogramVec
}

func NewPipeline(reg prometheus.Registerer) *Pipeline {
	p := &Pipeline{
		rowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Listings removed during normalization, by reason.",
		}, []string{"profile", "reason"}),
		cellsNulled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "travel_cells_nulled_total",
			Help:      "Travel cells left empty after enrichment.",
		}, []string{"profile"}),
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Distance provider calls, by result.",
		}, []string{"result"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "travel_cache_hits_total",
			Help:      "Travel lookups served from the cache.",
		}),
		considered: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "considered_listings",
			Help:      "Listings with a positive score in the last run.",
		}, []string{"profile"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Pipeline run duration, by status.",
			Buckets:   []float64{1, 5, 15, 60, 300, 900, 1800},
		}, []string{"profile", "status"}),
	}

	reg.MustRegister(p.rowsDropped, p.cellsNulled, p.providerCalls, p.cacheHits, p.considered, p.runDuration)

	return p
}

func (p *Pipeline) RowsDropped(profile, reason string, n int) {
	p.rowsDropped.WithLabelValues(profile, reason).Add(float64(n))
}

func (p *Pipeline) CellsNulled(profile string, n int) {
	p.cellsNulled.WithLabelValues(profile).Add(float64(n))
}

func (p *Pipeline) ProviderCalls(result string, n int) {
	p.providerCalls.WithLabelValues(result).Add(float64(n))
}

func (p *Pipeline) CacheHits(n int) {
	p.cacheHits.Add(float64(n))
}

func (p *Pipeline) RunFinished(profile, status string, d time.Duration, considered int) {
	p.runDuration.WithLabelValues(profile, status).Observe(d.Seconds())
	if status == "ok" {
		p.considered.WithLabelValues(profile).Set(float64(considered))
	}
}
