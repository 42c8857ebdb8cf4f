package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every Prometheus metric CoinScout exports.
type Registry struct {
	registry *prometheus.Registry

	ScansTotal    prometheus.Counter
	ScanDuration  prometheus.Histogram
	AssetsScored  prometheus.Counter
	AssetsDropped *prometheus.CounterVec

	ProviderRequests *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec

	DominanceReading prometheus.Gauge
}

// NewRegistry creates a registry with all CoinScout metrics registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		ScansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coinscout_scans_total",
			Help: "Total number of ranking scans executed",
		}),

		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "coinscout_scan_duration_seconds",
			Help:    "Duration of full ranking scans in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		}),

		AssetsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coinscout_assets_scored_total",
			Help: "Total number of assets successfully scored",
		}),

		AssetsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coinscout_assets_dropped_total",
			Help: "Total number of assets dropped from scans by reason",
		}, []string{"reason"}),

		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coinscout_provider_requests_total",
			Help: "Provider requests by provider and result",
		}, []string{"provider", "result"}),

		ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coinscout_provider_latency_seconds",
			Help:    "Provider request latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"provider"}),

		DominanceReading: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "coinscout_btc_dominance_percent",
			Help: "Last observed BTC dominance percentage",
		}),
	}

	r.registry.MustRegister(
		r.ScansTotal,
		r.ScanDuration,
		r.AssetsScored,
		r.AssetsDropped,
		r.ProviderRequests,
		r.ProviderLatency,
		r.DominanceReading,
	)

	return r
}

// Handler returns the Prometheus scrape handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
