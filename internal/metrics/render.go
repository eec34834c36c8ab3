package metrics

import "github.com/prometheus/client_golang/prometheus"

// Encoder Prometheus metrics.
var (
	// RendersTotal counts rendered previews by surface (rest, wire,
	// filter) and the strategy the peer version selected.
	RendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "querygate",
			Name:      "renders_total",
			Help:      "Total number of rendered previews",
		},
		[]string{"surface", "strategy"},
	)

	// RenderErrorsTotal counts failed renders by surface.
	RenderErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "querygate",
			Name:      "render_errors_total",
			Help:      "Total number of failed renders",
		},
		[]string{"surface"},
	)
)

var renderMetricsRegistered bool

// RegisterRenderMetrics registers the encoder metrics. Must be called once from main.
func RegisterRenderMetrics() {
	if renderMetricsRegistered {
		return
	}
	prometheus.MustRegister(RendersTotal)
	prometheus.MustRegister(RenderErrorsTotal)
	renderMetricsRegistered = true
}
