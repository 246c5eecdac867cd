package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects simulation counters for the HTTP surface.
type Metrics struct {
	SimulationsTotal   *prometheus.CounterVec
	SimulationDuration prometheus.Histogram
	NodesPerGraph      prometheus.Histogram
}

// NewMetrics registers the server metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SimulationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caregraph",
			Name:      "simulations_total",
			Help:      "Completed simulation requests by kind and status.",
		}, []string{"kind", "status"}),
		SimulationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "caregraph",
			Name:      "simulation_duration_seconds",
			Help:      "Wall time of pathway expansion per request.",
			Buckets:   prometheus.DefBuckets,
		}),
		NodesPerGraph: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "caregraph",
			Name:      "pathway_nodes_per_graph",
			Help:      "Node count of generated pathway graphs.",
			Buckets:   []float64{0, 2, 5, 10, 20, 40, 80},
		}),
	}
}
