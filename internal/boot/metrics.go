package boot

import (
	"github.com/aevon-lab/routekit/internal/discovery"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	discoveredRoutes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "routekit_discovered_routes",
			Help: "Number of route registrations, aliases included, from the last discovery pass",
		},
	)

	discoveredSchemas = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "routekit_discovered_schemas",
			Help: "Number of schema documents registered by the last discovery pass",
		},
	)

	discoveryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routekit_discovery_failures_total",
			Help: "Total number of files or directories skipped during discovery",
		},
		[]string{"kind"},
	)
)

func recordFailures(failures []*discovery.Failure) {
	for _, f := range failures {
		discoveryFailures.WithLabelValues(string(f.Kind)).Inc()
	}
}
