package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SimulatedCalls counts operations passing through the latency facade,
// labelled by logical operation name.
var SimulatedCalls = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cardpress_simulated_calls_total",
	Help: "Number of store operations routed through the network facade.",
}, []string{"op"})

// SlugResolves counts public share-link resolutions by outcome
// (hit, miss, invalid, error).
var SlugResolves = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cardpress_slug_resolves_total",
	Help: "Number of public slug resolutions by outcome.",
}, []string{"result"})
