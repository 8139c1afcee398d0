// Package metrics holds the Prometheus collectors shared by the outbound
// service clients.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30} //nolint: gochecknoglobals

// UpstreamRequestDuration observes outbound calls by upstream name and outcome kind.
var UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint: gochecknoglobals
	Namespace: "medscan",
	Subsystem: "upstream",
	Name:      "request_duration_seconds",
	Help:      "Duration of requests to the product lookup and analysis services.",
	Buckets:   DefaultBuckets,
}, []string{"upstream", "outcome"})

// OutcomeOK labels a successful upstream call; failures use the serrors kind name.
const OutcomeOK = "OK"
