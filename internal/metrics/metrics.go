// Package metrics holds the Prometheus collectors shared by the CLI and the
// API server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CompareRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mangashelf_compare_runs_total",
		Help: "Comparison runs by outcome",
	}, []string{"source", "status"})

	MatchesPerRun = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mangashelf_matches_per_run",
		Help:    "Number of matches found per comparison run",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	CollisionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mangashelf_match_collisions_total",
		Help: "Library records whose keys reached more than one reference record",
	})

	IngestedEntriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mangashelf_ingested_entries_total",
		Help: "Entries appended to the library from exports",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mangashelf_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mangashelf_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})
)
