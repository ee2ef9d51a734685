package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokenlint_scans_total",
		Help: "Total number of scans by outcome.",
	}, []string{"outcome"})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tokenlint_scan_seconds",
		Help:    "Time spent on one full scan.",
		Buckets: prometheus.DefBuckets,
	})

	IssuesByCategory = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tokenlint_issues",
		Help: "Deduplicated issues of the latest scan by category.",
	}, []string{"category"})

	NodesVisited = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tokenlint_nodes_visited",
		Help: "Nodes visited by the latest scan.",
	})

	NodeFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tokenlint_node_failures_total",
		Help: "Total number of nodes whose evaluation failed and was skipped.",
	})

	ResolverLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokenlint_resolver_lookups_total",
		Help: "Total number of binding resolutions by result (hit, miss, cached, error).",
	}, []string{"result"})

	SelectionErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tokenlint_selection_errors_total",
		Help: "Total number of scans rejected by selection preconditions.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tokenlint_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
