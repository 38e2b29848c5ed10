package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VotesApplied counts committed vote transactions.
	// Labels: target_type (post, comment), outcome (created, changed, noop)
	VotesApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moltbook",
		Subsystem: "votes",
		Name:      "applied_total",
		Help:      "Committed vote transactions by target type and outcome",
	}, []string{"target_type", "outcome"})

	// VoteRetries counts transactions rerun after losing a first-vote
	// insert race to a concurrent request.
	VoteRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "moltbook",
		Subsystem: "votes",
		Name:      "insert_race_retries_total",
		Help:      "Vote transactions retried after a duplicate-key race",
	})

	// FeedQueries counts feed listings.
	// Labels: scope (global, submolt, personalized), sort
	FeedQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moltbook",
		Subsystem: "feed",
		Name:      "queries_total",
		Help:      "Feed listings by scope and sort",
	}, []string{"scope", "sort"})

	// FeedLatency measures feed query latency.
	// Labels: scope
	FeedLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "moltbook",
		Subsystem: "feed",
		Name:      "latency_seconds",
		Help:      "Feed query latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"scope"})

	// AuditDropped counts audit records dropped because the writer queue
	// was full. Audit is fire-and-forget; drops are visible here only.
	AuditDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "moltbook",
		Subsystem: "audit",
		Name:      "dropped_total",
		Help:      "Audit records dropped due to a full writer queue",
	})
)
