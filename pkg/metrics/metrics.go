package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_agent_turns_total",
			Help: "Dialogue turns processed, by reply template and outcome",
		},
		[]string{"template", "outcome"},
	)

	BookingsCommitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_agent_bookings_committed_total",
			Help: "Completed bookings appended to memory",
		},
	)

	RetrievalCandidates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_agent_retrieval_candidates_total",
			Help: "Memory candidates seen by the retrieval gate",
		},
		[]string{"decision"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticket_agent_generation_duration_seconds",
			Help:    "Time until the text engine returned (full text or open stream)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"template", "stream"},
	)
)
