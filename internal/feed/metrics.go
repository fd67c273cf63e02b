package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rankPasses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_rank_passes_total",
		Help: "Full ranking recomputations performed.",
	})
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_cache_hits_total",
		Help: "Ranked feeds served from the Redis cache.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_cache_misses_total",
		Help: "Feed requests that required a recompute (miss or stale version).",
	})
	eventsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_events_consumed_total",
		Help: "Mutation events consumed from Kafka, by event type.",
	}, []string{"type"})
)
