package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "verse_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// LikeToggles counts like toggle operations by direction.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verse_like_toggles_total",
		Help: "Total like toggle operations by direction (like/unlike)",
	}, []string{"direction"})

	// PoemsCreated counts poems created.
	PoemsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verse_poems_created_total",
		Help: "Total poems created",
	})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
