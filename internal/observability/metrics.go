package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutapi",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "workoutapi",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	storePersists = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutapi",
		Subsystem: "store",
		Name:      "persist_total",
		Help:      "Full-document writes to the backing store, by result.",
	}, []string{"result"})

	storePersistDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "workoutapi",
		Subsystem: "store",
		Name:      "persist_duration_seconds",
		Help:      "Time spent serialising and writing the whole document.",
		Buckets:   prometheus.DefBuckets,
	})

	storeWorkouts = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workoutapi",
		Subsystem: "store",
		Name:      "workouts",
		Help:      "Number of workouts held in memory.",
	})

	workoutMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutapi",
		Subsystem: "service",
		Name:      "workout_mutations_total",
		Help:      "Successful workout mutations, by operation.",
	}, []string{"op"})

	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutapi",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Response cache lookups, by result (hit or miss).",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		httpRequests,
		httpDuration,
		storePersists,
		storePersistDuration,
		storeWorkouts,
		workoutMutations,
		cacheLookups,
	)
}

// RecordRequest counts a served HTTP request.
func RecordRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordPersist counts a document write and its latency.
func RecordPersist(err error, elapsed time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storePersists.WithLabelValues(result).Inc()
	storePersistDuration.Observe(elapsed.Seconds())
}

// SetWorkoutCount updates the in-memory workout gauge.
func SetWorkoutCount(n int) {
	storeWorkouts.Set(float64(n))
}

// RecordWorkoutMutation counts a successful create, update or delete.
func RecordWorkoutMutation(op string) {
	workoutMutations.WithLabelValues(op).Inc()
}

// RecordCacheLookup counts a response cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}
