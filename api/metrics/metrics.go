package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "restaurant_adviser"

// HTTP
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)
)

// Tournaments
var (
	TournamentsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tournaments_started_total",
			Help:      "Tournament runs started, by pool size",
		},
		[]string{"size"},
	)

	TournamentsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tournaments_finished_total",
			Help:      "Tournament runs that left the active state, by outcome",
		},
		[]string{"outcome"},
	)

	TournamentChoices = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tournament_choices_total",
			Help:      "Match decisions applied to tournament runs",
		},
	)
)

// Upstreams
var (
	PlacesRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "places_request_duration_seconds",
			Help:      "Places API latency in seconds, by endpoint and result",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "result"},
	)

	PlacesCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "places_cache_lookups_total",
			Help:      "Places cache lookups, by cache and result",
		},
		[]string{"cache", "result"},
	)

	SentimentFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentiment_failures_total",
			Help:      "Comment aspect analyses that failed",
		},
	)
)

const (
	OutcomeCompleted = "completed"
	OutcomeAbandoned = "abandoned"

	ResultOK    = "ok"
	ResultError = "error"
	ResultHit   = "hit"
	ResultMiss  = "miss"
)
