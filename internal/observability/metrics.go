package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CacheLookups counts cache-aside lookups by key family and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_cache_lookups_total",
		Help: "Cache lookups by key family and result (hit, miss, error)",
	}, []string{"family", "result"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "folio_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// TokenValidations counts bearer token checks by outcome.
	TokenValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_token_validations_total",
		Help: "Bearer token validations by outcome (valid, expired, invalid_signature, malformed)",
	}, []string{"outcome"})

	// LoginAttempts counts login attempts by result.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_login_attempts_total",
		Help: "Login attempts by result",
	}, []string{"result"})

	// LabelsCreated counts labels created lazily during reconciliation.
	LabelsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_labels_created_total",
		Help: "Labels created during association reconciliation",
	}, []string{"kind"})

	// AssociationRewrites counts association sets replaced for an owner.
	AssociationRewrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_association_rewrites_total",
		Help: "Association sets replaced wholesale",
	}, []string{"kind"})

	// CounterRefreshes counts recomputations of the post comment counter.
	CounterRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "folio_counter_refreshes_total",
		Help: "Comment counter recomputations",
	})

	// RateLimitRejections counts requests rejected by the rate limiter.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_rate_limit_rejections_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"resource"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
