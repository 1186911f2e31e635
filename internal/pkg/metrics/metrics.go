// Package metrics defines and registers the custom Prometheus metrics of the
// authentication server. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on package import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "authcore"

// ── Authentication metrics ────────────────────────────────────────────────────

// AuthAttemptsTotal counts authentication decisions.
// Labels:
//   - kind: "client", "password" or "token"
//   - result: "success", "rejected", "unknown" or "store_error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by kind and result.",
	},
	[]string{"kind", "result"},
)

// TokensIssuedTotal counts tokens handed back to callers.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued.",
	},
)

// StoreErrorsTotal counts credential store failures that were absorbed into a
// negative authentication result.
// Label:
//   - operation: the store call that failed (e.g. "find_client")
var StoreErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Total number of credential store errors, by operation.",
	},
	[]string{"operation"},
)

// PasswordHashDuration measures bcrypt work, excluding time spent waiting for
// a hashing slot.
// Label:
//   - op: "hash" or "verify"
var PasswordHashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of password hashing and verification.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1},
	},
	[]string{"op"},
)

// ── Token persistence metrics ─────────────────────────────────────────────────

// TokenWriteQueueDepth tracks the number of tokens waiting in each writer channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var TokenWriteQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "token_write_queue_depth",
		Help:      "Current number of tokens pending in each token writer channel.",
	},
	[]string{"worker_id"},
)

// TokenWritesTotal counts asynchronous token writes.
// Label:
//   - result: "ok" or "error"
var TokenWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_writes_total",
		Help:      "Total number of asynchronous token writes, by result.",
	},
	[]string{"result"},
)

// TokenCacheTotal counts token cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var TokenCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_cache_total",
		Help:      "Total number of token cache lookups, labelled by result.",
	},
	[]string{"result"},
)
