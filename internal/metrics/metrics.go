// Package metrics declares the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "movie_vault"

var (
	// CatalogRequests counts catalog API calls by operation and outcome
	// (ok, empty, error, rejected).
	CatalogRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "requests_total",
		Help:      "Catalog API requests by operation and outcome.",
	}, []string{"operation", "outcome"})

	// CatalogBreakerState is 0 closed, 1 half-open, 2 open.
	CatalogBreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "circuit_breaker_state",
		Help:      "Catalog circuit breaker state (0 closed, 1 half-open, 2 open).",
	})

	// CollectionMutations counts vault mutations by operation and outcome
	// (success, rejected, invalid, ended).
	CollectionMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "vault",
		Name:      "mutations_total",
		Help:      "Collection and account mutations by operation and outcome.",
	}, []string{"operation", "outcome"})

	// PersistFailures counts write-through saves that failed after the
	// in-memory state had already changed.
	PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "vault",
		Name:      "persist_failures_total",
		Help:      "Failed write-through saves of user records.",
	})
)
