// Package observability provides metrics and tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// MutationConflicts counts rejected aggregate mutations by aggregate and reason.
	MutationConflicts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_mutation_conflicts_total",
		Help: "Total number of aggregate mutations rejected by an invariant or a stale version",
	}, []string{"aggregate", "reason"})

	// AuthFailures counts rejected credentials and tokens by reason.
	AuthFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_auth_failures_total",
		Help: "Total number of authentication failures by reason",
	}, []string{"reason"})

	// RedisErrors counts Redis errors by command.
	RedisErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})
)

// NewRegistry returns a registry holding the runtime collectors and the domain counters.
// Collectors may sit in several registries, so every server gets its own.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		MutationConflicts,
		AuthFailures,
		RedisErrors,
	)
	return reg
}
