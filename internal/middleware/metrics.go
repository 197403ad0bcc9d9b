package middleware

import (
	"devconnector/internal/observability"

	"github.com/ansrivas/fiberprometheus/v2"
)

// InitMetrics creates the HTTP metrics middleware on a fresh registry that also
// exposes the domain counters.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.NewWithRegistry(observability.NewRegistry(), serviceName, "http", "", nil)
}
