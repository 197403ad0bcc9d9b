package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewRegistry_SharesDomainCounters(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()

	MutationConflicts.WithLabelValues("post", "already_liked").Inc()

	for name, reg := range map[string]*prometheus.Registry{"a": a, "b": b} {
		families, err := reg.Gather()
		require.NoError(t, err)

		found := false
		for _, f := range families {
			if f.GetName() == "devconnector_mutation_conflicts_total" {
				found = true
				assert.NotEmpty(t, f.GetMetric(), name)
			}
		}
		assert.True(t, found, name)
	}
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "test", Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestEndSpan_RecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := Tracer
	Tracer = tp.Tracer("test")
	defer func() { Tracer = prev }()

	_, span := StartSpan(context.Background(), "post.like")
	EndSpan(span, errors.New("Post already liked"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "post.like", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}
