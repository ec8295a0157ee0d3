package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installInMemory(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	Install(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return exporter
}

func TestStartSpan_ParentChild(t *testing.T) {
	exporter := installInMemory(t)

	ctx, parent := StartSpan(context.Background(), "test", "purchase")
	_, child := StartSpan(ctx, "test", "unit_of_work")
	child.SetAttributes(attribute.Int("books", 2))
	child.End()
	parent.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "unit_of_work", spans[0].Name)
	assert.Equal(t, spans[1].SpanContext.TraceID(), spans[0].Parent.TraceID())
	assert.Contains(t, spans[0].Attributes, attribute.Int("books", 2))
}

func TestRecordError(t *testing.T) {
	exporter := installInMemory(t)

	_, span := StartSpan(context.Background(), "test", "failing")
	RecordError(span, errors.New("insufficient stock"))
	RecordError(span, nil)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Len(t, spans[0].Events, 1)
}

func TestExtractIDs(t *testing.T) {
	installInMemory(t)

	assert.Empty(t, ExtractTraceID(context.Background()))
	assert.Empty(t, ExtractSpanID(context.Background()))

	ctx, span := StartSpan(context.Background(), "test", "op")
	defer span.End()
	assert.Len(t, ExtractTraceID(ctx), 32)
	assert.Len(t, ExtractSpanID(ctx), 16)
}
