package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestLoggerIncludesTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	handler := &traceHandler{baseHandler: slog.NewJSONHandler(&buf, nil)}
	logger := slog.New(handler)

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	logger.InfoContext(ctx, "inside span")
	span.End()

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}

	if entry["trace_id"] != span.SpanContext().TraceID().String() {
		t.Errorf("expected trace_id %s, got %v", span.SpanContext().TraceID(), entry["trace_id"])
	}
	if entry["span_id"] != span.SpanContext().SpanID().String() {
		t.Errorf("expected span_id %s, got %v", span.SpanContext().SpanID(), entry["span_id"])
	}
}

func TestLoggerWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	handler := &traceHandler{baseHandler: slog.NewJSONHandler(&buf, nil)}
	logger := slog.New(handler)

	logger.Info("no span")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}

	if _, ok := entry["trace_id"]; ok {
		t.Error("expected no trace_id outside a span")
	}
}
