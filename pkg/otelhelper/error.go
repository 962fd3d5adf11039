package otelhelper

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SetError marks the span as failed and records the error type next to attrs.
func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	attrs = append(attrs, attribute.String("error.type", fmt.Sprintf("%T", err)))

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.AddEvent("error_occurred", trace.WithAttributes(
		attrs...,
	))
}
