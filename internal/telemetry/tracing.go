/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package telemetry configures OpenTelemetry tracing for the HR gateway.
//
// Each gateway operation gets a parent span; every backend call made while
// serving it is a client-kind child span. Custom attributes use the
// `hragent.` prefix. Credentials and bodies are never recorded.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/marcus-qen/hragent/internal/config"
)

const tracerName = "github.com/marcus-qen/hragent"

// Tracer returns the package-level tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// exportTimeout bounds a single batch export to the collector.
const exportTimeout = 10 * time.Second

// Setup installs the global tracer provider described by cfg. With no
// collector endpoint it installs nothing and returns a no-op shutdown.
func Setup(ctx context.Context, cfg config.TracingConfig, version string) (func(context.Context) error, error) {
	if cfg.Endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx, exporterOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter for %s: %w", cfg.Endpoint, err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName("hragent"),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, fmt.Errorf("build trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRatio)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

func exporterOptions(cfg config.TracingConfig) []otlptracegrpc.Option {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithTimeout(exportTimeout),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(cfg.Headers))
	}
	return opts
}

// sampler honours the caller's sampling decision and samples ratio of new
// root traces. A ratio outside (0, 1) samples every root.
func sampler(ratio float64) sdktrace.Sampler {
	root := sdktrace.AlwaysSample()
	if ratio > 0 && ratio < 1 {
		root = sdktrace.TraceIDRatioBased(ratio)
	}
	return sdktrace.ParentBased(root)
}

// --- Span helpers ---

// StartOperationSpan creates the parent span for one gateway operation.
func StartOperationSpan(ctx context.Context, operation, surface string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "hr."+operation,
		trace.WithAttributes(
			attribute.String("hragent.operation", operation),
			attribute.String("hragent.surface", surface),
		),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// EndOperationSpan records the outcome category and closes the span.
func EndOperationSpan(span trace.Span, outcome string, err error) {
	span.SetAttributes(attribute.String("hragent.outcome", outcome))
	if err != nil {
		span.SetStatus(codes.Error, outcome)
	}
	span.End()
}

// StartBackendCallSpan creates a child span for one HR backend call.
func StartBackendCallSpan(ctx context.Context, resource, method string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "workday."+resource,
		trace.WithAttributes(
			attribute.String("hragent.resource", resource),
			attribute.String("http.request.method", method),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndBackendCallSpan enriches the backend span with the response status.
// A zero status means no response was received.
func EndBackendCallSpan(span trace.Span, status int, err error) {
	if status > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
