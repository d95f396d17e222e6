/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package metrics defines Prometheus metrics for the HR gateway.
//
// All metrics are registered with the package Registry, which the HTTP
// layer serves on /metrics.
//
// Metric naming follows Prometheus conventions:
//   - hragent_ prefix for all custom metrics
//   - _total suffix for counters
//   - _seconds suffix for duration histograms
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every gateway collector plus the Go runtime collectors.
var Registry = prometheus.NewRegistry()

var (
	// BackendRequestsTotal counts backend calls by resource, method and
	// status code ("error" when the call never produced a response).
	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hragent_backend_requests_total",
			Help: "Total HR backend calls by resource, method and status.",
		},
		[]string{"resource", "method", "status"},
	)

	// BackendRequestDurationSeconds is a histogram of backend call latency.
	BackendRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hragent_backend_request_duration_seconds",
			Help:    "Duration of HR backend calls in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"resource"},
	)

	// OperationsTotal counts gateway operations by name and fault category.
	OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hragent_operations_total",
			Help: "Total gateway operations by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	// OperationDurationSeconds is a histogram of end-to-end operation latency.
	OperationDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hragent_operation_duration_seconds",
			Help:    "Duration of gateway operations in seconds.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"operation"},
	)

	// LessonFetchFailuresTotal counts per-item lesson fetches that were
	// replaced by an empty lesson list.
	LessonFetchFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hragent_lesson_fetch_failures_total",
			Help: "Total learning-content lesson fetches that failed and were skipped.",
		},
	)

	// RateLimitBlocksTotal counts inbound requests rejected by the limiter.
	RateLimitBlocksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hragent_rate_limit_blocks_total",
			Help: "Total inbound requests rejected by rate limiting, by surface.",
		},
		[]string{"surface"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		BackendRequestsTotal,
		BackendRequestDurationSeconds,
		OperationsTotal,
		OperationDurationSeconds,
		LessonFetchFailuresTotal,
		RateLimitBlocksTotal,
	)
}

// Handler serves the registry in Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// RecordBackendCall records one backend call. A zero status means the call
// failed before a response arrived.
func RecordBackendCall(resource, method string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	BackendRequestsTotal.WithLabelValues(resource, method, label).Inc()
	BackendRequestDurationSeconds.WithLabelValues(resource).Observe(duration.Seconds())
}

// RecordOperation records a completed gateway operation.
func RecordOperation(operation, outcome string, duration time.Duration) {
	OperationsTotal.WithLabelValues(operation, outcome).Inc()
	OperationDurationSeconds.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordLessonFetchFailure records one isolated lesson-fetch failure.
func RecordLessonFetchFailure() {
	LessonFetchFailuresTotal.Inc()
}

// RecordRateLimitBlock records one throttled inbound request.
func RecordRateLimitBlock(surface string) {
	RateLimitBlocksTotal.WithLabelValues(surface).Inc()
}
