// Package metrics exposes the application's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TasksCreated counts task creations by status.
	TasksCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_tasks_created_total",
			Help: "Total number of tasks created",
		},
		[]string{"status"},
	)

	// TasksDeleted counts task deletions by the status the task held.
	TasksDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_tasks_deleted_total",
			Help: "Total number of tasks deleted",
		},
		[]string{"status"},
	)

	// TasksSwept counts tasks transitioned to overdue by the sweep job.
	TasksSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "todo_tasks_swept_total",
			Help: "Total number of tasks marked overdue by the sweep job",
		},
	)

	// SweepDuration observes how long a full overdue sweep takes.
	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "todo_sweep_duration_seconds",
			Help:    "Duration of overdue sweep runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
	)

	// HTTPRequestDuration observes HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "todo_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Logins counts login attempts by outcome.
	Logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"outcome"}, // outcome: success, failed
	)
)

// ObserveSweep records one completed sweep run.
func ObserveSweep(swept int, duration time.Duration) {
	TasksSwept.Add(float64(swept))
	SweepDuration.Observe(duration.Seconds())
}

// RecordHTTPRequestDuration records one served HTTP request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
