// Package metrics owns the Prometheus registry of the service.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder collects HTTP and domain metrics. A nil *Recorder is valid and
// records nothing, so services can run without metrics enabled.
type Recorder struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	resolutions      *prometheus.CounterVec
	materialized     prometheus.Counter
	syncFailures     *prometheus.CounterVec
	syncedBlocks     prometheus.Counter
	timerDecrements  prometheus.Counter
	timerCompletions prometheus.Counter
}

// New creates a recorder on a private registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "activity_resolutions_total",
				Help: "Resolved activities by type",
			},
			[]string{"activity"},
		),
		materialized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tasks_materialized_total",
			Help: "Tasks created from current time blocks",
		}),
		syncFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calendar_sync_failures_total",
				Help: "Failed calendar operations by kind",
			},
			[]string{"operation"},
		),
		syncedBlocks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "calendar_blocks_imported_total",
			Help: "Time blocks created from calendar events",
		}),
		timerDecrements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timer_decrements_total",
			Help: "Successful task timer decrements",
		}),
		timerCompletions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timer_completions_total",
			Help: "Tasks completed by their timer",
		}),
	}

	r.registry.MustRegister(
		r.requestsTotal, r.requestDuration,
		r.resolutions, r.materialized,
		r.syncFailures, r.syncedBlocks,
		r.timerDecrements, r.timerCompletions,
	)
	return r
}

// Registry exposes the underlying registry for tests and custom collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route.
func (r *Recorder) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			r.requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			r.requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	}
}

func (r *Recorder) ActivityResolved(activity string) {
	if r == nil {
		return
	}
	r.resolutions.WithLabelValues(activity).Inc()
}

func (r *Recorder) TaskMaterialized() {
	if r == nil {
		return
	}
	r.materialized.Inc()
}

func (r *Recorder) CalendarSyncFailed(operation string) {
	if r == nil {
		return
	}
	r.syncFailures.WithLabelValues(operation).Inc()
}

func (r *Recorder) CalendarBlocksImported(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.syncedBlocks.Add(float64(n))
}

// TimerDecremented counts one tick and, when it finished the task, a completion.
func (r *Recorder) TimerDecremented(completed bool) {
	if r == nil {
		return
	}
	r.timerDecrements.Inc()
	if completed {
		r.timerCompletions.Inc()
	}
}
