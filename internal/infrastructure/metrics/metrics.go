package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taskmaster/dashboard/internal/application/events"
	"github.com/taskmaster/dashboard/internal/domain/entities"
)

const namespace = "dashboard"

// Metrics owns a private registry with HTTP and store collectors
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	storeEvents    *prometheus.CounterVec
	tasksByStatus  *prometheus.GaugeVec
	reminderActive prometheus.Gauge
}

// New creates and registers every collector
func New() *Metrics {
	m := &Metrics{
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
		storeEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_events_total",
				Help:      "Committed store events by type",
			},
			[]string{"type"},
		),
		tasksByStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tasks",
				Help:      "Current number of tasks per board column",
			},
			[]string{"status"},
		),
		reminderActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "reminder_active",
				Help:      "1 while the deadline reminder slot is occupied",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestDuration,
		m.storeEvents,
		m.tasksByStatus,
		m.reminderActive,
	)
	for _, status := range entities.TaskStatuses {
		m.tasksByStatus.WithLabelValues(string(status)).Set(0)
	}
	return m
}

// Registry exposes the registry for tests and extra collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Render errors here so the recorded status is the one sent.
			if err := next(c); err != nil {
				c.Error(err)
			}
			status := c.Response().Status

			m.requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				strconv.Itoa(status),
			).Inc()

			m.requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(time.Since(start).Seconds())

			return nil
		}
	}
}

// Attach subscribes the store collectors to bus and returns the detach func
func (m *Metrics) Attach(bus *events.Bus) func() {
	return bus.Subscribe(m.observe)
}

func (m *Metrics) observe(evt events.Event) {
	m.storeEvents.WithLabelValues(string(evt.Type)).Inc()

	switch {
	case evt.TaskListChanged():
		counts := make(map[entities.TaskStatus]int, len(entities.TaskStatuses))
		for _, t := range evt.Tasks {
			counts[t.Status]++
		}
		for _, status := range entities.TaskStatuses {
			m.tasksByStatus.WithLabelValues(string(status)).Set(float64(counts[status]))
		}
	case evt.Type == events.ReminderRaised:
		m.reminderActive.Set(1)
	case evt.Type == events.ReminderCleared:
		m.reminderActive.Set(0)
	}
}
