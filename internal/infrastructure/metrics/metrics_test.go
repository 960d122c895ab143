package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/dashboard/internal/application/events"
	"github.com/taskmaster/dashboard/internal/domain/entities"
)

func TestStoreEventsUpdateGauges(t *testing.T) {
	m := New()
	bus := events.NewBus(nil)
	detach := m.Attach(bus)
	defer detach()

	tasks := []entities.Task{
		{ID: "task-1", Status: entities.TaskStatusTodo},
		{ID: "task-2", Status: entities.TaskStatusTodo},
		{ID: "task-3", Status: entities.TaskStatusDone},
	}
	bus.Publish(events.Event{Type: events.TasksLoaded, Tasks: tasks})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.tasksByStatus.WithLabelValues("todo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksByStatus.WithLabelValues("done")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.tasksByStatus.WithLabelValues("review")))

	bus.Publish(events.Event{Type: events.TaskDeleted, Tasks: tasks[2:]})
	assert.Equal(t, 0.0, testutil.ToFloat64(m.tasksByStatus.WithLabelValues("todo")))

	bus.Publish(events.Event{Type: events.ReminderRaised})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reminderActive))
	bus.Publish(events.Event{Type: events.ReminderCleared})
	assert.Equal(t, 0.0, testutil.ToFloat64(m.reminderActive))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeEvents.WithLabelValues("tasks.loaded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeEvents.WithLabelValues("reminder.raised")))
}

func TestMiddlewareCountsRequests(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
	e.GET("/missing/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "gone")
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/ping", "200")))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing/7", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/missing/:id", "404")))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/ping",status="200"} 3`)
	assert.Contains(t, rec.Body.String(), "dashboard_tasks")
}
