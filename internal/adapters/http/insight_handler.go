package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/dashboard/internal/application/services"
	"github.com/taskmaster/dashboard/internal/application/views"
	"github.com/taskmaster/dashboard/internal/domain/entities"
	"github.com/taskmaster/dashboard/internal/infrastructure/logger"
	"github.com/taskmaster/dashboard/internal/ports"
)

// ReminderResponse reports the reminder slot. Reminder is only set while
// the reminder is visible.
type ReminderResponse struct {
	Active   bool               `json:"active"`
	Visible  bool               `json:"visible"`
	Reminder *entities.Reminder `json:"reminder,omitempty"`
}

// InsightHandler serves analytics, reminders and notifications
type InsightHandler struct {
	dash   *services.Dashboard
	logger *logger.Logger
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(dash *services.Dashboard, logger *logger.Logger) *InsightHandler {
	return &InsightHandler{
		dash:   dash,
		logger: logger,
	}
}

// Analytics godoc
// @Summary Dashboard analytics
// @Tags analytics
// @Produce json
// @Success 200 {object} views.Analytics
// @Router /analytics [get]
func (h *InsightHandler) Analytics(c echo.Context) error {
	ctx := c.Request().Context()
	tasks, err := h.dash.Tasks.List(ctx)
	if err != nil {
		return err
	}
	meetings, err := h.dash.Meetings.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views.Analyze(tasks, meetings, h.dash.Today()))
}

// TeamPerformance godoc
// @Summary Completion per assignee
// @Tags analytics
// @Produce json
// @Success 200 {object} ports.ListResponse[views.MemberPerformance]
// @Router /analytics/team [get]
func (h *InsightHandler) TeamPerformance(c echo.Context) error {
	tasks, err := h.dash.Tasks.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list(views.TeamPerformance(tasks)))
}

// CurrentReminder godoc
// @Summary Deadline reminder slot
// @Tags reminders
// @Produce json
// @Success 200 {object} ReminderResponse
// @Router /reminders [get]
func (h *InsightHandler) CurrentReminder(c echo.Context) error {
	var resp ReminderResponse
	if _, ok := h.dash.Reminders.Current(); ok {
		resp.Active = true
	}
	if reminder, ok := h.dash.Reminders.Visible(); ok {
		resp.Visible = true
		resp.Reminder = &reminder
	}
	return c.JSON(http.StatusOK, resp)
}

// DismissReminder closes the reminder
func (h *InsightHandler) DismissReminder(c echo.Context) error {
	if !h.dash.Reminders.Dismiss() {
		return c.JSON(http.StatusOK, ports.MessageResponse{Message: "No active reminder"})
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Reminder dismissed"})
}

// AcknowledgeReminder is the "view task" action on the reminder
func (h *InsightHandler) AcknowledgeReminder(c echo.Context) error {
	reminder, ok := h.dash.Reminders.Current()
	if !ok || !h.dash.Reminders.Acknowledge() {
		return echo.NewHTTPError(http.StatusNotFound, "No active reminder")
	}

	task, err := h.dash.Tasks.Get(c.Request().Context(), reminder.TaskID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// ListNotifications godoc
// @Summary Recent notifications, newest first
// @Tags notifications
// @Produce json
// @Param limit query int false "Maximum entries"
// @Success 200 {object} ports.ListResponse[services.Notification]
// @Router /notifications [get]
func (h *InsightHandler) ListNotifications(c echo.Context) error {
	limit, err := queryInt(c, "limit", 0, 0, 1000)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list(h.dash.Notifications.List(limit)))
}

// ClearNotifications empties the feed
func (h *InsightHandler) ClearNotifications(c echo.Context) error {
	h.dash.Notifications.Clear()
	return c.NoContent(http.StatusNoContent)
}
