package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/dashboard/internal/application/services"
	"github.com/taskmaster/dashboard/internal/application/views"
	"github.com/taskmaster/dashboard/internal/domain/entities"
	"github.com/taskmaster/dashboard/internal/infrastructure/logger"
	"github.com/taskmaster/dashboard/internal/ports"
)

// TaskHandler handles task, board and calendar requests
type TaskHandler struct {
	dash   *services.Dashboard
	logger *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(dash *services.Dashboard, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		dash:   dash,
		logger: logger,
	}
}

// ListTasks godoc
// @Summary List tasks
// @Description List tasks, optionally filtered by tab and sorted
// @Tags tasks
// @Produce json
// @Param filter query string false "all, completed, pending or overdue"
// @Param sort query string false "dueDate-asc, dueDate-desc, priority-asc or priority-desc"
// @Success 200 {object} ports.ListResponse[entities.Task]
// @Failure 400 {object} ports.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	filter, err := views.ParseTaskFilter(c.QueryParam("filter"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	order, err := views.ParseSortOrder(c.QueryParam("sort"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tasks, err := h.dash.Tasks.List(c.Request().Context())
	if err != nil {
		return err
	}

	tasks = views.SortTasks(views.FilterTasks(tasks, filter, h.dash.Today()), order)
	return c.JSON(http.StatusOK, list(tasks))
}

// CreateTask godoc
// @Summary Create a task
// @Description Create a task from the add-task form, optionally with a meeting
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body ports.CreateTaskRequest true "Task data"
// @Success 201 {object} entities.Task
// @Failure 422 {object} ports.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.dash.Tasks.Create(c.Request().Context(), req)
	if err != nil {
		h.logger.Debugw("Create task rejected", "error", err)
		return err
	}

	return c.JSON(http.StatusCreated, task)
}

// GetTask godoc
// @Summary Get task by ID
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} entities.Task
// @Failure 404 {object} ports.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c echo.Context) error {
	task, err := h.dash.Tasks.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// UpdateTask godoc
// @Summary Update a task
// @Description Apply the edit dialog; omitted fields keep their value
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body ports.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} entities.Task
// @Failure 404 {object} ports.ErrorResponse
// @Failure 422 {object} ports.ErrorResponse
// @Router /tasks/{id} [patch]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	var req ports.UpdateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.dash.Tasks.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete a task
// @Description Unknown ids succeed without effect
// @Tags tasks
// @Param id path string true "Task ID"
// @Success 204
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	if err := h.dash.Tasks.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetStatus godoc
// @Summary Move a task to another column
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body ports.SetStatusRequest true "Target status"
// @Success 200 {object} entities.Task
// @Failure 404 {object} ports.ErrorResponse
// @Failure 422 {object} ports.ErrorResponse
// @Router /tasks/{id}/status [put]
func (h *TaskHandler) SetStatus(c echo.Context) error {
	var req ports.SetStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.dash.Tasks.SetStatus(c.Request().Context(), c.Param("id"), entities.TaskStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// ToggleDone godoc
// @Summary Toggle the done checkbox
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} entities.Task
// @Failure 404 {object} ports.ErrorResponse
// @Router /tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleDone(c echo.Context) error {
	task, err := h.dash.Tasks.ToggleDone(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// DueToday lists the tasks due on the current date
func (h *TaskHandler) DueToday(c echo.Context) error {
	tasks, err := h.dash.Tasks.List(c.Request().Context())
	if err != nil {
		return err
	}
	day := views.BuildDayBucket(h.dash.Today(), tasks, nil, h.dash.Today())
	return c.JSON(http.StatusOK, list(day.Tasks))
}

// Board godoc
// @Summary Kanban board
// @Tags board
// @Produce json
// @Success 200 {object} views.Board
// @Router /board [get]
func (h *TaskHandler) Board(c echo.Context) error {
	tasks, err := h.dash.Tasks.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views.BuildBoard(tasks))
}

// CalendarMonth godoc
// @Summary Calendar month grid
// @Tags calendar
// @Produce json
// @Param year query int false "Year, defaults to the current one"
// @Param month query int false "Month 1-12, defaults to the current one"
// @Success 200 {object} views.CalendarMonth
// @Failure 400 {object} ports.ErrorResponse
// @Router /calendar [get]
func (h *TaskHandler) CalendarMonth(c echo.Context) error {
	today := h.dash.Today()

	year, err := queryInt(c, "year", today.Year, 1, 9999)
	if err != nil {
		return err
	}
	month, err := queryInt(c, "month", int(today.Month), 1, 12)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	tasks, err := h.dash.Tasks.List(ctx)
	if err != nil {
		return err
	}
	meetings, err := h.dash.Meetings.List(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, views.BuildCalendarMonth(year, time.Month(month), tasks, meetings, today))
}

// CalendarDay godoc
// @Summary Tasks and meetings on one date
// @Tags calendar
// @Produce json
// @Param date path string true "Date as yyyy-MM-dd"
// @Success 200 {object} views.DayBucket
// @Failure 400 {object} ports.ErrorResponse
// @Router /calendar/{date} [get]
func (h *TaskHandler) CalendarDay(c echo.Context) error {
	date, err := entities.ParseDate(c.Param("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date")
	}

	ctx := c.Request().Context()
	tasks, err := h.dash.Tasks.List(ctx)
	if err != nil {
		return err
	}
	meetings, err := h.dash.Meetings.ForDate(ctx, date)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, views.BuildDayBucket(date, tasks, meetings, h.dash.Today()))
}
