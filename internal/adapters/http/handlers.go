package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/dashboard/internal/application/services"
	"github.com/taskmaster/dashboard/internal/application/validation"
	"github.com/taskmaster/dashboard/internal/domain/entities"
	"github.com/taskmaster/dashboard/internal/infrastructure/logger"
	"github.com/taskmaster/dashboard/internal/ports"
)

// Handlers bundles every API handler around one dashboard
type Handlers struct {
	Tasks    *TaskHandler
	Meetings *MeetingHandler
	Projects *ProjectHandler
	Team     *TeamHandler
	Insights *InsightHandler
}

// NewHandlers creates the handlers for dash
func NewHandlers(dash *services.Dashboard, log *logger.Logger) *Handlers {
	log = log.WithComponent("http")
	return &Handlers{
		Tasks:    NewTaskHandler(dash, log),
		Meetings: NewMeetingHandler(dash, log),
		Projects: NewProjectHandler(dash, log),
		Team:     NewTeamHandler(dash, log),
		Insights: NewInsightHandler(dash, log),
	}
}

// Register mounts the API routes on v1
func (h *Handlers) Register(v1 *echo.Group) {
	// Task routes
	taskGroup := v1.Group("/tasks")
	taskGroup.GET("", h.Tasks.ListTasks)
	taskGroup.POST("", h.Tasks.CreateTask)
	taskGroup.GET("/today", h.Tasks.DueToday)
	taskGroup.GET("/:id", h.Tasks.GetTask)
	taskGroup.PATCH("/:id", h.Tasks.UpdateTask)
	taskGroup.DELETE("/:id", h.Tasks.DeleteTask)
	taskGroup.PUT("/:id/status", h.Tasks.SetStatus)
	taskGroup.POST("/:id/toggle", h.Tasks.ToggleDone)

	v1.GET("/board", h.Tasks.Board)
	v1.GET("/calendar", h.Tasks.CalendarMonth)
	v1.GET("/calendar/:date", h.Tasks.CalendarDay)

	// Meeting routes
	meetingGroup := v1.Group("/meetings")
	meetingGroup.GET("", h.Meetings.ListMeetings)
	meetingGroup.POST("", h.Meetings.CreateMeeting)
	meetingGroup.GET("/now", h.Meetings.HappeningNow)
	meetingGroup.GET("/:id", h.Meetings.GetMeeting)
	meetingGroup.PATCH("/:id", h.Meetings.UpdateMeeting)
	meetingGroup.DELETE("/:id", h.Meetings.DeleteMeeting)

	// Project routes
	projectGroup := v1.Group("/projects")
	projectGroup.GET("", h.Projects.ListProjects)
	projectGroup.POST("", h.Projects.CreateProject)
	projectGroup.GET("/:id", h.Projects.GetProject)
	projectGroup.DELETE("/:id", h.Projects.DeleteProject)

	// Team routes
	teamGroup := v1.Group("/team")
	teamGroup.GET("", h.Team.ListMembers)
	teamGroup.GET("/departments", h.Team.Departments)
	teamGroup.GET("/:id", h.Team.GetMember)

	// Analytics, reminders and notifications
	v1.GET("/analytics", h.Insights.Analytics)
	v1.GET("/analytics/team", h.Insights.TeamPerformance)
	v1.GET("/reminders", h.Insights.CurrentReminder)
	v1.POST("/reminders/dismiss", h.Insights.DismissReminder)
	v1.POST("/reminders/acknowledge", h.Insights.AcknowledgeReminder)
	v1.GET("/notifications", h.Insights.ListNotifications)
	v1.DELETE("/notifications", h.Insights.ClearNotifications)
}

// RequestValidator plugs the form validator into echo's c.Validate
type RequestValidator struct {
	validator *validation.Validator
}

// NewRequestValidator wraps v for use as echo.Echo.Validator
func NewRequestValidator(v *validation.Validator) *RequestValidator {
	return &RequestValidator{validator: v}
}

// Validate validates structs
func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.validator.Struct(i)
}

// ErrorHandler renders domain errors: validation failures become 422 with
// the field map, unknown ids become 404.
func ErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code, body := errorResponse(err)

		if code == http.StatusInternalServerError {
			log.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
			if c.Echo().Debug {
				body.Message = err.Error()
			}
		}

		if c.Response().Committed {
			return
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			log.Errorw("Error sending response", "error", err)
		}
	}
}

func errorResponse(err error) (int, ports.ErrorResponse) {
	var (
		verr *entities.ValidationError
		nf   *entities.NotFoundError
		he   *echo.HTTPError
	)

	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, ports.ErrorResponse{
			Message: "validation failed",
			Errors:  verr.Fields,
		}
	case errors.As(err, &nf):
		return http.StatusNotFound, ports.ErrorResponse{Message: nf.Error()}
	case errors.As(err, &he):
		return he.Code, ports.ErrorResponse{Message: fmt.Sprint(he.Message)}
	default:
		return http.StatusInternalServerError, ports.ErrorResponse{
			Message: http.StatusText(http.StatusInternalServerError),
		}
	}
}

func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	return nil
}

func queryInt(c echo.Context, name string, def, min, max int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid %s parameter", name))
	}
	return n, nil
}

func list[T any](items []T) ports.ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ports.ListResponse[T]{Data: items, Total: len(items)}
}
