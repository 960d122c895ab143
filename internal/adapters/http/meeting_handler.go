package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/dashboard/internal/application/services"
	"github.com/taskmaster/dashboard/internal/infrastructure/logger"
	"github.com/taskmaster/dashboard/internal/ports"
)

// MeetingHandler handles meeting requests
type MeetingHandler struct {
	dash   *services.Dashboard
	logger *logger.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(dash *services.Dashboard, logger *logger.Logger) *MeetingHandler {
	return &MeetingHandler{
		dash:   dash,
		logger: logger,
	}
}

// ListMeetings godoc
// @Summary List meetings
// @Description List meetings of a tab ordered by start, optionally searched by title
// @Tags meetings
// @Produce json
// @Param range query string false "upcoming (default), past, today or all"
// @Param q query string false "Title search"
// @Success 200 {object} ports.ListResponse[entities.Meeting]
// @Failure 400 {object} ports.ErrorResponse
// @Router /meetings [get]
func (h *MeetingHandler) ListMeetings(c echo.Context) error {
	r, err := services.ParseMeetingRange(c.QueryParam("range"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	meetings, err := h.dash.Meetings.Find(c.Request().Context(), r, c.QueryParam("q"), h.dash.Now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list(meetings))
}

// CreateMeeting godoc
// @Summary Schedule a meeting
// @Tags meetings
// @Accept json
// @Produce json
// @Param request body ports.CreateMeetingRequest true "Meeting data"
// @Success 201 {object} entities.Meeting
// @Failure 422 {object} ports.ErrorResponse
// @Router /meetings [post]
func (h *MeetingHandler) CreateMeeting(c echo.Context) error {
	var req ports.CreateMeetingRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	meeting, err := h.dash.Meetings.Create(c.Request().Context(), req)
	if err != nil {
		h.logger.Debugw("Create meeting rejected", "error", err)
		return err
	}
	return c.JSON(http.StatusCreated, meeting)
}

// GetMeeting godoc
// @Summary Get meeting by ID
// @Tags meetings
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} entities.Meeting
// @Failure 404 {object} ports.ErrorResponse
// @Router /meetings/{id} [get]
func (h *MeetingHandler) GetMeeting(c echo.Context) error {
	meeting, err := h.dash.Meetings.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meeting)
}

// UpdateMeeting godoc
// @Summary Update a meeting
// @Tags meetings
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param request body ports.UpdateMeetingRequest true "Fields to change"
// @Success 200 {object} entities.Meeting
// @Failure 404 {object} ports.ErrorResponse
// @Failure 422 {object} ports.ErrorResponse
// @Router /meetings/{id} [patch]
func (h *MeetingHandler) UpdateMeeting(c echo.Context) error {
	var req ports.UpdateMeetingRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	meeting, err := h.dash.Meetings.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meeting)
}

// DeleteMeeting godoc
// @Summary Cancel a meeting
// @Tags meetings
// @Param id path string true "Meeting ID"
// @Success 204
// @Router /meetings/{id} [delete]
func (h *MeetingHandler) DeleteMeeting(c echo.Context) error {
	if err := h.dash.Meetings.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// HappeningNow godoc
// @Summary Meetings in progress
// @Tags meetings
// @Produce json
// @Success 200 {object} ports.ListResponse[entities.Meeting]
// @Router /meetings/now [get]
func (h *MeetingHandler) HappeningNow(c echo.Context) error {
	meetings, err := h.dash.Meetings.HappeningNow(c.Request().Context(), h.dash.Now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list(meetings))
}
