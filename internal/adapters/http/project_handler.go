package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/dashboard/internal/application/services"
	"github.com/taskmaster/dashboard/internal/infrastructure/logger"
	"github.com/taskmaster/dashboard/internal/ports"
)

// ProjectHandler handles project-related requests
type ProjectHandler struct {
	dash   *services.Dashboard
	logger *logger.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(dash *services.Dashboard, logger *logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		dash:   dash,
		logger: logger,
	}
}

// CreateProject godoc
// @Summary Create a new project
// @Description Create a new project with the provided details
// @Tags projects
// @Accept json
// @Produce json
// @Param request body ports.CreateProjectRequest true "Project data"
// @Success 201 {object} entities.Project
// @Failure 422 {object} ports.ErrorResponse
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	var req ports.CreateProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := h.dash.Projects.Create(c.Request().Context(), req)
	if err != nil {
		h.logger.Debugw("Create project rejected", "error", err)
		return err
	}

	return c.JSON(http.StatusCreated, project)
}

// GetProject godoc
// @Summary Get project by ID
// @Description Get project information by project ID
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} entities.Project
// @Failure 404 {object} ports.ErrorResponse
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProject(c echo.Context) error {
	project, err := h.dash.Projects.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// ListProjects godoc
// @Summary List projects
// @Tags projects
// @Produce json
// @Success 200 {object} ports.ListResponse[entities.Project]
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	projects, err := h.dash.Projects.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list(projects))
}

// DeleteProject godoc
// @Summary Delete project
// @Tags projects
// @Param id path string true "Project ID"
// @Success 204
// @Router /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	if err := h.dash.Projects.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// TeamHandler serves the read-only team directory
type TeamHandler struct {
	dash   *services.Dashboard
	logger *logger.Logger
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(dash *services.Dashboard, logger *logger.Logger) *TeamHandler {
	return &TeamHandler{
		dash:   dash,
		logger: logger,
	}
}

// ListMembers godoc
// @Summary List team members
// @Tags team
// @Produce json
// @Param q query string false "Matches name, role or department"
// @Param department query string false "Department, or all"
// @Success 200 {object} ports.ListResponse[entities.TeamMember]
// @Router /team [get]
func (h *TeamHandler) ListMembers(c echo.Context) error {
	members := h.dash.Team.Search(c.QueryParam("q"), c.QueryParam("department"))
	return c.JSON(http.StatusOK, list(members))
}

// GetMember godoc
// @Summary Get team member by ID
// @Tags team
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} entities.TeamMember
// @Failure 404 {object} ports.ErrorResponse
// @Router /team/{id} [get]
func (h *TeamHandler) GetMember(c echo.Context) error {
	member, err := h.dash.Team.Get(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, member)
}

// Departments lists the department filter values
func (h *TeamHandler) Departments(c echo.Context) error {
	return c.JSON(http.StatusOK, list(h.dash.Team.Departments()))
}
