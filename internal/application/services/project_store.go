package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/taskmaster/dashboard/internal/application/events"
	"github.com/taskmaster/dashboard/internal/application/validation"
	"github.com/taskmaster/dashboard/internal/domain/entities"
	"github.com/taskmaster/dashboard/internal/infrastructure/logger"
	"github.com/taskmaster/dashboard/internal/ports"
)

// DefaultSprintDuration is the sprint length in weeks for scrum projects
const DefaultSprintDuration = 2

// ProjectStore handles project-related operations
type ProjectStore struct {
	mu        sync.Mutex
	repo      ports.ProjectRepository
	members   ports.MemberLookup
	bus       *events.Bus
	validator *validation.Validator
	ids       *IDGenerator
	clock     ports.Clock
	logger    *logger.Logger
}

// NewProjectStore creates a new project store
func NewProjectStore(repo ports.ProjectRepository, members ports.MemberLookup, deps Deps) *ProjectStore {
	deps = deps.withDefaults()
	return &ProjectStore{
		repo:      repo,
		members:   members,
		bus:       deps.Bus,
		validator: deps.Validator,
		ids:       deps.IDs,
		clock:     deps.Clock,
		logger:    deps.Logger.WithComponent("project_store"),
	}
}

// Create validates the add-project form and stores the project
func (s *ProjectStore) Create(ctx context.Context, req ports.CreateProjectRequest) (entities.Project, error) {
	verr, err := structErrors(s.validator, req)
	if err != nil {
		return entities.Project{}, err
	}

	start, startErr := entities.ParseDate(req.StartDate)
	end, endErr := entities.ParseDate(req.EndDate)
	if startErr == nil && endErr == nil && end.Before(start) {
		verr.Add("endDate", "End date must be after start date")
	}

	team := make([]entities.Assignee, 0, len(req.TeamMemberIDs))
	seen := make(map[string]struct{}, len(req.TeamMemberIDs))
	for _, id := range req.TeamMemberIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		member, err := s.members.Member(ctx, id)
		if errors.Is(err, entities.ErrNotFound) {
			verr.Add("team", fmt.Sprintf("Unknown team member %q", id))
			continue
		}
		if err != nil {
			return entities.Project{}, fmt.Errorf("failed to resolve team member: %w", err)
		}
		team = append(team, member.AsAssignee())
	}
	if verr.HasErrors() {
		return entities.Project{}, verr
	}

	project := entities.Project{
		Name:           strings.TrimSpace(req.Name),
		Description:    strings.TrimSpace(req.Description),
		StartDate:      start,
		EndDate:        end,
		Status:         entities.ProjectStatus(req.Status),
		Team:           team,
		ProjectType:    entities.ProjectType(req.ProjectType),
		SprintDuration: req.SprintDuration,
	}
	if project.Status == "" {
		project.Status = entities.ProjectStatusPlanning
	}
	if project.ProjectType == "" {
		project.ProjectType = entities.ProjectTypeScrum
	}
	if project.SprintDuration == 0 {
		project.SprintDuration = DefaultSprintDuration
	}

	s.mu.Lock()
	project.ID = s.ids.Next("project")
	if err := s.repo.Create(ctx, project); err != nil {
		s.mu.Unlock()
		return entities.Project{}, fmt.Errorf("failed to create project: %w", err)
	}
	s.bus.Enqueue(s.event(events.ProjectCreated, project))
	s.mu.Unlock()
	s.bus.Flush()

	s.logger.LogStoreMutation("project", "create", project.ID, map[string]interface{}{
		"name":      project.Name,
		"team_size": len(project.Team),
	})
	return project.Clone(), nil
}

// Remove deletes a project. Unknown ids are ignored.
func (s *ProjectStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	current, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, entities.ErrNotFound) {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to delete project: %w", err)
	}
	s.bus.Enqueue(s.event(events.ProjectDeleted, current))
	s.mu.Unlock()
	s.bus.Flush()

	s.logger.LogStoreMutation("project", "delete", id, nil)
	return nil
}

// Seed replaces every project with the given fixtures
func (s *ProjectStore) Seed(ctx context.Context, projects []entities.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.ReplaceAll(ctx, projects); err != nil {
		return fmt.Errorf("failed to seed projects: %w", err)
	}
	return nil
}

// Get returns one project
func (s *ProjectStore) Get(ctx context.Context, id string) (entities.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every project in creation order
func (s *ProjectStore) List(ctx context.Context) ([]entities.Project, error) {
	return s.repo.List(ctx)
}

func (s *ProjectStore) event(typ events.Type, project entities.Project) events.Event {
	p := project.Clone()
	return events.Event{Type: typ, At: s.clock.Now(), Project: &p}
}
