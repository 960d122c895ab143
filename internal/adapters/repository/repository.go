package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskmaster/dashboard/internal/domain/entities"
	"github.com/taskmaster/dashboard/internal/ports"
)

// ErrDuplicateID is returned when a record with the same id already exists
var ErrDuplicateID = errors.New("duplicate id")

// NewRepositories creates empty in-memory repositories for every store
func NewRepositories() ports.Repositories {
	return ports.Repositories{
		Tasks:    NewTaskRepository(),
		Meetings: NewMeetingRepository(),
		Projects: NewProjectRepository(),
	}
}

// TaskRepositoryImpl implements the TaskRepository interface in memory
type TaskRepositoryImpl struct {
	tasks *collection[entities.Task]
}

// NewTaskRepository creates a new task repository
func NewTaskRepository() ports.TaskRepository {
	return &TaskRepositoryImpl{
		tasks: newCollection(
			func(t entities.Task) string { return t.ID },
			func(t entities.Task) entities.Task { return t.Clone() },
		),
	}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task entities.Task) error {
	if !r.tasks.insert(task) {
		return fmt.Errorf("create task %q: %w", task.ID, ErrDuplicateID)
	}
	return nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id string) (entities.Task, error) {
	task, ok := r.tasks.get(id)
	if !ok {
		return entities.Task{}, entities.NewNotFoundError("task", id)
	}
	return task, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task entities.Task) error {
	if !r.tasks.replace(task) {
		return entities.NewNotFoundError("task", task.ID)
	}
	return nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	return r.tasks.remove(id), nil
}

func (r *TaskRepositoryImpl) List(ctx context.Context) ([]entities.Task, error) {
	return r.tasks.list(), nil
}

func (r *TaskRepositoryImpl) ReplaceAll(ctx context.Context, tasks []entities.Task) error {
	r.tasks.reset(tasks)
	return nil
}

// MeetingRepositoryImpl implements the MeetingRepository interface in memory
type MeetingRepositoryImpl struct {
	meetings *collection[entities.Meeting]
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository() ports.MeetingRepository {
	return &MeetingRepositoryImpl{
		meetings: newCollection(
			func(m entities.Meeting) string { return m.ID },
			func(m entities.Meeting) entities.Meeting { return m },
		),
	}
}

func (r *MeetingRepositoryImpl) Create(ctx context.Context, meeting entities.Meeting) error {
	if !r.meetings.insert(meeting) {
		return fmt.Errorf("create meeting %q: %w", meeting.ID, ErrDuplicateID)
	}
	return nil
}

func (r *MeetingRepositoryImpl) GetByID(ctx context.Context, id string) (entities.Meeting, error) {
	meeting, ok := r.meetings.get(id)
	if !ok {
		return entities.Meeting{}, entities.NewNotFoundError("meeting", id)
	}
	return meeting, nil
}

func (r *MeetingRepositoryImpl) Update(ctx context.Context, meeting entities.Meeting) error {
	if !r.meetings.replace(meeting) {
		return entities.NewNotFoundError("meeting", meeting.ID)
	}
	return nil
}

func (r *MeetingRepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	return r.meetings.remove(id), nil
}

func (r *MeetingRepositoryImpl) List(ctx context.Context) ([]entities.Meeting, error) {
	return r.meetings.list(), nil
}

func (r *MeetingRepositoryImpl) ReplaceAll(ctx context.Context, meetings []entities.Meeting) error {
	r.meetings.reset(meetings)
	return nil
}

// ProjectRepositoryImpl implements the ProjectRepository interface in memory
type ProjectRepositoryImpl struct {
	projects *collection[entities.Project]
}

// NewProjectRepository creates a new project repository
func NewProjectRepository() ports.ProjectRepository {
	return &ProjectRepositoryImpl{
		projects: newCollection(
			func(p entities.Project) string { return p.ID },
			func(p entities.Project) entities.Project { return p.Clone() },
		),
	}
}

func (r *ProjectRepositoryImpl) Create(ctx context.Context, project entities.Project) error {
	if !r.projects.insert(project) {
		return fmt.Errorf("create project %q: %w", project.ID, ErrDuplicateID)
	}
	return nil
}

func (r *ProjectRepositoryImpl) GetByID(ctx context.Context, id string) (entities.Project, error) {
	project, ok := r.projects.get(id)
	if !ok {
		return entities.Project{}, entities.NewNotFoundError("project", id)
	}
	return project, nil
}

func (r *ProjectRepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	return r.projects.remove(id), nil
}

func (r *ProjectRepositoryImpl) List(ctx context.Context) ([]entities.Project, error) {
	return r.projects.list(), nil
}

func (r *ProjectRepositoryImpl) ReplaceAll(ctx context.Context, projects []entities.Project) error {
	r.projects.reset(projects)
	return nil
}
