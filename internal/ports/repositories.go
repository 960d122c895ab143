package ports

import (
	"context"
	"time"

	"github.com/taskmaster/dashboard/internal/domain/entities"
)

// TaskRepository defines the interface for task data operations.
// Implementations keep insertion order and hand out copies.
type TaskRepository interface {
	Create(ctx context.Context, task entities.Task) error
	GetByID(ctx context.Context, id string) (entities.Task, error)
	Update(ctx context.Context, task entities.Task) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]entities.Task, error)
	ReplaceAll(ctx context.Context, tasks []entities.Task) error
}

// MeetingRepository defines the interface for meeting data operations
type MeetingRepository interface {
	Create(ctx context.Context, meeting entities.Meeting) error
	GetByID(ctx context.Context, id string) (entities.Meeting, error)
	Update(ctx context.Context, meeting entities.Meeting) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]entities.Meeting, error)
	ReplaceAll(ctx context.Context, meetings []entities.Meeting) error
}

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	Create(ctx context.Context, project entities.Project) error
	GetByID(ctx context.Context, id string) (entities.Project, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]entities.Project, error)
	ReplaceAll(ctx context.Context, projects []entities.Project) error
}

// Repositories groups the storage the dashboard stores are built on
type Repositories struct {
	Tasks    TaskRepository
	Meetings MeetingRepository
	Projects ProjectRepository
}

// MemberLookup resolves team member ids into directory entries
type MemberLookup interface {
	Member(ctx context.Context, id string) (entities.TeamMember, error)
}

// Clock supplies the current instant. Dates derived from it use the
// location of the returned time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in Location (UTC when nil).
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// FixedClock always returns the same instant.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
