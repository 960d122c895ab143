package services

import (
	"context"
	"fmt"
	"time"

	"github.com/taskmaster/dashboard/internal/application/events"
	"github.com/taskmaster/dashboard/internal/application/validation"
	"github.com/taskmaster/dashboard/internal/domain/entities"
	"github.com/taskmaster/dashboard/internal/infrastructure/logger"
	"github.com/taskmaster/dashboard/internal/ports"
)

// Options configures a Dashboard
type Options struct {
	Clock                ports.Clock
	Logger               *logger.Logger
	ReminderWindowDays   int
	ReminderDisplay      time.Duration
	NotificationCapacity int
}

// Fixtures is the sample data a dashboard starts with
type Fixtures struct {
	Team     []entities.TeamMember
	Projects []entities.Project
	Meetings []entities.Meeting
	Tasks    []entities.Task
}

// Dashboard wires every store to one bus. Presentation layers receive it
// instead of reaching for shared globals.
type Dashboard struct {
	Bus           *events.Bus
	Tasks         *TaskStore
	Meetings      *MeetingStore
	Projects      *ProjectStore
	Team          *TeamDirectory
	Reminders     *ReminderEvaluator
	Notifications *NotificationFeed

	clock  ports.Clock
	logger *logger.Logger
}

// NewDashboard builds the stores on top of repos
func NewDashboard(repos ports.Repositories, opts Options) *Dashboard {
	if opts.Clock == nil {
		opts.Clock = ports.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}

	bus := events.NewBus(opts.Logger.WithComponent("events"))
	deps := Deps{
		Bus:       bus,
		Validator: validation.New(),
		IDs:       NewIDGenerator(opts.Clock),
		Clock:     opts.Clock,
		Logger:    opts.Logger,
	}

	team := NewTeamDirectory(nil)
	d := &Dashboard{
		Bus:           bus,
		Team:          team,
		Tasks:         NewTaskStore(repos.Tasks, team, deps),
		Meetings:      NewMeetingStore(repos.Meetings, deps),
		Projects:      NewProjectStore(repos.Projects, team, deps),
		Reminders:     NewReminderEvaluator(bus, opts.Clock, opts.ReminderWindowDays, opts.ReminderDisplay, opts.Logger),
		Notifications: NewNotificationFeed(opts.NotificationCapacity),
		clock:         opts.Clock,
		logger:        opts.Logger,
	}

	d.Notifications.Attach(bus)
	d.Reminders.Start()
	return d
}

// Load replaces all state with fixtures. Tasks go last so the reminder
// evaluator sees the complete picture.
func (d *Dashboard) Load(ctx context.Context, fx Fixtures) error {
	d.Team.Load(fx.Team)

	if err := d.Projects.Seed(ctx, fx.Projects); err != nil {
		return fmt.Errorf("load dashboard: %w", err)
	}
	if err := d.Meetings.Seed(ctx, fx.Meetings); err != nil {
		return fmt.Errorf("load dashboard: %w", err)
	}
	if err := d.Tasks.Seed(ctx, fx.Tasks); err != nil {
		return fmt.Errorf("load dashboard: %w", err)
	}

	d.logger.Infow("Dashboard loaded",
		"team", len(fx.Team),
		"projects", len(fx.Projects),
		"meetings", len(fx.Meetings),
		"tasks", len(fx.Tasks),
	)
	return nil
}

// Now is the dashboard clock's current instant
func (d *Dashboard) Now() time.Time {
	return d.clock.Now()
}

// Today is the current civil date in the dashboard clock's location
func (d *Dashboard) Today() entities.Date {
	return entities.DateOf(d.clock.Now())
}

// Close detaches the built-in subscribers
func (d *Dashboard) Close() {
	d.Reminders.Stop()
	d.Notifications.Detach()
}
