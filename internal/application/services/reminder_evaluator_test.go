package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/dashboard/internal/application/events"
	"github.com/taskmaster/dashboard/internal/domain/entities"
	"github.com/taskmaster/dashboard/internal/ports"
)

// movableClock is a clock tests can advance.
type movableClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *movableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *movableClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func dueIn(days int) string {
	return entities.DateOf(testNow).AddDays(days).String()
}

func TestReminderRaisedForTaskInsideWindow(t *testing.T) {
	d := newTestDashboard(t)
	ctx := context.Background()
	rec := record(d.Bus)

	req := validTask("Close deadline")
	req.DueDate = dueIn(2)
	task, err := d.Tasks.Create(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, []events.Type{events.TaskCreated, events.ReminderRaised}, rec.types())

	reminder, ok := d.Reminders.Current()
	require.True(t, ok)
	assert.Equal(t, task.ID, reminder.TaskID)
	assert.Equal(t, "Close deadline", reminder.TaskTitle)
	assert.Equal(t, 2, reminder.DaysLeft)
	assert.Contains(t, reminder.Message, `"Close deadline"`)
}

func TestReminderWindowBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		days   int
		status string
		fires  bool
	}{
		{name: "due today", days: 0, fires: true},
		{name: "due at window edge", days: 2, fires: true},
		{name: "beyond window", days: 3, fires: false},
		{name: "already overdue", days: -1, fires: false},
		{name: "done task", days: 1, status: "done", fires: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDashboard(t)
			req := validTask(tt.name)
			req.DueDate = dueIn(tt.days)
			req.Status = tt.status

			_, err := d.Tasks.Create(context.Background(), req)
			require.NoError(t, err)

			_, ok := d.Reminders.Current()
			assert.Equal(t, tt.fires, ok)
		})
	}
}

func TestReminderSlotBlocksUntilDismissed(t *testing.T) {
	d := newTestDashboard(t)
	ctx := context.Background()
	rec := record(d.Bus)

	first := validTask("First")
	first.DueDate = dueIn(1)
	_, err := d.Tasks.Create(ctx, first)
	require.NoError(t, err)

	second := validTask("Second")
	second.DueDate = dueIn(0)
	_, err = d.Tasks.Create(ctx, second)
	require.NoError(t, err)

	assert.Equal(t, 1, rec.count(events.ReminderRaised))
	reminder, _ := d.Reminders.Current()
	assert.Equal(t, "First", reminder.TaskTitle)

	assert.True(t, d.Reminders.Dismiss())
	assert.False(t, d.Reminders.Dismiss())
	assert.Equal(t, 1, rec.count(events.ReminderCleared))

	// dismissing alone does not re-evaluate
	assert.Equal(t, 1, rec.count(events.ReminderRaised))
	_, ok := d.Reminders.Current()
	assert.False(t, ok)

	// the next list change does
	third := validTask("Far away")
	third.DueDate = dueIn(30)
	_, err = d.Tasks.Create(ctx, third)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.count(events.ReminderRaised))

	reminder, _ = d.Reminders.Current()
	assert.Equal(t, "First", reminder.TaskTitle, "first match in list order wins")
}

func TestReminderAcknowledgeFreesSlot(t *testing.T) {
	d := newTestDashboard(t)
	ctx := context.Background()

	req := validTask("Ack")
	req.DueDate = dueIn(1)
	task, err := d.Tasks.Create(ctx, req)
	require.NoError(t, err)

	assert.True(t, d.Reminders.Acknowledge())
	_, ok := d.Reminders.Current()
	assert.False(t, ok)

	// completing the task changes the list; nothing left to remind about
	_, err = d.Tasks.SetStatus(ctx, task.ID, entities.TaskStatusDone)
	require.NoError(t, err)
	_, ok = d.Reminders.Current()
	assert.False(t, ok)
}

func TestReminderVisibilityExpires(t *testing.T) {
	clock := &movableClock{now: testNow}
	bus := events.NewBus(nil)
	r := NewReminderEvaluator(bus, clock, 2, 5*time.Second, nil)

	tasks := []entities.Task{{
		ID: "task-1", Title: "Soon", Status: entities.TaskStatusTodo,
		DueDate: entities.DateOf(testNow).AddDays(1),
	}}
	_, raised := r.Evaluate(tasks)
	require.True(t, raised)

	_, visible := r.Visible()
	assert.True(t, visible)

	clock.Advance(5 * time.Second)
	_, visible = r.Visible()
	assert.False(t, visible)

	_, occupied := r.Current()
	assert.True(t, occupied, "hidden reminder still occupies the slot")

	_, raised = r.Evaluate(tasks)
	assert.False(t, raised)
}

func TestReminderIgnoresEventsAfterStop(t *testing.T) {
	bus := events.NewBus(nil)
	r := NewReminderEvaluator(bus, ports.FixedClock(testNow), 2, 0, nil)
	r.Start()
	r.Stop()

	task := entities.Task{ID: "task-1", Title: "Soon", Status: entities.TaskStatusTodo, DueDate: entities.DateOf(testNow)}
	bus.Publish(events.Event{Type: events.TaskCreated, Task: &task, Tasks: []entities.Task{task}})

	_, ok := r.Current()
	assert.False(t, ok)
}

func TestReminderOnlyReactsToListChanges(t *testing.T) {
	bus := events.NewBus(nil)
	r := NewReminderEvaluator(bus, ports.FixedClock(testNow), 2, 0, nil)
	r.Start()
	defer r.Stop()

	task := entities.Task{ID: "task-1", Title: "Soon", Status: entities.TaskStatusTodo, DueDate: entities.DateOf(testNow)}
	bus.Publish(events.Event{Type: events.TaskCompleted, Task: &task, Tasks: []entities.Task{task}})
	_, ok := r.Current()
	assert.False(t, ok)

	bus.Publish(events.Event{Type: events.TasksLoaded, Tasks: []entities.Task{task}})
	_, ok = r.Current()
	assert.True(t, ok)
}
