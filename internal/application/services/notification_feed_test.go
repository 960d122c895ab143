package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/dashboard/internal/application/events"
	"github.com/taskmaster/dashboard/internal/domain/entities"
	"github.com/taskmaster/dashboard/internal/ports"
)

func titles(items []Notification) []string {
	out := make([]string, 0, len(items))
	for _, n := range items {
		out = append(out, n.Title)
	}
	return out
}

func TestNotificationFeedRecordsStoreEvents(t *testing.T) {
	d := newTestDashboard(t)
	ctx := context.Background()

	task, err := d.Tasks.Create(ctx, validTask("Ship"))
	require.NoError(t, err)
	_, err = d.Tasks.ToggleDone(ctx, task.ID)
	require.NoError(t, err)
	_, err = d.Tasks.ToggleDone(ctx, task.ID)
	require.NoError(t, err)
	_, err = d.Meetings.Create(ctx, ports.CreateMeetingRequest{
		Title: "Retro", Date: "2025-04-25", Time: "16:00", Link: "https://meet",
	})
	require.NoError(t, err)
	require.NoError(t, d.Tasks.Remove(ctx, task.ID))

	assert.Equal(t, []string{
		"Task deleted",
		"Meeting scheduled!",
		"Task reopened",
		"Task completed!",
		"Task added successfully!",
	}, titles(d.Notifications.List(0)))

	latest := d.Notifications.List(2)
	require.Len(t, latest, 2)
	assert.Equal(t, `"Retro" has been scheduled for Apr 25 at 16:00.`, latest[1].Description)
}

func TestNotificationFeedIsBounded(t *testing.T) {
	feed := NewNotificationFeed(3)
	for i := 0; i < 5; i++ {
		feed.Push(Notification{Title: fmt.Sprintf("n%d", i), At: testNow})
	}
	assert.Equal(t, []string{"n4", "n3", "n2"}, titles(feed.List(0)))

	feed.Clear()
	assert.Empty(t, feed.List(0))
}

func TestNotificationFeedSkipsLoads(t *testing.T) {
	bus := events.NewBus(nil)
	feed := NewNotificationFeed(0)
	feed.Attach(bus)
	defer feed.Detach()

	bus.Publish(events.Event{Type: events.TasksLoaded, At: testNow})
	task := entities.Task{ID: "task-1", Status: entities.TaskStatusReview}
	bus.Publish(events.Event{Type: events.TaskStatusChanged, At: testNow, Task: &task, PreviousStatus: entities.TaskStatusTodo})
	assert.Empty(t, feed.List(0))

	reminder := entities.Reminder{TaskID: "task-1", Message: "soon", RaisedAt: testNow}
	bus.Publish(events.Event{Type: events.ReminderRaised, At: time.Time{}, Reminder: &reminder})
	assert.Equal(t, []string{"Deadline approaching"}, titles(feed.List(0)))
}
