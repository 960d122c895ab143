package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/taskmaster/dashboard/internal/application/events"
	"github.com/taskmaster/dashboard/internal/domain/entities"
)

// DefaultNotificationCapacity bounds the feed when no capacity is configured
const DefaultNotificationCapacity = 50

// Notification is one toast shown to the user
type Notification struct {
	Type        events.Type `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	At          time.Time   `json:"at"`
}

// NotificationFeed keeps the most recent notifications, newest first
type NotificationFeed struct {
	mu       sync.RWMutex
	items    []Notification
	capacity int

	unsubscribe func()
}

// NewNotificationFeed creates a feed holding at most capacity entries
func NewNotificationFeed(capacity int) *NotificationFeed {
	if capacity <= 0 {
		capacity = DefaultNotificationCapacity
	}
	return &NotificationFeed{capacity: capacity}
}

// Attach subscribes the feed to bus
func (f *NotificationFeed) Attach(bus *events.Bus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unsubscribe != nil {
		return
	}
	f.unsubscribe = bus.Subscribe(f.handle)
}

// Detach stops recording events
func (f *NotificationFeed) Detach() {
	f.mu.Lock()
	unsubscribe := f.unsubscribe
	f.unsubscribe = nil
	f.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (f *NotificationFeed) handle(evt events.Event) {
	n, ok := notificationFor(evt)
	if !ok {
		return
	}
	f.Push(n)
}

// Push records n at the head of the feed, dropping the oldest entry when full.
func (f *NotificationFeed) Push(n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append([]Notification{n}, f.items...)
	if len(f.items) > f.capacity {
		f.items = f.items[:f.capacity]
	}
}

// List returns up to limit notifications, newest first. limit <= 0 returns
// everything.
func (f *NotificationFeed) List(limit int) []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	n := len(f.items)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Notification, n)
	copy(out, f.items[:n])
	return out
}

// Clear empties the feed
func (f *NotificationFeed) Clear() {
	f.mu.Lock()
	f.items = nil
	f.mu.Unlock()
}

func notificationFor(evt events.Event) (Notification, bool) {
	n := Notification{Type: evt.Type, At: evt.At}

	switch evt.Type {
	case events.TaskCreated:
		n.Title = "Task added successfully!"
		n.Description = fmt.Sprintf("%q has been added to %s.", evt.Task.Title, evt.Task.Status)
	case events.TaskUpdated:
		n.Title = "Task updated"
		n.Description = "The task has been successfully updated."
	case events.TaskDeleted:
		n.Title = "Task deleted"
		n.Description = "The task has been permanently removed."
	case events.TaskCompleted:
		n.Title = "Task completed!"
		n.Description = "Great job on finishing this task!"
	case events.TaskStatusChanged:
		if evt.PreviousStatus != entities.TaskStatusDone || evt.Task.Status != entities.TaskStatusTodo {
			return Notification{}, false
		}
		n.Title = "Task reopened"
		n.Description = "The task has been moved back to your to-do list."
	case events.MeetingCreated:
		n.Title = "Meeting scheduled!"
		n.Description = fmt.Sprintf("%q has been scheduled for %s at %s.",
			evt.Meeting.Title, evt.Meeting.Date.At(entities.TimeOfDay{}, time.UTC).Format("Jan 2"), evt.Meeting.Time)
	case events.MeetingUpdated:
		n.Title = "Meeting updated"
		n.Description = fmt.Sprintf("%q has been updated.", evt.Meeting.Title)
	case events.MeetingDeleted:
		n.Title = "Meeting cancelled"
		n.Description = fmt.Sprintf("%q has been removed.", evt.Meeting.Title)
	case events.ProjectCreated:
		n.Title = "Project created!"
		n.Description = fmt.Sprintf("%q has been created successfully.", evt.Project.Name)
	case events.ProjectDeleted:
		n.Title = "Project deleted"
		n.Description = fmt.Sprintf("%q has been removed.", evt.Project.Name)
	case events.ReminderRaised:
		n.Title = "Deadline approaching"
		n.Description = evt.Reminder.Message
	default:
		return Notification{}, false
	}
	return n, true
}
