package events

import (
	"sync"
	"time"

	"github.com/taskmaster/dashboard/internal/domain/entities"
	"github.com/taskmaster/dashboard/internal/infrastructure/logger"
)

// Type names a store event
type Type string

const (
	TaskCreated       Type = "task.created"
	TaskUpdated       Type = "task.updated"
	TaskDeleted       Type = "task.deleted"
	TaskStatusChanged Type = "task.status_changed"
	TaskCompleted     Type = "task.completed"
	TasksLoaded       Type = "tasks.loaded"

	MeetingCreated Type = "meeting.created"
	MeetingUpdated Type = "meeting.updated"
	MeetingDeleted Type = "meeting.deleted"

	ProjectCreated Type = "project.created"
	ProjectDeleted Type = "project.deleted"

	ReminderRaised  Type = "reminder.raised"
	ReminderCleared Type = "reminder.cleared"
)

// Event describes one committed change. Task events carry the task list as
// it stood right after the commit.
type Event struct {
	Type           Type                `json:"type"`
	At             time.Time           `json:"at"`
	Task           *entities.Task      `json:"task,omitempty"`
	PreviousStatus entities.TaskStatus `json:"previousStatus,omitempty"`
	Tasks          []entities.Task     `json:"-"`
	Meeting        *entities.Meeting   `json:"meeting,omitempty"`
	Project        *entities.Project   `json:"project,omitempty"`
	Reminder       *entities.Reminder  `json:"reminder,omitempty"`
}

// TaskListChanged reports whether the event changed the task snapshot.
func (e Event) TaskListChanged() bool {
	switch e.Type {
	case TaskCreated, TaskUpdated, TaskDeleted, TaskStatusChanged, TasksLoaded:
		return true
	default:
		return false
	}
}

// Handler receives events synchronously.
type Handler func(Event)

// Bus delivers events to subscribers in the order they were enqueued.
//
// Stores call Enqueue while still holding their own lock, which pins the
// delivery order to the commit order, and Flush after unlocking. Whoever
// flushes first drains the queue; publishes made from inside a handler are
// queued and delivered after the current event, never re-entrantly.
type Bus struct {
	subMu  sync.RWMutex
	subs   map[int]Handler
	order  []int
	nextID int

	queueMu  sync.Mutex
	queue    []Event
	draining bool

	logger *logger.Logger
}

// NewBus creates an event bus. logger may be nil.
func NewBus(log *logger.Logger) *Bus {
	return &Bus{
		subs:   make(map[int]Handler),
		logger: log,
	}
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.subMu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = h
	b.order = append(b.order, id)
	b.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.subMu.Lock()
			defer b.subMu.Unlock()
			delete(b.subs, id)
			for i, sid := range b.order {
				if sid == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Enqueue appends events without delivering them.
func (b *Bus) Enqueue(evts ...Event) {
	if len(evts) == 0 {
		return
	}
	b.queueMu.Lock()
	b.queue = append(b.queue, evts...)
	b.queueMu.Unlock()
}

// Flush delivers queued events unless another caller is already draining.
func (b *Bus) Flush() {
	b.queueMu.Lock()
	if b.draining {
		b.queueMu.Unlock()
		return
	}
	b.draining = true

	for len(b.queue) > 0 {
		evt := b.queue[0]
		b.queue = b.queue[1:]
		b.queueMu.Unlock()

		b.dispatch(evt)

		b.queueMu.Lock()
	}

	b.draining = false
	b.queueMu.Unlock()
}

// Publish enqueues and flushes.
func (b *Bus) Publish(evts ...Event) {
	b.Enqueue(evts...)
	b.Flush()
}

func (b *Bus) dispatch(evt Event) {
	b.subMu.RLock()
	handlers := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.subs[id])
	}
	b.subMu.RUnlock()

	for _, h := range handlers {
		b.call(h, evt)
	}
}

func (b *Bus) call(h Handler, evt Event) {
	defer func() {
		if r := recover(); r != nil && b.logger != nil {
			b.logger.Errorw("Event handler panicked", "event", evt.Type, "panic", r)
		}
	}()
	h(evt)
}
