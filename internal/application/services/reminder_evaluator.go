package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/taskmaster/dashboard/internal/application/events"
	"github.com/taskmaster/dashboard/internal/domain/entities"
	"github.com/taskmaster/dashboard/internal/infrastructure/logger"
	"github.com/taskmaster/dashboard/internal/ports"
)

// Reminder defaults
const (
	DefaultReminderWindowDays = 2
	DefaultReminderDisplay    = 5 * time.Second
)

// ReminderEvaluator keeps the single deadline reminder slot. Once a reminder
// is raised nothing else fires until the slot is dismissed or acknowledged.
type ReminderEvaluator struct {
	mu      sync.Mutex
	current *entities.Reminder

	bus     *events.Bus
	clock   ports.Clock
	window  int
	display time.Duration
	logger  *logger.Logger

	unsubscribe func()
}

// NewReminderEvaluator creates an evaluator. A non-positive window or display
// duration falls back to the defaults.
func NewReminderEvaluator(bus *events.Bus, clock ports.Clock, windowDays int, display time.Duration, log *logger.Logger) *ReminderEvaluator {
	if windowDays <= 0 {
		windowDays = DefaultReminderWindowDays
	}
	if display <= 0 {
		display = DefaultReminderDisplay
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &ReminderEvaluator{
		bus:     bus,
		clock:   clock,
		window:  windowDays,
		display: display,
		logger:  log.WithComponent("reminders"),
	}
}

// Start subscribes the evaluator to task list changes
func (r *ReminderEvaluator) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unsubscribe != nil {
		return
	}
	r.unsubscribe = r.bus.Subscribe(r.handle)
}

// Stop detaches the evaluator from the bus
func (r *ReminderEvaluator) Stop() {
	r.mu.Lock()
	unsubscribe := r.unsubscribe
	r.unsubscribe = nil
	r.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (r *ReminderEvaluator) handle(evt events.Event) {
	if !evt.TaskListChanged() {
		return
	}
	r.Evaluate(evt.Tasks)
}

// Evaluate scans tasks when the slot is free and raises a reminder for the
// first open task due within the window. It reports whether one was raised.
func (r *ReminderEvaluator) Evaluate(tasks []entities.Task) (entities.Reminder, bool) {
	now := r.clock.Now()
	today := entities.DateOf(now)

	r.mu.Lock()
	if r.current != nil {
		r.mu.Unlock()
		return entities.Reminder{}, false
	}

	var raised *entities.Reminder
	for _, task := range tasks {
		if task.IsDone() {
			continue
		}
		days := task.DaysUntilDue(today)
		if days < 0 || days > r.window {
			continue
		}
		raised = &entities.Reminder{
			TaskID:    task.ID,
			TaskTitle: task.Title,
			DueDate:   task.DueDate,
			DaysLeft:  days,
			Message:   reminderMessage(task.Title),
			RaisedAt:  now,
		}
		break
	}
	if raised == nil {
		r.mu.Unlock()
		return entities.Reminder{}, false
	}
	r.current = raised
	reminder := *raised
	r.bus.Enqueue(events.Event{Type: events.ReminderRaised, At: now, Reminder: &reminder})
	r.mu.Unlock()

	r.bus.Flush()
	r.logger.Infow("Deadline reminder raised", "task_id", reminder.TaskID, "days_left", reminder.DaysLeft)
	return reminder, true
}

// Current returns the reminder occupying the slot, visible or not.
func (r *ReminderEvaluator) Current() (entities.Reminder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return entities.Reminder{}, false
	}
	return *r.current, true
}

// Visible returns the reminder while it is inside its display duration.
// After that it stays hidden but keeps the slot occupied.
func (r *ReminderEvaluator) Visible() (entities.Reminder, bool) {
	reminder, ok := r.Current()
	if !ok {
		return entities.Reminder{}, false
	}
	if r.clock.Now().Sub(reminder.RaisedAt) >= r.display {
		return entities.Reminder{}, false
	}
	return reminder, true
}

// Dismiss closes the reminder. The next task list change re-evaluates.
func (r *ReminderEvaluator) Dismiss() bool {
	return r.clear("dismissed")
}

// Acknowledge is the "view task" action; it frees the slot like Dismiss.
func (r *ReminderEvaluator) Acknowledge() bool {
	return r.clear("acknowledged")
}

func (r *ReminderEvaluator) clear(reason string) bool {
	r.mu.Lock()
	if r.current == nil {
		r.mu.Unlock()
		return false
	}
	cleared := *r.current
	r.current = nil
	r.bus.Enqueue(events.Event{Type: events.ReminderCleared, At: r.clock.Now(), Reminder: &cleared})
	r.mu.Unlock()

	r.bus.Flush()
	r.logger.Infow("Deadline reminder cleared", "task_id", cleared.TaskID, "reason", reason)
	return true
}

func reminderMessage(title string) string {
	return fmt.Sprintf("Uh-oh! Deadline's close for %q. Let's crush it!", title)
}
