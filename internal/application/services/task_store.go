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

// TaskStore owns the canonical task list. Every committed mutation is
// published on the bus together with the list as it stood after the commit.
type TaskStore struct {
	mu        sync.Mutex
	repo      ports.TaskRepository
	members   ports.MemberLookup
	bus       *events.Bus
	validator *validation.Validator
	ids       *IDGenerator
	clock     ports.Clock
	logger    *logger.Logger
}

// NewTaskStore creates a new task store
func NewTaskStore(repo ports.TaskRepository, members ports.MemberLookup, deps Deps) *TaskStore {
	deps = deps.withDefaults()
	return &TaskStore{
		repo:      repo,
		members:   members,
		bus:       deps.Bus,
		validator: deps.Validator,
		ids:       deps.IDs,
		clock:     deps.Clock,
		logger:    deps.Logger.WithComponent("task_store"),
	}
}

// Create validates the add-task form and appends a new task
func (s *TaskStore) Create(ctx context.Context, req ports.CreateTaskRequest) (entities.Task, error) {
	if !req.HasMeeting {
		req.MeetingTime = ""
		req.MeetingLink = ""
	}

	verr, err := structErrors(s.validator, req)
	if err != nil {
		return entities.Task{}, err
	}

	var assignee entities.Assignee
	if strings.TrimSpace(req.AssigneeID) != "" {
		assignee, err = s.resolveAssignee(ctx, req.AssigneeID, verr)
		if err != nil {
			return entities.Task{}, err
		}
	}
	if verr.HasErrors() {
		return entities.Task{}, verr
	}

	dueDate, _ := entities.ParseDate(req.DueDate)
	task := entities.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Status:      entities.TaskStatus(req.Status),
		Priority:    entities.Priority(req.Priority),
		DueDate:     dueDate,
		Assignee:    assignee,
	}
	if task.Status == "" {
		task.Status = entities.TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = entities.PriorityMedium
	}
	if req.HasMeeting {
		tod, _ := entities.ParseTimeOfDay(req.MeetingTime)
		task.Meeting = &entities.MeetingStub{
			Title: meetingTitleFor(task.Title),
			Time:  tod,
			Link:  strings.TrimSpace(req.MeetingLink),
		}
	}

	err = s.commit(ctx, func() ([]events.Event, error) {
		task.ID = s.ids.Next("task")
		if err := s.repo.Create(ctx, task); err != nil {
			return nil, fmt.Errorf("failed to create task: %w", err)
		}
		return []events.Event{s.event(events.TaskCreated, task)}, nil
	})
	if err != nil {
		return entities.Task{}, err
	}

	s.logger.LogStoreMutation("task", "create", task.ID, map[string]interface{}{
		"title":  task.Title,
		"status": task.Status,
	})
	return task.Clone(), nil
}

// Update merges the non-nil fields of patch into the task
func (s *TaskStore) Update(ctx context.Context, id string, patch ports.UpdateTaskRequest) (entities.Task, error) {
	verr := entities.NewValidationError()
	if patch.Title != nil {
		s.validator.Field(verr, "title", *patch.Title, "notblank")
	}
	if patch.Description != nil {
		s.validator.Field(verr, "description", *patch.Description, "notblank")
	}
	if patch.Status != nil {
		s.validator.Field(verr, "status", *patch.Status, "required,oneof=todo in-progress review done")
	}
	if patch.Priority != nil {
		s.validator.Field(verr, "priority", *patch.Priority, "required,oneof=low medium high")
	}
	if patch.DueDate != nil {
		s.validator.Field(verr, "dueDate", *patch.DueDate, "notblank,isodate")
	}
	if patch.MeetingTime != nil {
		s.validator.Field(verr, "meetingTime", *patch.MeetingTime, "notblank,hhmm")
	}
	if patch.MeetingLink != nil {
		s.validator.Field(verr, "meetingLink", *patch.MeetingLink, "notblank")
	}

	var assignee *entities.Assignee
	if patch.AssigneeID != nil && s.validator.Field(verr, "assignee", *patch.AssigneeID, "notblank") {
		a, err := s.resolveAssignee(ctx, *patch.AssigneeID, verr)
		if err != nil {
			return entities.Task{}, err
		}
		assignee = &a
	}
	if verr.HasErrors() {
		return entities.Task{}, verr
	}

	var updated entities.Task
	err := s.commit(ctx, func() ([]events.Event, error) {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		next := current.Clone()
		if patch.Title != nil {
			next.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			next.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Status != nil {
			next.Status = entities.TaskStatus(*patch.Status)
		}
		if patch.Priority != nil {
			next.Priority = entities.Priority(*patch.Priority)
		}
		if patch.DueDate != nil {
			next.DueDate, _ = entities.ParseDate(*patch.DueDate)
		}
		if assignee != nil {
			next.Assignee = *assignee
		}
		if err := applyMeetingPatch(&next, patch); err != nil {
			return nil, err
		}

		if next.Status != current.Status && !entities.CanTransition(current.Status, next.Status) {
			verr := entities.NewValidationError()
			verr.Add("status", fmt.Sprintf("Cannot move task from %s to %s", current.Status, next.Status))
			return nil, verr
		}

		if err := s.repo.Update(ctx, next); err != nil {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
		updated = next

		evts := []events.Event{s.event(events.TaskUpdated, next)}
		return append(evts, s.statusEvents(current, next)...), nil
	})
	if err != nil {
		return entities.Task{}, err
	}

	s.logger.LogStoreMutation("task", "update", updated.ID, map[string]interface{}{
		"title":  updated.Title,
		"status": updated.Status,
	})
	return updated.Clone(), nil
}

// applyMeetingPatch attaches, edits or removes the meeting stub. Sending a
// meeting time or link attaches a stub just like hasMeeting does.
func applyMeetingPatch(task *entities.Task, patch ports.UpdateTaskRequest) error {
	if patch.HasMeeting != nil && !*patch.HasMeeting {
		task.Meeting = nil
		return nil
	}

	wantsMeeting := task.Meeting != nil ||
		(patch.HasMeeting != nil && *patch.HasMeeting) ||
		patch.MeetingTime != nil ||
		patch.MeetingLink != nil
	if !wantsMeeting {
		return nil
	}

	stub := entities.MeetingStub{Title: meetingTitleFor(task.Title)}
	haveTime := false
	if task.Meeting != nil {
		stub = *task.Meeting
		haveTime = true
	}
	if patch.MeetingTime != nil {
		stub.Time, _ = entities.ParseTimeOfDay(*patch.MeetingTime)
		haveTime = true
	}
	if patch.MeetingLink != nil {
		stub.Link = strings.TrimSpace(*patch.MeetingLink)
	}

	verr := entities.NewValidationError()
	if !haveTime {
		verr.Add("meetingTime", "Meeting time is required")
	}
	if stub.Link == "" {
		verr.Add("meetingLink", "Meeting link is required")
	}
	if verr.HasErrors() {
		return verr
	}

	task.Meeting = &stub
	return nil
}

// Remove deletes the task. Removing an unknown id succeeds without effect.
func (s *TaskStore) Remove(ctx context.Context, id string) error {
	removed := false
	err := s.commit(ctx, func() ([]events.Event, error) {
		current, err := s.repo.GetByID(ctx, id)
		if errors.Is(err, entities.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		ok, err := s.repo.Delete(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to delete task: %w", err)
		}
		if !ok {
			return nil, nil
		}
		removed = true
		return []events.Event{s.event(events.TaskDeleted, current)}, nil
	})
	if err != nil {
		return err
	}

	if removed {
		s.logger.LogStoreMutation("task", "delete", id, nil)
	} else {
		s.logger.Debugw("Remove ignored unknown task", "task_id", id)
	}
	return nil
}

// SetStatus moves a task to another board column
func (s *TaskStore) SetStatus(ctx context.Context, id string, status entities.TaskStatus) (entities.Task, error) {
	verr := entities.NewValidationError()
	if !s.validator.Field(verr, "status", string(status), "required,oneof=todo in-progress review done") {
		return entities.Task{}, verr
	}

	return s.transition(ctx, id, func(entities.TaskStatus) entities.TaskStatus { return status })
}

// ToggleDone is the board checkbox: done goes back to todo, anything else
// becomes done.
func (s *TaskStore) ToggleDone(ctx context.Context, id string) (entities.Task, error) {
	return s.transition(ctx, id, func(current entities.TaskStatus) entities.TaskStatus {
		if current == entities.TaskStatusDone {
			return entities.TaskStatusTodo
		}
		return entities.TaskStatusDone
	})
}

func (s *TaskStore) transition(ctx context.Context, id string, target func(entities.TaskStatus) entities.TaskStatus) (entities.Task, error) {
	var result entities.Task
	changed := false
	err := s.commit(ctx, func() ([]events.Event, error) {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		to := target(current.Status)
		if to == current.Status {
			result = current
			return nil, nil
		}
		if !entities.CanTransition(current.Status, to) {
			verr := entities.NewValidationError()
			verr.Add("status", fmt.Sprintf("Cannot move task from %s to %s", current.Status, to))
			return nil, verr
		}

		next := current.Clone()
		next.Status = to
		if err := s.repo.Update(ctx, next); err != nil {
			return nil, fmt.Errorf("failed to update task status: %w", err)
		}
		result = next
		changed = true
		return s.statusEvents(current, next), nil
	})
	if err != nil {
		return entities.Task{}, err
	}

	if changed {
		s.logger.LogStoreMutation("task", "set_status", id, map[string]interface{}{
			"status": result.Status,
		})
	}
	return result.Clone(), nil
}

// Seed replaces the whole list, used for fixtures at startup
func (s *TaskStore) Seed(ctx context.Context, tasks []entities.Task) error {
	err := s.commit(ctx, func() ([]events.Event, error) {
		if err := s.repo.ReplaceAll(ctx, tasks); err != nil {
			return nil, fmt.Errorf("failed to seed tasks: %w", err)
		}
		return []events.Event{{Type: events.TasksLoaded, At: s.clock.Now()}}, nil
	})
	if err != nil {
		return err
	}

	s.logger.Infow("Tasks loaded", "count", len(tasks))
	return nil
}

// Get returns a copy of one task
func (s *TaskStore) Get(ctx context.Context, id string) (entities.Task, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a snapshot of every task in insertion order
func (s *TaskStore) List(ctx context.Context) ([]entities.Task, error) {
	return s.repo.List(ctx)
}

// Today is the current civil date as seen by the store's clock
func (s *TaskStore) Today() entities.Date {
	return entities.DateOf(s.clock.Now())
}

// commit runs op under the store lock and queues its events before the lock
// is released. Delivery happens after unlocking, so handlers may read the
// store.
func (s *TaskStore) commit(ctx context.Context, op func() ([]events.Event, error)) error {
	s.mu.Lock()
	evts, err := op()
	if err == nil && len(evts) > 0 {
		snapshot, lerr := s.repo.List(ctx)
		if lerr != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to snapshot tasks: %w", lerr)
		}
		for i := range evts {
			evts[i].Tasks = snapshot
		}
		s.bus.Enqueue(evts...)
	}
	s.mu.Unlock()

	s.bus.Flush()
	return err
}

func (s *TaskStore) event(typ events.Type, task entities.Task) events.Event {
	t := task.Clone()
	return events.Event{Type: typ, At: s.clock.Now(), Task: &t}
}

// statusEvents returns status_changed, plus completed when the task just
// reached done.
func (s *TaskStore) statusEvents(from, to entities.Task) []events.Event {
	if from.Status == to.Status {
		return nil
	}

	changed := s.event(events.TaskStatusChanged, to)
	changed.PreviousStatus = from.Status
	evts := []events.Event{changed}

	if to.Status == entities.TaskStatusDone {
		completed := s.event(events.TaskCompleted, to)
		completed.PreviousStatus = from.Status
		evts = append(evts, completed)
	}
	return evts
}

// structErrors runs struct validation and always hands back a collector, so
// callers can keep adding cross-field errors.
func structErrors(v *validation.Validator, req interface{}) (*entities.ValidationError, error) {
	err := v.Struct(req)
	if err == nil {
		return entities.NewValidationError(), nil
	}

	var verr *entities.ValidationError
	if errors.As(err, &verr) {
		return verr, nil
	}
	return nil, err
}

func (s *TaskStore) resolveAssignee(ctx context.Context, id string, verr *entities.ValidationError) (entities.Assignee, error) {
	member, err := s.members.Member(ctx, strings.TrimSpace(id))
	if errors.Is(err, entities.ErrNotFound) {
		verr.Add("assignee", "Assignee must be a known team member")
		return entities.Assignee{}, nil
	}
	if err != nil {
		return entities.Assignee{}, fmt.Errorf("failed to resolve assignee: %w", err)
	}
	return member.AsAssignee(), nil
}

func meetingTitleFor(taskTitle string) string {
	return "Meeting for " + taskTitle
}
