package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taskmaster/dashboard/internal/application/events"
	"github.com/taskmaster/dashboard/internal/application/validation"
	"github.com/taskmaster/dashboard/internal/domain/entities"
	"github.com/taskmaster/dashboard/internal/infrastructure/logger"
	"github.com/taskmaster/dashboard/internal/ports"
)

// DefaultMeetingDuration applies when the form leaves duration empty
const DefaultMeetingDuration = 30

// MeetingRange selects the meetings tab
type MeetingRange string

const (
	MeetingsAll      MeetingRange = "all"
	MeetingsUpcoming MeetingRange = "upcoming"
	MeetingsPast     MeetingRange = "past"
	MeetingsToday    MeetingRange = "today"
)

// ParseMeetingRange maps a tab name to a range; empty means upcoming.
func ParseMeetingRange(s string) (MeetingRange, error) {
	switch r := MeetingRange(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return MeetingsUpcoming, nil
	case MeetingsAll, MeetingsUpcoming, MeetingsPast, MeetingsToday:
		return r, nil
	default:
		return "", fmt.Errorf("unknown meeting range %q", s)
	}
}

// MeetingStore owns the scheduled meetings
type MeetingStore struct {
	mu        sync.Mutex
	repo      ports.MeetingRepository
	bus       *events.Bus
	validator *validation.Validator
	ids       *IDGenerator
	clock     ports.Clock
	logger    *logger.Logger
}

// NewMeetingStore creates a new meeting store
func NewMeetingStore(repo ports.MeetingRepository, deps Deps) *MeetingStore {
	deps = deps.withDefaults()
	return &MeetingStore{
		repo:      repo,
		bus:       deps.Bus,
		validator: deps.Validator,
		ids:       deps.IDs,
		clock:     deps.Clock,
		logger:    deps.Logger.WithComponent("meeting_store"),
	}
}

// Create validates the schedule-meeting form and stores the meeting
func (s *MeetingStore) Create(ctx context.Context, req ports.CreateMeetingRequest) (entities.Meeting, error) {
	verr, err := structErrors(s.validator, req)
	if err != nil {
		return entities.Meeting{}, err
	}
	if verr.HasErrors() {
		return entities.Meeting{}, verr
	}

	date, _ := entities.ParseDate(req.Date)
	tod, _ := entities.ParseTimeOfDay(req.Time)
	meeting := entities.Meeting{
		Title:        strings.TrimSpace(req.Title),
		Date:         date,
		Time:         tod,
		Duration:     req.Duration,
		Link:         strings.TrimSpace(req.Link),
		Participants: req.Participants,
		Description:  strings.TrimSpace(req.Description),
		Recurring:    req.Recurring,
	}
	if meeting.Duration == 0 {
		meeting.Duration = DefaultMeetingDuration
	}

	err = s.commit(func() ([]events.Event, error) {
		meeting.ID = s.ids.Next("meeting")
		if err := s.repo.Create(ctx, meeting); err != nil {
			return nil, fmt.Errorf("failed to create meeting: %w", err)
		}
		return []events.Event{s.event(events.MeetingCreated, meeting)}, nil
	})
	if err != nil {
		return entities.Meeting{}, err
	}

	s.logger.LogStoreMutation("meeting", "create", meeting.ID, map[string]interface{}{
		"title": meeting.Title,
		"date":  meeting.Date.String(),
	})
	return meeting, nil
}

// Update merges the non-nil fields of patch into the meeting
func (s *MeetingStore) Update(ctx context.Context, id string, patch ports.UpdateMeetingRequest) (entities.Meeting, error) {
	verr := entities.NewValidationError()
	if patch.Title != nil {
		s.validator.Field(verr, "title", *patch.Title, "notblank")
	}
	if patch.Date != nil {
		s.validator.Field(verr, "date", *patch.Date, "notblank,isodate")
	}
	if patch.Time != nil {
		s.validator.Field(verr, "time", *patch.Time, "notblank,hhmm")
	}
	if patch.Duration != nil {
		s.validator.Field(verr, "duration", *patch.Duration, "min=1,max=1440")
	}
	if patch.Link != nil && strings.TrimSpace(*patch.Link) == "" {
		verr.Add("link", "Meeting link is required")
	}
	if patch.Participants != nil {
		s.validator.Field(verr, "participants", *patch.Participants, "min=0")
	}
	if verr.HasErrors() {
		return entities.Meeting{}, verr
	}

	var updated entities.Meeting
	err := s.commit(func() ([]events.Event, error) {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		next := current
		if patch.Title != nil {
			next.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Date != nil {
			next.Date, _ = entities.ParseDate(*patch.Date)
		}
		if patch.Time != nil {
			next.Time, _ = entities.ParseTimeOfDay(*patch.Time)
		}
		if patch.Duration != nil {
			next.Duration = *patch.Duration
		}
		if patch.Link != nil {
			next.Link = strings.TrimSpace(*patch.Link)
		}
		if patch.Participants != nil {
			next.Participants = *patch.Participants
		}
		if patch.Description != nil {
			next.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Recurring != nil {
			next.Recurring = *patch.Recurring
		}

		if err := s.repo.Update(ctx, next); err != nil {
			return nil, fmt.Errorf("failed to update meeting: %w", err)
		}
		updated = next
		return []events.Event{s.event(events.MeetingUpdated, next)}, nil
	})
	if err != nil {
		return entities.Meeting{}, err
	}

	s.logger.LogStoreMutation("meeting", "update", updated.ID, nil)
	return updated, nil
}

// Remove deletes the meeting. Unknown ids are ignored.
func (s *MeetingStore) Remove(ctx context.Context, id string) error {
	return s.commit(func() ([]events.Event, error) {
		current, err := s.repo.GetByID(ctx, id)
		if errors.Is(err, entities.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if _, err := s.repo.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to delete meeting: %w", err)
		}

		s.logger.LogStoreMutation("meeting", "delete", id, nil)
		return []events.Event{s.event(events.MeetingDeleted, current)}, nil
	})
}

// Seed replaces every meeting with the given fixtures
func (s *MeetingStore) Seed(ctx context.Context, meetings []entities.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.ReplaceAll(ctx, meetings); err != nil {
		return fmt.Errorf("failed to seed meetings: %w", err)
	}
	s.logger.Infow("Meetings loaded", "count", len(meetings))
	return nil
}

// Get returns one meeting
func (s *MeetingStore) Get(ctx context.Context, id string) (entities.Meeting, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every meeting ordered by start
func (s *MeetingStore) List(ctx context.Context) ([]entities.Meeting, error) {
	return s.Find(ctx, MeetingsAll, "", time.Time{})
}

// ForDate returns the meetings held on date
func (s *MeetingStore) ForDate(ctx context.Context, date entities.Date) ([]entities.Meeting, error) {
	return s.filter(ctx, func(m entities.Meeting) bool { return m.Date == date })
}

// Upcoming returns meetings dated today or later
func (s *MeetingStore) Upcoming(ctx context.Context, now time.Time) ([]entities.Meeting, error) {
	return s.Find(ctx, MeetingsUpcoming, "", now)
}

// Past returns meetings dated before today
func (s *MeetingStore) Past(ctx context.Context, now time.Time) ([]entities.Meeting, error) {
	return s.Find(ctx, MeetingsPast, "", now)
}

// Today returns meetings dated today
func (s *MeetingStore) Today(ctx context.Context, now time.Time) ([]entities.Meeting, error) {
	return s.Find(ctx, MeetingsToday, "", now)
}

// Search matches titles case-insensitively
func (s *MeetingStore) Search(ctx context.Context, query string) ([]entities.Meeting, error) {
	return s.Find(ctx, MeetingsAll, query, time.Time{})
}

// HappeningNow returns the meetings in progress at now
func (s *MeetingStore) HappeningNow(ctx context.Context, now time.Time) ([]entities.Meeting, error) {
	return s.filter(ctx, func(m entities.Meeting) bool { return m.HappeningNow(now) })
}

// Find combines a day range with a title search. now only matters for
// ranges relative to today.
func (s *MeetingStore) Find(ctx context.Context, r MeetingRange, query string, now time.Time) ([]entities.Meeting, error) {
	today := entities.DateOf(now)
	query = strings.ToLower(strings.TrimSpace(query))

	return s.filter(ctx, func(m entities.Meeting) bool {
		if query != "" && !strings.Contains(strings.ToLower(m.Title), query) {
			return false
		}
		switch r {
		case MeetingsUpcoming:
			return !m.Date.Before(today)
		case MeetingsPast:
			return m.Date.Before(today)
		case MeetingsToday:
			return m.Date == today
		default:
			return true
		}
	})
}

// Now is the store clock's current instant
func (s *MeetingStore) Now() time.Time {
	return s.clock.Now()
}

func (s *MeetingStore) filter(ctx context.Context, keep func(entities.Meeting) bool) ([]entities.Meeting, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}

	out := make([]entities.Meeting, 0, len(all))
	for _, m := range all {
		if keep(m) {
			out = append(out, m)
		}
	}
	SortMeetings(out)
	return out, nil
}

// SortMeetings orders meetings by date then time, keeping insertion order
// for equal starts.
func SortMeetings(meetings []entities.Meeting) {
	sort.SliceStable(meetings, func(i, j int) bool {
		a, b := meetings[i], meetings[j]
		if c := a.Date.Compare(b.Date); c != 0 {
			return c < 0
		}
		return a.Time.Minutes() < b.Time.Minutes()
	})
}

func (s *MeetingStore) commit(op func() ([]events.Event, error)) error {
	s.mu.Lock()
	evts, err := op()
	if err == nil {
		s.bus.Enqueue(evts...)
	}
	s.mu.Unlock()

	s.bus.Flush()
	return err
}

func (s *MeetingStore) event(typ events.Type, meeting entities.Meeting) events.Event {
	return events.Event{Type: typ, At: s.clock.Now(), Meeting: &meeting}
}
