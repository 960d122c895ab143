package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "iso date", input: "2025-04-15", want: "2025-04-15"},
		{name: "surrounding spaces", input: " 2025-04-15 ", want: "2025-04-15"},
		{name: "rfc3339 keeps date component", input: "2025-04-15T23:30:00+02:00", want: "2025-04-15"},
		{name: "slashes rejected", input: "2025/04/15", wantErr: true},
		{name: "impossible day", input: "2025-02-30", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDateArithmetic(t *testing.T) {
	d := MustParseDate("2025-04-29")

	assert.Equal(t, "2025-05-01", d.AddDays(2).String())
	assert.Equal(t, 2, d.DaysUntil(MustParseDate("2025-05-01")))
	assert.Equal(t, -29, d.DaysUntil(MustParseDate("2025-03-31")))
	assert.True(t, d.Before(MustParseDate("2025-04-30")))
	assert.True(t, d.After(MustParseDate("2024-12-31")))
	assert.Equal(t, 0, d.Compare(NewDate(2025, time.April, 29)))
	assert.Equal(t, time.Tuesday, d.Weekday())
}

func TestDateJSON(t *testing.T) {
	type wrapper struct {
		Due Date `json:"due"`
	}

	b, err := json.Marshal(wrapper{Due: MustParseDate("2025-04-15")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2025-04-15"}`, string(b))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2025-04-15T08:00:00Z"}`), &w))
	assert.Equal(t, "2025-04-15", w.Due.String())

	require.NoError(t, json.Unmarshal([]byte(`{"due":""}`), &w))
	assert.True(t, w.Due.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"due":"April 15"}`), &w))
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("9:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", tod.String())
	assert.Equal(t, 545, tod.Minutes())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
	_, err = ParseTimeOfDay("noon")
	assert.Error(t, err)
}

func TestTaskDerivedState(t *testing.T) {
	today := MustParseDate("2025-04-16")
	task := Task{Status: TaskStatusTodo, DueDate: MustParseDate("2025-04-15")}

	assert.True(t, task.IsOverdue(today))
	assert.Equal(t, -1, task.DaysUntilDue(today))

	task.Status = TaskStatusDone
	assert.False(t, task.IsOverdue(today), "done tasks are never overdue")

	task.Status = TaskStatusReview
	task.DueDate = today
	assert.False(t, task.IsOverdue(today), "due today is not overdue")
}

func TestTaskClone(t *testing.T) {
	original := Task{ID: "task-1", Meeting: &MeetingStub{Title: "Sync", Link: "https://meet"}}
	clone := original.Clone()
	clone.Meeting.Link = "changed"

	assert.Equal(t, "https://meet", original.Meeting.Link)
}

func TestCanTransitionAllowsEveryPair(t *testing.T) {
	for _, from := range TaskStatuses {
		for _, to := range TaskStatuses {
			assert.True(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, CanTransition(TaskStatusTodo, "archived"))
	assert.False(t, CanTransition("", TaskStatusDone))
}

func TestPriorityRank(t *testing.T) {
	assert.Less(t, PriorityLow.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityHigh.Rank())
	assert.Equal(t, 0, Priority("urgent").Rank())
}

func TestMeetingHappeningNow(t *testing.T) {
	at := func(day, hour, min int) time.Time {
		return time.Date(2025, 4, day, hour, min, 0, 0, time.UTC)
	}

	m := Meeting{Date: MustParseDate("2025-04-15"), Time: MustParseTimeOfDay("09:00"), Duration: 60}
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "before start", now: at(15, 8, 50), want: false},
		{name: "at start", now: at(15, 9, 0), want: true},
		{name: "forty minutes in", now: at(15, 9, 40), want: true},
		{name: "at end", now: at(15, 10, 0), want: true},
		{name: "after end", now: at(15, 10, 1), want: false},
		{name: "next day", now: at(16, 9, 30), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.HappeningNow(tt.now))
		})
	}
	assert.Equal(t, at(15, 10, 0), m.End(time.UTC))

	noDuration := Meeting{Date: MustParseDate("2025-04-16"), Time: MustParseTimeOfDay("23:45")}
	assert.Equal(t, at(17, 0, 15), noDuration.End(time.UTC))
	assert.True(t, noDuration.HappeningNow(at(17, 0, 10)))
	assert.False(t, noDuration.HappeningNow(at(17, 0, 20)))
}

func TestErrorKinds(t *testing.T) {
	verr := NewValidationError()
	verr.Add("title", "Title is required")
	verr.Add("title", "ignored")
	verr.Add("description", "Description is required")

	wrapped := fmt.Errorf("create task: %w", verr)
	assert.True(t, errors.Is(wrapped, ErrValidation))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, "Title is required", verr.Fields["title"])
	assert.Equal(t, "validation failed: description: Description is required; title: Title is required", verr.Error())

	var empty *ValidationError
	assert.NoError(t, NewValidationError().OrNil())
	assert.False(t, empty.HasErrors())

	nf := fmt.Errorf("update: %w", NewNotFoundError("task", "task-9"))
	assert.True(t, errors.Is(nf, ErrNotFound))
	assert.Contains(t, nf.Error(), `task "task-9" not found`)
}
