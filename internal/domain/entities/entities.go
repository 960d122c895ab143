package entities

import (
	"time"
)

// Enums and types
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
)

// TaskStatuses lists the board columns in display order.
var TaskStatuses = []TaskStatus{
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusReview,
	TaskStatusDone,
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on-hold"
	ProjectStatusCompleted ProjectStatus = "completed"
)

type ProjectType string

const (
	ProjectTypeScrum  ProjectType = "scrum"
	ProjectTypeKanban ProjectType = "kanban"
)

// Assignee is the copy of a team member embedded in a task. Renaming the
// member later does not touch tasks that already carry the copy.
type Assignee struct {
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string `json:"name" yaml:"name"`
	Avatar   string `json:"avatar" yaml:"avatar"`
	Initials string `json:"initials" yaml:"initials"`
}

// MeetingStub is a meeting attached directly to a task. It is not a Meeting
// entity and never shows up in the meetings list.
type MeetingStub struct {
	Title string    `json:"title" yaml:"title"`
	Time  TimeOfDay `json:"time" yaml:"time"`
	Link  string    `json:"link" yaml:"link"`
}

// Task represents a card on the board
type Task struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description" yaml:"description"`
	Status      TaskStatus   `json:"status" yaml:"status"`
	Priority    Priority     `json:"priority" yaml:"priority"`
	DueDate     Date         `json:"dueDate" yaml:"dueDate"`
	Assignee    Assignee     `json:"assignee" yaml:"assignee"`
	Meeting     *MeetingStub `json:"meeting" yaml:"meeting,omitempty"`
}

// Meeting represents a scheduled meeting
type Meeting struct {
	ID           string    `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Date         Date      `json:"date" yaml:"date"`
	Time         TimeOfDay `json:"time" yaml:"time"`
	Duration     int       `json:"duration" yaml:"duration"`
	Link         string    `json:"link" yaml:"link"`
	Participants int       `json:"participants" yaml:"participants"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
	Recurring    bool      `json:"recurring,omitempty" yaml:"recurring,omitempty"`
}

// TeamMember is a directory entry
type TeamMember struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Role       string   `json:"role" yaml:"role"`
	Department string   `json:"department" yaml:"department"`
	Email      string   `json:"email" yaml:"email"`
	Phone      string   `json:"phone" yaml:"phone"`
	Location   string   `json:"location" yaml:"location"`
	Avatar     string   `json:"avatar" yaml:"avatar"`
	Initials   string   `json:"initials" yaml:"initials"`
	Projects   []string `json:"projects" yaml:"projects"`
	Skills     []string `json:"skills" yaml:"skills"`
	Status     string   `json:"status" yaml:"status"`
}

// Project represents a project created from the add-project form
type Project struct {
	ID             string        `json:"id" yaml:"id"`
	Name           string        `json:"name" yaml:"name"`
	Description    string        `json:"description" yaml:"description"`
	StartDate      Date          `json:"startDate" yaml:"startDate"`
	EndDate        Date          `json:"endDate" yaml:"endDate"`
	Status         ProjectStatus `json:"status" yaml:"status"`
	Team           []Assignee    `json:"team" yaml:"team"`
	ProjectType    ProjectType   `json:"projectType" yaml:"projectType"`
	SprintDuration int           `json:"sprintDuration" yaml:"sprintDuration"`
}

// Reminder is the deadline notice occupying the reminder slot
type Reminder struct {
	TaskID    string    `json:"taskId"`
	TaskTitle string    `json:"taskTitle"`
	DueDate   Date      `json:"dueDate"`
	DaysLeft  int       `json:"daysLeft"`
	Message   string    `json:"message"`
	RaisedAt  time.Time `json:"raisedAt"`
}

// Business logic methods for Task
func (t *Task) IsDone() bool {
	return t.Status == TaskStatusDone
}

// IsOverdue reports whether the due date is before today and the task is
// still open.
func (t *Task) IsOverdue(today Date) bool {
	return !t.IsDone() && t.DueDate.Before(today)
}

// DaysUntilDue counts calendar days from today to the due date. Negative
// values mean the date has passed.
func (t *Task) DaysUntilDue(today Date) int {
	return today.DaysUntil(t.DueDate)
}

// Clone returns a copy that shares no memory with t.
func (t Task) Clone() Task {
	if t.Meeting != nil {
		stub := *t.Meeting
		t.Meeting = &stub
	}
	return t
}

// Business logic methods for Meeting

// Start combines the meeting date and time into one instant in loc.
func (m *Meeting) Start(loc *time.Location) time.Time {
	return m.Date.At(m.Time, loc)
}

// FallbackMeetingDuration is assumed for meetings stored without a duration
const FallbackMeetingDuration = 30

// End is Start plus the meeting duration, or FallbackMeetingDuration
// minutes when none is set.
func (m *Meeting) End(loc *time.Location) time.Time {
	minutes := m.Duration
	if minutes <= 0 {
		minutes = FallbackMeetingDuration
	}
	return m.Start(loc).Add(time.Duration(minutes) * time.Minute)
}

// HappeningNow reports whether now lies between the start and the end of
// the meeting, both inclusive.
func (m *Meeting) HappeningNow(now time.Time) bool {
	loc := now.Location()
	return !now.Before(m.Start(loc)) && !now.After(m.End(loc))
}

// Business logic methods for TeamMember

// AsAssignee returns the copy embedded into tasks and projects.
func (tm *TeamMember) AsAssignee() Assignee {
	return Assignee{
		ID:       tm.ID,
		Name:     tm.Name,
		Avatar:   tm.Avatar,
		Initials: tm.Initials,
	}
}

func (tm TeamMember) Clone() TeamMember {
	tm.Projects = append([]string(nil), tm.Projects...)
	tm.Skills = append([]string(nil), tm.Skills...)
	return tm
}

// Business logic methods for Project
func (p *Project) IsOverdue(today Date) bool {
	return p.Status != ProjectStatusCompleted && p.EndDate.Before(today)
}

func (p Project) Clone() Project {
	p.Team = append([]Assignee(nil), p.Team...)
	return p
}

// Utility methods
func (ts TaskStatus) IsValid() bool {
	switch ts {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone:
		return true
	default:
		return false
	}
}

// Title is the board column heading for the status.
func (ts TaskStatus) Title() string {
	switch ts {
	case TaskStatusTodo:
		return "To Do"
	case TaskStatusInProgress:
		return "In Progress"
	case TaskStatusReview:
		return "Review"
	case TaskStatusDone:
		return "Done"
	default:
		return string(ts)
	}
}

// CanTransition is the single place that decides whether a task may move
// from one column to another. Every pair of valid statuses is allowed.
func CanTransition(from, to TaskStatus) bool {
	return from.IsValid() && to.IsValid()
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities low < medium < high. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	default:
		return 0
	}
}

func (ps ProjectStatus) IsValid() bool {
	switch ps {
	case ProjectStatusPlanning, ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted:
		return true
	default:
		return false
	}
}

func (pt ProjectType) IsValid() bool {
	return pt == ProjectTypeScrum || pt == ProjectTypeKanban
}
