package views

import (
	"math"
	"sort"

	"github.com/taskmaster/dashboard/internal/domain/entities"
)

// Count is one labelled bar or pie slice
type Count struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Value int    `json:"value" yaml:"value"`
}

// MemberPerformance is one row of the team performance chart
type MemberPerformance struct {
	AssigneeID string  `json:"assigneeId,omitempty" yaml:"assigneeId,omitempty"`
	Name       string  `json:"name" yaml:"name"`
	Tasks      int     `json:"tasks" yaml:"tasks"`
	Completed  int     `json:"completed" yaml:"completed"`
	Completion float64 `json:"completion" yaml:"completion"`
}

// Analytics aggregates the dashboard counters
type Analytics struct {
	GeneratedFor     entities.Date       `json:"generatedFor" yaml:"generatedFor"`
	TotalTasks       int                 `json:"totalTasks" yaml:"totalTasks"`
	CompletedTasks   int                 `json:"completedTasks" yaml:"completedTasks"`
	OverdueTasks     int                 `json:"overdueTasks" yaml:"overdueTasks"`
	CompletionRate   float64             `json:"completionRate" yaml:"completionRate"`
	ByStatus         []Count             `json:"byStatus" yaml:"byStatus"`
	ByPriority       []Count             `json:"byPriority" yaml:"byPriority"`
	ByAssignee       []Count             `json:"byAssignee" yaml:"byAssignee"`
	Meetings         int                 `json:"meetings" yaml:"meetings"`
	UpcomingMeetings int                 `json:"upcomingMeetings" yaml:"upcomingMeetings"`
	MeetingMinutes   int                 `json:"meetingMinutes" yaml:"meetingMinutes"`
	Team             []MemberPerformance `json:"team" yaml:"team"`
}

var priorityLabels = []struct {
	priority entities.Priority
	label    string
}{
	{entities.PriorityHigh, "High"},
	{entities.PriorityMedium, "Medium"},
	{entities.PriorityLow, "Low"},
}

// Analyze computes every counter from one snapshot of tasks and meetings.
func Analyze(tasks []entities.Task, meetings []entities.Meeting, today entities.Date) Analytics {
	a := Analytics{
		GeneratedFor: today,
		TotalTasks:   len(tasks),
		Meetings:     len(meetings),
	}

	byStatus := make(map[entities.TaskStatus]int)
	byPriority := make(map[entities.Priority]int)
	for _, t := range tasks {
		byStatus[t.Status]++
		byPriority[t.Priority]++
		if t.IsDone() {
			a.CompletedTasks++
		}
		if t.IsOverdue(today) {
			a.OverdueTasks++
		}
	}
	a.CompletionRate = percent(a.CompletedTasks, a.TotalTasks)

	for _, status := range entities.TaskStatuses {
		a.ByStatus = append(a.ByStatus, Count{Key: string(status), Label: status.Title(), Value: byStatus[status]})
	}
	for _, p := range priorityLabels {
		a.ByPriority = append(a.ByPriority, Count{Key: string(p.priority), Label: p.label, Value: byPriority[p.priority]})
	}

	a.Team = TeamPerformance(tasks)
	a.ByAssignee = make([]Count, 0, len(a.Team))
	for _, m := range a.Team {
		a.ByAssignee = append(a.ByAssignee, Count{Key: assigneeKey(m.AssigneeID, m.Name), Label: m.Name, Value: m.Tasks})
	}

	for _, m := range meetings {
		a.MeetingMinutes += m.Duration
		if !m.Date.Before(today) {
			a.UpcomingMeetings++
		}
	}
	return a
}

// TeamPerformance groups tasks by assignee. Rows are ordered by task count,
// then by name.
func TeamPerformance(tasks []entities.Task) []MemberPerformance {
	rows := make(map[string]*MemberPerformance)
	for _, t := range tasks {
		key := assigneeKey(t.Assignee.ID, t.Assignee.Name)
		row, ok := rows[key]
		if !ok {
			name := t.Assignee.Name
			if name == "" {
				name = "Unassigned"
			}
			row = &MemberPerformance{AssigneeID: t.Assignee.ID, Name: name}
			rows[key] = row
		}
		row.Tasks++
		if t.IsDone() {
			row.Completed++
		}
	}

	out := make([]MemberPerformance, 0, len(rows))
	for _, row := range rows {
		row.Completion = percent(row.Completed, row.Tasks)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tasks != out[j].Tasks {
			return out[i].Tasks > out[j].Tasks
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].AssigneeID < out[j].AssigneeID
	})
	return out
}

// assigneeKey prefers the member id and falls back to the embedded name
// for fixtures that carry no id.
func assigneeKey(id, name string) string {
	if id != "" {
		return id
	}
	return "name:" + name
}

// percent returns part/total as a percentage rounded to one decimal, 0 when
// total is 0.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(total)) / 10
}
