// Package views derives read models from store snapshots. Every function
// here is pure: it takes slices and returns new values without touching the
// stores.
package views

import (
	"github.com/taskmaster/dashboard/internal/domain/entities"
)

// Column is one board lane
type Column struct {
	Status entities.TaskStatus `json:"status" yaml:"status"`
	Title  string              `json:"title" yaml:"title"`
	Tasks  []entities.Task     `json:"tasks" yaml:"tasks"`
}

// Board is the kanban view: four fixed columns plus overall progress
type Board struct {
	Columns   []Column `json:"columns" yaml:"columns"`
	Total     int      `json:"total" yaml:"total"`
	Completed int      `json:"completed" yaml:"completed"`
	Progress  float64  `json:"progress" yaml:"progress"`
}

// BuildBoard buckets tasks by status, keeping list order inside a column.
// Tasks with a status outside the four columns are left out.
func BuildBoard(tasks []entities.Task) Board {
	columns := make([]Column, len(entities.TaskStatuses))
	pos := make(map[entities.TaskStatus]int, len(entities.TaskStatuses))
	for i, status := range entities.TaskStatuses {
		columns[i] = Column{Status: status, Title: status.Title(), Tasks: []entities.Task{}}
		pos[status] = i
	}

	board := Board{Columns: columns}
	for _, task := range tasks {
		i, ok := pos[task.Status]
		if !ok {
			continue
		}
		columns[i].Tasks = append(columns[i].Tasks, task.Clone())
		board.Total++
		if task.IsDone() {
			board.Completed++
		}
	}
	board.Progress = percent(board.Completed, board.Total)
	return board
}

// Column returns the lane for status
func (b Board) Column(status entities.TaskStatus) (Column, bool) {
	for _, c := range b.Columns {
		if c.Status == status {
			return c, true
		}
	}
	return Column{}, false
}
