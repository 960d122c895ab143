package views

import (
	"fmt"
	"sort"
	"strings"

	"github.com/taskmaster/dashboard/internal/domain/entities"
)

// TaskFilter is a tab on the tasks page
type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterCompleted TaskFilter = "completed"
	FilterPending   TaskFilter = "pending"
	FilterOverdue   TaskFilter = "overdue"
)

// ParseTaskFilter reads a tab name; empty means all.
func ParseTaskFilter(s string) (TaskFilter, error) {
	switch f := TaskFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterCompleted, FilterPending, FilterOverdue:
		return f, nil
	default:
		return "", fmt.Errorf("unknown task filter %q", s)
	}
}

// FilterTasks keeps the tasks matching filter, in their original order.
func FilterTasks(tasks []entities.Task, filter TaskFilter, today entities.Date) []entities.Task {
	out := make([]entities.Task, 0, len(tasks))
	for _, t := range tasks {
		keep := true
		switch filter {
		case FilterCompleted:
			keep = t.IsDone()
		case FilterPending:
			keep = !t.IsDone()
		case FilterOverdue:
			keep = t.IsOverdue(today)
		}
		if keep {
			out = append(out, t.Clone())
		}
	}
	return out
}

// SortField is the key a task list is ordered by
type SortField string

const (
	SortByDueDate  SortField = "dueDate"
	SortByPriority SortField = "priority"
)

// SortOrder pairs a field with a direction, written "dueDate-asc" etc.
type SortOrder struct {
	Field      SortField
	Descending bool
}

// DefaultSortOrder is earliest due date first
var DefaultSortOrder = SortOrder{Field: SortByDueDate}

// ParseSortOrder reads "<field>-<asc|desc>"; empty means DefaultSortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultSortOrder, nil
	}

	field, dir, ok := strings.Cut(s, "-")
	if !ok {
		return SortOrder{}, fmt.Errorf("invalid sort order %q", s)
	}

	var order SortOrder
	switch SortField(field) {
	case SortByDueDate, SortByPriority:
		order.Field = SortField(field)
	default:
		return SortOrder{}, fmt.Errorf("invalid sort field %q", field)
	}
	switch dir {
	case "asc":
	case "desc":
		order.Descending = true
	default:
		return SortOrder{}, fmt.Errorf("invalid sort direction %q", dir)
	}
	return order, nil
}

func (o SortOrder) String() string {
	if o.Descending {
		return string(o.Field) + "-desc"
	}
	return string(o.Field) + "-asc"
}

// SortTasks returns a sorted copy. Ties keep their input order in both
// directions.
func SortTasks(tasks []entities.Task, order SortOrder) []entities.Task {
	out := make([]entities.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}

	cmp := func(a, b entities.Task) int {
		if order.Field == SortByPriority {
			return a.Priority.Rank() - b.Priority.Rank()
		}
		return a.DueDate.Compare(b.DueDate)
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if order.Descending {
			return c > 0
		}
		return c < 0
	})
	return out
}
