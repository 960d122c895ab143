package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/taskmaster/dashboard/internal/application/views"
	"github.com/taskmaster/dashboard/internal/domain/entities"
)

// NewBoardCommand creates the board command
func NewBoardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Print the kanban board",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.load(cmd.Context()); err != nil {
				return err
			}

			filterName, _ := cmd.Flags().GetString("filter")
			filter, err := views.ParseTaskFilter(filterName)
			if err != nil {
				return err
			}
			sortName, _ := cmd.Flags().GetString("sort")
			order, err := views.ParseSortOrder(sortName)
			if err != nil {
				return err
			}

			tasks, err := a.dash.Tasks.List(cmd.Context())
			if err != nil {
				return err
			}
			today := a.dash.Today()
			tasks = views.SortTasks(views.FilterTasks(tasks, filter, today), order)

			renderBoard(cmd.OutOrStdout(), views.BuildBoard(tasks), today)
			return nil
		},
	}

	cmd.Flags().String("filter", "all", "Task filter: all, completed, pending or overdue")
	cmd.Flags().String("sort", "", "Sort order: dueDate-asc, dueDate-desc, priority-asc or priority-desc")
	return cmd
}

var (
	columnColors = map[entities.TaskStatus]*color.Color{
		entities.TaskStatusTodo:       color.New(color.FgWhite, color.Bold),
		entities.TaskStatusInProgress: color.New(color.FgBlue, color.Bold),
		entities.TaskStatusReview:     color.New(color.FgYellow, color.Bold),
		entities.TaskStatusDone:       color.New(color.FgGreen, color.Bold),
	}
	priorityColors = map[entities.Priority]*color.Color{
		entities.PriorityHigh:   color.New(color.FgRed),
		entities.PriorityMedium: color.New(color.FgYellow),
		entities.PriorityLow:    color.New(color.FgCyan),
	}
	overdueColor = color.New(color.FgRed, color.Bold)
	faintColor   = color.New(color.Faint)
)

func renderBoard(w io.Writer, board views.Board, today entities.Date) {
	for _, col := range board.Columns {
		header := columnColors[col.Status]
		if header == nil {
			header = color.New(color.Bold)
		}
		header.Fprintf(w, "%s (%d)\n", col.Title, len(col.Tasks))

		if len(col.Tasks) == 0 {
			faintColor.Fprintln(w, "  no tasks")
		}
		for _, task := range col.Tasks {
			renderTask(w, task, today)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%d of %d tasks completed (%.1f%%)\n", board.Completed, board.Total, board.Progress)
}

func renderTask(w io.Writer, task entities.Task, today entities.Date) {
	priority := priorityColors[task.Priority]
	if priority == nil {
		priority = faintColor
	}

	fmt.Fprintf(w, "  %s %s", priority.Sprintf("[%-6s]", task.Priority), task.Title)
	if task.Assignee.Name != "" {
		fmt.Fprintf(w, " @%s", task.Assignee.Name)
	}

	due := fmt.Sprintf("due %s", task.DueDate)
	if task.IsOverdue(today) {
		fmt.Fprintf(w, "  %s", overdueColor.Sprint(due+" (overdue)"))
	} else {
		fmt.Fprintf(w, "  %s", faintColor.Sprint(due))
	}

	if task.Meeting != nil {
		fmt.Fprintf(w, "  meeting %s", task.Meeting.Time)
	}
	fmt.Fprintln(w)
}
