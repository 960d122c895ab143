package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/taskmaster/dashboard/internal/domain/entities"
)

// NewRemindersCommand creates the reminders command
func NewRemindersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reminders",
		Short: "Show the deadline reminder and tasks due soon",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.load(cmd.Context()); err != nil {
				return err
			}

			tasks, err := a.dash.Tasks.List(cmd.Context())
			if err != nil {
				return err
			}

			reminder, active := a.dash.Reminders.Current()
			renderReminders(cmd.OutOrStdout(), reminder, active,
				dueSoon(tasks, a.dash.Today(), a.cfg.Reminders.WindowDays), a.cfg.Reminders.WindowDays)
			return nil
		},
	}
}

type dueTask struct {
	task     entities.Task
	daysLeft int
}

// dueSoon lists open tasks due within window days, in list order.
func dueSoon(tasks []entities.Task, today entities.Date, window int) []dueTask {
	var out []dueTask
	for _, t := range tasks {
		if t.IsDone() {
			continue
		}
		days := t.DaysUntilDue(today)
		if days >= 0 && days <= window {
			out = append(out, dueTask{task: t, daysLeft: days})
		}
	}
	return out
}

func renderReminders(w io.Writer, reminder entities.Reminder, active bool, due []dueTask, window int) {
	if active {
		color.New(color.FgYellow, color.Bold).Fprintln(w, reminder.Message)
	} else {
		fmt.Fprintf(w, "No upcoming deadlines within %d days\n", window)
	}

	if len(due) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Due soon:")
	for _, d := range due {
		fmt.Fprintf(w, "  %s  %s  %s\n", d.task.DueDate, d.task.Title, daysLabel(d.daysLeft))
	}
}

func daysLabel(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}
