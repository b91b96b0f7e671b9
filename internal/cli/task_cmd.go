package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/taskmate/internal/cli/formatter"
	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/alexanderramin/taskmate/internal/repository"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks", "t"},
		Short:   "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskShowCmd(app),
		newTaskToggleCmd(app, "done", "Mark a task completed (+10 points)", true),
		newTaskToggleCmd(app, "undo", "Reopen a completed task (-10 points)", false),
		newTaskRemoveCmd(app),
		newTaskClearCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var in taskInput

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a task; opens a form when run without a name in a terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = strings.Join(args, " ")
			if in.Name == "" {
				if !app.interactive() {
					return fmt.Errorf("task name is required")
				}
				if err := newTaskForm(&in).Run(); err != nil {
					return err
				}
			}

			t, err := in.toTask(app.now())
			if err != nil {
				return err
			}
			if err := app.Tasks.Add(cmd.Context(), app.user(), t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %s %s (%s)\n",
				formatter.Bold(t.Name), formatter.CategoryBadge(t.Category), formatter.TruncID(t.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Category, "category", "c", "", "preset (Work, Sport, Reading, Learning, Worship) or custom name with --color")
	cmd.Flags().StringVar(&in.Color, "color", "", "custom category color, #RRGGBB")
	cmd.Flags().StringVarP(&in.Priority, "priority", "p", "medium", "high, medium or low")
	cmd.Flags().StringVarP(&in.Description, "desc", "d", "", "description")
	cmd.Flags().StringVar(&in.Due, "due", "", "due date: YYYY-MM-DD, today or tomorrow")
	cmd.Flags().StringVar(&in.At, "at", "", "due time, HH:MM")
	cmd.Flags().StringSliceVarP(&in.Tags, "tag", "t", nil, "tag (repeatable or comma separated)")
	cmd.Flags().StringArrayVarP(&in.Subtasks, "subtask", "s", nil, "subtask title (repeatable)")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var sort, priority, due string
	var done, open bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if done && open {
				return fmt.Errorf("--done and --open are mutually exclusive")
			}
			f := repository.TaskFilter{
				Sort:     repository.TaskSort(sort),
				Priority: domain.Priority(priority),
			}
			if done || open {
				f.Completed = &done
			}
			if due != "" {
				d, err := parseDay(due, app.now())
				if err != nil {
					return err
				}
				f.DueOn = &d
			}

			tasks, err := app.Tasks.List(cmd.Context(), app.user(), f)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList(tasks, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&sort, "sort", "newest", "newest or oldest")
	cmd.Flags().BoolVar(&done, "done", false, "only completed tasks")
	cmd.Flags().BoolVar(&open, "open", false, "only open tasks")
	cmd.Flags().StringVar(&priority, "priority", "", "only this priority")
	cmd.Flags().StringVar(&due, "due", "", "only tasks due on this day: YYYY-MM-DD, today or tomorrow")

	return cmd
}

func newTaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task with its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.resolveTaskID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.Get(cmd.Context(), app.user(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTask(t, app.now()))
			return nil
		},
	}
}

func newTaskToggleCmd(app *App, use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := app.resolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}
			before, err := app.Tasks.Get(ctx, app.user(), id)
			if err != nil {
				return err
			}
			if before.IsCompleted == completed {
				state := "open"
				if completed {
					state = "completed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already %s\n", formatter.Bold(before.Name), state)
				return nil
			}

			t, err := app.Tasks.Update(ctx, app.user(), id, domain.TaskPatch{IsCompleted: &completed})
			if err != nil {
				return err
			}
			p, err := app.Progress.GetUserProgress(ctx, app.user())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatToggle(t, p))
			return nil
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.resolveTaskID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Remove(cmd.Context(), app.user(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", formatter.TruncID(id))
			return nil
		},
	}
}

func newTaskClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all your tasks (points history is kept)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := app.confirm("Delete all your tasks?", yes)
			if err != nil || !ok {
				return err
			}
			n, err := app.Tasks.RemoveAll(cmd.Context(), app.user())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d tasks\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}
