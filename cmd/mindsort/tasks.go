package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/neboloop/mindsort/internal/logic/tasks"
	"github.com/neboloop/mindsort/internal/model"
	"github.com/neboloop/mindsort/internal/summary"
	"github.com/neboloop/mindsort/internal/svc"
	"github.com/neboloop/mindsort/internal/types"
)

// TasksCmd creates the tasks command
func TasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and manage tasks",
	}
	cmd.AddCommand(tasksListCmd())
	cmd.AddCommand(tasksToggleCmd())
	cmd.AddCommand(tasksDeleteCmd())
	cmd.AddCommand(tasksUpdateCmd())
	return cmd
}

func tasksListCmd() *cobra.Command {
	var category, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := requireOwner()
			if err != nil {
				return err
			}
			filter, err := tasks.ParseFilter(category, status)
			if err != nil {
				return err
			}
			return withServices(cmdContext(cmd), func(svcCtx *svc.ServiceContext) error {
				all, err := svcCtx.Tasks.List(cmdContext(cmd), owner)
				if err != nil {
					return err
				}
				counts := summary.Count(all)
				matched := filter.Apply(all)
				if jsonOut {
					resp := types.ListTasksResponse{
						Tasks:     make([]types.Task, len(matched)),
						Total:     counts.Total,
						Completed: counts.Completed,
						Pending:   counts.Pending,
					}
					for i, t := range matched {
						resp.Tasks[i] = types.FromTask(t)
					}
					return printJSON(cmd.OutOrStdout(), resp)
				}

				w := cmd.OutOrStdout()
				if len(matched) == 0 {
					fmt.Fprintln(w, "No tasks found.")
				}
				for _, t := range matched {
					printTask(w, t)
				}
				fmt.Fprintf(w, "\n%d total, %d completed, %d pending\n", counts.Total, counts.Completed, counts.Pending)
				return nil
			})
		},
	}
	addOwnerFlags(cmd)
	cmd.Flags().StringVar(&category, "category", "", "only this category")
	cmd.Flags().StringVar(&status, "status", "", "all, pending or completed")
	return cmd
}

func tasksToggleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between completed and pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := requireOwner()
			if err != nil {
				return err
			}
			return withServices(cmdContext(cmd), func(svcCtx *svc.ServiceContext) error {
				t, err := svcCtx.Tasks.Toggle(cmdContext(cmd), owner, args[0])
				if err != nil {
					return err
				}
				return writeTask(cmd.OutOrStdout(), t)
			})
		},
	}
	addOwnerFlags(cmd)
	return cmd
}

func tasksDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := requireOwner()
			if err != nil {
				return err
			}
			return withServices(cmdContext(cmd), func(svcCtx *svc.ServiceContext) error {
				if err := svcCtx.Tasks.Delete(cmdContext(cmd), owner, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
	addOwnerFlags(cmd)
	return cmd
}

func tasksUpdateCmd() *cobra.Command {
	var (
		title, description, priority, deadline string
		completed, clearDescription, clearDeadline bool
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a task; unset flags are left alone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := requireOwner()
			if err != nil {
				return err
			}

			var patch model.TaskPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = model.Some(title)
			}
			if flags.Changed("description") {
				patch.Description = model.Some(description)
			}
			if clearDescription {
				patch.Description = model.Cleared[string]()
			}
			if flags.Changed("priority") {
				patch.Priority = model.Some(model.Priority(priority))
			}
			if flags.Changed("deadline") {
				patch.Deadline = model.Some(deadline)
			}
			if clearDeadline {
				patch.Deadline = model.Cleared[string]()
			}
			if flags.Changed("completed") {
				patch.Completed = model.Some(completed)
			}

			return withServices(cmdContext(cmd), func(svcCtx *svc.ServiceContext) error {
				t, err := svcCtx.Tasks.Update(cmdContext(cmd), owner, args[0], patch)
				if err != nil {
					return err
				}
				return writeTask(cmd.OutOrStdout(), t)
			})
		},
	}
	addOwnerFlags(cmd)
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&priority, "priority", "", "Very Important, Important or Optional")
	cmd.Flags().StringVar(&deadline, "deadline", "", "new deadline")
	cmd.Flags().BoolVar(&completed, "completed", false, "completion state")
	cmd.Flags().BoolVar(&clearDescription, "clear-description", false, "remove the description")
	cmd.Flags().BoolVar(&clearDeadline, "clear-deadline", false, "remove the deadline")
	cmd.MarkFlagsMutuallyExclusive("description", "clear-description")
	cmd.MarkFlagsMutuallyExclusive("deadline", "clear-deadline")
	return cmd
}

func writeTask(w io.Writer, t model.Task) error {
	if jsonOut {
		return printJSON(w, types.FromTask(t))
	}
	printTask(w, t)
	return nil
}

func printTask(w io.Writer, t model.Task) {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	line := fmt.Sprintf("[%s] %s  %-13s %-14s %s", mark, t.ID, t.Category, t.Priority, t.Title)
	if t.Deadline != nil {
		line += " (due " + *t.Deadline + ")"
	}
	fmt.Fprintln(w, line)
}
