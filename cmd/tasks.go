package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"contestctl/internal/domain"
)

func newTasksCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Browse contest tasks",
	}

	cmd.AddCommand(newTasksListCmd(app), newTasksViewCmd(app))

	return cmd
}

func newTasksListCmd(app *app) *cobra.Command {
	var platformName string
	var contestID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of a contest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := app.platform(cmd.Context(), platformName)
			if err != nil {
				return err
			}

			tasks, err := p.ListTasks(cmd.Context(), domain.ContestID(contestID))
			if err != nil {
				return err
			}

			for _, task := range tasks {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", task.ID(), task.Name())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&platformName, "platform", "", "Platform name")
	cmd.Flags().StringVar(&contestID, "contest", "", "Contest ID")
	_ = cmd.MarkFlagRequired("platform")
	_ = cmd.MarkFlagRequired("contest")

	return cmd
}

func newTasksViewCmd(app *app) *cobra.Command {
	var platformName string
	var contestID string
	var reload bool

	cmd := &cobra.Command{
		Use:   "view <task-id>",
		Short: "Show a task's statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.platform(cmd.Context(), platformName)
			if err != nil {
				return err
			}

			task, err := p.GetTask(cmd.Context(), domain.ContestID(contestID), domain.TaskID(args[0]))
			if err != nil {
				return err
			}

			var content domain.TaskContent
			if reload {
				content, err = task.ReloadContent(cmd.Context())
			} else {
				content, err = task.Content(cmd.Context())
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, task.Name())
			if content.TimeLimit != "" {
				fmt.Fprintf(out, "time limit: %s\n", content.TimeLimit)
			}
			if content.MemoryLimit != "" {
				fmt.Fprintf(out, "memory limit: %s\n", content.MemoryLimit)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, content.Text)
			if content.SampleInput != "" {
				fmt.Fprintf(out, "\nSample input:\n%s\n", content.SampleInput)
			}
			if content.SampleOutput != "" {
				fmt.Fprintf(out, "\nSample output:\n%s\n", content.SampleOutput)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&platformName, "platform", "", "Platform name")
	cmd.Flags().StringVar(&contestID, "contest", "", "Contest ID")
	cmd.Flags().BoolVar(&reload, "reload", false, "Re-fetch the statement")
	_ = cmd.MarkFlagRequired("platform")
	_ = cmd.MarkFlagRequired("contest")

	return cmd
}
