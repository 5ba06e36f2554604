package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"contestctl/internal/application"
	"contestctl/internal/domain"
)

func newContestsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contests",
		Short: "Browse platform contests",
	}

	cmd.AddCommand(newContestsListCmd(app), newContestsViewCmd(app))

	return cmd
}

func newContestsListCmd(app *app) *cobra.Command {
	var platformName string
	var reload bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := app.platform(cmd.Context(), platformName)
			if err != nil {
				return err
			}
			if reload {
				if err := p.ReloadContests(cmd.Context()); err != nil {
					return err
				}
			}

			contests, err := p.ListContests(cmd.Context())
			if err != nil {
				return err
			}

			for _, contest := range contests {
				line := fmt.Sprintf("%s\t%s", contest.ID(), contest.Title())
				if window := contestWindow(contest); window != "" {
					line += "\t" + window
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&platformName, "platform", "", "Platform name")
	cmd.Flags().BoolVar(&reload, "reload", false, "Force a fresh contest listing")
	_ = cmd.MarkFlagRequired("platform")

	return cmd
}

func newContestsViewCmd(app *app) *cobra.Command {
	var platformName string

	cmd := &cobra.Command{
		Use:   "view <contest-id>",
		Short: "Show one contest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.platform(cmd.Context(), platformName)
			if err != nil {
				return err
			}

			contest, err := p.GetContest(cmd.Context(), domain.ContestID(args[0]))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", contest.ID(), contest.Title())
			if contest.Description() != "" {
				fmt.Fprintln(out, contest.Description())
			}
			if window := contestWindow(contest); window != "" {
				fmt.Fprintln(out, window)
			}

			tasks, err := contest.Tasks(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "tasks: %d\n", len(tasks))
			for _, task := range tasks {
				fmt.Fprintf(out, "  %s\t%s\n", task.ID(), task.Name())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&platformName, "platform", "", "Platform name")
	_ = cmd.MarkFlagRequired("platform")

	return cmd
}

func contestWindow(contest *application.Contest) string {
	start, end := contest.StartAt(), contest.EndAt()
	if start == nil && end == nil {
		return ""
	}
	format := func(t *time.Time) string {
		if t == nil {
			return "?"
		}
		return t.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%s → %s", format(start), format(end))
}
