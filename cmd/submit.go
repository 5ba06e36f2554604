package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"contestctl/internal/domain"
)

func newSubmitCmd(app *app) *cobra.Command {
	var platformName string
	var contestID string
	var taskID string
	var filePath string
	var langName string
	var noWait bool

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a solution file and wait for its verdict",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := app.platform(cmd.Context(), platformName)
			if err != nil {
				return err
			}

			var language domain.Language
			if langName != "" {
				language, err = domain.ParseLanguage(langName)
			} else {
				language, err = domain.LanguageForFile(filePath)
			}
			if err != nil {
				return err
			}

			sub, err := p.Submit(cmd.Context(), domain.ContestID(contestID), domain.TaskID(taskID), filePath, language)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Submitted %s as submission %s\n", filePath, sub.ID())

			if noWait {
				return nil
			}

			verdict, err := runVerdictWaitSpinner(cmd.Context(), out, "Waiting for verdict...", func(ctx context.Context) (domain.Verdict, error) {
				return p.Poller().Await(ctx, sub)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Verdict: %s\n", verdict)
			return nil
		},
	}

	cmd.Flags().StringVar(&platformName, "platform", "", "Platform name")
	cmd.Flags().StringVar(&contestID, "contest", "", "Contest ID")
	cmd.Flags().StringVar(&taskID, "task", "", "Task ID")
	cmd.Flags().StringVar(&filePath, "file", "", "Path to the solution file")
	cmd.Flags().StringVar(&langName, "lang", "", "Submission language (default: inferred from the file extension)")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Do not wait for the verdict")
	_ = cmd.MarkFlagRequired("platform")
	_ = cmd.MarkFlagRequired("contest")
	_ = cmd.MarkFlagRequired("task")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
