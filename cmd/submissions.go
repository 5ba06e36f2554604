package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	statusadapter "contestctl/internal/adapters/render/status"
	"contestctl/internal/application"
	"contestctl/internal/domain"
)

func newSubmissionsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "Inspect your submission history",
	}

	cmd.AddCommand(newSubmissionsListCmd(app), newSubmissionsStatusCmd(app))

	return cmd
}

func newSubmissionsListCmd(app *app) *cobra.Command {
	var platformName string
	var reload bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions across all contests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := app.platform(cmd.Context(), platformName)
			if err != nil {
				return err
			}

			if reload {
				if err := p.Reload(cmd.Context()); err != nil {
					var partial *domain.PartialRefreshError
					if !errors.As(err, &partial) {
						return err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", partial)
				}
			}

			subs, err := p.SubmissionHistory(cmd.Context())
			if err != nil {
				return err
			}

			return writeSubmissionsOutput(cmd, app, platformName, subs, asJSON)
		},
	}

	cmd.Flags().StringVar(&platformName, "platform", "", "Platform name")
	cmd.Flags().BoolVar(&reload, "reload", false, "Refresh submissions from the platform first")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of the rendered view")
	_ = cmd.MarkFlagRequired("platform")

	return cmd
}

func newSubmissionsStatusCmd(app *app) *cobra.Command {
	var platformName string
	var submissionID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Fetch the current verdict of one submission",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := app.platform(cmd.Context(), platformName)
			if err != nil {
				return err
			}

			sub, err := p.GetSubmission(cmd.Context(), domain.SubmissionID(submissionID))
			if err != nil {
				return err
			}

			verdict, err := p.Poller().Poll(cmd.Context(), sub)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", sub.ID(), verdict)
			return nil
		},
	}

	cmd.Flags().StringVar(&platformName, "platform", "", "Platform name")
	cmd.Flags().StringVar(&submissionID, "id", "", "Submission ID")
	_ = cmd.MarkFlagRequired("platform")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

type submissionOutput struct {
	ID          string    `json:"id"`
	ContestID   string    `json:"contest_id"`
	TaskID      string    `json:"task_id"`
	Verdict     string    `json:"verdict"`
	Terminal    bool      `json:"terminal"`
	Language    string    `json:"language,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func writeSubmissionsOutput(cmd *cobra.Command, app *app, platformName string, subs []*application.Submission, asJSON bool) error {
	if asJSON {
		outputs := make([]submissionOutput, 0, len(subs))
		for _, sub := range subs {
			outputs = append(outputs, submissionOutput{
				ID:          string(sub.ID()),
				ContestID:   string(sub.ContestID()),
				TaskID:      string(sub.TaskID()),
				Verdict:     string(sub.Verdict()),
				Terminal:    sub.Terminal(),
				Language:    sub.Language(),
				SubmittedAt: sub.SubmittedAt(),
			})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(outputs)
	}

	rows := make([]statusadapter.Row, 0, len(subs))
	for _, sub := range subs {
		rows = append(rows, statusadapter.Row{
			ID:          sub.ID(),
			ContestID:   sub.ContestID(),
			TaskID:      sub.TaskID(),
			Verdict:     sub.Verdict(),
			Terminal:    sub.Terminal(),
			Language:    sub.Language(),
			SubmittedAt: sub.SubmittedAt(),
		})
	}

	rendered := statusadapter.Render(rows, statusadapter.RenderOptions{
		Platform: platformName,
		Now:      app.clock.Now(),
	})

	_, err := fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
