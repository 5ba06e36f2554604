package cmd

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"contestctl/internal/domain"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	app, err := wireApp()
	if err != nil {
		rootCmd := &cobra.Command{Use: "contestctl", SilenceUsage: true}
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}
	return newRootCmdWithApp(app)
}

func newRootCmdWithApp(app *app) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "contestctl",
		Short:         "contestctl: mirror contests, submit solutions, poll verdicts",
		Long:          "contestctl logs into competitive-programming platforms, mirrors their contest/task/submission state locally, submits solutions, and polls judge verdicts from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newContestsCmd(app),
		newTasksCmd(app),
		newSubmitCmd(app),
		newSubmissionsCmd(app),
		newConfigCmd(app),
	)

	return rootCmd
}

// ExitCode maps the error taxonomy onto process exit codes so scripts can
// tell auth, lookup and network failures apart.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrAuthRequired):
		return 2
	case errors.Is(err, domain.ErrNotFound):
		return 3
	case errors.Is(err, domain.ErrConnection):
		return 4
	case errors.Is(err, domain.ErrRobotCheck):
		return 5
	default:
		return 1
	}
}
