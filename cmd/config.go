package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"contestctl/internal/config"
)

func newConfigCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(newConfigInitCmd(app), newConfigPathCmd(app))

	return cmd
}

func newConfigInitCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.WriteDefault()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
}

func newConfigPathCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := config.Dir()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
