package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"contestctl/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "contestctl %s\n", version.Version)
			return err
		},
	}
}
