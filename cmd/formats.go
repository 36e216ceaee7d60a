package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vrsandeep/mango-meta/internal/formats"
)

func newFormatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported book formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.writeJSON(cmd.OutOrStdout(), formats.GetAll())
		},
	}
}
