package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vrsandeep/mango-meta/internal/library"
)

func newScanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Read every book below a directory",
		Long: `Walk a directory (library.path by default), read every supported book
with a pool of scan.workers workers, and print a JSON report of the books
read and the files that could not be read.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := a.cfg.Library.Path
			if len(args) == 1 {
				root = args[0]
			}

			report, err := library.NewScanner(a.cfg, a.log).Scan(cmd.Context(), root)
			if err != nil {
				return err
			}
			return a.writeJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().Int("workers", 0, "number of books read in parallel (default number of CPUs)")
	a.bind("scan.workers", cmd.Flags().Lookup("workers"))
	return cmd
}
