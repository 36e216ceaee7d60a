package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vrsandeep/mango-meta/internal/library"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Print the metadata of books as they change",
		Long: `Watch a directory (library.path by default) and print one JSON object
for every book added or modified below it, once changes settle for
watch.debounce. Runs until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := *a.cfg
			if len(args) == 1 {
				cfg.Library.Path = args[0]
			}

			scanner := library.NewScanner(&cfg, a.log)
			out := cmd.OutOrStdout()
			onChange := func(paths []string) {
				var existing []string
				for _, p := range paths {
					if _, err := os.Stat(p); err != nil {
						a.log.Info("Book removed", zap.String("path", p))
						continue
					}
					existing = append(existing, p)
				}
				report, err := scanner.ScanPaths(ctx, cfg.Library.Path, existing)
				if err != nil {
					if !errors.Is(err, context.Canceled) {
						a.log.Error("Incremental scan failed", zap.Error(err))
					}
					return
				}
				for _, res := range report.Books {
					if err := a.writeJSON(out, res.ToMap()); err != nil {
						a.log.Error("Failed to write result", zap.Error(err))
					}
				}
			}

			w := library.NewWatcher(&cfg, a.log, onChange)
			if err := w.Start(ctx); err != nil {
				return err
			}
			defer w.Stop()

			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().Duration("debounce", 0, "quiet period before changes are reported (default 2s)")
	a.bind("watch.debounce", cmd.Flags().Lookup("debounce"))
	return cmd
}
