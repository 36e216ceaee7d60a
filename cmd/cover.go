package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vrsandeep/mango-meta/internal/library"
)

func newCoverCmd(a *app) *cobra.Command {
	var output string
	var full bool

	cmd := &cobra.Command{
		Use:   "cover <file>",
		Short: "Write the cover of a book as a JPEG",
		Long: `Extract the cover of a book and write it as a JPEG thumbnail.

Comic covers are the first page, EPUB covers are found through the package
document, and PDF covers are rendered from the first page. The thumbnail
size comes from cover.width and cover.height.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			img, cover, err := library.ReadCover(cmd.Context(), path)
			if err != nil {
				return err
			}
			if !full {
				img = library.Thumbnail(img, a.cfg.Cover.Width, a.cfg.Cover.Height)
			}
			data, err := library.EncodeJPEG(img)
			if err != nil {
				return err
			}

			if output == "" {
				base := filepath.Base(path)
				output = strings.TrimSuffix(base, filepath.Ext(base)) + ".jpg"
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write cover: %w", err)
			}

			a.log.Info("Wrote cover",
				zap.String("path", path),
				zap.String("entry", cover.Entry),
				zap.String("output", output))
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <book name>.jpg)")
	cmd.Flags().BoolVar(&full, "full", false, "write the cover at its original size")
	return cmd
}
