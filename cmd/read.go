package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vrsandeep/mango-meta/internal/library"
	"github.com/vrsandeep/mango-meta/internal/models"
)

func newReadCmd(a *app) *cobra.Command {
	var bookOnly, thumbnail bool

	cmd := &cobra.Command{
		Use:   "read <file>...",
		Short: "Print the normalized metadata of book files",
		Long: `Read one or more book files and print one JSON object per file.

By default the object holds the file's format, content hash, normalized book
record, cover location and the format's own parsed fields. With --book only
the normalized book record is printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed int
			for _, path := range args {
				res, err := library.ReadBook(cmd.Context(), path)
				if err != nil {
					a.log.Error("Failed to read book", zap.String("path", path), zap.Error(err))
					failed++
					continue
				}

				out := res.ToMap()
				if bookOnly {
					out = res.Book.ToMap()
				}
				if thumbnail {
					out = append(out, models.Field{Key: "thumbnail", Value: a.thumbnail(cmd, path)})
				}
				if err := a.writeJSON(cmd.OutOrStdout(), out); err != nil {
					return err
				}
			}
			if failed > 0 {
				return errors.New("some books could not be read")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&bookOnly, "book", false, "print only the normalized book record")
	cmd.Flags().BoolVar(&thumbnail, "thumbnail", false, "include the cover thumbnail as a data URI")
	return cmd
}

// thumbnail returns the cover thumbnail of path as a data URI, or nil when
// the book has none.
func (a *app) thumbnail(cmd *cobra.Command, path string) any {
	img, _, err := library.ReadCover(cmd.Context(), path)
	if err != nil {
		if !errors.Is(err, library.ErrNoCover) {
			a.log.Warn("Failed to read cover", zap.String("path", path), zap.Error(err))
		}
		return nil
	}
	uri, err := library.GenerateThumbnail(img, a.cfg.Cover.Width, a.cfg.Cover.Height)
	if err != nil {
		a.log.Warn("Failed to generate thumbnail", zap.String("path", path), zap.Error(err))
		return nil
	}
	return uri
}
