// Package formats keeps the registry of supported book formats and maps
// file paths to the format that reads them.
package formats

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/vrsandeep/mango-meta/internal/formats/cba"
	"github.com/vrsandeep/mango-meta/internal/formats/epub"
	"github.com/vrsandeep/mango-meta/internal/formats/pdf"
	"github.com/vrsandeep/mango-meta/internal/models"
)

// ErrUnsupported is returned for files no registered format can read.
var ErrUnsupported = errors.New("unsupported book format")

var (
	registry     = make(map[string]models.Format)
	defaultsOnce sync.Once
)

// Register adds a new format to the registry. It's called at startup.
func Register(f models.Format) {
	info := f.GetInfo()
	if _, exists := registry[info.ID]; exists {
		// Panic is appropriate here as it's a developer error during setup.
		panic(fmt.Sprintf("format with ID '%s' is already registered", info.ID))
	}
	registry[info.ID] = f
}

// RegisterDefaults registers the comic archive, EPUB and PDF formats. It is
// safe to call more than once.
func RegisterDefaults() {
	defaultsOnce.Do(func() {
		Register(cba.New())
		Register(epub.New())
		Register(pdf.New())
	})
}

// Get returns a format by its ID.
func Get(id string) (models.Format, bool) {
	f, ok := registry[id]
	return f, ok
}

// GetAll returns the information of every registered format, by ID.
func GetAll() []models.FormatInfo {
	var formats []models.FormatInfo
	for _, f := range registry {
		formats = append(formats, f.GetInfo())
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i].ID < formats[j].ID })
	return formats
}

// ForPath returns the format registered for the file's extension.
func ForPath(path string) (models.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		for _, f := range registry {
			for _, e := range f.GetInfo().Extensions {
				if e == ext {
					return f, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
}

// IsSupported reports whether some registered format reads path.
func IsSupported(path string) bool {
	_, err := ForPath(path)
	return err == nil
}
