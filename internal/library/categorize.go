// This file turns read failures into the bad file categories reported by a scan.

package library

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vrsandeep/mango-meta/internal/container"
	"github.com/vrsandeep/mango-meta/internal/formats"
	"github.com/vrsandeep/mango-meta/internal/formats/epub"
	"github.com/vrsandeep/mango-meta/internal/models"
)

// Categorize maps an error returned by ReadBook to a bad file category.
func Categorize(err error) models.BadFileError {
	var syntaxErr *xml.SyntaxError
	switch {
	case errors.Is(err, formats.ErrUnsupported):
		return models.ErrorUnsupportedFormat
	case errors.Is(err, container.ErrEmpty):
		return models.ErrorEmptyArchive
	case errors.Is(err, ErrNotArchive), errors.Is(err, zip.ErrFormat):
		return models.ErrorCorruptedArchive
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return models.ErrorIOError
	case errors.Is(err, epub.ErrNoPackage):
		return models.ErrorInvalidFormat
	case errors.As(err, &syntaxErr):
		return models.ErrorInvalidMetadata
	}

	// Check for specific error patterns
	errorStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errorStr, "not a valid zip file"):
		return models.ErrorCorruptedArchive
	case strings.Contains(errorStr, "password"), strings.Contains(errorStr, "encrypted"):
		return models.ErrorPasswordProtected
	case strings.Contains(errorStr, "permission denied"):
		return models.ErrorIOError
	case strings.Contains(errorStr, "xmltree:"):
		return models.ErrorInvalidMetadata
	}

	// Default to invalid format for unknown errors
	return models.ErrorInvalidFormat
}

// NewBadFile describes the file at path that failed with err.
func NewBadFile(path string, err error) models.BadFile {
	bf := models.BadFile{
		Path:       path,
		FileName:   filepath.Base(path),
		Error:      Categorize(err),
		Detail:     err.Error(),
		DetectedAt: time.Now(),
	}
	if info, statErr := os.Stat(path); statErr == nil {
		bf.FileSize = info.Size()
	}
	return bf
}
