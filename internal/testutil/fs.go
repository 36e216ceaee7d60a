package testutil

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// Entry is a named file to place inside a test archive.
type Entry struct {
	Name    string
	Content []byte
}

// CreateTestCBZ is a helper function that creates a temporary CBZ file with
// a given set of page names. It's useful for testing archive parsing.
func CreateTestCBZ(t *testing.T, dir, name string, pages []string) string {
	t.Helper()
	entries := make([]Entry, 0, len(pages))
	for _, page := range pages {
		entries = append(entries, Entry{Name: page, Content: []byte("image data")})
	}
	return CreateTestArchive(t, dir, name, entries)
}

// CreateTestArchive writes a zip file holding entries, in the given order,
// and returns its path. EPUB fixtures use it as well as comic archives.
func CreateTestArchive(t *testing.T, dir, name string, entries []Entry) string {
	t.Helper()
	filePath := filepath.Join(dir, name)
	file, err := os.Create(filePath)
	if err != nil {
		t.Fatalf("Failed to create temp archive: %v", err)
	}
	defer file.Close()

	zipWriter := zip.NewWriter(file)
	for _, e := range entries {
		w, err := zipWriter.Create(e.Name)
		if err != nil {
			t.Fatalf("Failed to create entry '%s' in zip: %v", e.Name, err)
		}
		if _, err := w.Write(e.Content); err != nil {
			t.Fatalf("Failed to write entry '%s': %v", e.Name, err)
		}
	}
	if err := zipWriter.Close(); err != nil {
		t.Fatalf("Failed to finalize zip: %v", err)
	}
	return filePath
}

// PNG returns an encoded, solid-colour PNG of the given size.
func PNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}
