// This file handles the logic for extracting hints from file paths.

package library

import (
	"path/filepath"
)

// ExtractMetadataFromPath uses simple heuristics to determine the folder
// (usually the series) and the file name of a book from its path.
// For example: /path/to/library/One-Piece/Chapter-100.cbz
// Folder: One-Piece
// File name: Chapter-100.cbz
func ExtractMetadataFromPath(filePath, libraryPath string) (folder, fileName string) {
	fileName = filepath.Base(filePath)

	dir := filepath.Dir(filePath)
	folder = filepath.Base(dir)

	// Files in the root of the library have no folder of their own.
	if filepath.Clean(dir) == filepath.Clean(libraryPath) {
		folder = "Unknown Series"
	}

	return folder, fileName
}
