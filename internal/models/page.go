package models

// Page represents a single page within a comic archive, which is an image
// file inside the archive.
type Page struct {
	FileName string `json:"file_name"`
	Index    int    `json:"index"`
}
