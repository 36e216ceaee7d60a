package models

// FormatInfo contains static information about a supported container format.
type FormatInfo struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"` // lower case, with the leading dot
	Archive    bool     `json:"archive"`    // files must be archives, not plain documents
}

// Container gives a format module read access to the entries of an
// already opened book file.
type Container interface {
	// Entries lists entry names in reading order.
	Entries() []string
	ReadEntry(name string) ([]byte, error)
}

// CoverRequest names where a book's cover image lives. It never carries the
// image bytes themselves.
type CoverRequest struct {
	Entry     string `json:"entry"`      // entry name inside the container
	MediaType string `json:"media_type"` // e.g. "image/jpeg" or "application/pdf"
	Page      int    `json:"page"`       // page to render when Entry is a document
}

// Module is the contract every format implementation fulfils for one book.
type Module interface {
	// ToBook maps the parsed metadata onto a canonical Book.
	ToBook() *Book
	// ToCover returns the cover location, or nil when the book has none.
	ToCover() *CoverRequest
	// ToCounts returns a Book holding only the derived count fields.
	ToCounts() *Book
	// ToMap dumps the format's own parsed fields.
	ToMap() OrderedMap
}

// Format builds modules for one container type.
type Format interface {
	GetInfo() FormatInfo
	Open(c Container) (Module, error)
}
