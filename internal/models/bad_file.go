// This file defines the data structure for reporting files a scan could not read.

package models

import "time"

// BadFile is a book file whose container or metadata could not be read.
type BadFile struct {
	Path       string       `json:"path"`
	FileName   string       `json:"file_name"`
	Error      BadFileError `json:"error"`
	Detail     string       `json:"detail"`
	FileSize   int64        `json:"file_size"`
	DetectedAt time.Time    `json:"detected_at"`
}

// BadFileError represents different types of file errors
type BadFileError string

const (
	ErrorCorruptedArchive  BadFileError = "corrupted_archive"
	ErrorInvalidFormat     BadFileError = "invalid_format"
	ErrorInvalidMetadata   BadFileError = "invalid_metadata"
	ErrorPasswordProtected BadFileError = "password_protected"
	ErrorEmptyArchive      BadFileError = "empty_archive"
	ErrorUnsupportedFormat BadFileError = "unsupported_format"
	ErrorIOError           BadFileError = "io_error"
)

// String returns the human-readable error description
func (e BadFileError) String() string {
	switch e {
	case ErrorCorruptedArchive:
		return "Corrupted Archive"
	case ErrorInvalidFormat:
		return "Invalid Format"
	case ErrorInvalidMetadata:
		return "Invalid Metadata"
	case ErrorPasswordProtected:
		return "Password Protected"
	case ErrorEmptyArchive:
		return "Empty Archive"
	case ErrorUnsupportedFormat:
		return "Unsupported Format"
	case ErrorIOError:
		return "I/O Error"
	default:
		return "Unknown Error"
	}
}
