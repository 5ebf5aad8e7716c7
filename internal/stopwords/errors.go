package stopwords

import "errors"

// Sentinel errors for stop-word file handling.
var (
	// ErrRead is returned when the stop-word file cannot be read.
	ErrRead = errors.New("failed to read stop-word file")

	// ErrCreate is returned when the default stop-word file cannot be written.
	ErrCreate = errors.New("failed to create stop-word file")
)
