package text

import "errors"

// ErrParse is returned when a page cannot be parsed into a document.
// The crawler records the page with no words and keeps going.
var ErrParse = errors.New("failed to parse page")
