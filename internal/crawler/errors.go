package crawler

import "errors"

// ErrInvalidSeedURL is returned when the starting URL does not normalize to
// an absolute URL with a scheme and host. Nothing is fetched in that case.
var ErrInvalidSeedURL = errors.New("invalid seed URL")
