package log

import "errors"

// ErrUnknownFormat is returned by ParseFormat for an unsupported log format.
var ErrUnknownFormat = errors.New("unknown log format")
