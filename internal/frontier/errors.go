package frontier

import "errors"

// ErrUnknownOrder is returned by ParseOrder for an unrecognized order name.
var ErrUnknownOrder = errors.New("unknown crawl order")
