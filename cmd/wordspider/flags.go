package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// errInvalidDelay is returned for delay values that are neither seconds nor
// a Go duration.
var errInvalidDelay = errors.New("invalid delay")

// delayValue is a pflag.Value for the request delay. It accepts plain
// seconds ("1", "0.5") as well as Go durations ("500ms", "2s").
type delayValue time.Duration

// newDelayValue returns a delayValue holding d.
func newDelayValue(d time.Duration) *delayValue {
	v := delayValue(d)
	return &v
}

// String prints the delay in seconds, the unit the flag is usually given in.
func (d *delayValue) String() string {
	return strconv.FormatFloat(time.Duration(*d).Seconds(), 'f', -1, 64)
}

// Set parses s.
func (d *delayValue) Set(s string) error {
	parsed, err := parseDelay(s)
	if err != nil {
		return err
	}
	*d = delayValue(parsed)
	return nil
}

// Type names the value in help output.
func (d *delayValue) Type() string {
	return "seconds"
}

// Duration returns the delay.
func (d *delayValue) Duration() time.Duration {
	return time.Duration(*d)
}

// parseDelay parses seconds or a Go duration. Negative values are rejected.
func parseDelay(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", errInvalidDelay)
	}

	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		if secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
			return 0, fmt.Errorf("%w: %q", errInvalidDelay, s)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}

	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: %q (use seconds like 1.5 or a duration like 500ms)", errInvalidDelay, s)
	}
	return d, nil
}
