package common

import (
	"fmt"
	"strconv"
	"time"
)

// NowFunc returns the current time. Override in tests to inject fake clocks.
type NowFunc func() time.Time

// NowUTC is the default clock implementation.
var NowUTC NowFunc = func() time.Time {
	return time.Now().UTC()
}

// FixedClock returns a NowFunc that always reports t.
func FixedClock(t time.Time) NowFunc {
	return func() time.Time {
		return t
	}
}

// ParseID parses a positive numeric identifier taken from a path variable.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
