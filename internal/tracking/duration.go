package tracking

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var durationPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

var durationUnits = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
}

// ParseDuration parses tokens such as "30s", "5m", "2h" or "1d".
func ParseDuration(token string) (time.Duration, error) {
	match := durationPattern.FindStringSubmatch(token)
	if match == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, token)
	}

	unit := durationUnits[match[2]]
	value, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil || value > int64(1<<63-1)/int64(unit) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidDuration, token)
	}

	return time.Duration(value) * unit, nil
}
