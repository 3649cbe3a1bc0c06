package ratelimit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Spec is a parsed "<count>/<period>" limit.
type Spec struct {
	Limit  int64
	Period time.Duration
}

func (s Spec) String() string {
	return fmt.Sprintf("%d/%s", s.Limit, periodName(s.Period))
}

var periods = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
}

// ParseSpec parses "3/minute". Period must be second, minute, hour or day and count at least 1.
func ParseSpec(raw string) (Spec, error) {
	countPart, periodPart, ok := strings.Cut(strings.TrimSpace(raw), "/")
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrMalformedSpec, raw)
	}
	count, err := strconv.ParseInt(strings.TrimSpace(countPart), 10, 64)
	if err != nil || count < 1 {
		return Spec{}, fmt.Errorf("%w: bad count in %q", ErrMalformedSpec, raw)
	}
	period, ok := periods[strings.ToLower(strings.TrimSpace(periodPart))]
	if !ok {
		return Spec{}, fmt.Errorf("%w: unknown period in %q", ErrMalformedSpec, raw)
	}
	return Spec{Limit: count, Period: period}, nil
}

func periodName(d time.Duration) string {
	for name, period := range periods {
		if period == d {
			return name
		}
	}
	return d.String()
}
