// Package timeparse parses the modification-time cutoffs accepted by
// --changed-after and --changed-before.
package timeparse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

var units = map[string]time.Duration{
	"s":     time.Second,
	"m":     time.Minute,
	"h":     time.Hour,
	"d":     day,
	"day":   day,
	"days":  day,
	"w":     week,
	"week":  week,
	"weeks": week,
}

var layouts = []string{time.DateOnly, time.DateTime, time.RFC3339}

// ParseCutoff turns s into an absolute point in time.
//
// A relative age such as "10h", "2d" or "3weeks" is subtracted from now.
// Otherwise s must be a date (YYYY-MM-DD), a date and time
// (YYYY-MM-DD HH:MM:SS), both read as UTC, or an RFC3339 timestamp.
func ParseCutoff(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time string")
	}

	if startsWithDigits(s) && !strings.Contains(s, "-") {
		age, err := ParseAge(s)
		if err != nil {
			return time.Time{}, err
		}
		return now.Add(-age), nil
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (expected an age like 2d, YYYY-MM-DD, YYYY-MM-DD HH:MM:SS, or RFC3339)", s)
}

// ParseAge parses a whole number followed by a unit: s, m, h, d/day/days
// or w/week/weeks. Combined and fractional values are not supported.
func ParseAge(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	split := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	switch {
	case s == "":
		return 0, fmt.Errorf("empty duration string")
	case split == 0:
		return 0, fmt.Errorf("invalid duration %q: missing number", s)
	case split < 0:
		return 0, fmt.Errorf("invalid duration %q: missing unit", s)
	}

	n, err := strconv.ParseInt(s[:split], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	unitName := strings.TrimSpace(s[split:])
	unit, ok := units[unitName]
	if !ok {
		return 0, fmt.Errorf("invalid duration %q: unknown unit %q", s, unitName)
	}
	if n > math.MaxInt64/int64(unit) {
		return 0, fmt.Errorf("invalid duration %q: value too large", s)
	}

	return time.Duration(n) * unit, nil
}

func startsWithDigits(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
