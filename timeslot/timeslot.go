// Package timeslot holds the clock arithmetic for half-hour booking
// slots: parsing "HH:MM" strings, interval overlap and the slot grid
// used by the booking forms. Everything here is pure.
package timeslot

import (
	"errors"
	"fmt"
	"time"
)

const (
	// SlotMinutes is the booking granularity.
	SlotMinutes = 30

	slotsPerDay = 24 * 60 / SlotMinutes // 48
)

var ErrBadClock = errors.New("invalid clock time")

// ParseClock parses "HH:MM" (24-hour) into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock is the inverse of ParseClock.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Duration returns end minus start. The result is negative when end
// precedes start; callers reject that case separately.
func Duration(start, end string) (time.Duration, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	return time.Duration(e-s) * time.Minute, nil
}

// Aligned reports whether a clock time falls on a slot boundary,
// i.e. its minute component is 0 or 30.
func Aligned(minutes int) bool {
	return minutes%SlotMinutes == 0
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Touching endpoints (e1 == s2) do not count as overlap.
func Overlaps(s1, e1, s2, e2 int) bool {
	return !(e1 <= s2 || e2 <= s1)
}

// Slots returns the 48 half-hour boundaries of a day, "00:00" through
// "23:30", in order. Used to populate the start/end selects.
func Slots() []string {
	out := make([]string, slotsPerDay)
	for i := range out {
		out[i] = FormatClock(i * SlotMinutes)
	}
	return out
}
