package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimeRange is a wall-clock window within a single day. Both ends are
// zero-padded 24-hour "HH:MM" strings so lexicographic order equals
// chronological order.
type TimeRange struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ParseTime parses a strict "HH:MM" value.
func ParseTime(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("%q: %w", s, ErrInvalidTimeFormat)
	}
	hour, ok := twoDigits(s[0:2])
	if !ok || hour > 23 {
		return 0, 0, fmt.Errorf("%q: %w", s, ErrInvalidTimeFormat)
	}
	minute, ok = twoDigits(s[3:5])
	if !ok || minute > 59 {
		return 0, 0, fmt.Errorf("%q: %w", s, ErrInvalidTimeFormat)
	}
	return hour, minute, nil
}

func twoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

func minutesOf(s string) (int, error) {
	h, m, err := ParseTime(s)
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// CompareTime orders two "HH:MM" values by (hour, minute) and returns -1, 0 or +1.
func CompareTime(a, b string) (int, error) {
	am, err := minutesOf(a)
	if err != nil {
		return 0, err
	}
	bm, err := minutesOf(b)
	if err != nil {
		return 0, err
	}
	switch {
	case am < bm:
		return -1, nil
	case am > bm:
		return 1, nil
	default:
		return 0, nil
	}
}

// FormatSlotLabel renders the canonical "HH:MM-HH:MM" label. The same string is
// stored on a Booking and matched during availability resolution.
func FormatSlotLabel(r TimeRange) string {
	return r.StartTime + "-" + r.EndTime
}

// ParseSlotLabel is the inverse of FormatSlotLabel. The returned range is validated.
func ParseSlotLabel(label string) (TimeRange, error) {
	start, end, ok := strings.Cut(label, "-")
	if !ok {
		return TimeRange{}, fmt.Errorf("slot %q: %w", label, ErrInvalidTimeFormat)
	}
	r := TimeRange{StartTime: start, EndTime: end}
	if err := r.Validate(); err != nil {
		return TimeRange{}, err
	}
	return r, nil
}

func (r TimeRange) Label() string {
	return FormatSlotLabel(r)
}

// Validate checks both ends are well-formed and StartTime < EndTime.
func (r TimeRange) Validate() error {
	cmp, err := CompareTime(r.StartTime, r.EndTime)
	if err != nil {
		return err
	}
	if cmp >= 0 {
		return fmt.Errorf("%s: %w", r.Label(), ErrInvalidTimeRange)
	}
	return nil
}

// Duration is EndTime minus StartTime. It is negative or zero for an inverted range.
func (r TimeRange) Duration() (time.Duration, error) {
	start, err := minutesOf(r.StartTime)
	if err != nil {
		return 0, err
	}
	end, err := minutesOf(r.EndTime)
	if err != nil {
		return 0, err
	}
	return time.Duration(end-start) * time.Minute, nil
}
