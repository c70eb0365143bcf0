package domain

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// TimeSlot is a resolved, per-date view of one TimeRange. It is never persisted.
type TimeSlot struct {
	ID          string `json:"id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

func (s TimeSlot) Label() string {
	return s.StartTime + "-" + s.EndTime
}

// DayAvailability is the resolved schedule of one calendar date.
type DayAvailability struct {
	Date      string     `json:"date"`
	TimeSlots []TimeSlot `json:"time_slots"`
}

// DaySummary condenses a DayAvailability for month views.
type DaySummary struct {
	Date      string `json:"date"`
	Enabled   bool   `json:"enabled"`
	Total     int    `json:"total"`
	Available int    `json:"available"`
}

// SlotID derives the stable selection key of a slot on a date.
func SlotID(date string, r TimeRange) string {
	return date + "-" + r.StartTime + "-" + r.EndTime
}

// ParseDate parses an ISO calendar date in loc. A nil loc means UTC.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q: %w", s, ErrInvalidDate)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
