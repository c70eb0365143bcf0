package domain

import (
	"errors"
	"fmt"
	"time"
)

type Weekday string

const (
	Sunday    Weekday = "sunday"
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
)

// Weekdays lists the schedule keys indexed by time.Weekday (0=Sunday..6=Saturday).
var Weekdays = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

func WeekdayOf(d time.Weekday) Weekday {
	if d < time.Sunday || d > time.Saturday {
		return ""
	}
	return Weekdays[d]
}

func ParseWeekday(s string) (Weekday, bool) {
	for _, w := range Weekdays {
		if string(w) == s {
			return w, true
		}
	}
	return "", false
}

// DaySchedule is the recurring configuration of one weekday. TimeSlots keeps
// display order; overlaps and duplicates are allowed.
type DaySchedule struct {
	Enabled   bool        `json:"enabled"`
	TimeSlots []TimeRange `json:"time_slots"`
}

// Ranges returns the bookable ranges: none when the day is disabled,
// whatever is stored otherwise.
func (d DaySchedule) Ranges() []TimeRange {
	if !d.Enabled {
		return nil
	}
	return d.TimeSlots
}

func (d DaySchedule) clone() DaySchedule {
	out := DaySchedule{Enabled: d.Enabled, TimeSlots: make([]TimeRange, len(d.TimeSlots))}
	copy(out.TimeSlots, d.TimeSlots)
	return out
}

// WeeklySchedule maps every weekday to its DaySchedule. Edit helpers never
// mutate the receiver; they return a fresh copy.
type WeeklySchedule map[Weekday]DaySchedule

// NewWeeklySchedule returns a schedule with all seven days present and disabled.
func NewWeeklySchedule() WeeklySchedule {
	s := make(WeeklySchedule, len(Weekdays))
	for _, w := range Weekdays {
		s[w] = DaySchedule{TimeSlots: []TimeRange{}}
	}
	return s
}

// DefaultWeeklySchedule is the schedule a fresh installation starts with.
func DefaultWeeklySchedule() WeeklySchedule {
	weekday := []TimeRange{
		{StartTime: "09:00", EndTime: "10:00"},
		{StartTime: "11:00", EndTime: "12:00"},
		{StartTime: "13:00", EndTime: "14:00"},
		{StartTime: "15:00", EndTime: "16:00"},
	}
	saturday := []TimeRange{
		{StartTime: "13:00", EndTime: "14:00"},
		{StartTime: "15:00", EndTime: "16:00"},
	}

	s := NewWeeklySchedule()
	for _, w := range []Weekday{Monday, Tuesday, Thursday, Friday} {
		s[w] = DaySchedule{Enabled: true, TimeSlots: append([]TimeRange(nil), weekday...)}
	}
	s[Saturday] = DaySchedule{Enabled: true, TimeSlots: saturday}
	return s
}

func (s WeeklySchedule) Clone() WeeklySchedule {
	if s == nil {
		return nil
	}
	out := make(WeeklySchedule, len(s))
	for w, d := range s {
		out[w] = d.clone()
	}
	return out
}

// Day returns the configuration of w (getDayConfig).
func (s WeeklySchedule) Day(w Weekday) (DaySchedule, error) {
	d, ok := s[w]
	if !ok {
		return DaySchedule{}, fmt.Errorf("%q: %w", w, ErrUnknownWeekday)
	}
	return d, nil
}

func (s WeeklySchedule) SetDay(w Weekday, d DaySchedule) (WeeklySchedule, error) {
	if _, ok := s[w]; !ok {
		return nil, fmt.Errorf("%q: %w", w, ErrUnknownWeekday)
	}
	out := s.Clone()
	out[w] = d.clone()
	return out, nil
}

func (s WeeklySchedule) AddTimeRange(w Weekday, r TimeRange) (WeeklySchedule, error) {
	d, err := s.Day(w)
	if err != nil {
		return nil, err
	}
	out := s.Clone()
	d = out[w]
	d.TimeSlots = append(d.TimeSlots, r)
	out[w] = d
	return out, nil
}

func (s WeeklySchedule) RemoveTimeRange(w Weekday, index int) (WeeklySchedule, error) {
	d, err := s.Day(w)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(d.TimeSlots) {
		return nil, fmt.Errorf("%s[%d]: %w", w, index, ErrTimeRangeIndex)
	}
	out := s.Clone()
	d = out[w]
	d.TimeSlots = append(d.TimeSlots[:index], d.TimeSlots[index+1:]...)
	out[w] = d
	return out, nil
}

func (s WeeklySchedule) UpdateTimeRange(w Weekday, index int, r TimeRange) (WeeklySchedule, error) {
	d, err := s.Day(w)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(d.TimeSlots) {
		return nil, fmt.Errorf("%s[%d]: %w", w, index, ErrTimeRangeIndex)
	}
	out := s.Clone()
	out[w].TimeSlots[index] = r
	return out, nil
}

// Validate checks the whole schedule: all seven weekdays present, no unknown
// keys, and every stored TimeRange well-formed with start before end. Every
// failure is reported; the result wraps each one as a *ScheduleError.
func (s WeeklySchedule) Validate() error {
	var errs []error
	for w := range s {
		if _, ok := ParseWeekday(string(w)); !ok {
			errs = append(errs, &ScheduleError{Weekday: w, Index: -1, Err: ErrUnknownWeekday})
		}
	}
	for _, w := range Weekdays {
		d, ok := s[w]
		if !ok {
			errs = append(errs, &ScheduleError{Weekday: w, Index: -1, Err: ErrUnknownWeekday})
			continue
		}
		for i, r := range d.TimeSlots {
			if err := r.Validate(); err != nil {
				errs = append(errs, &ScheduleError{Weekday: w, Index: i, Err: err})
			}
		}
	}
	return errors.Join(errs...)
}
