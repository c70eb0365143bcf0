// Package availability derives the bookable slots of a calendar date from a
// weekly recurring schedule and the bookings already in the ledger.
//
// Every function here is pure: results are recomputed from the inputs on each
// call, so they always reflect the bookings passed in.
package availability

import (
	"time"

	"github.com/diagnosis/slotbook/services/bookings/internal/domain"
)

// Booked indexes bookings by (date, time slot) for constant-time lookups.
type Booked map[string]struct{}

func Index(bookings []domain.Booking) Booked {
	idx := make(Booked, len(bookings))
	for _, b := range bookings {
		idx[b.Key()] = struct{}{}
	}
	return idx
}

func (b Booked) Has(date, label string) bool {
	_, ok := b[domain.SlotKey(date, label)]
	return ok
}

// Resolve returns the slots of date in configured order. A disabled or
// missing weekday yields an empty list. Past dates are not filtered.
func Resolve(schedule domain.WeeklySchedule, date time.Time, bookings []domain.Booking) domain.DayAvailability {
	return resolve(schedule, date, Index(bookings))
}

// ResolveDate is Resolve for an ISO "YYYY-MM-DD" date.
func ResolveDate(schedule domain.WeeklySchedule, date string, bookings []domain.Booking) (domain.DayAvailability, error) {
	t, err := domain.ParseDate(date, time.UTC)
	if err != nil {
		return domain.DayAvailability{}, err
	}
	return Resolve(schedule, t, bookings), nil
}

func resolve(schedule domain.WeeklySchedule, date time.Time, booked Booked) domain.DayAvailability {
	dateStr := domain.FormatDate(date)
	out := domain.DayAvailability{Date: dateStr, TimeSlots: []domain.TimeSlot{}}

	day, err := schedule.Day(domain.WeekdayOf(date.Weekday()))
	if err != nil {
		return out
	}
	for _, r := range day.Ranges() {
		out.TimeSlots = append(out.TimeSlots, domain.TimeSlot{
			ID:          domain.SlotID(dateStr, r),
			StartTime:   r.StartTime,
			EndTime:     r.EndTime,
			IsAvailable: !booked.Has(dateStr, domain.FormatSlotLabel(r)),
		})
	}
	return out
}

// IsAvailable reports whether the schedule offers label on date and no
// booking holds it.
func IsAvailable(schedule domain.WeeklySchedule, date time.Time, label string, bookings []domain.Booking) bool {
	for _, s := range Resolve(schedule, date, bookings).TimeSlots {
		if s.Label() == label && s.IsAvailable {
			return true
		}
	}
	return false
}

// Offers reports whether the schedule has label on date, booked or not.
func Offers(schedule domain.WeeklySchedule, date time.Time, label string) bool {
	day, err := schedule.Day(domain.WeekdayOf(date.Weekday()))
	if err != nil {
		return false
	}
	for _, r := range day.Ranges() {
		if r.Label() == label {
			return true
		}
	}
	return false
}

// Calendar summarises every date in [from, to]. Dates are walked in from's location.
func Calendar(schedule domain.WeeklySchedule, from, to time.Time, bookings []domain.Booking) []domain.DaySummary {
	if to.Before(from) {
		return nil
	}
	booked := Index(bookings)

	var out []domain.DaySummary
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		day := resolve(schedule, d, booked)
		summary := domain.DaySummary{Date: day.Date, Total: len(day.TimeSlots)}
		if cfg, err := schedule.Day(domain.WeekdayOf(d.Weekday())); err == nil {
			summary.Enabled = cfg.Enabled
		}
		for _, s := range day.TimeSlots {
			if s.IsAvailable {
				summary.Available++
			}
		}
		out = append(out, summary)
	}
	return out
}
