package availability_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/diagnosis/slotbook/services/bookings/internal/availability"
	"github.com/diagnosis/slotbook/services/bookings/internal/domain"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s, time.UTC)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return d
}

func booked(date, slot string) domain.Booking {
	return domain.Booking{ID: date + slot, Date: date, TimeSlot: slot}
}

func mondaySchedule() domain.WeeklySchedule {
	s := domain.NewWeeklySchedule()
	s[domain.Monday] = domain.DaySchedule{Enabled: true, TimeSlots: []domain.TimeRange{
		{StartTime: "09:00", EndTime: "10:00"},
		{StartTime: "11:00", EndTime: "12:00"},
	}}
	return s
}

func TestResolve_MondayWithOneBooking(t *testing.T) {
	got := availability.Resolve(mondaySchedule(), date(t, "2025-01-20"), []domain.Booking{
		booked("2025-01-20", "09:00-10:00"),
	})

	want := []domain.TimeSlot{
		{ID: "2025-01-20-09:00-10:00", StartTime: "09:00", EndTime: "10:00", IsAvailable: false},
		{ID: "2025-01-20-11:00-12:00", StartTime: "11:00", EndTime: "12:00", IsAvailable: true},
	}
	if got.Date != "2025-01-20" || !reflect.DeepEqual(got.TimeSlots, want) {
		t.Fatalf("expected %+v, got %+v", want, got.TimeSlots)
	}
}

func TestResolve_DisabledDayIgnoresStaleSlots(t *testing.T) {
	s := domain.NewWeeklySchedule()
	s[domain.Wednesday] = domain.DaySchedule{Enabled: false, TimeSlots: []domain.TimeRange{
		{StartTime: "09:00", EndTime: "10:00"},
	}}

	for _, d := range []string{"2025-01-22", "2025-01-29", "2024-02-28"} {
		got := availability.Resolve(s, date(t, d), nil)
		if got.TimeSlots == nil || len(got.TimeSlots) != 0 {
			t.Fatalf("%s: expected empty slot list, got %#v", d, got.TimeSlots)
		}
	}
}

func TestResolve_MissingWeekdayIsEmpty(t *testing.T) {
	s := domain.WeeklySchedule{domain.Monday: {Enabled: true, TimeSlots: []domain.TimeRange{{StartTime: "09:00", EndTime: "10:00"}}}}
	if got := availability.Resolve(s, date(t, "2025-01-21"), nil); len(got.TimeSlots) != 0 {
		t.Fatalf("expected no slots for missing tuesday, got %+v", got.TimeSlots)
	}
}

func TestResolve_EnabledDayKeepsOrderAndDuplicates(t *testing.T) {
	ranges := []domain.TimeRange{
		{StartTime: "15:00", EndTime: "16:00"},
		{StartTime: "09:00", EndTime: "10:00"},
		{StartTime: "09:30", EndTime: "10:30"},
		{StartTime: "09:00", EndTime: "10:00"},
	}
	s := domain.NewWeeklySchedule()
	s[domain.Friday] = domain.DaySchedule{Enabled: true, TimeSlots: ranges}

	got := availability.Resolve(s, date(t, "2025-01-24"), nil)
	if len(got.TimeSlots) != len(ranges) {
		t.Fatalf("expected %d slots, got %d", len(ranges), len(got.TimeSlots))
	}
	for i, slot := range got.TimeSlots {
		if slot.StartTime != ranges[i].StartTime || slot.EndTime != ranges[i].EndTime || !slot.IsAvailable {
			t.Fatalf("slot %d: expected available %s, got %+v", i, ranges[i].Label(), slot)
		}
	}
	if got.TimeSlots[1].ID != got.TimeSlots[3].ID {
		t.Fatal("duplicate ranges should produce the same slot id")
	}
}

func TestResolve_DuplicateRangesShareBooking(t *testing.T) {
	s := domain.NewWeeklySchedule()
	s[domain.Friday] = domain.DaySchedule{Enabled: true, TimeSlots: []domain.TimeRange{
		{StartTime: "09:00", EndTime: "10:00"},
		{StartTime: "09:00", EndTime: "10:00"},
	}}
	got := availability.Resolve(s, date(t, "2025-01-24"), []domain.Booking{booked("2025-01-24", "09:00-10:00")})
	for _, slot := range got.TimeSlots {
		if slot.IsAvailable {
			t.Fatalf("both copies must report booked, got %+v", got.TimeSlots)
		}
	}
}

func TestResolve_BookingOnOtherDateIgnored(t *testing.T) {
	got := availability.Resolve(mondaySchedule(), date(t, "2025-01-27"), []domain.Booking{
		booked("2025-01-20", "09:00-10:00"),
	})
	for _, slot := range got.TimeSlots {
		if !slot.IsAvailable {
			t.Fatalf("booking from another monday leaked: %+v", slot)
		}
	}
}

func TestResolve_IsPure(t *testing.T) {
	s := mondaySchedule()
	bookings := []domain.Booking{booked("2025-01-20", "11:00-12:00")}
	d := date(t, "2025-01-20")

	first := availability.Resolve(s, d, bookings)
	second := availability.Resolve(s, d, bookings)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
	if !reflect.DeepEqual(s, mondaySchedule()) {
		t.Fatal("resolve must not modify the schedule")
	}
}

func TestResolveDate_InvalidDate(t *testing.T) {
	if _, err := availability.ResolveDate(mondaySchedule(), "2025/01/20", nil); err == nil {
		t.Fatal("expected error for malformed date")
	}
	got, err := availability.ResolveDate(mondaySchedule(), "2025-01-20", nil)
	if err != nil || len(got.TimeSlots) != 2 {
		t.Fatalf("expected 2 slots, got %+v (%v)", got, err)
	}
}

func TestIsAvailableAndOffers(t *testing.T) {
	s := mondaySchedule()
	d := date(t, "2025-01-20")
	bookings := []domain.Booking{booked("2025-01-20", "09:00-10:00")}

	if availability.IsAvailable(s, d, "09:00-10:00", bookings) {
		t.Fatal("booked slot reported available")
	}
	if !availability.Offers(s, d, "09:00-10:00") {
		t.Fatal("booked slot is still offered")
	}
	if !availability.IsAvailable(s, d, "11:00-12:00", bookings) {
		t.Fatal("free slot reported unavailable")
	}
	if availability.Offers(s, d, "10:00-11:00") || availability.IsAvailable(s, d, "10:00-11:00", nil) {
		t.Fatal("unconfigured slot must not be offered")
	}
	if availability.Offers(s, date(t, "2025-01-21"), "09:00-10:00") {
		t.Fatal("tuesday is disabled")
	}
}

func TestCalendar_MatchesResolve(t *testing.T) {
	s := domain.DefaultWeeklySchedule()
	bookings := []domain.Booking{
		booked("2025-01-20", "09:00-10:00"),
		booked("2025-01-25", "13:00-14:00"),
	}
	from, to := date(t, "2025-01-19"), date(t, "2025-02-01")

	days := availability.Calendar(s, from, to, bookings)
	if len(days) != 14 {
		t.Fatalf("expected 14 days, got %d", len(days))
	}
	for i, summary := range days {
		d := from.AddDate(0, 0, i)
		resolved := availability.Resolve(s, d, bookings)
		free := 0
		for _, slot := range resolved.TimeSlots {
			if slot.IsAvailable {
				free++
			}
		}
		if summary.Date != resolved.Date || summary.Total != len(resolved.TimeSlots) || summary.Available != free {
			t.Fatalf("%s: summary %+v disagrees with resolve (%d/%d)", resolved.Date, summary, free, len(resolved.TimeSlots))
		}
	}
	if days[6].Available != 1 || !days[6].Enabled {
		t.Fatalf("expected saturday with one free slot, got %+v", days[6])
	}
}

func TestCalendar_InvertedRange(t *testing.T) {
	if got := availability.Calendar(domain.DefaultWeeklySchedule(), date(t, "2025-02-01"), date(t, "2025-01-01"), nil); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
