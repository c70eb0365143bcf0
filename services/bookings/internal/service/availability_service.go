package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diagnosis/slotbook/pkg/config"
	"github.com/diagnosis/slotbook/services/bookings/internal/availability"
	"github.com/diagnosis/slotbook/services/bookings/internal/domain"
	"github.com/diagnosis/slotbook/services/bookings/internal/repository"
)

const defaultMaxCalendarDays = 62

type AvailabilityService interface {
	Day(ctx context.Context, date string) (domain.DayAvailability, error)
	Calendar(ctx context.Context, from, to string) ([]domain.DaySummary, error)
}

type availabilityService struct {
	bookingRepo  repository.BookingRepository
	scheduleRepo repository.ScheduleRepository
	location     *time.Location
	maxDays      int
}

func NewAvailabilityService(
	bookingRepo repository.BookingRepository,
	scheduleRepo repository.ScheduleRepository,
	cfg config.BookingsConfig,
) AvailabilityService {
	maxDays := cfg.MaxCalendarDays
	if maxDays <= 0 {
		maxDays = defaultMaxCalendarDays
	}
	return &availabilityService{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		location:     cfg.Location(),
		maxDays:      maxDays,
	}
}

func (s *availabilityService) Day(ctx context.Context, date string) (domain.DayAvailability, error) {
	d, err := domain.ParseDate(strings.TrimSpace(date), s.location)
	if err != nil {
		return domain.DayAvailability{}, err
	}
	schedule, err := s.schedule(ctx)
	if err != nil {
		return domain.DayAvailability{}, err
	}
	bookings, err := s.bookingRepo.List(ctx, domain.BookingFilter{Date: domain.FormatDate(d)})
	if err != nil {
		return domain.DayAvailability{}, fmt.Errorf("failed to load bookings: %w", err)
	}
	return availability.Resolve(schedule, d, bookings), nil
}

func (s *availabilityService) Calendar(ctx context.Context, from, to string) ([]domain.DaySummary, error) {
	start, err := domain.ParseDate(strings.TrimSpace(from), s.location)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseDate(strings.TrimSpace(to), s.location)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%s after %s: %w", from, to, domain.ErrInvalidRange)
	}
	if days := daysBetween(start, end) + 1; days > s.maxDays {
		return nil, fmt.Errorf("%d days exceeds %d: %w", days, s.maxDays, domain.ErrInvalidRange)
	}

	schedule, err := s.schedule(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookingRepo.List(ctx, domain.BookingFilter{
		From: domain.FormatDate(start),
		To:   domain.FormatDate(end),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	return availability.Calendar(schedule, start, end, bookings), nil
}

func (s *availabilityService) schedule(ctx context.Context) (domain.WeeklySchedule, error) {
	schedule, err := s.scheduleRepo.Get(ctx)
	if errors.Is(err, domain.ErrScheduleNotFound) {
		return domain.NewWeeklySchedule(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	return schedule, nil
}

// daysBetween counts calendar days, so DST shifts inside the range do not
// change the result.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
