package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diagnosis/slotbook/pkg/events"
	"github.com/diagnosis/slotbook/pkg/logger"
	"github.com/diagnosis/slotbook/services/bookings/internal/domain"
	"github.com/diagnosis/slotbook/services/bookings/internal/repository"
)

type ScheduleService interface {
	Get(ctx context.Context) (domain.WeeklySchedule, error)
	// Save validates the whole draft and stores it only when every entry is
	// valid. Nothing is stored on failure.
	Save(ctx context.Context, draft domain.WeeklySchedule) (domain.WeeklySchedule, error)
	SeedDefault(ctx context.Context) (bool, error)
}

type scheduleService struct {
	scheduleRepo repository.ScheduleRepository
	eventBus     events.Publisher
}

func NewScheduleService(scheduleRepo repository.ScheduleRepository, eventBus events.Publisher) ScheduleService {
	return &scheduleService{scheduleRepo: scheduleRepo, eventBus: eventBus}
}

// Get returns an all-disabled schedule when none has been stored.
func (s *scheduleService) Get(ctx context.Context) (domain.WeeklySchedule, error) {
	schedule, err := s.scheduleRepo.Get(ctx)
	if errors.Is(err, domain.ErrScheduleNotFound) {
		return domain.NewWeeklySchedule(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	return schedule, nil
}

func (s *scheduleService) Save(ctx context.Context, draft domain.WeeklySchedule) (domain.WeeklySchedule, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if err := s.scheduleRepo.Save(ctx, draft.Clone()); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}

	logger.InfoContext(ctx, "Weekly schedule saved")
	publish(ctx, s.eventBus, events.ScheduleUpdated, scheduleUpdatedEvent(draft))
	return draft, nil
}

func (s *scheduleService) SeedDefault(ctx context.Context) (bool, error) {
	_, err := s.scheduleRepo.Get(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrScheduleNotFound) {
		return false, fmt.Errorf("failed to load schedule: %w", err)
	}
	if err := s.scheduleRepo.Save(ctx, domain.DefaultWeeklySchedule()); err != nil {
		return false, fmt.Errorf("failed to seed schedule: %w", err)
	}
	logger.InfoContext(ctx, "Seeded default weekly schedule")
	return true, nil
}

func scheduleUpdatedEvent(s domain.WeeklySchedule) events.ScheduleUpdatedEvent {
	ev := events.ScheduleUpdatedEvent{EnabledDays: []string{}, UpdatedAt: time.Now().UTC()}
	for _, w := range domain.Weekdays {
		day := s[w]
		if !day.Enabled {
			continue
		}
		ev.EnabledDays = append(ev.EnabledDays, string(w))
		ev.TotalSlots += len(day.TimeSlots)
	}
	return ev
}
