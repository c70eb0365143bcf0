package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/diagnosis/slotbook/pkg/events"
	"github.com/diagnosis/slotbook/pkg/logger"
	"github.com/diagnosis/slotbook/services/bookings/internal/domain"
	"github.com/diagnosis/slotbook/services/bookings/internal/repository"
)

type FormService interface {
	Create(ctx context.Context, in domain.FormInput) (*domain.BookingFormConfig, error)
	Get(ctx context.Context, id string) (*domain.BookingFormConfig, error)
	List(ctx context.Context) ([]domain.BookingFormConfig, error)
	Update(ctx context.Context, id string, in domain.FormInput) (*domain.BookingFormConfig, error)
	Delete(ctx context.Context, id string) error
	ToggleStatus(ctx context.Context, id string) (*domain.BookingFormConfig, error)
	// Active returns the first active form, falling back to the first form.
	Active(ctx context.Context) (*domain.BookingFormConfig, error)
	SeedDefaults(ctx context.Context) (int, error)
}

type formService struct {
	formRepo repository.FormRepository
	eventBus events.Publisher
}

func NewFormService(formRepo repository.FormRepository, eventBus events.Publisher) FormService {
	return &formService{formRepo: formRepo, eventBus: eventBus}
}

func (s *formService) Create(ctx context.Context, in domain.FormInput) (*domain.BookingFormConfig, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	form := &domain.BookingFormConfig{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Duration:    in.Duration,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.formRepo.Create(ctx, form); err != nil {
		return nil, fmt.Errorf("failed to create booking form: %w", err)
	}

	publish(ctx, s.eventBus, events.FormCreated, formEvent(form, now))
	return form, nil
}

func (s *formService) Get(ctx context.Context, id string) (*domain.BookingFormConfig, error) {
	key, ok := canonicalID(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrFormNotFound)
	}
	form, err := s.formRepo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking form: %w", err)
	}
	if form == nil {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrFormNotFound)
	}
	return form, nil
}

func (s *formService) List(ctx context.Context) ([]domain.BookingFormConfig, error) {
	return s.formRepo.List(ctx)
}

func (s *formService) Update(ctx context.Context, id string, in domain.FormInput) (*domain.BookingFormConfig, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	form, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	form.Title = in.Title
	form.Description = in.Description
	form.Duration = in.Duration
	form.UpdatedAt = time.Now().UTC()

	found, err := s.formRepo.Update(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking form: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrFormNotFound)
	}

	publish(ctx, s.eventBus, events.FormUpdated, formEvent(form, form.UpdatedAt))
	return form, nil
}

func (s *formService) Delete(ctx context.Context, id string) error {
	key, ok := canonicalID(id)
	if !ok {
		return fmt.Errorf("%s: %w", id, domain.ErrFormNotFound)
	}
	found, err := s.formRepo.Delete(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to delete booking form: %w", err)
	}
	if !found {
		return fmt.Errorf("%s: %w", id, domain.ErrFormNotFound)
	}

	publish(ctx, s.eventBus, events.FormDeleted, events.FormEvent{FormID: key, ChangedAt: time.Now().UTC()})
	return nil
}

func (s *formService) ToggleStatus(ctx context.Context, id string) (*domain.BookingFormConfig, error) {
	key, ok := canonicalID(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrFormNotFound)
	}
	form, err := s.formRepo.Toggle(ctx, key, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to toggle booking form: %w", err)
	}
	if form == nil {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrFormNotFound)
	}

	logger.InfoContext(ctx, "Booking form toggled", "form_id", form.ID, "is_active", form.IsActive)
	publish(ctx, s.eventBus, events.FormToggled, formEvent(form, form.UpdatedAt))
	return form, nil
}

func (s *formService) Active(ctx context.Context) (*domain.BookingFormConfig, error) {
	forms, err := s.formRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list booking forms: %w", err)
	}
	if len(forms) == 0 {
		return nil, domain.ErrFormNotFound
	}
	for i := range forms {
		if forms[i].IsActive {
			return &forms[i], nil
		}
	}
	return &forms[0], nil
}

// SeedDefaults creates the default forms when the registry is empty and
// reports how many were created.
func (s *formService) SeedDefaults(ctx context.Context) (int, error) {
	forms, err := s.formRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list booking forms: %w", err)
	}
	if len(forms) > 0 {
		return 0, nil
	}

	created := 0
	for _, in := range domain.DefaultForms() {
		if _, err := s.Create(ctx, in); err != nil {
			return created, err
		}
		created++
	}
	logger.InfoContext(ctx, "Seeded default booking forms", "count", created)
	return created, nil
}

func formEvent(f *domain.BookingFormConfig, at time.Time) events.FormEvent {
	return events.FormEvent{FormID: f.ID, Title: f.Title, IsActive: f.IsActive, ChangedAt: at}
}
