package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/diagnosis/slotbook/pkg/config"
	"github.com/diagnosis/slotbook/pkg/events"
	"github.com/diagnosis/slotbook/pkg/logger"
	"github.com/diagnosis/slotbook/services/bookings/internal/availability"
	"github.com/diagnosis/slotbook/services/bookings/internal/domain"
	"github.com/diagnosis/slotbook/services/bookings/internal/repository"
)

// BookingService is the booking ledger. Create never stores two bookings for
// the same (date, time slot).
type BookingService interface {
	Create(ctx context.Context, req domain.CreateBookingRequest) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
}

type bookingService struct {
	bookingRepo  repository.BookingRepository
	scheduleRepo repository.ScheduleRepository
	formRepo     repository.FormRepository
	customerRepo repository.CustomerRepository
	eventBus     events.Publisher
	config       config.BookingsConfig
	location     *time.Location
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	scheduleRepo repository.ScheduleRepository,
	formRepo repository.FormRepository,
	customerRepo repository.CustomerRepository,
	eventBus events.Publisher,
	cfg config.BookingsConfig,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		formRepo:     formRepo,
		customerRepo: customerRepo,
		eventBus:     eventBus,
		config:       cfg,
		location:     cfg.Location(),
	}
}

func (s *bookingService) Create(ctx context.Context, req domain.CreateBookingRequest) (*domain.Booking, error) {
	date, err := domain.ParseDate(strings.TrimSpace(req.Date), s.location)
	if err != nil {
		return nil, err
	}
	slot, err := domain.ParseSlotLabel(strings.TrimSpace(req.TimeSlot))
	if err != nil {
		return nil, err
	}
	contact := req.Contact.Normalize()
	var customerID string
	if strings.TrimSpace(req.CustomerID) != "" {
		customer, err := s.customer(ctx, req.CustomerID)
		if err != nil {
			return nil, err
		}
		customerID = customer.ID
		contact = customer.Prefill(contact)
	}
	if err := contact.Validate(); err != nil {
		return nil, err
	}
	if !s.config.AllowPastDates && date.Before(today(s.location)) {
		return nil, fmt.Errorf("%s: %w", domain.FormatDate(date), domain.ErrPastDate)
	}

	var formID string
	if raw := strings.TrimSpace(req.FormID); raw != "" {
		var ok bool
		if formID, ok = canonicalID(raw); !ok {
			return nil, fmt.Errorf("%s: %w", raw, domain.ErrFormNotFound)
		}
		form, err := s.formRepo.Get(ctx, formID)
		if err != nil {
			return nil, fmt.Errorf("failed to load booking form: %w", err)
		}
		if form == nil {
			return nil, fmt.Errorf("%s: %w", formID, domain.ErrFormNotFound)
		}
		if !form.IsActive {
			return nil, fmt.Errorf("%s: %w", formID, domain.ErrFormInactive)
		}
	}

	schedule, err := s.scheduleRepo.Get(ctx)
	if err != nil && !errors.Is(err, domain.ErrScheduleNotFound) {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	dateStr := domain.FormatDate(date)
	label := slot.Label()
	if !availability.Offers(schedule, date, label) {
		return nil, fmt.Errorf("%s %s: %w", dateStr, label, domain.ErrSlotNotOffered)
	}

	existing, err := s.bookingRepo.List(ctx, domain.BookingFilter{Date: dateStr})
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	if availability.Index(existing).Has(dateStr, label) {
		return nil, fmt.Errorf("%s %s: %w", dateStr, label, domain.ErrSlotAlreadyBooked)
	}

	booking := &domain.Booking{
		ID:          uuid.NewString(),
		FormID:      formID,
		CustomerID:  customerID,
		Date:        dateStr,
		TimeSlot:    label,
		ContactData: contact,
		CreatedAt:   time.Now().UTC(),
	}
	// The pre-check above is advisory; Insert is the authoritative check.
	if err := s.bookingRepo.Insert(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrSlotAlreadyBooked) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	logger.InfoContext(ctx, "Booking created", "booking_id", booking.ID, "date", booking.Date, "time_slot", booking.TimeSlot)

	publish(ctx, s.eventBus, events.BookingCreated, events.BookingCreatedEvent{
		BookingID:  booking.ID,
		FormID:     booking.FormID,
		CustomerID: booking.CustomerID,
		Date:       booking.Date,
		TimeSlot:   booking.TimeSlot,
		Email:      booking.Email,
		Name:       booking.FirstName + " " + booking.LastName,
		CreatedAt:  booking.CreatedAt,
	})

	return booking, nil
}

func (s *bookingService) customer(ctx context.Context, id string) (*domain.Customer, error) {
	key, ok := canonicalID(id)
	if !ok || s.customerRepo == nil {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrCustomerNotFound)
	}
	customer, err := s.customerRepo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	if customer == nil {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrCustomerNotFound)
	}
	return customer, nil
}

func (s *bookingService) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	if filter.Date != "" {
		d, err := domain.ParseDate(strings.TrimSpace(filter.Date), s.location)
		if err != nil {
			return nil, err
		}
		filter.Date = domain.FormatDate(d)
	}
	return s.bookingRepo.List(ctx, filter)
}

func today(loc *time.Location) time.Time {
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
}

// publish never fails the caller: the write has already happened.
func publish(ctx context.Context, bus events.Publisher, subject string, payload any) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, subject, payload); err != nil {
		logger.ErrorContext(ctx, "Failed to publish event", "subject", subject, "error", err)
	}
}
