package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/diagnosis/slotbook/pkg/events"
	"github.com/diagnosis/slotbook/services/bookings/internal/domain"
	"github.com/diagnosis/slotbook/services/bookings/internal/repository"
)

// CustomerService keeps the contacts a booking can be prefilled from.
type CustomerService interface {
	Create(ctx context.Context, in domain.CustomerInput) (*domain.Customer, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, id string, in domain.CustomerInput) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
	eventBus     events.Publisher
}

func NewCustomerService(customerRepo repository.CustomerRepository, eventBus events.Publisher) CustomerService {
	return &customerService{customerRepo: customerRepo, eventBus: eventBus}
}

func (s *customerService) Create(ctx context.Context, in domain.CustomerInput) (*domain.Customer, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	customer := &domain.Customer{
		ID:        uuid.NewString(),
		LastName:  in.LastName,
		FirstName: in.FirstName,
		Email:     in.Email,
		Phone:     in.Phone,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	publish(ctx, s.eventBus, events.CustomerCreated, events.CustomerEvent{CustomerID: customer.ID, ChangedAt: now})
	return customer, nil
}

func (s *customerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	key, ok := canonicalID(id)
	if !ok {
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

func (s *customerService) List(ctx context.Context) ([]domain.Customer, error) {
	return s.customerRepo.List(ctx)
}

func (s *customerService) Update(ctx context.Context, id string, in domain.CustomerInput) (*domain.Customer, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.LastName = in.LastName
	customer.FirstName = in.FirstName
	customer.Email = in.Email
	customer.Phone = in.Phone
	customer.Notes = in.Notes
	customer.UpdatedAt = time.Now().UTC()

	found, err := s.customerRepo.Update(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrCustomerNotFound)
	}

	publish(ctx, s.eventBus, events.CustomerUpdated, events.CustomerEvent{CustomerID: customer.ID, ChangedAt: customer.UpdatedAt})
	return customer, nil
}

// Delete keeps existing bookings; they carry their own copy of the contact.
func (s *customerService) Delete(ctx context.Context, id string) error {
	key, ok := canonicalID(id)
	if !ok {
		return fmt.Errorf("%s: %w", id, domain.ErrCustomerNotFound)
	}
	found, err := s.customerRepo.Delete(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if !found {
		return fmt.Errorf("%s: %w", id, domain.ErrCustomerNotFound)
	}

	publish(ctx, s.eventBus, events.CustomerDeleted, events.CustomerEvent{CustomerID: key, ChangedAt: time.Now().UTC()})
	return nil
}
