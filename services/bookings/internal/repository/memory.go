package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/diagnosis/slotbook/services/bookings/internal/domain"
)

// memoryBookingRepository keeps the ledger in process memory. The write lock
// covers the duplicate check and the append together.
type memoryBookingRepository struct {
	mu       sync.RWMutex
	bookings []domain.Booking
	taken    map[string]struct{}
}

func NewMemoryBookingRepository(seed ...domain.Booking) BookingRepository {
	r := &memoryBookingRepository{taken: make(map[string]struct{})}
	for _, b := range seed {
		r.bookings = append(r.bookings, b)
		r.taken[b.Key()] = struct{}{}
	}
	return r
}

func (r *memoryBookingRepository) Insert(ctx context.Context, b *domain.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := b.Key()
	if _, ok := r.taken[key]; ok {
		return fmt.Errorf("%s %s: %w", b.Date, b.TimeSlot, domain.ErrSlotAlreadyBooked)
	}
	r.taken[key] = struct{}{}
	r.bookings = append(r.bookings, *b)
	return nil
}

func (r *memoryBookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Booking{}
	for _, b := range r.bookings {
		if filter.Match(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

type memoryScheduleRepository struct {
	mu       sync.RWMutex
	schedule domain.WeeklySchedule
}

// NewMemoryScheduleRepository starts empty unless an initial schedule is given.
func NewMemoryScheduleRepository(initial domain.WeeklySchedule) ScheduleRepository {
	return &memoryScheduleRepository{schedule: initial.Clone()}
}

func (r *memoryScheduleRepository) Get(ctx context.Context) (domain.WeeklySchedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.schedule == nil {
		return nil, domain.ErrScheduleNotFound
	}
	return r.schedule.Clone(), nil
}

func (r *memoryScheduleRepository) Save(ctx context.Context, s domain.WeeklySchedule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schedule = s.Clone()
	return nil
}

type memoryFormRepository struct {
	mu    sync.RWMutex
	forms []domain.BookingFormConfig
}

func NewMemoryFormRepository() FormRepository {
	return &memoryFormRepository{}
}

func (r *memoryFormRepository) Create(ctx context.Context, f *domain.BookingFormConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forms = append(r.forms, *f)
	return nil
}

func (r *memoryFormRepository) Get(ctx context.Context, id string) (*domain.BookingFormConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.forms {
		if f.ID == id {
			out := f
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memoryFormRepository) List(ctx context.Context) ([]domain.BookingFormConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.BookingFormConfig, len(r.forms))
	copy(out, r.forms)
	return out, nil
}

func (r *memoryFormRepository) Update(ctx context.Context, f *domain.BookingFormConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.forms {
		if r.forms[i].ID == f.ID {
			r.forms[i] = *f
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryFormRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.forms {
		if r.forms[i].ID == id {
			r.forms = append(r.forms[:i], r.forms[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryFormRepository) Toggle(ctx context.Context, id string, at time.Time) (*domain.BookingFormConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.forms {
		if r.forms[i].ID == id {
			r.forms[i].IsActive = !r.forms[i].IsActive
			r.forms[i].UpdatedAt = at
			out := r.forms[i]
			return &out, nil
		}
	}
	return nil, nil
}

type memoryCustomerRepository struct {
	mu        sync.RWMutex
	customers []domain.Customer
}

func NewMemoryCustomerRepository() CustomerRepository {
	return &memoryCustomerRepository{}
}

func (r *memoryCustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers = append(r.customers, *c)
	return nil
}

func (r *memoryCustomerRepository) Get(ctx context.Context, id string) (*domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if c.ID == id {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memoryCustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Customer, len(r.customers))
	copy(out, r.customers)
	return out, nil
}

func (r *memoryCustomerRepository) Update(ctx context.Context, c *domain.Customer) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.customers {
		if r.customers[i].ID == c.ID {
			r.customers[i] = *c
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryCustomerRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.customers {
		if r.customers[i].ID == id {
			r.customers = append(r.customers[:i], r.customers[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
