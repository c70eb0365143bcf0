package repository_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diagnosis/slotbook/pkg/cache"
	"github.com/diagnosis/slotbook/services/bookings/internal/domain"
	"github.com/diagnosis/slotbook/services/bookings/internal/repository"
)

// ---------- Mocks ----------

type countingScheduleRepo struct {
	repository.ScheduleRepository
	gets  int32
	delay time.Duration
}

func (c *countingScheduleRepo) Get(ctx context.Context) (domain.WeeklySchedule, error) {
	atomic.AddInt32(&c.gets, 1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	return c.ScheduleRepository.Get(ctx)
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}
func (brokenStore) Set(context.Context, string, string, time.Duration) error {
	return errors.New("connection refused")
}
func (brokenStore) Del(context.Context, ...string) error { return errors.New("connection refused") }

// ---------- Tests ----------

func TestCachedSchedule_ServesFromCacheAfterFirstLoad(t *testing.T) {
	ctx := context.Background()
	backing := &countingScheduleRepo{ScheduleRepository: repository.NewMemoryScheduleRepository(domain.DefaultWeeklySchedule())}
	repo := repository.NewCachedScheduleRepository(backing, cache.NewMemoryStore(), time.Minute)

	for i := 0; i < 3; i++ {
		s, err := repo.Get(ctx)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !s[domain.Monday].Enabled {
			t.Fatal("expected monday enabled")
		}
	}
	if backing.gets != 1 {
		t.Fatalf("expected 1 backing load, got %d", backing.gets)
	}
}

func TestCachedSchedule_SaveInvalidates(t *testing.T) {
	ctx := context.Background()
	backing := &countingScheduleRepo{ScheduleRepository: repository.NewMemoryScheduleRepository(domain.DefaultWeeklySchedule())}
	repo := repository.NewCachedScheduleRepository(backing, cache.NewMemoryStore(), time.Minute)

	_, _ = repo.Get(ctx)

	updated := domain.NewWeeklySchedule()
	if err := repo.Save(ctx, updated); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got[domain.Monday].Enabled {
		t.Fatal("expected the saved schedule, got the stale cached one")
	}
	if backing.gets != 2 {
		t.Fatalf("expected reload after save, got %d loads", backing.gets)
	}
}

func TestCachedSchedule_ConcurrentMissesShareLoad(t *testing.T) {
	ctx := context.Background()
	backing := &countingScheduleRepo{
		ScheduleRepository: repository.NewMemoryScheduleRepository(domain.DefaultWeeklySchedule()),
		delay:              50 * time.Millisecond,
	}
	repo := repository.NewCachedScheduleRepository(backing, cache.NewMemoryStore(), time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Get(ctx); err != nil {
				t.Errorf("get: %v", err)
			}
		}()
	}
	wg.Wait()

	if backing.gets != 1 {
		t.Fatalf("expected a single shared load, got %d", backing.gets)
	}
}

func TestCachedSchedule_BrokenStoreFallsThrough(t *testing.T) {
	ctx := context.Background()
	backing := repository.NewMemoryScheduleRepository(domain.DefaultWeeklySchedule())
	repo := repository.NewCachedScheduleRepository(backing, brokenStore{}, time.Minute)

	if _, err := repo.Get(ctx); err != nil {
		t.Fatalf("expected fallback read, got %v", err)
	}
	if err := repo.Save(ctx, domain.NewWeeklySchedule()); err != nil {
		t.Fatalf("expected save despite invalidation failure, got %v", err)
	}
}

func TestCachedSchedule_NotFoundPropagates(t *testing.T) {
	repo := repository.NewCachedScheduleRepository(repository.NewMemoryScheduleRepository(nil), cache.NewMemoryStore(), time.Minute)
	if _, err := repo.Get(context.Background()); !errors.Is(err, domain.ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
}
