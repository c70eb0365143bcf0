package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/diagnosis/slotbook/pkg/cache"
	"github.com/diagnosis/slotbook/pkg/logger"
	"github.com/diagnosis/slotbook/services/bookings/internal/domain"
)

const scheduleCacheKey = "schedule:weekly"

// cachedScheduleRepository reads through a cache.Store. Concurrent misses
// share one backing load. Cache failures are logged and fall through to next.
type cachedScheduleRepository struct {
	next  ScheduleRepository
	store cache.Store
	ttl   time.Duration
	group singleflight.Group
}

func NewCachedScheduleRepository(next ScheduleRepository, store cache.Store, ttl time.Duration) ScheduleRepository {
	return &cachedScheduleRepository{next: next, store: store, ttl: ttl}
}

func (r *cachedScheduleRepository) Get(ctx context.Context) (domain.WeeklySchedule, error) {
	raw, err := r.store.Get(ctx, scheduleCacheKey)
	if err == nil {
		var s domain.WeeklySchedule
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			return s, nil
		}
		logger.WarnContext(ctx, "Discarding undecodable cached schedule")
	} else if !errors.Is(err, cache.ErrMiss) {
		logger.WarnContext(ctx, "Schedule cache read failed", "error", err)
	}

	v, err, _ := r.group.Do(scheduleCacheKey, func() (any, error) {
		s, err := r.next.Get(ctx)
		if err != nil {
			return nil, err
		}
		if encoded, err := json.Marshal(s); err == nil {
			if err := r.store.Set(ctx, scheduleCacheKey, string(encoded), r.ttl); err != nil {
				logger.WarnContext(ctx, "Schedule cache write failed", "error", err)
			}
		}
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(domain.WeeklySchedule).Clone(), nil
}

func (r *cachedScheduleRepository) Save(ctx context.Context, s domain.WeeklySchedule) error {
	if err := r.next.Save(ctx, s); err != nil {
		return err
	}
	if err := r.store.Del(ctx, scheduleCacheKey); err != nil {
		logger.WarnContext(ctx, "Schedule cache invalidation failed", "error", err)
	}
	return nil
}
