package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/slotbook/services/bookings/internal/domain"
)

// ScheduleRepository holds the single committed WeeklySchedule. Get returns
// domain.ErrScheduleNotFound until something has been saved. Save replaces
// the schedule wholesale.
type ScheduleRepository interface {
	Get(ctx context.Context) (domain.WeeklySchedule, error)
	Save(ctx context.Context, s domain.WeeklySchedule) error
}

type scheduleRepository struct {
	pool *pgxpool.Pool
}

func NewScheduleRepository(pool *pgxpool.Pool) ScheduleRepository {
	return &scheduleRepository{pool: pool}
}

func (r *scheduleRepository) Get(ctx context.Context) (domain.WeeklySchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT schedule FROM weekly_schedule WHERE id = 1`).Scan(&raw)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}

	var s domain.WeeklySchedule
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode weekly schedule: %w", err)
	}
	return s, nil
}

func (r *scheduleRepository) Save(ctx context.Context, s domain.WeeklySchedule) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode weekly schedule: %w", err)
	}

	const q = `INSERT INTO weekly_schedule (id, schedule, updated_at)
		VALUES (1, $1::jsonb, now())
		ON CONFLICT (id) DO UPDATE
		SET schedule = EXCLUDED.schedule, updated_at = EXCLUDED.updated_at`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err = r.pool.Exec(ctx, q, raw)
	return err
}
