package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/slotbook/services/bookings/internal/domain"
)

// FormRepository stores booking form configurations. Ids are canonical
// UUID strings. Lookups of a missing id return (nil, nil); Update and Delete
// report whether a row matched.
type FormRepository interface {
	Create(ctx context.Context, f *domain.BookingFormConfig) error
	Get(ctx context.Context, id string) (*domain.BookingFormConfig, error)
	List(ctx context.Context) ([]domain.BookingFormConfig, error)
	Update(ctx context.Context, f *domain.BookingFormConfig) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Toggle(ctx context.Context, id string, at time.Time) (*domain.BookingFormConfig, error)
}

type formRepository struct {
	pool *pgxpool.Pool
}

func NewFormRepository(pool *pgxpool.Pool) FormRepository {
	return &formRepository{pool: pool}
}

const formCols = `id::text, title, description, duration_minutes, is_active, created_at, updated_at`

func (r *formRepository) Create(ctx context.Context, f *domain.BookingFormConfig) error {
	const q = `INSERT INTO booking_forms (
		id, title, description, duration_minutes, is_active, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.pool.Exec(ctx, q, f.ID, f.Title, f.Description, f.Duration, f.IsActive, f.CreatedAt, f.UpdatedAt)
	return err
}

func (r *formRepository) Get(ctx context.Context, id string) (*domain.BookingFormConfig, error) {
	const q = `SELECT ` + formCols + ` FROM booking_forms WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	f, err := scanForm(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *formRepository) List(ctx context.Context) ([]domain.BookingFormConfig, error) {
	const q = `SELECT ` + formCols + ` FROM booking_forms ORDER BY created_at ASC, id ASC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	forms := []domain.BookingFormConfig{}
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

func (r *formRepository) Update(ctx context.Context, f *domain.BookingFormConfig) (bool, error) {
	const q = `UPDATE booking_forms
		SET title = $2, description = $3, duration_minutes = $4, is_active = $5, updated_at = $6
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, q, f.ID, f.Title, f.Description, f.Duration, f.IsActive, f.UpdatedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *formRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM booking_forms WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *formRepository) Toggle(ctx context.Context, id string, at time.Time) (*domain.BookingFormConfig, error) {
	const q = `UPDATE booking_forms
		SET is_active = NOT is_active, updated_at = $2
		WHERE id = $1
		RETURNING ` + formCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	f, err := scanForm(r.pool.QueryRow(ctx, q, id, at))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func scanForm(row pgx.Row) (domain.BookingFormConfig, error) {
	var f domain.BookingFormConfig
	err := row.Scan(&f.ID, &f.Title, &f.Description, &f.Duration, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}
