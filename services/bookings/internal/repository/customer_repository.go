package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/slotbook/services/bookings/internal/domain"
)

// CustomerRepository stores customer contacts. Same conventions as
// FormRepository.
type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	Get(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, c *domain.Customer) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type customerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

const customerCols = `id::text, last_name, first_name, email, phone, notes, created_at, updated_at`

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	const q = `INSERT INTO customers (
		id, last_name, first_name, email, phone, notes, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.pool.Exec(ctx, q, c.ID, c.LastName, c.FirstName, c.Email, c.Phone, c.Notes, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *customerRepository) Get(ctx context.Context, id string) (*domain.Customer, error) {
	const q = `SELECT ` + customerCols + ` FROM customers WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := scanCustomer(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	const q = `SELECT ` + customerCols + ` FROM customers ORDER BY created_at ASC, id ASC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) (bool, error) {
	const q = `UPDATE customers
		SET last_name = $2, first_name = $3, email = $4, phone = $5, notes = $6, updated_at = $7
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, q, c.ID, c.LastName, c.FirstName, c.Email, c.Phone, c.Notes, c.UpdatedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *customerRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.LastName, &c.FirstName, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
