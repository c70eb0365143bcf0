package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/slotbook/services/bookings/internal/domain"
)

// BookingRepository is the ledger storage. Insert must be an atomic
// check-and-insert on (date, time_slot): when the pair is taken it returns
// domain.ErrSlotAlreadyBooked and stores nothing.
type BookingRepository interface {
	Insert(ctx context.Context, b *domain.Booking) error
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingCols = `id::text, COALESCE(form_id, ''), COALESCE(customer_id::text, ''),
to_char(date, 'YYYY-MM-DD'), time_slot,
last_name, first_name, email, phone, second_choice, notes, created_at`

func (r *bookingRepository) Insert(ctx context.Context, b *domain.Booking) error {
	const q = `INSERT INTO bookings (
		id, form_id, customer_id, date, time_slot,
		last_name, first_name, email, phone, second_choice, notes, created_at
	) VALUES ($1, NULLIF($2, ''), NULLIF($3, '')::uuid, $4::date, $5, $6, $7, $8, $9, $10, $11, $12)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q,
		b.ID, b.FormID, b.CustomerID, b.Date, b.TimeSlot,
		b.LastName, b.FirstName, b.Email, b.Phone, b.SecondChoice, b.Notes, b.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%s %s: %w", b.Date, b.TimeSlot, domain.ErrSlotAlreadyBooked)
	}
	return err
}

func (r *bookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	q := `SELECT ` + bookingCols + ` FROM bookings`
	where, args := bookingWhere(filter)
	q += where + ` ORDER BY seq ASC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// bookingWhere turns a filter into a WHERE clause over the indexed date
// column.
func bookingWhere(filter domain.BookingFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond, value string) {
		args = append(args, value)
		conds = append(conds, cond+` $`+strconv.Itoa(len(args))+`::date`)
	}
	if filter.Date != "" {
		add(`date =`, filter.Date)
	}
	if filter.From != "" {
		add(`date >=`, filter.From)
	}
	if filter.To != "" {
		add(`date <=`, filter.To)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return ` WHERE ` + strings.Join(conds, ` AND `), args
}

func scanBooking(row pgx.Row) (domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID, &b.FormID, &b.CustomerID, &b.Date, &b.TimeSlot,
		&b.LastName, &b.FirstName, &b.Email, &b.Phone, &b.SecondChoice, &b.Notes,
		&b.CreatedAt,
	)
	return b, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
