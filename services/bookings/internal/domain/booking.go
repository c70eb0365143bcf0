package domain

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/diagnosis/slotbook/internal/utils"
)

// ContactData is what the customer submits with a slot selection.
type ContactData struct {
	LastName     string `json:"last_name"`
	FirstName    string `json:"first_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	SecondChoice string `json:"second_choice,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// Booking is immutable once created. (Date, TimeSlot) is unique across the ledger.
type Booking struct {
	ID         string `json:"id"`
	FormID     string `json:"form_id,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
	Date       string `json:"date"`
	TimeSlot   string `json:"time_slot"`
	ContactData
	CreatedAt time.Time `json:"created_at"`
}

// Key is the ledger uniqueness key.
func (b Booking) Key() string {
	return SlotKey(b.Date, b.TimeSlot)
}

func SlotKey(date, label string) string {
	return date + "|" + label
}

// BookingFilter selects bookings by exact date or by an inclusive
// [From, To] range of YYYY-MM-DD dates. Empty fields match everything.
type BookingFilter struct {
	Date string
	From string
	To   string
}

func (f BookingFilter) Match(b Booking) bool {
	if f.Date != "" && f.Date != b.Date {
		return false
	}
	if f.From != "" && b.Date < f.From {
		return false
	}
	if f.To != "" && b.Date > f.To {
		return false
	}
	return true
}

// CreateBookingRequest is the input of the booking operation.
type CreateBookingRequest struct {
	Date       string      `json:"date"`
	TimeSlot   string      `json:"time_slot"`
	FormID     string      `json:"form_id,omitempty"`
	CustomerID string      `json:"customer_id,omitempty"`
	Contact    ContactData `json:"contact"`
}

const (
	MaxNameLength  = 100
	MaxNotesLength = 2000
)

// Normalize trims every field, lowercases the e-mail and strips phone separators.
func (c ContactData) Normalize() ContactData {
	return ContactData{
		LastName:     utils.NormalizeString(c.LastName),
		FirstName:    utils.NormalizeString(c.FirstName),
		Email:        utils.NormalizeEmail(c.Email),
		Phone:        utils.NormalizePhone(c.Phone),
		SecondChoice: utils.NormalizeString(c.SecondChoice),
		Notes:        utils.NormalizeString(c.Notes),
	}
}

// Validate expects normalized input. Every failing field is reported.
// Lengths are counted in characters, not bytes.
func (c ContactData) Validate() error {
	var errs []error
	required := func(field, v string) {
		switch {
		case v == "":
			errs = append(errs, &FieldError{Field: field, Err: errors.New("is required")})
		case utf8.RuneCountInString(v) > MaxNameLength:
			errs = append(errs, &FieldError{Field: field, Err: errors.New("is too long")})
		}
	}
	required("last_name", c.LastName)
	required("first_name", c.FirstName)

	if c.Email == "" {
		errs = append(errs, &FieldError{Field: "email", Err: errors.New("is required")})
	} else if !utils.IsValidEmail(c.Email) {
		errs = append(errs, &FieldError{Field: "email", Err: errors.New("is not a valid address")})
	}
	if c.Phone != "" && !utils.IsValidPhone(c.Phone) {
		errs = append(errs, &FieldError{Field: "phone", Err: errors.New("is not a valid number")})
	}
	if utf8.RuneCountInString(c.Notes) > MaxNotesLength {
		errs = append(errs, &FieldError{Field: "notes", Err: errors.New("is too long")})
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalidContact}, errs...)...)
}
