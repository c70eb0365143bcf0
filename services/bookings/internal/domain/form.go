package domain

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/diagnosis/slotbook/internal/utils"
)

// BookingFormConfig describes one customer-facing booking form. Duration is
// advisory: it does not reshape the weekly schedule.
type BookingFormConfig struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type FormInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
}

const (
	MinFormDuration = 1
	MaxFormDuration = 24 * 60
	MaxTitleLength  = 200
)

func (in FormInput) Normalize() FormInput {
	return FormInput{
		Title:       utils.NormalizeString(in.Title),
		Description: utils.NormalizeString(in.Description),
		Duration:    in.Duration,
	}
}

func (in FormInput) Validate() error {
	var errs []error
	if in.Title == "" {
		errs = append(errs, &FieldError{Field: "title", Err: errors.New("is required")})
	} else if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		errs = append(errs, &FieldError{Field: "title", Err: errors.New("is too long")})
	}
	if in.Duration < MinFormDuration || in.Duration > MaxFormDuration {
		errs = append(errs, &FieldError{Field: "duration", Err: errors.New("must be between 1 and 1440 minutes")})
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalidForm}, errs...)...)
}

// DefaultForms seeds the registry of a fresh installation.
func DefaultForms() []FormInput {
	return []FormInput{
		{
			Title:       "General consultation",
			Description: "Ask us anything. We are happy to help with questions of any kind.",
			Duration:    60,
		},
		{
			Title:       "Technical support",
			Description: "Help with technical problems and product questions.",
			Duration:    30,
		},
	}
}
