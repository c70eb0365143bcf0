package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM 24-hour format")
	ErrInvalidTimeRange  = errors.New("start time must be before end time")
	ErrTimeRangeIndex    = errors.New("time range index out of range")
	ErrUnknownWeekday    = errors.New("unknown weekday")
	ErrScheduleNotFound  = errors.New("weekly schedule not found")

	ErrInvalidDate  = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidRange = errors.New("invalid date range")
	ErrPastDate     = errors.New("date is in the past")

	ErrSlotAlreadyBooked = errors.New("time slot already booked")
	ErrSlotNotOffered    = errors.New("time slot is not offered on this date")
	ErrInvalidContact    = errors.New("invalid contact details")

	ErrInvalidForm  = errors.New("invalid booking form")
	ErrFormNotFound = errors.New("booking form not found")
	ErrFormInactive = errors.New("booking form is not active")

	ErrCustomerNotFound = errors.New("customer not found")
)

// ScheduleError locates a validation failure inside a WeeklySchedule.
// Index is -1 when the failure concerns the whole day.
type ScheduleError struct {
	Weekday Weekday
	Index   int
	Err     error
}

func (e *ScheduleError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v", e.Weekday, e.Err)
	}
	return fmt.Sprintf("%s slot %d: %v", e.Weekday, e.Index, e.Err)
}

func (e *ScheduleError) Unwrap() error {
	return e.Err
}

// FieldError names the input field that failed validation.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
