package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/slotbook/pkg/logger"
	"github.com/diagnosis/slotbook/pkg/response"
	"github.com/diagnosis/slotbook/services/bookings/internal/domain"
	"github.com/diagnosis/slotbook/services/bookings/internal/service"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	bookingService      service.BookingService
	scheduleService     service.ScheduleService
	availabilityService service.AvailabilityService
	formService         service.FormService
	customerService     service.CustomerService
}

func New(
	bookingService service.BookingService,
	scheduleService service.ScheduleService,
	availabilityService service.AvailabilityService,
	formService service.FormService,
	customerService service.CustomerService,
) *Handlers {
	return &Handlers{
		bookingService:      bookingService,
		scheduleService:     scheduleService,
		availabilityService: availabilityService,
		formService:         formService,
		customerService:     customerService,
	}
}

// Routes mounts the API on r. createBooking wraps POST /bookings only; the
// service passes the rate limiter and idempotency middleware here.
func (h *Handlers) Routes(r chi.Router, createBooking ...func(http.Handler) http.Handler) {
	r.Get("/schedule", h.GetSchedule)

	r.Route("/availability", func(r chi.Router) {
		r.Get("/", h.GetCalendar)
		r.Get("/{date}", h.GetAvailability)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.With(createBooking...).Post("/", h.CreateBooking)
		r.Get("/", h.ListBookings)
	})

	r.Route("/forms", func(r chi.Router) {
		r.Get("/", h.ListForms)
		r.Get("/active", h.GetActiveForm)
		r.Get("/{id}", h.GetForm)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Put("/schedule", h.SaveSchedule)
		r.Post("/forms", h.CreateForm)
		r.Put("/forms/{id}", h.UpdateForm)
		r.Delete("/forms/{id}", h.DeleteForm)
		r.Post("/forms/{id}/toggle", h.ToggleForm)

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.ListCustomers)
			r.Post("/", h.CreateCustomer)
			r.Get("/{id}", h.GetCustomer)
			r.Put("/{id}", h.UpdateCustomer)
			r.Delete("/{id}", h.DeleteCustomer)
		})
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return false
	}
	return true
}

// Helper functions for common response patterns
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	response.WriteJSON(w, statusCode, data)
}

// writeServiceError maps domain errors to HTTP status codes. Anything not
// recognised is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var schedErr *domain.ScheduleError
	var fieldErr *domain.FieldError

	switch {
	case errors.Is(err, domain.ErrSlotAlreadyBooked):
		response.Conflict(w, "This time slot has already been booked")
	case errors.Is(err, domain.ErrSlotNotOffered):
		response.WriteError(w, http.StatusUnprocessableEntity, err.Error(), response.CodeSlotNotOffered)
	case errors.Is(err, domain.ErrFormInactive):
		response.WriteError(w, http.StatusUnprocessableEntity, err.Error(), response.CodeFormInactive)
	case errors.Is(err, domain.ErrFormNotFound):
		response.NotFound(w, "Booking form not found")
	case errors.Is(err, domain.ErrCustomerNotFound):
		response.NotFound(w, "Customer not found")
	case errors.As(err, &schedErr), errors.As(err, &fieldErr):
		response.WriteErrorWithDetails(w, http.StatusBadRequest, validationMessage(err), validationCode(err), details(err))
	case errors.Is(err, domain.ErrInvalidTimeFormat), errors.Is(err, domain.ErrInvalidTimeRange):
		response.WriteError(w, http.StatusBadRequest, err.Error(), validationCode(err))
	case errors.Is(err, domain.ErrPastDate):
		response.WriteError(w, http.StatusBadRequest, err.Error(), response.CodePastDate)
	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrTimeRangeIndex):
		response.BadRequest(w, err.Error())
	default:
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		response.InternalError(w, "Internal server error")
	}
}

func validationCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTimeFormat):
		return response.CodeInvalidTimeFormat
	case errors.Is(err, domain.ErrInvalidTimeRange):
		return response.CodeInvalidTimeRange
	default:
		return response.CodeInvalidInput
	}
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidContact):
		return domain.ErrInvalidContact.Error()
	case errors.Is(err, domain.ErrInvalidForm):
		return domain.ErrInvalidForm.Error()
	default:
		return "invalid weekly schedule"
	}
}

// details flattens a joined error into one message per located failure.
func details(err error) []string {
	var out []string
	var walk func(error)
	walk = func(e error) {
		switch v := e.(type) {
		case *domain.ScheduleError:
			out = append(out, v.Error())
		case *domain.FieldError:
			out = append(out, v.Error())
		case interface{ Unwrap() []error }:
			for _, inner := range v.Unwrap() {
				walk(inner)
			}
		}
	}
	walk(err)
	return out
}
