package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/slotbook/pkg/response"
	"github.com/diagnosis/slotbook/services/bookings/internal/domain"
)

// CreateBooking handles POST /bookings.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.bookingService.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// ListBookings handles GET /bookings with an optional ?date= filter.
func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	filter := domain.BookingFilter{Date: r.URL.Query().Get("date")}
	bookings, err := h.bookingService.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *Handlers) GetAvailability(w http.ResponseWriter, r *http.Request) {
	day, err := h.availabilityService.Day(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// GetCalendar handles GET /availability?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *Handlers) GetCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		response.BadRequest(w, "from and to query parameters are required")
		return
	}

	days, err := h.availabilityService.Calendar(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}
