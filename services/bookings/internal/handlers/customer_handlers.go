package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/slotbook/services/bookings/internal/domain"
)

func (h *Handlers) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customerService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *Handlers) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customerService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *Handlers) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var in domain.CustomerInput
	if !decodeJSON(w, r, &in) {
		return
	}

	customer, err := h.customerService.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (h *Handlers) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var in domain.CustomerInput
	if !decodeJSON(w, r, &in) {
		return
	}

	customer, err := h.customerService.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *Handlers) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.customerService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
