package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/slotbook/services/bookings/internal/domain"
)

func (h *Handlers) GetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.scheduleService.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

// SaveSchedule replaces the weekly schedule. The body is the full schedule
// keyed by weekday; an invalid draft is rejected as a whole.
func (h *Handlers) SaveSchedule(w http.ResponseWriter, r *http.Request) {
	var draft domain.WeeklySchedule
	if !decodeJSON(w, r, &draft) {
		return
	}

	saved, err := h.scheduleService.Save(r.Context(), draft)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handlers) ListForms(w http.ResponseWriter, r *http.Request) {
	forms, err := h.formService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, forms)
}

func (h *Handlers) GetActiveForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.formService.Active(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *Handlers) GetForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.formService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *Handlers) CreateForm(w http.ResponseWriter, r *http.Request) {
	var in domain.FormInput
	if !decodeJSON(w, r, &in) {
		return
	}

	form, err := h.formService.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, form)
}

func (h *Handlers) UpdateForm(w http.ResponseWriter, r *http.Request) {
	var in domain.FormInput
	if !decodeJSON(w, r, &in) {
		return
	}

	form, err := h.formService.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *Handlers) DeleteForm(w http.ResponseWriter, r *http.Request) {
	if err := h.formService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ToggleForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.formService.ToggleStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}
