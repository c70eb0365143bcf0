package response

import (
	"encoding/json"
	"net/http"

	"github.com/diagnosis/slotbook/pkg/logger"
)

// ErrorResponse represents a structured JSON error response
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

// WriteJSON encodes data with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// WriteErrorWithDetails adds one entry per failing field or schedule entry.
func WriteErrorWithDetails(w http.ResponseWriter, statusCode int, message, code string, details []string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code, Details: details})
}

const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInvalidTimeFormat = "INVALID_TIME_FORMAT"
	CodeInvalidTimeRange  = "INVALID_TIME_RANGE"
	CodePastDate          = "PAST_DATE"
	CodeNotFound          = "NOT_FOUND"
	CodeSlotBooked        = "SLOT_ALREADY_BOOKED"
	CodeSlotNotOffered    = "SLOT_NOT_OFFERED"
	CodeFormInactive      = "FORM_INACTIVE"
	CodeRateLimit         = "RATE_LIMIT_EXCEEDED"
	CodeInternalError     = "INTERNAL_ERROR"

	CodeIdempotencyMismatch = "IDEMPOTENCY_KEY_REUSED"
	CodeIdempotencyInFlight = "IDEMPOTENCY_IN_PROGRESS"
)

func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message, CodeSlotBooked)
}
