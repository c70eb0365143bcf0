package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/diagnosis/slotbook/pkg/response"
)

// ReadyCheck is a named dependency check for /readyz.
type ReadyCheck struct {
	Name  string
	Check func(context.Context) error
}

type healthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health answers liveness checks.
func Health(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusOK, healthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready runs every check with a 2s budget each and reports 503 when any fails.
func Ready(checks ...ReadyCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := healthStatus{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    make(map[string]string, len(checks)),
		}
		code := http.StatusOK

		for _, check := range checks {
			if check.Check == nil {
				continue
			}
			name := check.Name
			if name == "" {
				name = "dependency"
			}

			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			err := check.Check(ctx)
			cancel()
			if err != nil {
				status.Status = "unavailable"
				status.Checks[name] = err.Error()
				code = http.StatusServiceUnavailable
				continue
			}
			status.Checks[name] = "ok"
		}

		response.WriteJSON(w, code, status)
	}
}
