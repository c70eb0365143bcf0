package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/diagnosis/slotbook/pkg/cache"
	"github.com/diagnosis/slotbook/pkg/logger"
	"github.com/diagnosis/slotbook/pkg/response"
)

const (
	maxIdempotentBody  = 1 << 20
	idempotencyLockTTL = 30 * time.Second
)

// IdempotencyStore is satisfied by cache.RedisStore and cache.MemoryStore.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

type storedResponse struct {
	RequestHash string `json:"request_hash,omitempty"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
}

// IdempotencyMiddleware replays the first successful response to a POST
// carrying the same Idempotency-Key on the same path. Only 2xx responses are
// remembered, so a rejected request can be retried.
//
// A key reused with a different body gets 422. While the first request with
// a key is still running, later ones get 409 instead of reaching the handler.
func IdempotencyMiddleware(store IdempotencyStore, ttl time.Duration) func(http.Handler) http.Handler {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxIdempotentBody+1))
			if err != nil {
				response.BadRequest(w, "Failed to read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			bodySum := sha256.Sum256(body)
			requestHash := hex.EncodeToString(bodySum[:])

			// Hash the key for privacy
			sum := sha256.Sum256([]byte(r.URL.Path + "\x00" + key))
			hashedKey := fmt.Sprintf("idempotency:%x", sum)
			lockKey := hashedKey + ":lock"

			if replay(w, r, store, hashedKey, requestHash) {
				return
			}

			locked, err := store.SetNX(r.Context(), lockKey, requestHash, idempotencyLockTTL)
			switch {
			case err != nil:
				logger.WarnContext(r.Context(), "Idempotency lock failed", "error", err)
			case !locked:
				w.Header().Set("Retry-After", "1")
				response.WriteError(w, http.StatusConflict,
					"A request with this Idempotency-Key is still being processed", response.CodeIdempotencyInFlight)
				return
			default:
				defer func() {
					if err := store.Del(context.WithoutCancel(r.Context()), lockKey); err != nil {
						logger.WarnContext(r.Context(), "Idempotency unlock failed", "error", err)
					}
				}()
				// The holder of a lock that was just released may have stored a response.
				if replay(w, r, store, hashedKey, requestHash) {
					return
				}
			}

			recorder := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(recorder, r)

			if recorder.statusCode < 200 || recorder.statusCode >= 300 {
				return
			}
			encoded, err := json.Marshal(storedResponse{
				RequestHash: requestHash,
				Status:      recorder.statusCode,
				ContentType: w.Header().Get("Content-Type"),
				Body:        recorder.body,
			})
			if err != nil {
				return
			}
			if err := store.Set(context.WithoutCancel(r.Context()), hashedKey, string(encoded), ttl); err != nil {
				logger.WarnContext(r.Context(), "Idempotency store failed", "error", err)
			}
		})
	}
}

// replay writes the stored response for hashedKey, or a 422 when the key was
// first used with another body. It reports whether it wrote anything.
func replay(w http.ResponseWriter, r *http.Request, store IdempotencyStore, hashedKey, requestHash string) bool {
	existing, err := store.Get(r.Context(), hashedKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			logger.WarnContext(r.Context(), "Idempotency lookup failed", "error", err)
		}
		return false
	}

	var saved storedResponse
	if json.Unmarshal([]byte(existing), &saved) != nil || saved.Status == 0 {
		return false
	}
	if saved.RequestHash != "" && saved.RequestHash != requestHash {
		response.WriteError(w, http.StatusUnprocessableEntity,
			"Idempotency-Key was already used with a different request body", response.CodeIdempotencyMismatch)
		return true
	}

	if saved.ContentType != "" {
		w.Header().Set("Content-Type", saved.ContentType)
	}
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(saved.Status)
	_, _ = w.Write(saved.Body)
	return true
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       []byte
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(body []byte) (int, error) {
	r.body = append(r.body, body...)
	return r.ResponseWriter.Write(body)
}
