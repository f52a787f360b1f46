// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Jockie-stack/CVL-app/auth"
	"github.com/Jockie-stack/CVL-app/cliparse"
	"github.com/Jockie-stack/CVL-app/models"
)

// DeviceIDHeader carries the client-chosen opaque device identifier.
const DeviceIDHeader = "X-Device-Id"

type contextKey string

const (
	deviceHashKey contextKey = "deviceHash"
	adminKey      contextKey = "admin"
)

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Log request
		slog.Info("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)

		// Call the next handler
		next(w, r)

		// Log completion
		duration := time.Since(start)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// RequireDevice rejects requests without a well-formed device identifier
// header (400, before any handler logic), resolves it to the pseudonymous
// device hash, and records the best-effort daily connection tally.
func RequireDevice(db *sql.DB, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get(DeviceIDHeader)
		if !auth.ValidDeviceID(rawID) {
			ErrorResponse(w, http.StatusBadRequest,
				DeviceIDHeader+" header required (8-200 characters)")
			return
		}

		deviceHash := auth.HashDeviceID(rawID)

		// Tally failures never surface to the caller
		if err := RecordDailyConnection(db, deviceHash, time.Now()); err != nil {
			slog.Debug("daily connection tally failed", "error", err)
		}

		ctx := context.WithValue(r.Context(), deviceHashKey, deviceHash)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin gates a route behind a valid admin session cookie.
// Missing/invalid/expired token -> 401; token without the admin claim -> 403.
func RequireAdmin(cfg cliparse.Config, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(cfg.SessionCookie)
		if err != nil || cookie.Value == "" {
			ErrorResponse(w, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := auth.ParseSessionToken(cfg.SessionSecret, cookie.Value)
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "session invalid or expired")
			return
		}

		if !claims.Admin {
			ErrorResponse(w, http.StatusForbidden, "admin capability required")
			return
		}

		ctx := context.WithValue(r.Context(), adminKey, true)
		next(w, r.WithContext(ctx))
	}
}

// DeviceHash returns the resolved device hash placed by RequireDevice,
// or "" when the request did not pass through it.
func DeviceHash(r *http.Request) string {
	hash, _ := r.Context().Value(deviceHashKey).(string)
	return hash
}

// IsAdmin reports whether RequireAdmin authenticated this request.
func IsAdmin(r *http.Request) bool {
	admin, _ := r.Context().Value(adminKey).(bool)
	return admin
}

// RecordDailyConnection upserts the (day, device_hash) tally row.
// Idempotent; callers swallow the returned error.
func RecordDailyConnection(db *sql.DB, deviceHash string, now time.Time) error {
	day := now.Format("2006-01-02")
	_, err := db.Exec(`
		INSERT INTO daily_connection (day, device_hash, last_seen)
		VALUES ($1, $2, $3)
		ON CONFLICT (day, device_hash) DO UPDATE SET last_seen = EXCLUDED.last_seen
	`, day, deviceHash, now)
	return err
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a JSON error response
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// RateLimitResponse writes a 429 carrying the remaining wait in seconds,
// both in the body and the standard Retry-After header.
func RateLimitResponse(w http.ResponseWriter, retryAfterSec int) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	JSONResponse(w, http.StatusTooManyRequests, models.ErrorResponse{
		Error:         http.StatusText(http.StatusTooManyRequests),
		Message:       "please wait before submitting again",
		RetryAfterSec: retryAfterSec,
	})
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// CORS middleware allows cross-origin requests from the frontend
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+DeviceIDHeader)
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
