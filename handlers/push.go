// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Jockie-stack/CVL-app/cliparse"
	"github.com/Jockie-stack/CVL-app/middleware"
	"github.com/Jockie-stack/CVL-app/models"
	"github.com/Jockie-stack/CVL-app/push"
)

type PushHandler struct {
	db         *sql.DB
	cfg        cliparse.Config
	dispatcher *push.Dispatcher // nil when push is not configured
}

func NewPushHandler(db *sql.DB, cfg cliparse.Config, dispatcher *push.Dispatcher) *PushHandler {
	return &PushHandler{db: db, cfg: cfg, dispatcher: dispatcher}
}

// Subscribe handles POST /api/push/subscribe
// Upserts the subscription by endpoint; re-subscribing refreshes the key
// material and the updated_at timestamp.
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	deviceHash := middleware.DeviceHash(r)

	var req models.SubscribeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Endpoint == "" || len(req.Endpoint) > 500 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "endpoint is required (max 500 characters)")
		return
	}
	if req.Keys.P256dh == "" || req.Keys.Auth == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "subscription keys are required")
		return
	}

	// Store the normalized subscription as an opaque blob; the dispatcher
	// decodes it back at delivery time.
	payload, err := json.Marshal(req)
	if err != nil {
		slog.Error("failed to encode subscription payload", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save subscription")
		return
	}

	now := time.Now()
	_, err = h.db.Exec(`
		INSERT INTO push_subscription (endpoint, payload, device_hash, user_agent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (endpoint) DO UPDATE SET
			payload = EXCLUDED.payload,
			device_hash = EXCLUDED.device_hash,
			user_agent = EXCLUDED.user_agent,
			updated_at = EXCLUDED.updated_at
	`, req.Endpoint, string(payload), deviceHash, r.UserAgent(), now, now)

	if err != nil {
		slog.Error("failed to upsert subscription", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save subscription")
		return
	}

	slog.Info("push subscription saved")

	middleware.JSONResponse(w, http.StatusCreated, models.SubscribeResponse{Endpoint: req.Endpoint})
}

// Unsubscribe handles DELETE /api/push/subscribe
func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req models.UnsubscribeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Endpoint == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "endpoint is required")
		return
	}

	if _, err := h.db.Exec(`DELETE FROM push_subscription WHERE endpoint = $1`, req.Endpoint); err != nil {
		slog.Error("failed to delete subscription", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete subscription")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PublicKey handles GET /api/push/key
// Clients need the VAPID public key to create a browser subscription.
func (h *PushHandler) PublicKey(w http.ResponseWriter, r *http.Request) {
	if h.dispatcher == nil {
		middleware.ErrorResponse(w, http.StatusNotImplemented, "push notifications are not configured")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"public_key": h.dispatcher.PublicKey(),
	})
}

// Notify handles POST /api/admin/notify
// Broadcasts a notification to every stored subscription and reports
// {sent, failed}. Answers 501 when push is not configured - never a fake
// success with zero deliveries.
func (h *PushHandler) Notify(w http.ResponseWriter, r *http.Request) {
	if h.dispatcher == nil {
		middleware.ErrorResponse(w, http.StatusNotImplemented, "push notifications are not configured")
		return
	}

	var payload push.Payload
	if err := middleware.ParseJSONBody(r, &payload); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := payload.Validate(); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.dispatcher.Dispatch(payload)
	if err != nil {
		slog.Error("push dispatch failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to dispatch notifications")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, result)
}
