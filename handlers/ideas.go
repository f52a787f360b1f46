// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Jockie-stack/CVL-app/cliparse"
	"github.com/Jockie-stack/CVL-app/middleware"
	"github.com/Jockie-stack/CVL-app/models"
	"github.com/Jockie-stack/CVL-app/sanitize"
)

type IdeaHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewIdeaHandler(db *sql.DB, cfg cliparse.Config) *IdeaHandler {
	return &IdeaHandler{db: db, cfg: cfg}
}

// Submit handles POST /api/ideas
func (h *IdeaHandler) Submit(w http.ResponseWriter, r *http.Request) {
	deviceHash := middleware.DeviceHash(r)

	var req models.SubmitIdeaRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	text := sanitize.Clean(req.Text, models.MaxIdeaTextLen)
	if text == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "text is required")
		return
	}

	if !models.ValidCategory(req.Category) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "category must be one of: cours, cantine, activites, equipements, bien-etre, autre")
		return
	}

	urgency := req.Urgency
	if urgency == "" {
		urgency = models.UrgencyMedium
	}
	if !models.ValidUrgency(urgency) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "urgency must be one of: basse, moyenne, haute")
		return
	}

	// Cooldown gate: best-effort, one extra submission may slip through a
	// race between two near-simultaneous requests from the same device
	retryAfter, err := CheckCooldown(h.db, deviceHash, h.cfg.CooldownWindow(), time.Now())
	if err != nil {
		slog.Error("cooldown lookup failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if retryAfter > 0 {
		middleware.RateLimitResponse(w, retryAfter)
		return
	}

	idea := models.Idea{
		ID:         uuid.NewString(),
		Text:       text,
		Category:   req.Category,
		Urgency:    urgency,
		Status:     models.IdeaStatusNew,
		DeviceHash: deviceHash,
		CreatedAt:  time.Now(),
	}

	_, err = h.db.Exec(`
		INSERT INTO idea (id, text, category, urgency, status, device_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, idea.ID, idea.Text, idea.Category, idea.Urgency, idea.Status, idea.DeviceHash, idea.CreatedAt)

	if err != nil {
		slog.Error("failed to insert idea", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit idea")
		return
	}

	slog.Info("idea submitted", "idea_id", idea.ID, "category", idea.Category)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitIdeaResponse{Idea: idea})
}

// List handles GET /api/ideas and GET /api/admin/ideas
func (h *IdeaHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !models.ValidIdeaStatus(status) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown status filter")
		return
	}

	query := `
		SELECT id, text, category, urgency, status, created_at
		FROM idea
		ORDER BY created_at DESC
	`
	args := []interface{}{}
	if status != "" {
		query = `
			SELECT id, text, category, urgency, status, created_at
			FROM idea
			WHERE status = $1
			ORDER BY created_at DESC
		`
		args = append(args, status)
	}

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query ideas", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	ideas := []models.Idea{}
	for rows.Next() {
		var idea models.Idea
		if err := rows.Scan(&idea.ID, &idea.Text, &idea.Category, &idea.Urgency, &idea.Status, &idea.CreatedAt); err != nil {
			slog.Error("failed to scan idea", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		ideas = append(ideas, idea)
	}

	middleware.JSONResponse(w, http.StatusOK, ideas)
}

// UpdateStatus handles PATCH /api/admin/ideas/{id}/status
func (h *IdeaHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ideaID := r.PathValue("id")
	if ideaID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "idea id is required")
		return
	}

	var req models.UpdateIdeaStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !models.ValidIdeaStatus(req.Status) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be one of: nouveau, examine, retenu, realise, refuse")
		return
	}

	result, err := h.db.Exec(`UPDATE idea SET status = $1 WHERE id = $2`, req.Status, ideaID)
	if err != nil {
		slog.Error("failed to update idea status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update idea")
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update idea")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Idea not found")
		return
	}

	slog.Info("idea status updated", "idea_id", ideaID, "status", req.Status)

	middleware.JSONResponse(w, http.StatusOK, models.UpdateIdeaStatusResponse{
		ID:     ideaID,
		Status: req.Status,
	})
}

// CheckCooldown looks up the most recent idea from deviceHash and returns
// the remaining wait in whole seconds (ceiling), or 0 when submission is
// allowed. Single-row lookup; relies on the store's native isolation only.
func CheckCooldown(db *sql.DB, deviceHash string, window time.Duration, now time.Time) (int, error) {
	if window <= 0 {
		return 0, nil
	}

	var lastCreated time.Time
	err := db.QueryRow(`
		SELECT created_at FROM idea
		WHERE device_hash = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, deviceHash).Scan(&lastCreated)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	remaining := window - now.Sub(lastCreated)
	if remaining <= 0 {
		return 0, nil
	}

	retryAfter := int(math.Ceil(remaining.Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}
	return retryAfter, nil
}
