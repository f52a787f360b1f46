// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/Jockie-stack/CVL-app/auth"
	"github.com/Jockie-stack/CVL-app/cliparse"
	"github.com/Jockie-stack/CVL-app/middleware"
	"github.com/Jockie-stack/CVL-app/models"
)

type AdminHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAdminHandler(db *sql.DB, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg}
}

// Login handles POST /api/admin/login
// On success the session token travels in an httpOnly cookie; the body
// only carries the expiry so the frontend can schedule a re-login prompt.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "password is required")
		return
	}

	if err := auth.CheckPassword(h.cfg.AdminPasswordHash, req.Password); err != nil {
		slog.Warn("admin login rejected", "remote", r.RemoteAddr)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	token, expiresAt, err := auth.NewSessionToken(h.cfg.SessionSecret, h.cfg.SessionTTL, time.Now())
	if err != nil {
		slog.Error("failed to mint session token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cfg.IsProduction(),
	})

	slog.Info("admin logged in")

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{ExpiresAt: expiresAt})
}

// Logout handles POST /api/admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cfg.IsProduction(),
	})

	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := models.StatsResponse{IdeasByStatus: map[string]int{}}

	rows, err := h.db.Query(`SELECT status, COUNT(*) FROM idea GROUP BY status`)
	if err != nil {
		slog.Error("failed to query idea stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			slog.Error("failed to scan idea stats", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		stats.IdeasByStatus[status] = count
		stats.TotalIdeas += count
	}

	err = h.db.QueryRow(`
		SELECT COUNT(*)
		FROM poll_vote v
		JOIN poll p ON v.poll_id = p.id
		WHERE p.active = $1
	`, true).Scan(&stats.ActivePollVotes)
	if err != nil {
		slog.Error("failed to query vote stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	today := time.Now().Format("2006-01-02")
	err = h.db.QueryRow(`SELECT COUNT(*) FROM daily_connection WHERE day = $1`, today).Scan(&stats.ConnectionsToday)
	if err != nil {
		slog.Error("failed to query connection stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	err = h.db.QueryRow(`SELECT COUNT(*) FROM push_subscription`).Scan(&stats.Subscriptions)
	if err != nil {
		slog.Error("failed to query subscription stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}
