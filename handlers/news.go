// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Jockie-stack/CVL-app/cliparse"
	"github.com/Jockie-stack/CVL-app/middleware"
	"github.com/Jockie-stack/CVL-app/models"
	"github.com/Jockie-stack/CVL-app/push"
	"github.com/Jockie-stack/CVL-app/sanitize"
)

type NewsHandler struct {
	db         *sql.DB
	cfg        cliparse.Config
	dispatcher *push.Dispatcher // nil when push is not configured
}

func NewNewsHandler(db *sql.DB, cfg cliparse.Config, dispatcher *push.Dispatcher) *NewsHandler {
	return &NewsHandler{db: db, cfg: cfg, dispatcher: dispatcher}
}

type createNewsResponse struct {
	News     models.News  `json:"news"`
	Dispatch *push.Result `json:"dispatch,omitempty"`
}

// List handles GET /api/news
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, title, content, pinned, created_at
		FROM news
		ORDER BY pinned DESC, created_at DESC
	`)
	if err != nil {
		slog.Error("failed to query news", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	items := []models.News{}
	for rows.Next() {
		var item models.News
		if err := rows.Scan(&item.ID, &item.Title, &item.Content, &item.Pinned, &item.CreatedAt); err != nil {
			slog.Error("failed to scan news", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		items = append(items, item)
	}

	middleware.JSONResponse(w, http.StatusOK, items)
}

// Create handles POST /api/admin/news
// When notify is requested and push is configured, the announcement is
// broadcast after the row is written; delivery counts ride along in the
// response. A disabled dispatcher silently skips the broadcast - the news
// item itself must never fail over an optional capability.
func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateNewsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	title := sanitize.Clean(req.Title, models.MaxNewsTitleLen)
	if title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	content := sanitize.Clean(req.Content, models.MaxNewsContentLen)
	if content == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "content is required")
		return
	}

	item := models.News{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Pinned:    req.Pinned,
		CreatedAt: time.Now(),
	}

	_, err := h.db.Exec(`
		INSERT INTO news (id, title, content, pinned, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, item.ID, item.Title, item.Content, item.Pinned, item.CreatedAt)

	if err != nil {
		slog.Error("failed to insert news", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create news")
		return
	}

	slog.Info("news created", "news_id", item.ID, "pinned", item.Pinned)

	response := createNewsResponse{News: item}
	if req.Notify && h.dispatcher != nil {
		result, err := h.dispatcher.Dispatch(push.Payload{
			Title: sanitize.Truncate(item.Title, push.MaxTitleLen),
			Body:  sanitize.Truncate(item.Content, push.MaxBodyLen),
			URL:   "/news",
			Tag:   "cvl-news",
		})
		if err != nil {
			slog.Error("news broadcast failed", "error", err, "news_id", item.ID)
		} else {
			response.Dispatch = &result
		}
	}

	middleware.JSONResponse(w, http.StatusCreated, response)
}

// Delete handles DELETE /api/admin/news/{id}
func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	newsID := r.PathValue("id")
	if newsID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "news id is required")
		return
	}

	result, err := h.db.Exec(`DELETE FROM news WHERE id = $1`, newsID)
	if err != nil {
		slog.Error("failed to delete news", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete news")
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete news")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "News not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
