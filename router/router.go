// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/Jockie-stack/CVL-app/cliparse"
	"github.com/Jockie-stack/CVL-app/handlers"
	"github.com/Jockie-stack/CVL-app/middleware"
	"github.com/Jockie-stack/CVL-app/push"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, dispatcher *push.Dispatcher) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	ideaHandler := handlers.NewIdeaHandler(db, cfg)
	pollHandler := handlers.NewPollHandler(db, cfg)
	pushHandler := handlers.NewPushHandler(db, cfg, dispatcher)
	newsHandler := handlers.NewNewsHandler(db, cfg, dispatcher)
	adminHandler := handlers.NewAdminHandler(db, cfg)

	// Every /api route requires the device identifier header; admin routes
	// additionally require the session cookie.
	public := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireDevice(db, h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return public(middleware.RequireAdmin(cfg, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Ideas (public submission + listing)
	mux.HandleFunc("POST /api/ideas", public(ideaHandler.Submit))
	mux.HandleFunc("GET /api/ideas", public(ideaHandler.List))

	// Polls (public voting)
	mux.HandleFunc("GET /api/polls/active", public(pollHandler.GetActive))
	mux.HandleFunc("POST /api/polls/{id}/vote", public(pollHandler.Vote))

	// News (public)
	mux.HandleFunc("GET /api/news", public(newsHandler.List))

	// Push subscriptions (public)
	mux.HandleFunc("POST /api/push/subscribe", public(pushHandler.Subscribe))
	mux.HandleFunc("DELETE /api/push/subscribe", public(pushHandler.Unsubscribe))
	mux.HandleFunc("GET /api/push/key", public(pushHandler.PublicKey))

	// Session management
	mux.HandleFunc("POST /api/admin/login", public(adminHandler.Login))
	mux.HandleFunc("POST /api/admin/logout", public(adminHandler.Logout))

	// Admin operations
	mux.HandleFunc("GET /api/admin/ideas", admin(ideaHandler.List))
	mux.HandleFunc("PATCH /api/admin/ideas/{id}/status", admin(ideaHandler.UpdateStatus))
	mux.HandleFunc("POST /api/admin/polls", admin(pollHandler.Create))
	mux.HandleFunc("GET /api/admin/polls", admin(pollHandler.List))
	mux.HandleFunc("POST /api/admin/polls/deactivate", admin(pollHandler.Deactivate))
	mux.HandleFunc("POST /api/admin/news", admin(newsHandler.Create))
	mux.HandleFunc("DELETE /api/admin/news/{id}", admin(newsHandler.Delete))
	mux.HandleFunc("POST /api/admin/notify", admin(pushHandler.Notify))
	mux.HandleFunc("GET /api/admin/stats", admin(adminHandler.Stats))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("CVL API v1"))
	})

	return mux
}
