// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires the CVL API routes using Go 1.22+ method routing.

# Route Groups

Public, device header required:

	POST   /api/ideas            → submit idea (cooldown-gated)
	GET    /api/ideas            → list ideas
	GET    /api/polls/active     → active poll with counts
	POST   /api/polls/{id}/vote  → one vote per device
	GET    /api/news             → announcements
	POST   /api/push/subscribe   → upsert subscription
	DELETE /api/push/subscribe   → remove subscription
	GET    /api/push/key         → VAPID public key (501 when disabled)
	POST   /api/admin/login      → password → session cookie
	POST   /api/admin/logout     → clear cookie

Admin, device header + session cookie:

	GET    /api/admin/ideas
	PATCH  /api/admin/ideas/{id}/status
	POST   /api/admin/polls              → atomic activate
	GET    /api/admin/polls
	POST   /api/admin/polls/deactivate
	POST   /api/admin/news               → create, optional broadcast
	DELETE /api/admin/news/{id}
	POST   /api/admin/notify             → broadcast, {sent, failed}
	GET    /api/admin/stats

Unauthenticated: GET /health, GET /.
*/
package router
