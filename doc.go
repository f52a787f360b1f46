// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the CVL feedback platform API.

The CVL app lets students submit improvement ideas, vote in the council's
current poll, read announcements, and opt into web-push notifications.
Students are identified pseudonymously by a hash of a client-chosen device
ID; council admins authenticate with a password-backed session cookie.

# Starting the Server

The server reads configuration from the environment (a .env file is loaded
when present) or CLI flags:

	DATABASE_URL=cvl.db SESSION_SECRET=... ADMIN_PASSWORD_HASH=... go run .

Or with flags:

	go run . -p 8090 -d cvl.db --session-secret ... --admin-hash ...

# Configuration

See package cliparse for the full surface. SQLite is the default store; set
DATABASE_TYPE=postgres with a PostgreSQL DSN to switch. Web push stays
disabled (501 on push endpoints) until VAPID_PUBLIC_KEY, VAPID_PRIVATE_KEY,
and VAPID_SUBJECT are all set.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (ideas, polls, push, news, admin)
  - router: route definitions using Go 1.22+ routing
  - middleware: device gate, admin gate, logging, JSON helpers
  - models: request/response and domain types
  - auth: device hashing, password check, session tokens
  - push: web-push dispatcher (optional capability)
  - sanitize: free-text normalization
  - db: schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
