// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles server configuration from CLI flags and env vars.

# Precedence

CLI flags win over environment variables; a .env file (loaded by main via
godotenv) populates the environment before parsing.

# Required Settings

  - DATABASE_URL (-d): SQLite path/DSN or PostgreSQL connection string
  - SESSION_SECRET (--session-secret): HS256 secret for admin session tokens
  - ADMIN_PASSWORD_HASH (--admin-hash): bcrypt hash of the admin password

# Optional Settings

  - PORT (-p): listen port (default 8090)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - SESSION_COOKIE: session cookie name (default cvl_session)
  - SESSION_TTL: session lifetime as a Go duration (default 8h)
  - COOLDOWN_SECONDS: idea submission cooldown (default 60)
  - VAPID_PUBLIC_KEY / VAPID_PRIVATE_KEY / VAPID_SUBJECT: web-push
    credentials; push endpoints answer 501 when any is missing
  - APP_ENV: production enables the Secure cookie flag
*/
package cliparse
