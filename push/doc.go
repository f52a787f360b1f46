// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package push delivers web-push notifications to registered subscriptions.

# Optional Capability

The dispatcher exists only when the full VAPID credential set (public key,
private key, subject) is configured: push.New returns nil otherwise, and
routes holding a nil dispatcher answer 501. This keeps the "is push
available" decision in one place instead of scattering env checks.

# Fan-out Semantics

Dispatch gathers the subscription set once, then delivers concurrently with
per-subscription error isolation. Failures are aggregated into {sent,
failed} counts, never raised. Endpoints answering 404 or 410 are deleted
from storage best-effort. There is no cancellation: a dispatch runs to
completion over its gathered set.
*/
package push
