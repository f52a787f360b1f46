// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Request Gates

  - RequireDevice: validates the X-Device-Id header (8-200 chars, 400
    otherwise), resolves the SHA-256 device hash into the request context,
    and upserts the best-effort daily connection tally
  - RequireAdmin: validates the admin session cookie (401 on missing,
    invalid, or expired token; 403 when the token lacks the admin claim)

Handlers read the results via DeviceHash(r) and IsAdmin(r).

# Response Helpers

JSONResponse, ErrorResponse, and RateLimitResponse produce the API's
uniform JSON bodies; RateLimitResponse additionally sets Retry-After.
*/
package middleware
