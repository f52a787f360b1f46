// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides device identity hashing and admin session tokens.

# Device Identity

Every /api request carries an opaque, client-chosen X-Device-Id header
(8-200 chars). HashDeviceID reduces it to a SHA-256 hex digest used as the
pseudonymous actor key for cooldowns, vote dedup, and the daily tally. The
ID is self-chosen and spoofable; the anti-abuse guarantees hold against
non-adversarial clients only.

# Admin Sessions

There is a single admin credential: a bcrypt hash (cost 12) of the council
password, held in configuration. A successful CheckPassword mints an HS256
JWT with an admin claim and an 8-hour expiry, carried in an httpOnly cookie.
There is no refresh; the admin logs in again after expiry.
*/
package auth
