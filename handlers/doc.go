// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the CVL API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - IdeaHandler: idea submission (with cooldown), listing, status updates
  - PollHandler: active poll retrieval, voting, admin poll rotation
  - PushHandler: subscription upserts, VAPID key, admin broadcasts
  - NewsHandler: announcements, with optional broadcast on publish
  - AdminHandler: login/logout and the stats rollup

Handlers are created via constructor functions that accept *sql.DB and Config:

	ideaHandler := handlers.NewIdeaHandler(db, cfg)

Push-aware handlers additionally take the dispatcher, which is nil when the
VAPID credentials are not configured; those routes answer 501.

# Anti-abuse Layer

Three exported helpers carry the core guarantees and are usable outside the
HTTP layer:

	retry, err := handlers.CheckCooldown(db, deviceHash, window, time.Now())
	err = handlers.RecordVote(db, pollID, optionIndex, voterHash)
	poll, err := handlers.ActivatePoll(db, question, options)

CheckCooldown is best-effort (a race can admit one extra submission inside
the window). RecordVote relies on the vote table's unique constraint, and
ActivatePoll keeps the at-most-one-active-poll invariant transactional.

# Device Identity

All /api routes run behind middleware.RequireDevice; handlers obtain the
caller's pseudonymous hash with middleware.DeviceHash(r).
*/
package handlers
