// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the CVL API.

# Domain Types

The core entities mirror the database tables:

  - Idea: a student submission with category, urgency, and workflow status
  - Poll: a question with a frozen, ordered option list; at most one active
  - PollVote: one vote per (poll, device hash), enforced by a unique constraint
  - PushSubscription: a web-push endpoint with its opaque key payload
  - News: an announcement, optionally pinned

Device hashes and subscription key material are never serialized to JSON.

# Enumerations

Idea statuses, urgency levels, and categories use the product's French
vocabulary (nouveau/examine/retenu/realise/refuse, basse/moyenne/haute, ...).
Validators (ValidIdeaStatus, ValidUrgency, ValidCategory) gate all writes.

# Poll Options

Option labels are stored as a JSON array via EncodeOptions/DecodeOptions.
The ordering is immutable after creation, so a vote's option_index can be
validated against the decoded list without a transaction.
*/
package models
