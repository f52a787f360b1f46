// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db creates the relational schema for the CVL API.

# Design

The schema is created idempotently at startup (CREATE TABLE IF NOT EXISTS)
and is written to run unchanged on SQLite (default deployment) and
PostgreSQL. Two invariants live in the schema rather than application code:

  - poll_vote UNIQUE (poll_id, voter_hash): the sole mechanism preventing
    double voting; the insert attempt is the linearization point
  - daily_connection PRIMARY KEY (day, device_hash): makes the connection
    tally an idempotent upsert

The at-most-one-active-poll invariant is transactional, not declarative;
see the poll handlers.
*/
package db
