// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Timestamps are always written by the application so the DDL stays
// portable between SQLite and PostgreSQL (no NOW() defaults).
const schema = `
-- Ideas
CREATE TABLE IF NOT EXISTS idea (
    id TEXT PRIMARY KEY,
    text TEXT NOT NULL,
    category TEXT NOT NULL,
    urgency TEXT NOT NULL DEFAULT 'moyenne' CHECK (urgency IN ('basse', 'moyenne', 'haute')),
    status TEXT NOT NULL DEFAULT 'nouveau',
    device_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_idea_device_created ON idea(device_hash, created_at);
CREATE INDEX IF NOT EXISTS idx_idea_status ON idea(status);

-- Polls (options frozen at creation as a JSON array of labels)
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    options TEXT NOT NULL,
    active BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_poll_active ON poll(active);

-- Votes: the UNIQUE constraint is the one-vote-per-device mechanism
CREATE TABLE IF NOT EXISTS poll_vote (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    option_index INTEGER NOT NULL,
    voter_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (poll_id, voter_hash)
);

CREATE INDEX IF NOT EXISTS idx_poll_vote_poll ON poll_vote(poll_id);

-- Push subscriptions, upserted by endpoint
CREATE TABLE IF NOT EXISTS push_subscription (
    endpoint TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    device_hash TEXT,
    user_agent TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

-- Best-effort daily unique-device tally
CREATE TABLE IF NOT EXISTS daily_connection (
    day TEXT NOT NULL,
    device_hash TEXT NOT NULL,
    last_seen TIMESTAMP NOT NULL,
    PRIMARY KEY (day, device_hash)
);

-- News
CREATE TABLE IF NOT EXISTS news (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    pinned BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_news_created ON news(created_at);
`
