package postgres

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables the service needs.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

const schema = `
-- Reader personas
CREATE TABLE IF NOT EXISTS readers (
    alias TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    tagline TEXT NOT NULL DEFAULT '',
    persona TEXT NOT NULL DEFAULT '',
    model TEXT,
    temperature DOUBLE PRECISION,
    system_instructions TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Card deck (seeded reference data)
CREATE TABLE IF NOT EXISTS cards (
    id BIGINT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    category TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    meaning TEXT NOT NULL DEFAULT '',
    positive TEXT NOT NULL DEFAULT '',
    negative TEXT NOT NULL DEFAULT '',
    symbolism TEXT NOT NULL DEFAULT ''
);

-- Per (reader, card) draw counters
CREATE TABLE IF NOT EXISTS card_stats (
    reader_alias TEXT NOT NULL,
    card_id BIGINT NOT NULL,
    card_name TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    draw_count BIGINT NOT NULL DEFAULT 0,
    last_drawn TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (reader_alias, card_id)
);

CREATE INDEX IF NOT EXISTS idx_card_stats_reader ON card_stats(reader_alias, draw_count DESC);

-- Per-reader aggregate counters
CREATE TABLE IF NOT EXISTS reader_summary (
    reader_alias TEXT PRIMARY KEY,
    total_readings BIGINT NOT NULL DEFAULT 0,
    unique_users BIGINT NOT NULL DEFAULT 0,
    avg_cards_per_reading DOUBLE PRECISION NOT NULL DEFAULT 0,
    last_active TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Append-only reading log
CREATE TABLE IF NOT EXISTS readings (
    id TEXT PRIMARY KEY,
    reader_alias TEXT NOT NULL,
    user_id TEXT NOT NULL DEFAULT 'anon',
    question TEXT NOT NULL DEFAULT '',
    spread_type TEXT NOT NULL DEFAULT '',
    card_names TEXT[] NOT NULL DEFAULT '{}',
    response TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_readings_reader_created ON readings(reader_alias, created_at);
CREATE INDEX IF NOT EXISTS idx_readings_created ON readings(created_at);
`
