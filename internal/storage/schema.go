package storage

// schema is valid for both sqlite and postgres. Timestamps are stored in UTC.
const schema = `
-- 'users' holds the per-user progress aggregate; identities live elsewhere.
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    points INTEGER NOT NULL DEFAULT 0,
    streak_days INTEGER NOT NULL DEFAULT 0,
    last_study_date TIMESTAMP
);

CREATE TABLE IF NOT EXISTS decks (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- 'cards' stores content and the scheduler-owned memory state.
CREATE TABLE IF NOT EXISTS cards (
    id TEXT PRIMARY KEY,
    deck_id TEXT NOT NULL,
    front TEXT NOT NULL,
    back TEXT NOT NULL,
    audio_ref TEXT NOT NULL DEFAULT '',
    content_hash TEXT NOT NULL DEFAULT '',
    is_suspended BOOLEAN NOT NULL DEFAULT FALSE,
    interval_days INTEGER NOT NULL DEFAULT 0,
    repetition INTEGER NOT NULL DEFAULT 0,
    efactor DOUBLE PRECISION NOT NULL DEFAULT 2.5,
    next_review TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL,

    FOREIGN KEY(deck_id) REFERENCES decks(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_cards_deck_due ON cards(deck_id, next_review);

CREATE TABLE IF NOT EXISTS card_images (
    card_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    ref TEXT NOT NULL,

    PRIMARY KEY(card_id, position),
    FOREIGN KEY(card_id) REFERENCES cards(id) ON DELETE CASCADE
);

-- 'review_logs' is append-only.
CREATE TABLE IF NOT EXISTS review_logs (
    id TEXT PRIMARY KEY,
    card_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    rating INTEGER NOT NULL,
    scheduled_date TIMESTAMP NOT NULL,
    reviewed_at TIMESTAMP NOT NULL,

    FOREIGN KEY(card_id) REFERENCES cards(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_review_logs_user ON review_logs(user_id, reviewed_at);

-- 'sources' tracks where a deck's cards are imported from.
CREATE TABLE IF NOT EXISTS sources (
    id TEXT PRIMARY KEY,
    path TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL,
    deck_id TEXT NOT NULL,
    last_scanned TIMESTAMP,

    FOREIGN KEY(deck_id) REFERENCES decks(id) ON DELETE CASCADE
);
`
