// ABOUTME: SQL schema for the memory store, all tables keyed by user_id
// ABOUTME: Applied idempotently on every open
package memory

// Schema defines the memory store tables. Every table carries user_id
// and every query filters on it.
const Schema = `
CREATE TABLE IF NOT EXISTS conversations (
    turn_id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    timestamp DATETIME NOT NULL,
    mode TEXT NOT NULL,
    persona TEXT NOT NULL,
    user_text TEXT NOT NULL,
    ai_text TEXT NOT NULL,
    mood TEXT,
    code_language TEXT,
    session_id TEXT,
    word_count INTEGER NOT NULL DEFAULT 0,
    response_time REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_conversations_user_time
    ON conversations(user_id, timestamp DESC);

CREATE TABLE IF NOT EXISTS opinions (
    user_id TEXT NOT NULL,
    topic TEXT NOT NULL,
    stance TEXT NOT NULL,
    confidence REAL NOT NULL,
    formed_at DATETIME NOT NULL,
    last_updated DATETIME NOT NULL,
    PRIMARY KEY (user_id, topic)
);

CREATE TABLE IF NOT EXISTS preferences (
    user_id TEXT NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    source TEXT NOT NULL,
    strength REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (user_id, key)
);

CREATE TABLE IF NOT EXISTS emotional_tracking (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    timestamp DATETIME NOT NULL,
    sentiment_score REAL NOT NULL,
    emotion TEXT,
    turn_ref TEXT
);

CREATE INDEX IF NOT EXISTS idx_emotional_user_time
    ON emotional_tracking(user_id, timestamp DESC);

CREATE TABLE IF NOT EXISTS session_state (
    user_id TEXT PRIMARY KEY,
    mode TEXT NOT NULL,
    persona TEXT NOT NULL,
    mood TEXT,
    context_window_size INTEGER NOT NULL,
    response_length TEXT NOT NULL,
    temperature REAL NOT NULL DEFAULT 0,
    metadata_display INTEGER NOT NULL DEFAULT 1,
    autosave INTEGER NOT NULL DEFAULT 0
);
`
