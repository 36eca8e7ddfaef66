package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hiwalabs/hiwa/backend/internal/model/history"
)

const schema = `
CREATE TABLE IF NOT EXISTS history_entries (
	id                 TEXT PRIMARY KEY,
	timestamp          INTEGER NOT NULL,
	mode_id            TEXT NOT NULL,
	color_hex          TEXT NOT NULL,
	ambient_color_hex  TEXT NOT NULL DEFAULT '',
	weather_id         TEXT NOT NULL,
	silence_coeff      REAL NOT NULL,
	vitality_coeff     REAL NOT NULL,
	depth_coeff        REAL NOT NULL,
	advice_ban         INTEGER NOT NULL,
	message_count      INTEGER NOT NULL,
	first_user_message TEXT NOT NULL DEFAULT '',
	first_ai_response  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history_entries(timestamp DESC);
`

// SQLiteStore persists entries in a single-table SQLite database via
// the pure-Go driver. Append runs the insert and the cap trim in one
// transaction so readers never see an over-full log.
type SQLiteStore struct {
	db         *sql.DB
	maxEntries int
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string, maxEntries int) (*SQLiteStore, error) {
	if maxEntries < 1 {
		maxEntries = 1
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// The driver is connection-per-file; a single connection avoids
	// SQLITE_BUSY on concurrent writes.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &SQLiteStore{db: db, maxEntries: maxEntries}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// List returns all entries, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]history.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, mode_id, color_hex, ambient_color_hex, weather_id,
		       silence_coeff, vitality_coeff, depth_coeff, advice_ban,
		       message_count, first_user_message, first_ai_response
		FROM history_entries
		ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []history.Entry
	for rows.Next() {
		var e history.Entry
		var ts int64
		var adviceBan int
		if err := rows.Scan(&e.ID, &ts, &e.ModeID, &e.ColorHex, &e.AmbientColorHex, &e.WeatherID,
			&e.SilenceCoeff, &e.VitalityCoeff, &e.DepthCoeff, &adviceBan,
			&e.MessageCount, &e.FirstUserMessage, &e.FirstAIResponse); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts).UTC()
		e.AdviceBan = adviceBan != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Append inserts the entry and trims the log to the cap atomically.
func (s *SQLiteStore) Append(ctx context.Context, entry history.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	adviceBan := 0
	if entry.AdviceBan {
		adviceBan = 1
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO history_entries (
			id, timestamp, mode_id, color_hex, ambient_color_hex, weather_id,
			silence_coeff, vitality_coeff, depth_coeff, advice_ban,
			message_count, first_user_message, first_ai_response
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Timestamp.UnixMilli(), entry.ModeID, entry.ColorHex,
		entry.AmbientColorHex, entry.WeatherID,
		entry.SilenceCoeff, entry.VitalityCoeff, entry.DepthCoeff, adviceBan,
		entry.MessageCount, entry.FirstUserMessage, entry.FirstAIResponse,
	); err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM history_entries WHERE id NOT IN (
			SELECT id FROM history_entries ORDER BY timestamp DESC, id DESC LIMIT ?
		)`, s.maxEntries); err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}

	return tx.Commit()
}

// Clear removes every entry.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history_entries`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
