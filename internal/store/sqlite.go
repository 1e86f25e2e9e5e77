package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vaibhavblayer/cryptobacktest/internal/models"
	"github.com/vaibhavblayer/cryptobacktest/internal/ruleset"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and, if needed, creates) a SQLite-backed store at
// dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS candles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		asset TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume REAL NOT NULL,
		UNIQUE(asset, timestamp)
	);

	CREATE INDEX IF NOT EXISTS idx_candles_asset_ts ON candles(asset, timestamp);

	CREATE TABLE IF NOT EXISTS rule_sets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		payload TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveCandles upserts a batch of candles for asset inside one transaction.
func (s *SQLiteStore) SaveCandles(ctx context.Context, asset string, candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO candles (asset, timestamp, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range candles {
		if _, err := stmt.ExecContext(ctx, asset, c.Timestamp, c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
			return fmt.Errorf("failed to insert candle: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetCandles returns candles for asset within [from, to], ordered by time.
func (s *SQLiteStore) GetCandles(ctx context.Context, asset string, from, to time.Time) ([]models.Candle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, open, high, low, close, volume
		FROM candles
		WHERE asset = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`, asset, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query candles: %w", err)
	}
	defer rows.Close()

	var candles []models.Candle
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan candle: %w", err)
		}
		candles = append(candles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candles: %w", err)
	}
	return candles, nil
}

// GetCandlesFreshness returns the timestamp of the most recent stored candle
// for asset, or the zero time if none exist.
func (s *SQLiteStore) GetCandlesFreshness(ctx context.Context, asset string) (time.Time, error) {
	var timestamp sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(timestamp) FROM candles WHERE asset = ?
	`, asset).Scan(&timestamp)
	if err != nil && err != sql.ErrNoRows {
		return time.Time{}, fmt.Errorf("failed to get candles freshness: %w", err)
	}
	if !timestamp.Valid {
		return time.Time{}, nil
	}
	return timestamp.Time, nil
}

// SaveRuleSet upserts rs, keyed by its ID, serialized as JSON.
func (s *SQLiteStore) SaveRuleSet(ctx context.Context, rs ruleset.StrategyRuleSet) error {
	payload, err := json.Marshal(rs)
	if err != nil {
		return fmt.Errorf("failed to marshal rule set: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rule_sets (id, name, payload, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
	`, rs.ID, rs.Name, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save rule set: %w", err)
	}
	return nil
}

// GetRuleSet loads a rule set by id, or nil if it does not exist.
func (s *SQLiteStore) GetRuleSet(ctx context.Context, id string) (*ruleset.StrategyRuleSet, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM rule_sets WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule set: %w", err)
	}
	var rs ruleset.StrategyRuleSet
	if err := json.Unmarshal([]byte(payload), &rs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rule set: %w", err)
	}
	return &rs, nil
}

// ListRuleSets returns every saved rule set ordered by most recently updated.
func (s *SQLiteStore) ListRuleSets(ctx context.Context) ([]ruleset.StrategyRuleSet, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM rule_sets ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rule sets: %w", err)
	}
	defer rows.Close()

	var out []ruleset.StrategyRuleSet
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan rule set: %w", err)
		}
		var rs ruleset.StrategyRuleSet
		if err := json.Unmarshal([]byte(payload), &rs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rule set: %w", err)
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

// DeleteRuleSet removes a saved rule set by id. It is not an error to
// delete an id that does not exist.
func (s *SQLiteStore) DeleteRuleSet(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM rule_sets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule set: %w", err)
	}
	return nil
}
