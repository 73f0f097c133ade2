package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/location-search/internal/config"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DB - встроенное хранилище на SQLite с FTS5-индексом токенов
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

func New(cfg *config.SQLiteConfig, logger *zap.Logger) (*DB, error) {
	db, err := sqlx.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	// Один писатель; для ":memory:" ещё и единственная база
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite opened", zap.String("path", cfg.Path))

	return &DB{DB: db, logger: logger}, nil
}

func createSchema(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS categories (
		alias TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		popularity INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS locations (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		alias TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		neighborhood TEXT NOT NULL DEFAULT '',
		category_alias TEXT,
		category_title TEXT,
		price TEXT,
		rating REAL NOT NULL,
		review_count INTEGER NOT NULL DEFAULT 0,
		url TEXT NOT NULL DEFAULT '',
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		display_phone TEXT NOT NULL DEFAULT '',
		display_address TEXT NOT NULL DEFAULT '[]',
		is_closed INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS location_index (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		location_id TEXT NOT NULL REFERENCES locations(id),
		geospatial TEXT NOT NULL,
		is_closed INTEGER NOT NULL,
		price TEXT,
		greater_than_20 INTEGER NOT NULL,
		greater_than_25 INTEGER NOT NULL,
		greater_than_30 INTEGER NOT NULL,
		greater_than_35 INTEGER NOT NULL,
		greater_than_40 INTEGER NOT NULL,
		greater_than_45 INTEGER NOT NULL,
		category TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_location_index_location_id ON location_index(location_id);
	CREATE VIRTUAL TABLE IF NOT EXISTS location_index_fts USING fts5(
		geospatial,
		content='location_index',
		content_rowid='seq',
		tokenize="unicode61 tokenchars '-_'"
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	db.logger.Info("Closing SQLite")
	return db.DB.Close()
}

func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}
