package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/OCharnyshevich/worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/worldgen/pkg/world/codec"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

// SQLiteStore keeps one encoded blob per chunk in a SQLite database.
type SQLiteStore struct {
	db    *sql.DB
	extra *chunk.ExtraDataManager
	log   *slog.Logger
}

// OpenSQLite opens or creates the chunk database at path.
func OpenSQLite(path string, extra *chunk.ExtraDataManager, log *slog.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open chunk db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, extra: extra, log: log}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			z INTEGER NOT NULL,
			version INTEGER NOT NULL,
			data BLOB NOT NULL,
			saved_at INTEGER NOT NULL,
			PRIMARY KEY (x, y, z)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Load reads the chunk row at pos.
func (s *SQLiteStore) Load(ctx context.Context, pos geom.Vec3i) (*chunk.Chunk, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM chunks WHERE x = ? AND y = ? AND z = ?`, pos.X, pos.Y, pos.Z,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrChunkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load chunk %v: %w", pos, err)
	}
	c, err := codec.Decode(data, s.extra)
	if err != nil {
		return nil, fmt.Errorf("decode chunk %v: %w", pos, err)
	}
	return c, nil
}

// Save upserts the chunks in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, chunks []*chunk.Chunk) error {
	encoded, err := encodeAll(ctx, chunks)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (x, y, z, version, data, saved_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (x, y, z) DO UPDATE SET version = excluded.version, data = excluded.data, saved_at = excluded.saved_at`)
	if err != nil {
		return fmt.Errorf("prepare save: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for pos, data := range encoded {
		if _, err := stmt.ExecContext(ctx, pos.X, pos.Y, pos.Z, codec.Version, data, now); err != nil {
			return fmt.Errorf("save chunk %v: %w", pos, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	s.log.Debug("saved chunks", "count", len(encoded))
	return nil
}

// Count returns the number of stored chunks.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
