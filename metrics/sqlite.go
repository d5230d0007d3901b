package metrics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const schemaVersion = 1

// SQLiteRecorder stores metrics rows in a local SQLite database.
type SQLiteRecorder struct {
	db       *sql.DB
	instance string
}

// OpenSQLite opens or creates the database at path. Instance tags every row
// so several servers can share one file.
func OpenSQLite(ctx context.Context, path, instance string) (*SQLiteRecorder, error) {
	if path == "" {
		return nil, errors.New("metrics database path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create metrics dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteRecorder{db: db, instance: instance}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS schema_version (
			id      INTEGER PRIMARY KEY CHECK(id=1),
			version INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS document_metrics (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			instance        TEXT NOT NULL,
			uri             TEXT NOT NULL,
			version         INTEGER NOT NULL,
			digest          TEXT NOT NULL,
			parse_us        INTEGER NOT NULL,
			validation_us   INTEGER NOT NULL,
			completion_us   INTEGER NOT NULL,
			total_us        INTEGER NOT NULL,
			file_size       INTEGER NOT NULL,
			lines           INTEGER NOT NULL,
			diagnostics     INTEGER NOT NULL,
			recorded_at     TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_document_metrics_uri ON document_metrics(uri, id);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	var cur int
	err := db.QueryRowContext(ctx, `SELECT version FROM schema_version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_version (id, version) VALUES(1, ?)`, schemaVersion); err != nil {
			return fmt.Errorf("insert schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case cur > schemaVersion:
		return fmt.Errorf("metrics database schema %d is newer than supported %d", cur, schemaVersion)
	}
	return nil
}

// Record inserts one row.
func (r *SQLiteRecorder) Record(ctx context.Context, m Metrics) error {
	at := m.RecordedAt
	if at.IsZero() {
		at = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO document_metrics
		(instance, uri, version, digest, parse_us, validation_us, completion_us, total_us, file_size, lines, diagnostics, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.instance, m.URI, m.Version, m.Digest,
		m.ParseTime.Microseconds(), m.ValidationTime.Microseconds(), m.CompletionTime.Microseconds(), m.Total.Microseconds(),
		m.FileSize, m.Lines, m.Diagnostics, at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert metrics: %w", err)
	}
	return nil
}

// Recent returns up to limit rows for uri, newest first.
func (r *SQLiteRecorder) Recent(ctx context.Context, uri string, limit int) ([]Metrics, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT uri, version, digest, parse_us, validation_us, completion_us, total_us,
		file_size, lines, diagnostics, recorded_at
		FROM document_metrics WHERE uri = ? ORDER BY id DESC LIMIT ?`, uri, limit)
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	defer rows.Close()

	var out []Metrics
	for rows.Next() {
		var (
			m                                     Metrics
			parseUS, validUS, completeUS, totalUS int64
			at                                    string
		)
		if err := rows.Scan(&m.URI, &m.Version, &m.Digest, &parseUS, &validUS, &completeUS, &totalUS,
			&m.FileSize, &m.Lines, &m.Diagnostics, &at); err != nil {
			return nil, fmt.Errorf("scan metrics: %w", err)
		}
		m.ParseTime = time.Duration(parseUS) * time.Microsecond
		m.ValidationTime = time.Duration(validUS) * time.Microsecond
		m.CompletionTime = time.Duration(completeUS) * time.Microsecond
		m.Total = time.Duration(totalUS) * time.Microsecond
		m.RecordedAt, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, m)
	}
	return out, rows.Err()
}

// Close closes the database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
