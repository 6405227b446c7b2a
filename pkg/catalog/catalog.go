// Package catalog indexes published artifacts in a SQL database. Each
// publication is a receipt pointing at a blob in the artifact store.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // Postgres driver
	_ "modernc.org/sqlite"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/config"
)

// ErrNotFound is returned by Lookup when no receipt matches.
var ErrNotFound = errors.New("catalog entry not found")

// Fixed-width so that lexical order is chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one publication receipt.
type Entry struct {
	ReceiptID     string    `json:"receipt_id"`
	Kind          string    `json:"kind"`
	SchemaVersion string    `json:"schema_version"`
	BlobHash      string    `json:"blob_hash"`
	ContentDigest string    `json:"content_digest"`
	Source        string    `json:"source,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Catalog is a receipt index on sqlite or postgres.
type Catalog struct {
	db       *sql.DB
	postgres bool
	now      func() time.Time
	newID    func() string
}

// Open connects to the catalog database for driver and migrates it. For
// sqlite, dsn is a file path whose parent directory is created.
func Open(ctx context.Context, driver, dsn string) (*Catalog, error) {
	switch driver {
	case config.DriverSQLite:
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			//nolint:gosec // G301: catalog directory
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("catalog: create dir: %w", err)
			}
		}
	case config.DriverPostgres:
	default:
		return nil, fmt.Errorf("catalog: unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", driver, err)
	}
	if driver == config.DriverSQLite {
		// One writer; also keeps a :memory: database on a single connection.
		db.SetMaxOpenConns(1)
	}
	c, err := New(ctx, db, driver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// New wraps an open database and migrates it.
func New(ctx context.Context, db *sql.DB, driver string) (*Catalog, error) {
	c := &Catalog{
		db:       db,
		postgres: driver == config.DriverPostgres,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	if err := c.migrate(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS artifact_receipts (
			receipt_id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			schema_version TEXT NOT NULL,
			blob_hash TEXT NOT NULL,
			content_digest TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_artifact_receipts_blob ON artifact_receipts (blob_hash)`,
	}
	for _, stmt := range stmts {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("catalog: migrate: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders as $n for postgres.
func (c *Catalog) rebind(query string) string {
	if !c.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Record inserts e, assigning ReceiptID and CreatedAt when they are unset.
func (c *Catalog) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ReceiptID == "" {
		e.ReceiptID = c.newID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = c.now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	query := c.rebind(`INSERT INTO artifact_receipts (receipt_id, kind, schema_version, blob_hash, content_digest, source, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := c.db.ExecContext(ctx, query,
		e.ReceiptID, e.Kind, e.SchemaVersion, e.BlobHash, e.ContentDigest, e.Source, e.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("catalog: insert receipt: %w", err)
	}
	return e, nil
}

const selectColumns = `SELECT receipt_id, kind, schema_version, blob_hash, content_digest, source, created_at FROM artifact_receipts`

// Lookup returns the newest receipt for a blob hash.
func (c *Catalog) Lookup(ctx context.Context, blobHash string) (Entry, error) {
	query := c.rebind(selectColumns + ` WHERE blob_hash = ? ORDER BY created_at DESC, receipt_id DESC LIMIT 1`)
	row := c.db.QueryRowContext(ctx, query, blobHash)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, blobHash)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("catalog: lookup: %w", err)
	}
	return e, nil
}

// List returns receipts newest first. An empty kind lists every kind; a
// non-positive limit means no limit.
func (c *Catalog) List(ctx context.Context, kind string, limit int) ([]Entry, error) {
	query := selectColumns
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC, receipt_id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, c.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: list: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	return out, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e       Entry
		created string
	)
	if err := s.Scan(&e.ReceiptID, &e.Kind, &e.SchemaVersion, &e.BlobHash, &e.ContentDigest, &e.Source, &created); err != nil {
		return Entry{}, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return Entry{}, fmt.Errorf("bad created_at %q: %w", created, err)
	}
	e.CreatedAt = t
	return e, nil
}
