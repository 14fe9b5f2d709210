package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS entries (
	entry_id     INTEGER PRIMARY KEY,
	capture_date TEXT NOT NULL,
	file_key     TEXT NOT NULL,
	version      REAL NOT NULL,
	unit         TEXT NOT NULL,
	resolution   REAL NOT NULL,
	software     TEXT NOT NULL,
	user_name    TEXT NOT NULL,
	modify_date  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS roots (
	root_key    INTEGER PRIMARY KEY,
	entry_id    INTEGER NOT NULL REFERENCES entries(entry_id),
	parent_key  INTEGER REFERENCES roots(root_key),
	plant_id    TEXT NOT NULL,
	plant_label TEXT NOT NULL,
	root_id     TEXT NOT NULL,
	label       TEXT NOT NULL,
	accession   TEXT NOT NULL,
	root_order  INTEGER NOT NULL,
	geometry    TEXT NOT NULL,
	length      REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS points (
	root_key INTEGER NOT NULL REFERENCES roots(root_key),
	seq      INTEGER NOT NULL,
	x        REAL NOT NULL,
	y        REAL NOT NULL,
	t        REAL,
	th       REAL,
	diameter REAL,
	vx       REAL,
	vy       REAL,
	PRIMARY KEY (root_key, seq)
);
CREATE TABLE IF NOT EXISTS properties (
	root_key INTEGER NOT NULL REFERENCES roots(root_key),
	name     TEXT NOT NULL,
	value    REAL NOT NULL,
	PRIMARY KEY (root_key, name)
);
CREATE TABLE IF NOT EXISTS functions (
	root_key INTEGER NOT NULL REFERENCES roots(root_key),
	name     TEXT NOT NULL,
	seq      INTEGER NOT NULL,
	value    REAL NOT NULL,
	PRIMARY KEY (root_key, name, seq)
);`

// SQLiteExporter writes the model to a single SQLite file.
type SQLiteExporter struct {
	db   *sql.DB
	path string
}

// NewSQLiteExporter opens (or creates) the database at path and ensures the schema.
func NewSQLiteExporter(path string) (*SQLiteExporter, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteExporter{db: db, path: path}, nil
}

// Export replaces the stored model with rows.
func (s *SQLiteExporter) Export(ctx context.Context, rows *Rows) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+tables[i]); err != nil {
			return fmt.Errorf("clear %s: %w", tables[i], err)
		}
	}

	for _, e := range rows.Entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entries(entry_id, capture_date, file_key, version, unit, resolution, software, user_name, modify_date)
			 VALUES(?,?,?,?,?,?,?,?,?)`,
			e.EntryID, formatTime(e.CaptureDate), e.FileKey, e.Version, e.Unit, e.Resolution, e.Software, e.User, formatTime(e.ModifyDate)); err != nil {
			return fmt.Errorf("insert entry %d: %w", e.EntryID, err)
		}
	}
	for _, r := range rows.Roots {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO roots(root_key, entry_id, parent_key, plant_id, plant_label, root_id, label, accession, root_order, geometry, length)
			 VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
			r.RootKey, r.EntryID, nullInt(r.ParentKey), r.PlantID, r.PlantLabel, r.RootID, r.Label, r.Accession, r.Order, r.Geometry, r.Length); err != nil {
			return fmt.Errorf("insert root %s: %w", r.RootID, err)
		}
	}
	for _, p := range rows.Points {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO points(root_key, seq, x, y, t, th, diameter, vx, vy) VALUES(?,?,?,?,?,?,?,?,?)`,
			p.RootKey, p.Seq, p.X, p.Y, nullFloat(p.T), nullFloat(p.TH), nullFloat(p.Diameter), nullFloat(p.VX), nullFloat(p.VY)); err != nil {
			return fmt.Errorf("insert point %d/%d: %w", p.RootKey, p.Seq, err)
		}
	}
	for _, p := range rows.Properties {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO properties(root_key, name, value) VALUES(?,?,?)`, p.RootKey, p.Name, p.Value); err != nil {
			return fmt.Errorf("insert property %s: %w", p.Name, err)
		}
	}
	for _, f := range rows.Functions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO functions(root_key, name, seq, value) VALUES(?,?,?,?)`, f.RootKey, f.Name, f.Seq, f.Value); err != nil {
			return fmt.Errorf("insert function %s: %w", f.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *SQLiteExporter) DB() *sql.DB { return s.db }

// Path returns the database path.
func (s *SQLiteExporter) Path() string { return s.path }

func (s *SQLiteExporter) Close() error { return s.db.Close() }

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
