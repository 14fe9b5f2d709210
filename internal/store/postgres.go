package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/rootmodel/internal/logging"
	"github.com/vvka-141/rootmodel/internal/retry"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS entries (
	entry_id     BIGINT PRIMARY KEY,
	capture_date TIMESTAMPTZ NOT NULL,
	file_key     TEXT NOT NULL,
	version      DOUBLE PRECISION NOT NULL,
	unit         TEXT NOT NULL,
	resolution   DOUBLE PRECISION NOT NULL,
	software     TEXT NOT NULL,
	user_name    TEXT NOT NULL,
	modify_date  TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS roots (
	root_key    BIGINT PRIMARY KEY,
	entry_id    BIGINT NOT NULL REFERENCES entries(entry_id),
	parent_key  BIGINT REFERENCES roots(root_key),
	plant_id    TEXT NOT NULL,
	plant_label TEXT NOT NULL,
	root_id     TEXT NOT NULL,
	label       TEXT NOT NULL,
	accession   TEXT NOT NULL,
	root_order  INTEGER NOT NULL,
	geometry    TEXT NOT NULL,
	length      DOUBLE PRECISION NOT NULL
);
CREATE TABLE IF NOT EXISTS points (
	root_key BIGINT NOT NULL REFERENCES roots(root_key),
	seq      INTEGER NOT NULL,
	x        DOUBLE PRECISION NOT NULL,
	y        DOUBLE PRECISION NOT NULL,
	t        DOUBLE PRECISION,
	th       DOUBLE PRECISION,
	diameter DOUBLE PRECISION,
	vx       DOUBLE PRECISION,
	vy       DOUBLE PRECISION,
	PRIMARY KEY (root_key, seq)
);
CREATE TABLE IF NOT EXISTS properties (
	root_key BIGINT NOT NULL REFERENCES roots(root_key),
	name     TEXT NOT NULL,
	value    DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (root_key, name)
);
CREATE TABLE IF NOT EXISTS functions (
	root_key BIGINT NOT NULL REFERENCES roots(root_key),
	name     TEXT NOT NULL,
	seq      INTEGER NOT NULL,
	value    DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (root_key, name, seq)
);`

// PostgresExporter writes the model to PostgreSQL with batched inserts.
// Transient connection failures retry the whole transaction.
type PostgresExporter struct {
	pool     *pgxpool.Pool
	executor *retry.Executor
}

// Pool limits for an export run.
const (
	maxConns        = 2
	maxConnIdleTime = 5 * time.Minute
)

// NewPostgresExporter connects to dsn, retrying transient failures.
// A nil logger discards retry notices.
func NewPostgresExporter(ctx context.Context, dsn string, logger rootmodel.Logger) (*PostgresExporter, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is empty")
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}
	poolConfig.MaxConns = maxConns
	poolConfig.MaxConnIdleTime = maxConnIdleTime

	executor := retry.NewExecutor(
		retry.NewPostgreSQLErrorClassifier(),
		retry.NewExponentialBackoff(3, retry.WithInitialDelay(200*time.Millisecond), retry.WithMaxDelay(5*time.Second)),
	).WithOnRetry(func(attempt int, err error, delay time.Duration) {
		logger.Warn("postgres attempt %d failed, retrying in %s: %v", attempt+1, delay, err)
	})

	var pool *pgxpool.Pool
	err = executor.Execute(ctx, func(ctx context.Context) error {
		candidate, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		if err := candidate.Ping(ctx); err != nil {
			candidate.Close()
			return fmt.Errorf("ping %s/%s: %w", poolConfig.ConnConfig.Host, poolConfig.ConnConfig.Database, err)
		}
		pool = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &PostgresExporter{pool: pool, executor: executor}, nil
}

// Export replaces the stored model with rows in one transaction.
func (p *PostgresExporter) Export(ctx context.Context, rows *Rows) error {
	return p.executor.Execute(ctx, func(ctx context.Context) error {
		return p.export(ctx, rows)
	})
}

func (p *PostgresExporter) export(ctx context.Context, rows *Rows) (retErr error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err := tx.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := tx.Exec(ctx, "DELETE FROM "+tables[i]); err != nil {
			return fmt.Errorf("clear %s: %w", tables[i], err)
		}
	}

	batch := &pgx.Batch{}
	for _, e := range rows.Entries {
		batch.Queue(`INSERT INTO entries(entry_id, capture_date, file_key, version, unit, resolution, software, user_name, modify_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			e.EntryID, e.CaptureDate, e.FileKey, e.Version, e.Unit, e.Resolution, e.Software, e.User, optionalTime(e.ModifyDate))
	}
	for _, r := range rows.Roots {
		batch.Queue(`INSERT INTO roots(root_key, entry_id, parent_key, plant_id, plant_label, root_id, label, accession, root_order, geometry, length)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			r.RootKey, r.EntryID, r.ParentKey, r.PlantID, r.PlantLabel, r.RootID, r.Label, r.Accession, r.Order, r.Geometry, r.Length)
	}
	for _, pt := range rows.Points {
		batch.Queue(`INSERT INTO points(root_key, seq, x, y, t, th, diameter, vx, vy) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			pt.RootKey, pt.Seq, pt.X, pt.Y, pt.T, pt.TH, pt.Diameter, pt.VX, pt.VY)
	}
	for _, pr := range rows.Properties {
		batch.Queue(`INSERT INTO properties(root_key, name, value) VALUES ($1, $2, $3)`, pr.RootKey, pr.Name, pr.Value)
	}
	for _, f := range rows.Functions {
		batch.Queue(`INSERT INTO functions(root_key, name, seq, value) VALUES ($1, $2, $3, $4)`, f.RootKey, f.Name, f.Seq, f.Value)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("batch statement %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to complete batch insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Pool exposes the connection pool for integration testing hooks.
func (p *PostgresExporter) Pool() *pgxpool.Pool { return p.pool }

func (p *PostgresExporter) Close() error {
	p.pool.Close()
	return nil
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
