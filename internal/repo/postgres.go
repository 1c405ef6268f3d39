/* Copyright (c) 2025 Pratap Yeragudipati
 * SPDX-License-Identifier: BSD-3-Clause */
package repo

import (
    "context"
    "errors"
    "time"

    "github.com/google/uuid"
    "github.com/jackc/pgx/v5"
    "github.com/jackc/pgx/v5/pgxpool"
    "github.com/rs/zerolog"
    "github.com/ypratap11/consilo-saas/internal/config"
    "github.com/ypratap11/consilo-saas/internal/domain"
)

type DB struct {
    Pool *pgxpool.Pool
    log  zerolog.Logger
}

func MustOpen(ctx context.Context, cfg config.Config, log zerolog.Logger) *DB {
    pool, err := pgxpool.New(ctx, cfg.DBDSN)
    if err != nil { log.Fatal().Err(err).Msg("db connect failed") }
    ctx2, cancel := context.WithTimeout(ctx, 10*time.Second); defer cancel()
    if err := pool.Ping(ctx2); err != nil { log.Fatal().Err(err).Msg("db ping failed") }
    return &DB{Pool: pool, log: log}
}

func (d *DB) Close() { d.Pool.Close() }

type Repository struct {
    db  *DB
    log zerolog.Logger
}

func NewRepository(d *DB, log zerolog.Logger) *Repository { return &Repository{db: d, log: log} }

const schema = `
CREATE TABLE IF NOT EXISTS analysis_snapshots (
    id BIGSERIAL PRIMARY KEY,
    tenant_id UUID NOT NULL,
    issue_key TEXT NOT NULL,
    project_key TEXT NOT NULL,
    risk_score INT NOT NULL,
    daily_cost DOUBLE PRECISION NOT NULL,
    blocker_count INT NOT NULL,
    sentiment_negative_pct DOUBLE PRECISION NOT NULL,
    age_days INT NOT NULL,
    assignee TEXT NOT NULL DEFAULT '',
    assignee_role TEXT NOT NULL DEFAULT '',
    total_estimated_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
    analyzed_at TIMESTAMPTZ NOT NULL,
    payload JSONB,
    UNIQUE (tenant_id, issue_key, analyzed_at)
);
CREATE INDEX IF NOT EXISTS idx_snapshots_item ON analysis_snapshots (tenant_id, issue_key, analyzed_at);
CREATE INDEX IF NOT EXISTS idx_snapshots_project ON analysis_snapshots (tenant_id, project_key, analyzed_at);
CREATE TABLE IF NOT EXISTS job_runs (
    name TEXT PRIMARY KEY,
    last_run_at TIMESTAMPTZ NOT NULL,
    last_status TEXT NOT NULL DEFAULT ''
);`

func (r *Repository) EnsureSchema(ctx context.Context) error {
    _, err := r.db.Pool.Exec(ctx, schema)
    return err
}

func (r *Repository) TryAdvisoryLock(ctx context.Context, key int64) (bool, error) {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&ok)
    return ok, err
}

func (r *Repository) AdvisoryUnlock(ctx context.Context, key int64) error {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_advisory_unlock($1)", key).Scan(&ok)
    if !ok && err == nil { return errors.New("advisory unlock returned false") }
    return err
}

const insertSnapshotQ = `
    INSERT INTO analysis_snapshots(tenant_id, issue_key, project_key, risk_score, daily_cost,
        blocker_count, sentiment_negative_pct, age_days, assignee, assignee_role,
        total_estimated_cost, analyzed_at, payload)
    VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    ON CONFLICT (tenant_id, issue_key, analyzed_at) DO NOTHING`

func (r *Repository) InsertSnapshot(ctx context.Context, s domain.Snapshot) error {
    _, err := r.db.Pool.Exec(ctx, insertSnapshotQ,
        s.TenantID, s.ItemKey, s.ProjectKey, s.RiskScore, s.DailyCost,
        s.BlockerCount, s.NegativePct, s.AgeDays, s.Assignee, s.Role,
        s.TotalEstimatedCost, s.AnalyzedAt, s.Payload)
    return err
}

func (r *Repository) BulkInsertSnapshots(ctx context.Context, snaps []domain.Snapshot) error {
    if len(snaps) == 0 { return nil }
    batch := &pgx.Batch{}
    for _, s := range snaps {
        batch.Queue(insertSnapshotQ,
            s.TenantID, s.ItemKey, s.ProjectKey, s.RiskScore, s.DailyCost,
            s.BlockerCount, s.NegativePct, s.AgeDays, s.Assignee, s.Role,
            s.TotalEstimatedCost, s.AnalyzedAt, s.Payload)
    }
    br := r.db.Pool.SendBatch(ctx, batch)
    defer br.Close()
    for range snaps { if _, err := br.Exec(); err != nil { return err } }
    return nil
}

// History returns snapshots for one item, newest first.
func (r *Repository) History(ctx context.Context, tenant uuid.UUID, key string, limit int) ([]domain.Snapshot, error) {
    if limit <= 0 { limit = 50 }
    const q = `
        SELECT tenant_id, issue_key, project_key, risk_score, daily_cost, blocker_count,
            sentiment_negative_pct, age_days, assignee, assignee_role, total_estimated_cost, analyzed_at
        FROM analysis_snapshots
        WHERE tenant_id=$1 AND issue_key=$2
        ORDER BY analyzed_at DESC
        LIMIT $3`
    rows, err := r.db.Pool.Query(ctx, q, tenant, key, limit)
    if err != nil { return nil, err }
    defer rows.Close()
    return scanSnapshots(rows)
}

// TrendPoints returns the sampled series for one item, oldest first.
func (r *Repository) TrendPoints(ctx context.Context, tenant uuid.UUID, key string, limit int) ([]domain.TrendPoint, string, error) {
    if limit <= 0 { limit = 100 }
    const q = `
        SELECT project_key, risk_score, daily_cost, blocker_count, sentiment_negative_pct, analyzed_at
        FROM analysis_snapshots
        WHERE tenant_id=$1 AND issue_key=$2
        ORDER BY analyzed_at ASC
        LIMIT $3`
    rows, err := r.db.Pool.Query(ctx, q, tenant, key, limit)
    if err != nil { return nil, "", err }
    defer rows.Close()
    var points []domain.TrendPoint
    project := ""
    for rows.Next() {
        var p domain.TrendPoint
        if err := rows.Scan(&project, &p.RiskScore, &p.DailyCost, &p.BlockerCount, &p.NegativePct, &p.Timestamp); err != nil { return nil, "", err }
        points = append(points, p)
    }
    return points, project, rows.Err()
}

func scanSnapshots(rows pgx.Rows) ([]domain.Snapshot, error) {
    var out []domain.Snapshot
    for rows.Next() {
        var s domain.Snapshot
        if err := rows.Scan(&s.TenantID, &s.ItemKey, &s.ProjectKey, &s.RiskScore, &s.DailyCost,
            &s.BlockerCount, &s.NegativePct, &s.AgeDays, &s.Assignee, &s.Role,
            &s.TotalEstimatedCost, &s.AnalyzedAt); err != nil { return nil, err }
        out = append(out, s)
    }
    return out, rows.Err()
}

func (r *Repository) MarkJobRun(ctx context.Context, name, status string, at time.Time) error {
    const q = `
        INSERT INTO job_runs(name, last_run_at, last_status) VALUES($1,$2,$3)
        ON CONFLICT (name) DO UPDATE SET last_run_at=EXCLUDED.last_run_at, last_status=EXCLUDED.last_status`
    _, err := r.db.Pool.Exec(ctx, q, name, at, status)
    return err
}

func (r *Repository) LastJobRun(ctx context.Context, name string) (time.Time, string, error) {
    var at time.Time
    var status string
    err := r.db.Pool.QueryRow(ctx, "SELECT last_run_at, last_status FROM job_runs WHERE name=$1", name).Scan(&at, &status)
    if errors.Is(err, pgx.ErrNoRows) { return time.Time{}, "", nil }
    return at, status, err
}
