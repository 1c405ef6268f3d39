/* Copyright (c) 2025 Pratap Yeragudipati
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    "github.com/google/uuid"
    "github.com/rs/zerolog"
    "github.com/ypratap11/consilo-saas/internal/analysis"
    "github.com/ypratap11/consilo-saas/internal/cache"
    "github.com/ypratap11/consilo-saas/internal/config"
    "github.com/ypratap11/consilo-saas/internal/domain"
    "github.com/ypratap11/consilo-saas/internal/repo"
)

const historyLimit = 30

// Service wires the analysis engine to its collaborators. A fresh Analyzer
// is built per invocation so the per-project baseline cache never outlives
// one batch.
type Service struct {
    cfg    config.Config
    log    zerolog.Logger
    repo   *repo.Repository
    cache  cache.Cache
    src    analysis.Source
    cls    analysis.Classifier
    rates  *analysis.RateTable
    tenant uuid.UUID
}

func New(cfg config.Config, log zerolog.Logger, r *repo.Repository, c cache.Cache, src analysis.Source, cls analysis.Classifier, rates *analysis.RateTable) *Service {
    tenant := uuid.Nil
    if cfg.TenantID != "" {
        if id, err := uuid.Parse(cfg.TenantID); err == nil {
            tenant = id
        } else {
            log.Warn().Str("tenant_id", cfg.TenantID).Msg("invalid TENANT_ID, using nil tenant")
        }
    }
    if c == nil { c = cache.Noop{} }
    return &Service{cfg: cfg, log: log, repo: r, cache: c, src: src, cls: cls, rates: rates, tenant: tenant}
}

func (s *Service) newAnalyzer() *analysis.Analyzer {
    return analysis.NewAnalyzer(s.src, s.cls, s.rates, s.log, s.cfg.SourceTimeout)
}

// AnalyzeItem analyzes one work item and optionally persists a history
// snapshot.
func (s *Service) AnalyzeItem(ctx context.Context, key string, store bool) (*domain.AnalysisRecord, error) {
    rec, err := s.newAnalyzer().AnalyzeItem(ctx, key)
    if err != nil { return nil, err }
    if store { s.storeSnapshot(ctx, rec) }
    return rec, nil
}

// AnalyzeSprint analyzes a project's sprint scope. Empty sprintName targets
// the currently open sprints.
func (s *Service) AnalyzeSprint(ctx context.Context, project, sprintName string, maxResults int) (*domain.BatchResult, error) {
    if project == "" { return nil, fmt.Errorf("empty project key") }
    if maxResults <= 0 || maxResults > s.cfg.MaxItems { maxResults = s.cfg.MaxItems }
    jql := fmt.Sprintf("project = %s AND sprint in openSprints() AND status != Done", project)
    if sprintName != "" {
        jql = fmt.Sprintf("project = %s AND sprint = %q AND status != Done", project, sprintName)
    }
    spec := domain.QuerySpec{Label: project, Query: jql, MaxResults: maxResults}
    res, err := s.newAnalyzer().AnalyzeCollection(ctx, spec, s.cfg.Workers)
    if err != nil { return nil, err }
    s.log.Info().Str("project", project).Int("issues", len(res.Records)).Int("errors", len(res.Errors)).Msg("sprint analysis done")
    return res, nil
}

// AnalyzePortfolio analyzes a list of labeled query slices.
func (s *Service) AnalyzePortfolio(ctx context.Context, specs []domain.QuerySpec) (*domain.PortfolioResult, error) {
    if len(specs) == 0 { return nil, fmt.Errorf("no portfolio slices") }
    for i := range specs {
        if specs[i].MaxResults <= 0 || specs[i].MaxResults > s.cfg.MaxItems { specs[i].MaxResults = s.cfg.MaxItems }
    }
    return s.newAnalyzer().AnalyzePortfolio(ctx, specs, s.cfg.Workers)
}

// History returns persisted snapshots for an item, newest first.
func (s *Service) History(ctx context.Context, key string) ([]domain.Snapshot, error) {
    return s.repo.History(ctx, s.tenant, key, historyLimit)
}

// Trends reconstructs the risk series for an item from persisted snapshots
// and classifies its direction.
func (s *Service) Trends(ctx context.Context, key string) (*domain.TrendSeries, error) {
    points, project, err := s.repo.TrendPoints(ctx, s.tenant, key, 0)
    if err != nil { return nil, err }
    scores := make([]int, len(points))
    for i, p := range points { scores[i] = p.RiskScore }
    if points == nil { points = []domain.TrendPoint{} }
    return &domain.TrendSeries{
        ItemKey:    key,
        ProjectKey: project,
        Points:     points,
        Direction:  analysis.ClassifyTrend(scores),
    }, nil
}

// CachedReport returns a previously rendered report body, if present.
func (s *Service) CachedReport(ctx context.Context, kind, subject, template string) (string, bool) {
    b, ok, err := s.cache.Get(ctx, cache.ReportKey(s.tenant, kind, subject, template))
    if err != nil {
        s.log.Warn().Err(err).Msg("report cache get failed")
        return "", false
    }
    if !ok { return "", false }
    return string(b), true
}

// StoreReport caches a rendered report body for the configured TTL.
func (s *Service) StoreReport(ctx context.Context, kind, subject, template, body string) {
    if err := s.cache.Set(ctx, cache.ReportKey(s.tenant, kind, subject, template), []byte(body), s.cfg.ReportCacheTTL); err != nil {
        s.log.Warn().Err(err).Msg("report cache set failed")
    }
}

func (s *Service) storeSnapshot(ctx context.Context, rec *domain.AnalysisRecord) {
    if s.repo == nil { return }
    if err := s.repo.InsertSnapshot(ctx, toSnapshot(s.tenant, rec)); err != nil {
        s.log.Warn().Err(err).Str("key", rec.WorkItemKey).Msg("snapshot insert failed")
    }
}

func toSnapshot(tenant uuid.UUID, rec *domain.AnalysisRecord) domain.Snapshot {
    payload, _ := json.Marshal(rec)
    return domain.Snapshot{
        TenantID:           tenant,
        ItemKey:            rec.WorkItemKey,
        ProjectKey:         rec.ProjectKey,
        RiskScore:          rec.RiskScore,
        DailyCost:          rec.Capacity.DailyCost,
        BlockerCount:       len(rec.Blockers),
        NegativePct:        rec.Sentiment.NegativePct,
        AgeDays:            rec.Timeline.AgeDays,
        Assignee:           rec.Assignee,
        Role:               rec.Capacity.Role,
        TotalEstimatedCost: rec.Capacity.TotalEstimatedCost,
        AnalyzedAt:         rec.AnalyzedAt,
        Payload:            payload,
    }
}

// RunSprintSnapshot analyzes the open sprint of each configured project and
// persists one snapshot per successfully analyzed item.
func (s *Service) RunSprintSnapshot(ctx context.Context) error {
    if len(s.cfg.SnapshotProjects) == 0 {
        s.log.Info().Msg("no snapshot projects configured, skipping")
        return nil
    }
    started := time.Now().UTC()
    var firstErr error
    for _, project := range s.cfg.SnapshotProjects {
        res, err := s.AnalyzeSprint(ctx, project, "", s.cfg.MaxItems)
        if err != nil {
            s.log.Error().Err(err).Str("project", project).Msg("snapshot sprint analysis failed")
            if firstErr == nil { firstErr = err }
            continue
        }
        snaps := make([]domain.Snapshot, 0, len(res.Records))
        for i := range res.Records {
            snaps = append(snaps, toSnapshot(s.tenant, &res.Records[i]))
        }
        if err := s.repo.BulkInsertSnapshots(ctx, snaps); err != nil {
            s.log.Error().Err(err).Str("project", project).Msg("snapshot bulk insert failed")
            if firstErr == nil { firstErr = err }
        }
    }
    status := "ok"
    if firstErr != nil { status = fmt.Sprintf("error: %v", firstErr) }
    if s.repo != nil {
        if err := s.repo.MarkJobRun(ctx, "sprint_snapshot", status, started); err != nil {
            s.log.Warn().Err(err).Msg("job run bookkeeping failed")
        }
    }
    return firstErr
}

// LastSnapshotRun reports when the snapshot job last completed and with what
// status.
func (s *Service) LastSnapshotRun(ctx context.Context) (time.Time, string, error) {
    return s.repo.LastJobRun(ctx, "sprint_snapshot")
}
