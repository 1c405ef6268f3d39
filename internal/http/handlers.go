/* Copyright (c) 2025 Pratap Yeragudipati
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"
    "github.com/ypratap11/consilo-saas/internal/analysis"
    "github.com/ypratap11/consilo-saas/internal/config"
    "github.com/ypratap11/consilo-saas/internal/domain"
    "github.com/ypratap11/consilo-saas/internal/report"
)

type service interface {
    AnalyzeItem(ctx context.Context, key string, store bool) (*domain.AnalysisRecord, error)
    AnalyzeSprint(ctx context.Context, project, sprintName string, maxResults int) (*domain.BatchResult, error)
    AnalyzePortfolio(ctx context.Context, specs []domain.QuerySpec) (*domain.PortfolioResult, error)
    History(ctx context.Context, key string) ([]domain.Snapshot, error)
    Trends(ctx context.Context, key string) (*domain.TrendSeries, error)
    CachedReport(ctx context.Context, kind, subject, template string) (string, bool)
    StoreReport(ctx context.Context, kind, subject, template, body string)
    RunSprintSnapshot(ctx context.Context) error
    LastSnapshotRun(ctx context.Context) (time.Time, string, error)
}

type Handlers struct {
    cfg config.Config
    log zerolog.Logger
    svc service
}

func NewHandlers(cfg config.Config, log zerolog.Logger, svc any) *Handlers {
    return &Handlers{cfg: cfg, log: log, svc: svc.(service)}
}

func (h *Handlers) Healthz(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) AnalyzeIssue(c *gin.Context) {
    var req struct {
        IssueKey     string `json:"issue_key" binding:"required"`
        Template     string `json:"template"`
        StoreHistory bool   `json:"store_history"`
    }
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    rec, err := h.svc.AnalyzeItem(c.Request.Context(), req.IssueKey, req.StoreHistory)
    if err != nil {
        var fe *analysis.FetchError
        if errors.As(err, &fe) {
            c.JSON(http.StatusNotFound, gin.H{"error": fe.Reason, "issue_key": fe.Key})
            return
        }
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{
        "issue_key":  rec.WorkItemKey,
        "risk_score": rec.RiskScore,
        "report":     report.Format(rec, req.Template),
        "analysis":   rec,
    })
}

func (h *Handlers) IssueRaw(c *gin.Context) {
    rec, err := h.svc.AnalyzeItem(c.Request.Context(), c.Param("key"), false)
    if err != nil {
        var fe *analysis.FetchError
        if errors.As(err, &fe) {
            c.JSON(http.StatusNotFound, gin.H{"error": fe.Reason, "issue_key": fe.Key})
            return
        }
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, rec)
}

func (h *Handlers) AnalyzeSprint(c *gin.Context) {
    var req struct {
        ProjectKey string `json:"project_key" binding:"required"`
        SprintName string `json:"sprint_name"`
        MaxResults int    `json:"max_results"`
        ReportOnly bool   `json:"report_only"`
    }
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    if req.ReportOnly {
        if body, ok := h.svc.CachedReport(c.Request.Context(), "sprint", req.ProjectKey, "executive"); ok {
            c.JSON(http.StatusOK, gin.H{"report": body, "cached": true})
            return
        }
    }
    res, err := h.svc.AnalyzeSprint(c.Request.Context(), req.ProjectKey, req.SprintName, req.MaxResults)
    if err != nil {
        c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
        return
    }
    body := report.Sprint(res, req.ProjectKey, req.SprintName)
    h.svc.StoreReport(c.Request.Context(), "sprint", req.ProjectKey, "executive", body)
    c.JSON(http.StatusOK, gin.H{"report": body, "result": res})
}

func (h *Handlers) AnalyzePortfolio(c *gin.Context) {
    var req struct {
        Slices     []domain.QuerySpec `json:"slices" binding:"required"`
        ReportOnly bool               `json:"report_only"`
    }
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    if req.ReportOnly {
        if body, ok := h.svc.CachedReport(c.Request.Context(), "portfolio", "all", "executive"); ok {
            c.JSON(http.StatusOK, gin.H{"report": body, "cached": true})
            return
        }
    }
    res, err := h.svc.AnalyzePortfolio(c.Request.Context(), req.Slices)
    if err != nil {
        c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
        return
    }
    body := report.Portfolio(res)
    h.svc.StoreReport(c.Request.Context(), "portfolio", "all", "executive", body)
    c.JSON(http.StatusOK, gin.H{"report": body, "result": res})
}

func (h *Handlers) History(c *gin.Context) {
    snaps, err := h.svc.History(c.Request.Context(), c.Param("key"))
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    if snaps == nil { snaps = []domain.Snapshot{} }
    c.JSON(http.StatusOK, snaps)
}

func (h *Handlers) Trends(c *gin.Context) {
    series, err := h.svc.Trends(c.Request.Context(), c.Param("key"))
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, series)
}

func (h *Handlers) LastRun(c *gin.Context) {
    at, status, err := h.svc.LastSnapshotRun(c.Request.Context())
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{"last_run_at": at, "last_status": status})
}

func (h *Handlers) RunNow(c *gin.Context) {
    // Run in background detached from the HTTP request to avoid context cancellation
    go func() { _ = h.svc.RunSprintSnapshot(context.Background()) }()
    c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
