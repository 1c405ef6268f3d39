/* Copyright (c) 2025 Pratap Yeragudipati
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"
    "github.com/ypratap11/consilo-saas/internal/config"
)

func NewRouter(cfg config.Config, log zerolog.Logger, svc any) *gin.Engine {
    if cfg.AppEnv != "dev" { gin.SetMode(gin.ReleaseMode) }
    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(func(c *gin.Context) {
        c.Next()
        log.Info().Str("m", c.Request.Method).Str("p", c.FullPath()).Int("s", c.Writer.Status()).Msg("http")
    })

    h := NewHandlers(cfg, log, svc)

    r.GET("/healthz", h.Healthz)

    api := r.Group("/api/v1")
    api.POST("/analyze/issue", h.AnalyzeIssue)
    api.GET("/issue/:key/raw", h.IssueRaw)
    api.POST("/analyze/sprint", h.AnalyzeSprint)
    api.POST("/analyze/portfolio", h.AnalyzePortfolio)
    api.GET("/history/:key", h.History)
    api.GET("/trends/:key", h.Trends)

    r.GET("/admin/last-run", h.LastRun)
    r.POST("/admin/run", h.RunNow)

    return r
}
