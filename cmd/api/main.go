/* Copyright (c) 2025 Pratap Yeragudipati
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "context"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/ypratap11/consilo-saas/internal/adapters/jira"
    "github.com/ypratap11/consilo-saas/internal/adapters/openai"
    "github.com/ypratap11/consilo-saas/internal/analysis"
    "github.com/ypratap11/consilo-saas/internal/cache"
    "github.com/ypratap11/consilo-saas/internal/config"
    httpx "github.com/ypratap11/consilo-saas/internal/http"
    "github.com/ypratap11/consilo-saas/internal/jobs"
    "github.com/ypratap11/consilo-saas/internal/logger"
    "github.com/ypratap11/consilo-saas/internal/repo"
    "github.com/ypratap11/consilo-saas/internal/services"
)

func main() {
    _ = godotenv.Load()
    cfg := config.Load()
    log := logger.New(cfg)
    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    // DB
    db := repo.MustOpen(ctx, cfg, log)
    defer db.Close()
    repository := repo.NewRepository(db, log)
    if err := repository.EnsureSchema(ctx); err != nil { log.Fatal().Err(err).Msg("schema init failed") }

    // Report cache (optional)
    var reportCache cache.Cache = cache.Noop{}
    if cfg.RedisURL != "" {
        rc, err := cache.NewRedisCache(cfg.RedisURL)
        if err != nil {
            log.Error().Err(err).Msg("redis init failed; report caching disabled")
        } else if err := rc.Ping(ctx); err != nil {
            log.Error().Err(err).Msg("redis ping failed; report caching disabled")
        } else {
            reportCache = rc
        }
    }

    // Adapters
    jc := jira.NewClient(cfg, log)
    llm := openai.NewClient(cfg, log)

    // Rates
    rates, err := analysis.LoadRateTable(cfg.RatesFile)
    if err != nil { log.Fatal().Err(err).Str("path", cfg.RatesFile).Msg("rates load failed") }

    // Services
    svc := services.New(cfg, log, repository, reportCache, jc, llm, rates)

    // HTTP server (Gin)
    router := httpx.NewRouter(cfg, log, svc)

    // Cron
    cron := jobs.NewCron(cfg, log, svc, repository)
    cron.Start()
    defer cron.Stop()

    // graceful shutdown
    errCh := make(chan error, 1)
    go func() { errCh <- router.Run(cfg.HTTPAddr) }()

    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

    select {
    case <-sigCh:
        log.Info().Msg("shutting down...")
    case err := <-errCh:
        if err != nil { log.Error().Err(err).Msg("http server error") }
    }

    time.Sleep(500 * time.Millisecond)
}
