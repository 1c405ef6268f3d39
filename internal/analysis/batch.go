/* Copyright (c) 2025 Pratap Yeragudipati
 * SPDX-License-Identifier: BSD-3-Clause */
package analysis

import (
    "context"
    "errors"
    "fmt"
    "sync"

    "github.com/ypratap11/consilo-saas/internal/domain"
)

type itemOutcome struct {
    rec *domain.AnalysisRecord
    err *domain.ItemError
}

// AnalyzeCollection fetches keys matching the query and analyzes each with a
// bounded worker pool. Per-item failures land in the errors list and never
// abort the batch. Results are assembled in key order, so the rollup's
// tie-break follows search order regardless of worker scheduling. On
// cancellation, in-flight items finish and unstarted items are skipped.
func (a *Analyzer) AnalyzeCollection(ctx context.Context, spec domain.QuerySpec, workers int) (*domain.BatchResult, error) {
    max := spec.MaxResults
    if max <= 0 { max = 50 }
    if workers <= 0 { workers = 1 }

    sctx, cancel := a.callCtx(ctx)
    items, err := a.src.Search(sctx, spec.Query, max)
    cancel()
    if err != nil { return nil, fmt.Errorf("search %q: %w", spec.Query, err) }

    keys := make([]string, len(items))
    for i, it := range items { keys[i] = it.Key }

    outcomes := make([]*itemOutcome, len(keys))
    jobs := make(chan int)
    var wg sync.WaitGroup
    for w := 0; w < workers; w++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            for i := range jobs {
                rec, err := a.AnalyzeItem(ctx, keys[i])
                out := &itemOutcome{rec: rec}
                if err != nil {
                    reason := err.Error()
                    var fe *FetchError
                    if errors.As(err, &fe) { reason = fe.Reason }
                    out = &itemOutcome{err: &domain.ItemError{Key: keys[i], Reason: reason}}
                }
                outcomes[i] = out
            }
        }()
    }

dispatch:
    for i := range keys {
        select {
        case <-ctx.Done():
            break dispatch
        case jobs <- i:
        }
    }
    close(jobs)
    wg.Wait()

    res := &domain.BatchResult{
        Label:    spec.Label,
        Query:    spec.Query,
        ItemKeys: keys,
        Records:  []domain.AnalysisRecord{},
        Errors:   []domain.ItemError{},
    }
    for _, o := range outcomes {
        if o == nil { continue } // never started
        if o.err != nil {
            res.Errors = append(res.Errors, *o.err)
            continue
        }
        res.Records = append(res.Records, *o.rec)
    }
    res.Rollup = Rollup(res.Records)
    return res, nil
}

// AnalyzePortfolio runs each labeled slice in order and adds an overall
// rollup over the union of all successful records. Unlabeled slices get
// slice_N labels by position.
func (a *Analyzer) AnalyzePortfolio(ctx context.Context, specs []domain.QuerySpec, workers int) (*domain.PortfolioResult, error) {
    res := &domain.PortfolioResult{Slices: make([]domain.BatchResult, 0, len(specs))}
    overall := domain.BatchResult{
        Label:    "overall",
        ItemKeys: []string{},
        Records:  []domain.AnalysisRecord{},
        Errors:   []domain.ItemError{},
    }

    for i, spec := range specs {
        if spec.Label == "" { spec.Label = fmt.Sprintf("slice_%d", i+1) }
        br, err := a.AnalyzeCollection(ctx, spec, workers)
        if err != nil { return nil, fmt.Errorf("slice %s: %w", spec.Label, err) }
        res.Slices = append(res.Slices, *br)
        overall.ItemKeys = append(overall.ItemKeys, br.ItemKeys...)
        overall.Records = append(overall.Records, br.Records...)
        overall.Errors = append(overall.Errors, br.Errors...)
    }
    overall.Rollup = Rollup(overall.Records)
    res.Overall = overall
    return res, nil
}
