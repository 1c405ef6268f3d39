/* Copyright (c) 2025 Pratap Yeragudipati
 * SPDX-License-Identifier: BSD-3-Clause */
package analysis

import (
    "context"
    "fmt"
    "strings"
    "sync"
    "time"

    "github.com/rs/zerolog"
    "github.com/ypratap11/consilo-saas/internal/domain"
)

// Source is the issue tracker boundary: it fetches items, their comments,
// and keys matching a query.
type Source interface {
    Item(ctx context.Context, key string) (*domain.WorkItem, error)
    Comments(ctx context.Context, key string) ([]domain.Comment, error)
    Search(ctx context.Context, query string, maxResults int) ([]domain.WorkItem, error)
}

// FetchError tags the one fatal per-item failure: the base item could not be
// fetched. All other enrichment failures degrade to defaults.
type FetchError struct {
    Key    string
    Reason string
}

func (e *FetchError) Error() string { return fmt.Sprintf("%s: %s", e.Key, e.Reason) }

// Analyzer builds one immutable AnalysisRecord per work item. The baseline
// cache lives for the lifetime of the Analyzer, so items in the same batch
// share one baseline per project.
type Analyzer struct {
    src     Source
    cls     Classifier
    rates   *RateTable
    log     zerolog.Logger
    timeout time.Duration

    mu        sync.Mutex
    baselines map[string]domain.TeamBaseline
}

func NewAnalyzer(src Source, cls Classifier, rates *RateTable, log zerolog.Logger, timeout time.Duration) *Analyzer {
    if rates == nil { rates = DefaultRateTable() }
    return &Analyzer{
        src:       src,
        cls:       cls,
        rates:     rates,
        log:       log,
        timeout:   timeout,
        baselines: make(map[string]domain.TeamBaseline),
    }
}

func (a *Analyzer) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
    if a.timeout <= 0 { return context.WithCancel(ctx) }
    return context.WithTimeout(ctx, a.timeout)
}

// timedClassifier applies the per-call timeout to each classification, so a
// stuck classifier degrades one comment to neutral instead of stalling the
// whole item.
type timedClassifier struct {
    cls     Classifier
    timeout time.Duration
}

func (t timedClassifier) Classify(ctx context.Context, text string) (string, float64, error) {
    if t.timeout > 0 {
        var cancel context.CancelFunc
        ctx, cancel = context.WithTimeout(ctx, t.timeout)
        defer cancel()
    }
    return t.cls.Classify(ctx, text)
}

func projectOf(item *domain.WorkItem) string {
    if item.ProjectKey != "" { return item.ProjectKey }
    if i := strings.IndexByte(item.Key, '-'); i > 0 { return item.Key[:i] }
    return item.Key
}

func daysBetween(from, to time.Time) int {
    if from.IsZero() || to.Before(from) { return 0 }
    return int(to.Sub(from).Hours() / 24)
}

func buildTimeline(item *domain.WorkItem, now time.Time) domain.Timeline {
    stale := daysBetween(item.UpdatedAt, now)
    return domain.Timeline{
        CreatedAt:           item.CreatedAt,
        UpdatedAt:           item.UpdatedAt,
        AgeDays:             daysBetween(item.CreatedAt, now),
        StaleDays:           stale,
        CurrentStatus:       item.Status,
        StatusChanges:       item.StatusHistory,
        TimeInCurrentStatus: stale,
    }
}

// AnalyzeItem fetches one work item and its comments and runs the full
// analysis. Only a fetch failure is fatal; enrichment failures degrade to
// empty defaults on the record.
func (a *Analyzer) AnalyzeItem(ctx context.Context, key string) (*domain.AnalysisRecord, error) {
    ictx, cancel := a.callCtx(ctx)
    item, err := a.src.Item(ictx, key)
    cancel()
    if err != nil { return nil, &FetchError{Key: key, Reason: fmt.Sprintf("failed to fetch item: %v", err)} }

    cctx, cancel := a.callCtx(ctx)
    comments, err := a.src.Comments(cctx, key)
    cancel()
    if err != nil { return nil, &FetchError{Key: key, Reason: fmt.Sprintf("failed to fetch comments: %v", err)} }

    project := projectOf(item)
    baseline := a.teamBaseline(ctx, project)

    var cls Classifier
    if a.cls != nil { cls = timedClassifier{cls: a.cls, timeout: a.timeout} }
    sentiment := SummarizeSentiment(ctx, cls, comments)
    blockers := CategorizeBlockers(comments)
    timeline := buildTimeline(item, time.Now().UTC())
    capacity := a.rates.EstimateCapacity(item, comments, len(blockers))
    risk := RiskScore(sentiment, len(blockers), timeline.AgeDays, timeline.StaleDays)

    rec := &domain.AnalysisRecord{
        WorkItemKey:  item.Key,
        ProjectKey:   project,
        Summary:      item.Summary,
        Status:       item.Status,
        Priority:     item.Priority,
        Assignee:     capacity.Assignee,
        Sentiment:    sentiment,
        Blockers:     blockers,
        Timeline:     timeline,
        Capacity:     capacity,
        RiskScore:    risk,
        TrendHint:    HintTrends(sentiment, len(comments)),
        Dependencies: domain.Dependencies{Blocks: item.Blocks, BlockedBy: item.BlockedBy},
        SimilarItems: a.similarItems(ctx, item, project),
        Predictions:  Predict(len(blockers), sentiment.NegativePct),
        TeamBaseline: baseline,
        AnalyzedAt:   time.Now().UTC(),
    }
    if rec.Blockers == nil { rec.Blockers = []domain.BlockerRecord{} }
    if rec.SimilarItems == nil { rec.SimilarItems = []string{} }
    return rec, nil
}

// teamBaseline returns the cached per-project baseline, computing it on
// first use. A failed computation caches a zeroed baseline.
func (a *Analyzer) teamBaseline(ctx context.Context, project string) domain.TeamBaseline {
    a.mu.Lock()
    if b, ok := a.baselines[project]; ok {
        a.mu.Unlock()
        return b
    }
    a.mu.Unlock()

    b := a.computeBaseline(ctx, project)

    a.mu.Lock()
    a.baselines[project] = b
    a.mu.Unlock()
    return b
}

func (a *Analyzer) computeBaseline(ctx context.Context, project string) domain.TeamBaseline {
    var b domain.TeamBaseline
    sctx, cancel := a.callCtx(ctx)
    defer cancel()

    jql := fmt.Sprintf("project = %s AND statusCategory != Done ORDER BY created DESC", project)
    items, err := a.src.Search(sctx, jql, 50)
    if err != nil {
        a.log.Warn().Err(err).Str("project", project).Msg("baseline search failed, using zero baseline")
        return b
    }
    if len(items) == 0 { return b }

    now := time.Now().UTC()
    totalAge, totalComments := 0, 0
    for _, it := range items {
        totalAge += daysBetween(it.CreatedAt, now)
        cctx, ccancel := a.callCtx(ctx)
        comments, err := a.src.Comments(cctx, it.Key)
        ccancel()
        if err != nil {
            a.log.Warn().Err(err).Str("project", project).Msg("baseline comment fetch failed, using zero baseline")
            return domain.TeamBaseline{}
        }
        totalComments += len(comments)
    }
    b.AvgAgeDays = float64(totalAge) / float64(len(items))
    b.AvgComments = float64(totalComments) / float64(len(items))
    return b
}

// similarItems runs a naive keyword search over sibling items in the same
// project. Best-effort: empty on any failure.
func (a *Analyzer) similarItems(ctx context.Context, item *domain.WorkItem, project string) []string {
    var words []string
    for _, w := range strings.Fields(item.Summary) {
        if len(w) > 3 { words = append(words, w) }
    }
    if len(words) == 0 { return nil }
    keywords := strings.Join(words, " ")
    if len(keywords) > 100 { keywords = keywords[:100] }

    sctx, cancel := a.callCtx(ctx)
    defer cancel()
    jql := fmt.Sprintf("project = %s AND text ~ %q AND key != %s", project, keywords, item.Key)
    found, err := a.src.Search(sctx, jql, 5)
    if err != nil {
        a.log.Debug().Err(err).Str("key", item.Key).Msg("similarity search failed")
        return nil
    }
    keys := make([]string, 0, len(found))
    for _, f := range found {
        if f.Key != item.Key { keys = append(keys, f.Key) }
    }
    return keys
}
