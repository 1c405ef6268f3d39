package analysis

import (
    "math/rand"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/ypratap11/consilo-saas/internal/domain"
)

func rec(key, project string, risk int, opts ...func(*domain.AnalysisRecord)) domain.AnalysisRecord {
    r := domain.AnalysisRecord{WorkItemKey: key, ProjectKey: project, RiskScore: risk}
    for _, o := range opts { o(&r) }
    return r
}

func withBlockers(cats ...[]string) func(*domain.AnalysisRecord) {
    return func(r *domain.AnalysisRecord) {
        for _, c := range cats {
            r.Blockers = append(r.Blockers, domain.BlockerRecord{Categories: c})
        }
        r.Capacity.DaysLostPerDayBlocked = 1.0
    }
}

func withCost(daily float64) func(*domain.AnalysisRecord) {
    return func(r *domain.AnalysisRecord) { r.Capacity.DailyCost = daily }
}

func withStale(days int) func(*domain.AnalysisRecord) {
    return func(r *domain.AnalysisRecord) { r.Timeline.StaleDays = days }
}

func TestRollupEmpty(t *testing.T) {
    rep := Rollup(nil)
    assert.Equal(t, 0, rep.Counts.Items)
    assert.Equal(t, 0.0, rep.Risk.Avg)
    assert.Equal(t, 0, rep.Risk.Max)
    assert.NotNil(t, rep.BlockersByCategory)
    assert.NotNil(t, rep.ItemsByProject)
    assert.Empty(t, rep.TopHighRisk)
}

func TestRollupAggregates(t *testing.T) {
    records := []domain.AnalysisRecord{
        rec("ENG-1", "ENG", 80, withBlockers([]string{"dependency", "external"}), withCost(5000), withStale(12)),
        rec("ENG-2", "ENG", 45, withCost(3000), withStale(6)),
        rec("FIN-1", "FIN", 20, withBlockers([]string{"dependency"}), withCost(4000)),
    }
    rep := Rollup(records)

    assert.Equal(t, 3, rep.Counts.Items)
    assert.Equal(t, 2, rep.Counts.Projects)
    assert.Equal(t, 2, rep.Counts.Blockers)
    assert.Equal(t, 1, rep.Counts.HighRisk)
    assert.Equal(t, 1, rep.Counts.MediumRisk)
    assert.Equal(t, 1, rep.Counts.LowRisk)
    assert.Equal(t, 2, rep.Counts.StaleOver5d)
    assert.Equal(t, 1, rep.Counts.StaleOver10d)

    assert.InDelta(t, 48.3, rep.Risk.Avg, 1e-9) // (80+45+20)/3 = 48.333 -> 48.3
    assert.Equal(t, 80, rep.Risk.Max)
    assert.Equal(t, []string{"ENG-1"}, rep.Risk.HighRiskKeys)

    assert.Equal(t, 12000.0, rep.Capacity.TotalDailyCost)
    assert.Equal(t, 2.0, rep.Capacity.TotalPersonDaysLostPerDay)

    assert.Equal(t, map[string]int{"dependency": 2, "external": 1}, rep.BlockersByCategory)
    assert.Equal(t, map[string]int{"ENG": 2, "FIN": 1}, rep.ItemsByProject)

    assert.Equal(t, "ENG-1", rep.TopHighRisk[0].Key)
    assert.Equal(t, "ENG-2", rep.TopHighRisk[1].Key)
    assert.Equal(t, "FIN-1", rep.TopHighRisk[2].Key)
}

func TestRollupPermutationInvariant(t *testing.T) {
    records := []domain.AnalysisRecord{
        rec("A-1", "A", 10, withCost(100)),
        rec("A-2", "A", 90, withBlockers([]string{"testing"}), withCost(200)),
        rec("B-1", "B", 55, withCost(300), withStale(7)),
        rec("B-2", "B", 71, withCost(400)),
    }
    base := Rollup(records)

    shuffled := make([]domain.AnalysisRecord, len(records))
    copy(shuffled, records)
    rnd := rand.New(rand.NewSource(7))
    for i := 0; i < 10; i++ {
        rnd.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
        got := Rollup(shuffled)
        assert.Equal(t, base.Counts, got.Counts)
        assert.Equal(t, base.Risk.Avg, got.Risk.Avg)
        assert.Equal(t, base.Risk.Max, got.Risk.Max)
        assert.Equal(t, base.Capacity, got.Capacity)
        assert.Equal(t, base.BlockersByCategory, got.BlockersByCategory)
        assert.Equal(t, base.ItemsByProject, got.ItemsByProject)
    }
}

func TestRollupTopTieBreakByInputOrder(t *testing.T) {
    records := []domain.AnalysisRecord{
        rec("X-1", "X", 50),
        rec("X-2", "X", 50),
        rec("X-3", "X", 50),
        rec("X-4", "X", 60),
    }
    rep := Rollup(records)
    keys := make([]string, len(rep.TopHighRisk))
    for i, h := range rep.TopHighRisk { keys[i] = h.Key }
    assert.Equal(t, []string{"X-4", "X-1", "X-2", "X-3"}, keys)
}

func TestRollupTopLimitedToTwenty(t *testing.T) {
    var records []domain.AnalysisRecord
    for i := 0; i < 30; i++ {
        records = append(records, rec("K", "K", i))
    }
    rep := Rollup(records)
    assert.Len(t, rep.TopHighRisk, 20)
    assert.Equal(t, 29, rep.TopHighRisk[0].Risk)
}

func TestRollupIdempotent(t *testing.T) {
    records := []domain.AnalysisRecord{
        rec("A-1", "A", 75, withBlockers([]string{"resource"}), withCost(1000)),
        rec("A-2", "A", 30, withCost(2000)),
    }
    assert.Equal(t, Rollup(records), Rollup(records))
}

func TestRollupSummaryTruncated(t *testing.T) {
    long := ""
    for i := 0; i < 30; i++ { long += "summary " }
    records := []domain.AnalysisRecord{{WorkItemKey: "Z-1", ProjectKey: "Z", RiskScore: 90, Summary: long}}
    rep := Rollup(records)
    assert.LessOrEqual(t, len([]rune(rep.TopHighRisk[0].Summary)), 80)
}
