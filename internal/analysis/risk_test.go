package analysis

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/ypratap11/consilo-saas/internal/domain"
)

func TestRiskScoreComposite(t *testing.T) {
    // 15 (sentiment) + 20 (blockers) + 10 (age) + 5 (staleness) = 50
    s := domain.SentimentSummary{Total: 10, NegativePct: 50}
    assert.Equal(t, 50, RiskScore(s, 2, 20, 4))
}

func TestRiskScoreZeroComments(t *testing.T) {
    s := domain.SentimentSummary{Total: 0, NegativePct: 100}
    assert.Equal(t, 0, RiskScore(s, 0, 0, 0))
}

func TestRiskScoreSentimentRounding(t *testing.T) {
    // 33.4% negative -> 10.02 -> rounds to 10
    s := domain.SentimentSummary{Total: 3, NegativePct: 100.0 / 3.0}
    assert.Equal(t, 10, RiskScore(s, 0, 0, 0))
    // 85% negative -> 25.5 -> rounds to 26
    s = domain.SentimentSummary{Total: 20, NegativePct: 85}
    assert.Equal(t, 26, RiskScore(s, 0, 0, 0))
}

func TestRiskScoreBlockerCap(t *testing.T) {
    var s domain.SentimentSummary
    assert.Equal(t, 10, RiskScore(s, 1, 0, 0))
    assert.Equal(t, 30, RiskScore(s, 3, 0, 0))
    assert.Equal(t, 30, RiskScore(s, 50, 0, 0))
}

func TestRiskScoreAgeBands(t *testing.T) {
    var s domain.SentimentSummary
    for _, tc := range []struct {
        age, want int
    }{
        {0, 0}, {7, 0}, {8, 5}, {14, 5}, {15, 10}, {30, 10}, {31, 20}, {400, 20},
    } {
        assert.Equal(t, tc.want, RiskScore(s, 0, tc.age, 0), "age=%d", tc.age)
    }
}

func TestRiskScoreStalenessBands(t *testing.T) {
    var s domain.SentimentSummary
    for _, tc := range []struct {
        stale, want int
    }{
        {0, 0}, {3, 0}, {4, 5}, {5, 5}, {6, 10}, {10, 10}, {11, 20},
    } {
        assert.Equal(t, tc.want, RiskScore(s, 0, 0, tc.stale), "stale=%d", tc.stale)
    }
}

func TestRiskScoreClamped(t *testing.T) {
    s := domain.SentimentSummary{Total: 100, NegativePct: 100}
    got := RiskScore(s, 100, 1000, 1000)
    assert.Equal(t, 100, got)
    assert.LessOrEqual(t, got, 100)
    assert.GreaterOrEqual(t, got, 0)
}

func TestHintTrends(t *testing.T) {
    h := HintTrends(domain.SentimentSummary{NegativePct: 41}, 1)
    assert.Equal(t, "degrading", h.Sentiment)
    assert.Equal(t, "decreasing", h.Activity)

    h = HintTrends(domain.SentimentSummary{NegativePct: 40}, 2)
    assert.Equal(t, "stable", h.Sentiment)
    assert.Equal(t, "active", h.Activity)
}

func TestPredict(t *testing.T) {
    p := Predict(2, 50)
    assert.Equal(t, "low", p.CompletionLikelihood)
    assert.True(t, p.EscalationNeeded)

    p = Predict(1, 0)
    assert.Equal(t, "medium", p.CompletionLikelihood)
    assert.False(t, p.EscalationNeeded)

    p = Predict(0, 45)
    assert.Equal(t, "medium", p.CompletionLikelihood)

    p = Predict(0, 10)
    assert.Equal(t, "high", p.CompletionLikelihood)
    assert.Equal(t, "Continue as planned", p.RecommendedAction)
}
