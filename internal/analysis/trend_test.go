package analysis

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/ypratap11/consilo-saas/internal/domain"
)

func TestClassifyTrend(t *testing.T) {
    for _, tc := range []struct {
        name   string
        scores []int
        want   string
    }{
        {"degrading", []int{30, 65}, domain.TrendDegrading},
        {"stable small delta", []int{70, 68}, domain.TrendStable},
        {"improving", []int{80, 40}, domain.TrendImproving},
        {"exactly at threshold up", []int{50, 60}, domain.TrendStable},
        {"just over threshold up", []int{50, 61}, domain.TrendDegrading},
        {"exactly at threshold down", []int{50, 40}, domain.TrendStable},
        {"just over threshold down", []int{50, 39}, domain.TrendImproving},
        {"middle points ignored", []int{50, 95, 5, 52}, domain.TrendStable},
        {"single point", []int{42}, domain.TrendInsufficientData},
        {"empty", nil, domain.TrendInsufficientData},
    } {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, ClassifyTrend(tc.scores))
        })
    }
}
