package report

import (
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/ypratap11/consilo-saas/internal/domain"
)

func sampleRecord() *domain.AnalysisRecord {
    return &domain.AnalysisRecord{
        WorkItemKey: "ENG-42",
        ProjectKey:  "ENG",
        Summary:     "Payment retries fail under load",
        Status:      "In Progress",
        Priority:    "High",
        Assignee:    "Dana Reyes",
        Sentiment:   domain.SentimentSummary{Total: 4, Positive: 1, Negative: 2, Neutral: 1, PositivePct: 25, NegativePct: 50},
        Blockers: []domain.BlockerRecord{
            {Author: "dev", Snippet: "waiting on upstream dependency", Categories: []string{"dependency"}},
        },
        Timeline: domain.Timeline{AgeDays: 20, StaleDays: 4, CurrentStatus: "In Progress"},
        Capacity: domain.CapacityEstimate{
            EstimatedEffortDays: 3,
            Assignee:            "Dana Reyes",
            Role:                "Senior Engineer",
            Location:            "San Francisco",
            BaseDailyCost:       5000,
            AppliedMultipliers:  []string{"San Francisco: 1.3x", "Weekend: 2.0x"},
            DailyCost:           13000,
            TotalEstimatedCost:  39000,
            TotalCostIfBlocked:  39000,
            DaysLostPerDayBlocked: 1,
            WeekendDetected:     true,
        },
        RiskScore:   50,
        Predictions: domain.Prediction{CompletionLikelihood: "medium", RecommendedAction: "Monitor closely"},
    }
}

func TestExecutive(t *testing.T) {
    out := Executive(sampleRecord())
    assert.Contains(t, out, "RISK SCORE: 50/100")
    assert.Contains(t, out, "ISSUE: ENG-42 - Payment retries fail under load")
    assert.Contains(t, out, "Priority: High")
    assert.Contains(t, out, "Dana Reyes (Senior Engineer, San Francisco)")
    assert.Contains(t, out, "Daily cost: $13,000 (base: $5,000)")
    assert.Contains(t, out, "Multipliers: San Francisco: 1.3x, Weekend: 2.0x")
    assert.Contains(t, out, "BLOCKERS: 1")
    assert.Contains(t, out, "DEPENDENCY: waiting on upstream dependency")
    assert.Contains(t, out, "RECOMMENDATION: Monitor closely")
    assert.Contains(t, out, "Escalation needed: No")
    assert.Contains(t, out, "Weekend work detected")
}

func TestExecutiveUnknownRole(t *testing.T) {
    rec := sampleRecord()
    rec.Capacity.Role = "Unknown (using default)"
    rec.Capacity.Location = ""
    out := Executive(rec)
    assert.Contains(t, out, "Assignee: Dana Reyes\n")
    assert.NotContains(t, out, "Unknown (using default)")
}

func TestTechnical(t *testing.T) {
    out := Technical(sampleRecord())
    assert.Contains(t, out, "Total comments: 4")
    assert.Contains(t, out, "Negative: 2 (50.0%)")
    assert.Contains(t, out, "Age: 20 days")
    assert.Contains(t, out, "Blocks: 0 issues")
}

func TestFormatDispatch(t *testing.T) {
    rec := sampleRecord()
    assert.Equal(t, Executive(rec), Format(rec, ""))
    assert.Equal(t, Executive(rec), Format(rec, "executive"))
    assert.Equal(t, Technical(rec), Format(rec, "technical"))
    assert.Equal(t, PM(rec), Format(rec, "pm"))
    assert.True(t, strings.Contains(Format(rec, "all"), "EXECUTIVE SUMMARY"))
    assert.Equal(t, "Invalid template", Format(rec, "spreadsheet"))
}

func TestSprintReport(t *testing.T) {
    res := &domain.BatchResult{
        Errors: []domain.ItemError{{Key: "ENG-7", Reason: "boom"}},
        Rollup: domain.RollupReport{
            Counts:             domain.RollupCounts{Items: 3, Blockers: 2, HighRisk: 1, StaleOver5d: 1},
            Risk:               domain.RollupRisk{Avg: 48.3, Max: 80, HighRiskKeys: []string{"ENG-1"}},
            Capacity:           domain.RollupCapacity{TotalDailyCost: 12000},
            BlockersByCategory: map[string]int{"dependency": 2},
        },
    }
    out := Sprint(res, "ENG", "Sprint 12")
    assert.Contains(t, out, "Project: ENG")
    assert.Contains(t, out, "Sprint: Sprint 12")
    assert.Contains(t, out, "Issues analyzed: 3 (errors: 1)")
    assert.Contains(t, out, "Avg risk: 48.3/100")
    assert.Contains(t, out, "High risk issues: 1 (ENG-1)")
    assert.Contains(t, out, "Top categories: dependency:2")
    assert.Contains(t, out, "Total daily cost exposure: $12,000")
    assert.Contains(t, out, "Last update > 5d: 1")
}

func TestPortfolioReport(t *testing.T) {
    res := &domain.PortfolioResult{
        Overall: domain.BatchResult{
            Rollup: domain.RollupReport{
                Counts:   domain.RollupCounts{Items: 5, Projects: 2, HighRisk: 2},
                Risk:     domain.RollupRisk{Avg: 61.5, Max: 90},
                Capacity: domain.RollupCapacity{TotalDailyCost: 25000, TotalPersonDaysLostPerDay: 2},
                BlockersByCategory: map[string]int{"external": 1, "dependency": 3},
                TopHighRisk: []domain.HighRiskItem{
                    {Key: "ENG-1", Risk: 90, Status: "Blocked", Assignee: "Dana", Summary: "stuck"},
                },
            },
        },
    }
    out := Portfolio(res)
    assert.Contains(t, out, "Projects covered: 2")
    assert.Contains(t, out, "Avg risk: 61.5/100")
    assert.Contains(t, out, "Top categories: dependency:3, external:1")
    assert.Contains(t, out, "Total person-days lost per day (if blocked): 2.0")
    assert.Contains(t, out, "• ENG-1 (90/100) - Blocked - Dana: stuck")
}

func TestMoney(t *testing.T) {
    assert.Equal(t, "0", money(0))
    assert.Equal(t, "950", money(950))
    assert.Equal(t, "7,800", money(7800))
    assert.Equal(t, "1,234,568", money(1234567.6))
    assert.Equal(t, "-12,000", money(-12000))
}
