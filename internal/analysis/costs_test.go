package analysis

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/ypratap11/consilo-saas/internal/domain"
)

func ptr(f float64) *float64 { return &f }

// 2024-01-06 is a Saturday, 2024-01-08 a Monday.
var (
    weekendTS  = time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC)
    eveningTS  = time.Date(2024, 1, 8, 21, 0, 0, 0, time.UTC)
    businessTS = time.Date(2024, 1, 8, 10, 30, 0, 0, time.UTC)
)

func TestEstimateCapacityGeoAndWeekend(t *testing.T) {
    rates := DefaultRateTable()
    rates.UserRoles = map[string]string{"Dana": "Mid Engineer"}
    rates.UserLocations = map[string]string{"Dana": "San Francisco"}

    item := &domain.WorkItem{
        Key:      "ENG-1",
        Priority: "Medium",
        Assignee: &domain.Assignee{Name: "Dana"},
    }
    comments := []domain.Comment{{Author: "Dana", CreatedAt: weekendTS, Body: "pushing a fix"}}

    est := rates.EstimateCapacity(item, comments, 0)
    assert.Equal(t, 3000.0, est.BaseDailyCost)
    assert.Equal(t, 7800.0, est.DailyCost) // 3000 * 1.3 * 2.0
    assert.True(t, est.WeekendDetected)
    assert.False(t, est.OvertimeDetected)
    assert.Equal(t, []string{"San Francisco: 1.3x", "Weekend: 2.0x"}, est.AppliedMultipliers)
    assert.Equal(t, est.DailyCost*est.EstimatedEffortDays, est.TotalEstimatedCost)
}

func TestEstimateCapacityMultiplierInvariant(t *testing.T) {
    rates := DefaultRateTable()
    rates.UserLocations = map[string]string{"Lee": "Bangalore"}
    item := &domain.WorkItem{Key: "ENG-2", Assignee: &domain.Assignee{Name: "Lee Senior Engineer"}}
    comments := []domain.Comment{
        {CreatedAt: eveningTS, Body: "late night push"},
        {CreatedAt: weekendTS, Body: "weekend check"},
    }
    est := rates.EstimateCapacity(item, comments, 0)

    // both temporal multipliers apply when different comments trigger each
    assert.True(t, est.OvertimeDetected)
    assert.True(t, est.WeekendDetected)
    want := est.BaseDailyCost
    for _, m := range []float64{0.4, 1.5, 2.0} { want *= m }
    assert.InDelta(t, want, est.DailyCost, 1e-9)
    assert.Equal(t, []string{"Bangalore: 0.4x", "Overtime: 1.5x", "Weekend: 2.0x"}, est.AppliedMultipliers)
}

func TestEstimateCapacityWeekendPrecedencePerTimestamp(t *testing.T) {
    rates := DefaultRateTable()
    item := &domain.WorkItem{Key: "ENG-3", Assignee: &domain.Assignee{Name: "Sam"}}
    // Saturday at 22:00: weekend only, never overtime
    late := time.Date(2024, 1, 6, 22, 0, 0, 0, time.UTC)
    est := rates.EstimateCapacity(item, []domain.Comment{{CreatedAt: late, Body: "x"}}, 0)
    assert.True(t, est.WeekendDetected)
    assert.False(t, est.OvertimeDetected)
}

func TestEstimateCapacityBusinessHoursNeutral(t *testing.T) {
    rates := DefaultRateTable()
    item := &domain.WorkItem{Key: "ENG-4", Assignee: &domain.Assignee{Name: "Sam"}}
    est := rates.EstimateCapacity(item, []domain.Comment{{CreatedAt: businessTS, Body: "x"}}, 0)
    assert.False(t, est.OvertimeDetected)
    assert.False(t, est.WeekendDetected)
    assert.Empty(t, est.AppliedMultipliers)
    assert.Equal(t, est.BaseDailyCost, est.DailyCost)
}

func TestEstimateCapacityZeroTimestampNeutral(t *testing.T) {
    rates := DefaultRateTable()
    item := &domain.WorkItem{Key: "ENG-5", Assignee: &domain.Assignee{Name: "Sam"}}
    est := rates.EstimateCapacity(item, []domain.Comment{{Body: "no timestamp"}}, 0)
    assert.False(t, est.OvertimeDetected)
    assert.False(t, est.WeekendDetected)
}

func TestEffortFromStoryPoints(t *testing.T) {
    rates := DefaultRateTable()
    item := &domain.WorkItem{Key: "ENG-6", Priority: "Highest", StoryPoints: ptr(8)}
    est := rates.EstimateCapacity(item, nil, 0)
    assert.Equal(t, 8.0, est.EstimatedEffortDays)
}

func TestEffortFromPriority(t *testing.T) {
    rates := DefaultRateTable()
    for _, tc := range []struct {
        priority string
        want     float64
    }{
        {"Highest", 5}, {"High", 3}, {"Medium", 2}, {"Low", 1}, {"Lowest", 0.5}, {"", 2}, {"Blocker", 2},
    } {
        est := rates.EstimateCapacity(&domain.WorkItem{Key: "ENG-7", Priority: tc.priority}, nil, 0)
        assert.Equal(t, tc.want, est.EstimatedEffortDays, "priority=%q", tc.priority)
    }
}

func TestEstimateCapacityUnassigned(t *testing.T) {
    rates := DefaultRateTable()
    est := rates.EstimateCapacity(&domain.WorkItem{Key: "ENG-8"}, nil, 0)
    assert.Equal(t, "Unassigned", est.Assignee)
    assert.Equal(t, RoleUnknown, est.Role)
    assert.Equal(t, 3000.0, est.DailyCost)
}

func TestEstimateCapacityBlockedCosts(t *testing.T) {
    rates := DefaultRateTable()
    item := &domain.WorkItem{Key: "ENG-9", Priority: "High", Assignee: &domain.Assignee{Name: "Ana Senior Engineer"}}

    est := rates.EstimateCapacity(item, nil, 2)
    assert.Equal(t, 1.0, est.DaysLostPerDayBlocked)
    assert.Equal(t, est.TotalEstimatedCost, est.TotalCostIfBlocked)

    est = rates.EstimateCapacity(item, nil, 0)
    assert.Equal(t, 0.0, est.DaysLostPerDayBlocked)
    assert.Equal(t, 0.0, est.TotalCostIfBlocked)
}
