/* Copyright (c) 2025 Pratap Yeragudipati
 * SPDX-License-Identifier: BSD-3-Clause */
package analysis

import (
    "fmt"
    "math"
    "time"

    "github.com/ypratap11/consilo-saas/internal/domain"
)

// Business-hours window used for overtime detection.
const (
    businessHourStart = 9
    businessHourEnd   = 18
)

var priorityEffort = map[string]float64{
    "Highest": 5,
    "High":    3,
    "Medium":  2,
    "Low":     1,
    "Lowest":  0.5,
}

const defaultEffortDays = 2 // Medium

func effortDays(item *domain.WorkItem) float64 {
    if item.StoryPoints != nil && *item.StoryPoints >= 0 { return *item.StoryPoints }
    if d, ok := priorityEffort[item.Priority]; ok { return d }
    return defaultEffortDays
}

func isWeekend(t time.Time) bool {
    wd := t.Weekday()
    return wd == time.Saturday || wd == time.Sunday
}

// isOvertime reports a weekday timestamp outside business hours. Weekend
// timestamps are excluded; they are handled by the weekend multiplier.
func isOvertime(t time.Time) bool {
    if isWeekend(t) { return false }
    h := t.Hour()
    return h < businessHourStart || h >= businessHourEnd
}

func formatMultiplier(m float64) string {
    if m == math.Trunc(m) { return fmt.Sprintf("%.1fx", m) }
    return fmt.Sprintf("%gx", m)
}

// EstimateCapacity computes the cost-adjusted effort estimate for one item.
// Multipliers compose in order base, geographic, overtime, weekend; weekend
// and overtime can both apply when different comments trigger each. Zero
// comment timestamps trigger neither.
func (t *RateTable) EstimateCapacity(item *domain.WorkItem, comments []domain.Comment, blockerCount int) domain.CapacityEstimate {
    est := domain.CapacityEstimate{
        EstimatedEffortDays: effortDays(item),
        Assignee:            "Unassigned",
    }

    base, role := t.DefaultRate, RoleUnknown
    if item.Assignee != nil && item.Assignee.Name != "" {
        est.Assignee = item.Assignee.Name
        base, role = t.RateFor(item.Assignee)
    }
    est.BaseDailyCost = base
    est.Role = role
    daily := base

    if item.Assignee != nil {
        if loc, ok := t.ResolveLocation(item.Assignee); ok {
            m := t.LocationMultipliers[loc]
            daily *= m
            est.Location = loc
            est.AppliedMultipliers = append(est.AppliedMultipliers, fmt.Sprintf("%s: %s", loc, formatMultiplier(m)))
        }
    }

    for _, c := range comments {
        if c.CreatedAt.IsZero() { continue }
        if isWeekend(c.CreatedAt) { est.WeekendDetected = true }
        if isOvertime(c.CreatedAt) { est.OvertimeDetected = true }
    }
    if est.OvertimeDetected {
        daily *= t.OvertimeMultiplier
        est.AppliedMultipliers = append(est.AppliedMultipliers, "Overtime: "+formatMultiplier(t.OvertimeMultiplier))
    }
    if est.WeekendDetected {
        daily *= t.WeekendMultiplier
        est.AppliedMultipliers = append(est.AppliedMultipliers, "Weekend: "+formatMultiplier(t.WeekendMultiplier))
    }

    est.DailyCost = daily
    est.TotalEstimatedCost = daily * est.EstimatedEffortDays
    if blockerCount > 0 {
        est.DaysLostPerDayBlocked = 1.0
        est.TotalCostIfBlocked = est.TotalEstimatedCost
    }
    return est
}
