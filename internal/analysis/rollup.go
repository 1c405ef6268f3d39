/* Copyright (c) 2025 Pratap Yeragudipati
 * SPDX-License-Identifier: BSD-3-Clause */
package analysis

import (
    "math"
    "sort"

    "github.com/ypratap11/consilo-saas/internal/domain"
)

const topHighRiskLimit = 20

func summaryForDisplay(s string) string {
    r := []rune(s)
    if len(r) <= 80 { return s }
    return string(r[:80])
}

// Rollup reduces a set of analysis records into an aggregate view. The
// reduction is order-independent except for the top high-risk list, which
// breaks risk-score ties by original input order.
func Rollup(records []domain.AnalysisRecord) domain.RollupReport {
    rep := domain.RollupReport{
        BlockersByCategory: map[string]int{},
        ItemsByProject:     map[string]int{},
        TopHighRisk:        []domain.HighRiskItem{},
    }
    rep.Counts.Items = len(records)
    if len(records) == 0 { return rep }

    riskSum := 0
    for _, r := range records {
        riskSum += r.RiskScore
        if r.RiskScore > rep.Risk.Max { rep.Risk.Max = r.RiskScore }

        switch {
        case r.RiskScore >= 70:
            rep.Counts.HighRisk++
            rep.Risk.HighRiskKeys = append(rep.Risk.HighRiskKeys, r.WorkItemKey)
        case r.RiskScore >= 40:
            rep.Counts.MediumRisk++
        default:
            rep.Counts.LowRisk++
        }

        if r.Timeline.StaleDays > 5 { rep.Counts.StaleOver5d++ }
        if r.Timeline.StaleDays > 10 { rep.Counts.StaleOver10d++ }

        rep.Counts.Blockers += len(r.Blockers)
        for _, b := range r.Blockers {
            for _, c := range b.Categories { rep.BlockersByCategory[c]++ }
        }

        rep.ItemsByProject[r.ProjectKey]++
        rep.Capacity.TotalDailyCost += r.Capacity.DailyCost
        rep.Capacity.TotalPersonDaysLostPerDay += r.Capacity.DaysLostPerDayBlocked
    }
    rep.Counts.Projects = len(rep.ItemsByProject)
    rep.Risk.Avg = math.Round(float64(riskSum)/float64(len(records))*10) / 10

    idx := make([]int, len(records))
    for i := range idx { idx[i] = i }
    sort.SliceStable(idx, func(a, b int) bool {
        return records[idx[a]].RiskScore > records[idx[b]].RiskScore
    })
    if len(idx) > topHighRiskLimit { idx = idx[:topHighRiskLimit] }
    for _, i := range idx {
        r := records[i]
        rep.TopHighRisk = append(rep.TopHighRisk, domain.HighRiskItem{
            Key:      r.WorkItemKey,
            Risk:     r.RiskScore,
            Status:   r.Status,
            Assignee: r.Assignee,
            Summary:  summaryForDisplay(r.Summary),
        })
    }
    return rep
}
