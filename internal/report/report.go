/* Copyright (c) 2025 Pratap Yeragudipati
 * SPDX-License-Identifier: BSD-3-Clause */

// Package report renders analysis data as plain-text reports. Formatting is
// a pure projection: no decisions are made here.
package report

import (
    "fmt"
    "strings"

    "github.com/ypratap11/consilo-saas/internal/domain"
)

const divider = "================================================================================"

func riskEmoji(risk int) string {
    if risk >= 70 { return "🔴" }
    if risk >= 40 { return "🟡" }
    return "🟢"
}

func orNA(s string) string {
    if s == "" { return "N/A" }
    return s
}

// Executive renders the leadership-facing summary for one item.
func Executive(a *domain.AnalysisRecord) string {
    var b strings.Builder

    assignee := a.Capacity.Assignee
    switch {
    case a.Capacity.Role != "" && !strings.HasPrefix(a.Capacity.Role, "Unknown"):
        if a.Capacity.Location != "" {
            assignee += fmt.Sprintf(" (%s, %s)", a.Capacity.Role, a.Capacity.Location)
        } else {
            assignee += fmt.Sprintf(" (%s)", a.Capacity.Role)
        }
    case a.Capacity.Location != "":
        assignee += fmt.Sprintf(" (%s)", a.Capacity.Location)
    }

    fmt.Fprintf(&b, "%s RISK SCORE: %d/100\n\n", riskEmoji(a.RiskScore), a.RiskScore)
    fmt.Fprintf(&b, "ISSUE: %s - %s\n", a.WorkItemKey, a.Summary)
    fmt.Fprintf(&b, "Status: %s\n", orNA(a.Status))
    fmt.Fprintf(&b, "Priority: %s\n", orNA(a.Priority))
    fmt.Fprintf(&b, "Assignee: %s\n\n", assignee)

    fmt.Fprintf(&b, "CAPACITY IMPACT:\n")
    fmt.Fprintf(&b, "• Daily cost: $%s", money(a.Capacity.DailyCost))
    if len(a.Capacity.AppliedMultipliers) > 0 && a.Capacity.BaseDailyCost != a.Capacity.DailyCost {
        fmt.Fprintf(&b, " (base: $%s)\n", money(a.Capacity.BaseDailyCost))
        fmt.Fprintf(&b, "  Multipliers: %s", strings.Join(a.Capacity.AppliedMultipliers, ", "))
    }
    fmt.Fprintf(&b, "\n• Estimated effort: %g days\n", a.Capacity.EstimatedEffortDays)
    fmt.Fprintf(&b, "• Total estimated cost: $%s\n", money(a.Capacity.TotalEstimatedCost))
    fmt.Fprintf(&b, "• Days lost per day if blocked: %g\n", a.Capacity.DaysLostPerDayBlocked)
    if a.Capacity.OvertimeDetected { fmt.Fprintf(&b, "• ⚠️ After-hours work detected\n") }
    if a.Capacity.WeekendDetected { fmt.Fprintf(&b, "• ⚠️ Weekend work detected\n") }

    fmt.Fprintf(&b, "\nBLOCKERS: %d\n", len(a.Blockers))
    for i, bl := range a.Blockers {
        if i == 3 { break }
        snip := bl.Snippet
        if r := []rune(snip); len(r) > 80 { snip = string(r[:80]) }
        fmt.Fprintf(&b, "• %s: %s\n", strings.ToUpper(bl.Categories[0]), snip)
    }

    fmt.Fprintf(&b, "\nRECOMMENDATION: %s\n", a.Predictions.RecommendedAction)
    esc := "No"
    if a.Predictions.EscalationNeeded { esc = "Yes" }
    fmt.Fprintf(&b, "Escalation needed: %s", esc)
    return b.String()
}

// Technical renders the engineering-facing breakdown for one item.
func Technical(a *domain.AnalysisRecord) string {
    var b strings.Builder
    fmt.Fprintf(&b, "SENTIMENT ANALYSIS:\n")
    fmt.Fprintf(&b, "• Total comments: %d\n", a.Sentiment.Total)
    fmt.Fprintf(&b, "• Positive: %d (%.1f%%)\n", a.Sentiment.Positive, a.Sentiment.PositivePct)
    fmt.Fprintf(&b, "• Negative: %d (%.1f%%)\n", a.Sentiment.Negative, a.Sentiment.NegativePct)
    fmt.Fprintf(&b, "• Neutral: %d\n\n", a.Sentiment.Neutral)

    fmt.Fprintf(&b, "TIMELINE:\n")
    fmt.Fprintf(&b, "• Age: %d days\n", a.Timeline.AgeDays)
    fmt.Fprintf(&b, "• Last updated: %d days ago\n", a.Timeline.StaleDays)
    fmt.Fprintf(&b, "• Status changes: %d\n\n", len(a.Timeline.StatusChanges))

    fmt.Fprintf(&b, "DEPENDENCIES:\n")
    fmt.Fprintf(&b, "• Blocks: %d issues\n", len(a.Dependencies.Blocks))
    fmt.Fprintf(&b, "• Blocked by: %d issues", len(a.Dependencies.BlockedBy))
    return b.String()
}

// PM combines the executive and technical views.
func PM(a *domain.AnalysisRecord) string {
    return Executive(a) + "\n\n" + Technical(a)
}

// All renders every per-item template, separated by headed dividers.
func All(a *domain.AnalysisRecord) string {
    var b strings.Builder
    fmt.Fprintf(&b, "%s\nEXECUTIVE SUMMARY\n%s\n%s\n\n", divider, divider, Executive(a))
    fmt.Fprintf(&b, "%s\nTECHNICAL ANALYSIS\n%s\n%s\n\n", divider, divider, Technical(a))
    fmt.Fprintf(&b, "%s\nPM REPORT\n%s\n%s", divider, divider, PM(a))
    return b.String()
}

// Format dispatches on template name: executive, technical, pm, all.
func Format(a *domain.AnalysisRecord, template string) string {
    switch template {
    case "technical":
        return Technical(a)
    case "pm":
        return PM(a)
    case "all":
        return All(a)
    case "", "executive":
        return Executive(a)
    }
    return "Invalid template"
}

func topCategories(byCat map[string]int, n int) string {
    type kv struct {
        k string
        v int
    }
    items := make([]kv, 0, len(byCat))
    for k, v := range byCat { items = append(items, kv{k, v}) }
    // count desc, name asc for equal counts
    for i := 0; i < len(items); i++ {
        for j := i + 1; j < len(items); j++ {
            if items[j].v > items[i].v || (items[j].v == items[i].v && items[j].k < items[i].k) {
                items[i], items[j] = items[j], items[i]
            }
        }
    }
    if len(items) > n { items = items[:n] }
    parts := make([]string, 0, len(items))
    for _, it := range items { parts = append(parts, fmt.Sprintf("%s:%d", it.k, it.v)) }
    if len(parts) == 0 { return "None" }
    return strings.Join(parts, ", ")
}

// Sprint renders the executive rollup for one batch (sprint) result.
func Sprint(res *domain.BatchResult, project, sprintName string) string {
    r := res.Rollup
    var b strings.Builder
    fmt.Fprintf(&b, "%s\nSPRINT EXECUTIVE SUMMARY\n%s\n", divider, divider)
    fmt.Fprintf(&b, "Project: %s\n", project)
    if sprintName != "" { fmt.Fprintf(&b, "Sprint: %s\n", sprintName) }
    fmt.Fprintf(&b, "Issues analyzed: %d (errors: %d)\n\n", r.Counts.Items, len(res.Errors))

    fmt.Fprintf(&b, "RISK\n")
    fmt.Fprintf(&b, "• Avg risk: %g/100\n", r.Risk.Avg)
    fmt.Fprintf(&b, "• Max risk: %d/100\n", r.Risk.Max)
    keys := r.Risk.HighRiskKeys
    suffix := ""
    if len(keys) > 10 { keys, suffix = keys[:10], "..." }
    fmt.Fprintf(&b, "• High risk issues: %d (%s%s)\n\n", r.Counts.HighRisk, strings.Join(keys, ", "), suffix)

    fmt.Fprintf(&b, "BLOCKERS\n")
    fmt.Fprintf(&b, "• Total blockers detected: %d\n", r.Counts.Blockers)
    fmt.Fprintf(&b, "• Top categories: %s\n\n", topCategories(r.BlockersByCategory, 5))

    fmt.Fprintf(&b, "CAPACITY / COST\n")
    fmt.Fprintf(&b, "• Total daily cost exposure: $%s\n\n", money(r.Capacity.TotalDailyCost))

    fmt.Fprintf(&b, "STALENESS\n")
    fmt.Fprintf(&b, "• Last update > 5d: %d\n", r.Counts.StaleOver5d)
    fmt.Fprintf(&b, "• Last update > 10d: %d", r.Counts.StaleOver10d)
    return b.String()
}

// Portfolio renders the executive rollup across all slices.
func Portfolio(res *domain.PortfolioResult) string {
    o := res.Overall.Rollup
    var b strings.Builder
    fmt.Fprintf(&b, "%s\nPORTFOLIO EXECUTIVE SUMMARY\n%s\n", divider, divider)
    fmt.Fprintf(&b, "Projects covered: %d\n", o.Counts.Projects)
    fmt.Fprintf(&b, "Issues analyzed: %d (errors: %d)\n\n", o.Counts.Items, len(res.Overall.Errors))

    fmt.Fprintf(&b, "RISK\n")
    fmt.Fprintf(&b, "• Avg risk: %g/100\n", o.Risk.Avg)
    fmt.Fprintf(&b, "• Max risk: %d/100\n", o.Risk.Max)
    fmt.Fprintf(&b, "• High risk issues: %d\n\n", o.Counts.HighRisk)

    fmt.Fprintf(&b, "BLOCKERS\n")
    fmt.Fprintf(&b, "• Total blockers detected: %d\n", o.Counts.Blockers)
    fmt.Fprintf(&b, "• Top categories: %s\n\n", topCategories(o.BlockersByCategory, 5))

    fmt.Fprintf(&b, "CAPACITY / COST\n")
    fmt.Fprintf(&b, "• Total daily cost exposure: $%s\n", money(o.Capacity.TotalDailyCost))
    fmt.Fprintf(&b, "• Total person-days lost per day (if blocked): %.1f\n\n", o.Capacity.TotalPersonDaysLostPerDay)

    fmt.Fprintf(&b, "TOP HIGH-RISK ISSUES\n")
    top := o.TopHighRisk
    if len(top) > 10 { top = top[:10] }
    for _, x := range top {
        fmt.Fprintf(&b, "• %s (%d/100) - %s - %s: %s\n", x.Key, x.Risk, x.Status, x.Assignee, x.Summary)
    }
    return strings.TrimRight(b.String(), "\n")
}

// money formats a float as a comma-grouped whole-dollar amount.
func money(v float64) string {
    s := fmt.Sprintf("%.0f", v)
    neg := strings.HasPrefix(s, "-")
    if neg { s = s[1:] }
    var b strings.Builder
    for i, d := range s {
        if i > 0 && (len(s)-i)%3 == 0 { b.WriteByte(',') }
        b.WriteRune(d)
    }
    out := b.String()
    if neg { out = "-" + out }
    return out
}
