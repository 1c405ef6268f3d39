/* Copyright (c) 2025 Pratap Yeragudipati
 * SPDX-License-Identifier: BSD-3-Clause */
package analysis

import (
    "math"

    "github.com/ypratap11/consilo-saas/internal/domain"
)

// RiskScore combines four independently capped sub-scores into a 0-100
// composite. Age and staleness bands are first-match-wins, not additive.
func RiskScore(sentiment domain.SentimentSummary, blockerCount, ageDays, staleDays int) int {
    risk := 0

    // sentiment (0-30)
    if sentiment.Total > 0 {
        risk += int(math.Round(sentiment.NegativePct * 0.3))
    }

    // blockers (0-30)
    if blockerCount > 0 {
        b := 10 * blockerCount
        if b > 30 { b = 30 }
        risk += b
    }

    // age (0-20)
    switch {
    case ageDays > 30:
        risk += 20
    case ageDays > 14:
        risk += 10
    case ageDays > 7:
        risk += 5
    }

    // staleness (0-20)
    switch {
    case staleDays > 10:
        risk += 20
    case staleDays > 5:
        risk += 10
    case staleDays > 3:
        risk += 5
    }

    if risk > 100 { risk = 100 }
    return risk
}

// HintTrends is the one-shot heuristic over the current record only; the
// historical direction lives in TrendSeries.
func HintTrends(sentiment domain.SentimentSummary, commentCount int) domain.TrendHint {
    h := domain.TrendHint{Sentiment: "stable", Activity: "active", Risk: "increasing"}
    if sentiment.NegativePct > 40 { h.Sentiment = "degrading" }
    if commentCount < 2 { h.Activity = "decreasing" }
    return h
}

// Predict derives a coarse completion outlook from blocker presence and
// negative sentiment share.
func Predict(blockerCount int, negativePct float64) domain.Prediction {
    hasBlockers := blockerCount > 0
    negative := negativePct > 30

    switch {
    case hasBlockers && negative:
        return domain.Prediction{CompletionLikelihood: "low", RecommendedAction: "Escalate to leadership", EscalationNeeded: true}
    case hasBlockers || negative:
        return domain.Prediction{CompletionLikelihood: "medium", RecommendedAction: "Monitor closely"}
    default:
        return domain.Prediction{CompletionLikelihood: "high", RecommendedAction: "Continue as planned"}
    }
}
