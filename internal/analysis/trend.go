/* Copyright (c) 2025 Pratap Yeragudipati
 * SPDX-License-Identifier: BSD-3-Clause */
package analysis

import "github.com/ypratap11/consilo-saas/internal/domain"

// trendThreshold is the dead band around the earliest score; movement within
// it classifies as stable.
const trendThreshold = 10

// ClassifyTrend compares the earliest and latest of an oldest-first series
// of risk scores. Fewer than two points is insufficient data.
func ClassifyTrend(scores []int) string {
    if len(scores) < 2 { return domain.TrendInsufficientData }
    first, last := scores[0], scores[len(scores)-1]
    switch {
    case last < first-trendThreshold:
        return domain.TrendImproving
    case last > first+trendThreshold:
        return domain.TrendDegrading
    default:
        return domain.TrendStable
    }
}
