/* Copyright (c) 2025 Pratap Yeragudipati
 * SPDX-License-Identifier: BSD-3-Clause */
package analysis

import (
    "strings"

    "github.com/ypratap11/consilo-saas/internal/domain"
)

type blockerCategory struct {
    name     string
    keywords []string
}

// blockerTaxonomy maps category tags to trigger keywords. Matching is
// case-insensitive substring; categories are evaluated in fixed order so the
// tag list comes out deterministic for the same comment.
var blockerTaxonomy = []blockerCategory{
    {"technical_debt", []string{"refactor", "technical debt", "legacy code", "deprecated"}},
    {"dependency", []string{"waiting on", "blocked by", "depends on", "dependency"}},
    {"resource", []string{"need help", "need resource", "understaffed", "capacity"}},
    {"external", []string{"vendor", "third party", "external team", "partner"}},
    {"requirements", []string{"unclear requirements", "missing spec", "need clarification"}},
    {"testing", []string{"test failure", "qa blocker", "test environment"}},
    {"deployment", []string{"deploy", "release", "environment issue", "infrastructure"}},
}

const snippetMax = 200

func categorize(body string) []string {
    var cats []string
    for _, c := range blockerTaxonomy {
        for _, kw := range c.keywords {
            if strings.Contains(body, kw) {
                cats = append(cats, c.name)
                break
            }
        }
    }
    return cats
}

func snippet(body string) string {
    r := []rune(body)
    if len(r) <= snippetMax { return body }
    return string(r[:snippetMax])
}

// CategorizeBlockers scans comments for blocker language. A comment yields a
// record when it matches any taxonomy keyword, or when it merely contains
// "blocked"/"blocker" (then tagged uncategorized). Output order follows
// comment order.
func CategorizeBlockers(comments []domain.Comment) []domain.BlockerRecord {
    var out []domain.BlockerRecord
    for _, c := range comments {
        lower := strings.ToLower(c.Body)
        cats := categorize(lower)
        if len(cats) == 0 {
            if !strings.Contains(lower, "blocked") && !strings.Contains(lower, "blocker") { continue }
            cats = []string{"uncategorized"}
        }
        out = append(out, domain.BlockerRecord{
            Author:     c.Author,
            Date:       c.CreatedAt,
            Snippet:    snippet(c.Body),
            Categories: cats,
        })
    }
    return out
}

// CountByCategory aggregates blocker records into per-category counts, one
// increment per category per record.
func CountByCategory(blockers []domain.BlockerRecord) map[string]int {
    counts := map[string]int{}
    for _, b := range blockers {
        for _, c := range b.Categories { counts[c]++ }
    }
    return counts
}
