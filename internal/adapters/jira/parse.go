/* Copyright (c) 2025 Pratap Yeragudipati
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
    "fmt"
    "time"

    "github.com/ypratap11/consilo-saas/internal/domain"
)

// storyPointsField is the common Jira Software story points custom field.
const storyPointsField = "customfield_10016"

func mapAny(v any) map[string]any {
    m, _ := v.(map[string]any)
    return m
}

func strAny(v any) string {
    if v == nil { return "" }
    if s, ok := v.(string); ok { return s }
    return fmt.Sprintf("%v", v)
}

func intField(m map[string]any, key string) int {
    if f, ok := m[key].(float64); ok { return int(f) }
    return 0
}

func nameOf(v any) string {
    if m := mapAny(v); m != nil { return strAny(m["name"]) }
    return ""
}

// parseTimeUTC returns the zero time when no layout matches; consumers treat
// zero as "no timestamp".
func parseTimeUTC(v any) time.Time {
    s, _ := v.(string)
    if s == "" { return time.Time{} }
    layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.000-0700", "2006-01-02T15:04:05-0700"}
    for _, l := range layouts {
        if t, err := time.Parse(l, s); err == nil { return t.UTC() }
    }
    return time.Time{}
}

func (c *Client) parseItem(raw map[string]any) *domain.WorkItem {
    item := &domain.WorkItem{Key: strAny(raw["key"])}
    fields := mapAny(raw["fields"])
    if fields == nil { return item }

    item.ProjectKey = strAny(mapAny(fields["project"])["key"])
    item.Summary = strAny(fields["summary"])
    item.Status = nameOf(fields["status"])
    item.Priority = nameOf(fields["priority"])
    item.CreatedAt = parseTimeUTC(fields["created"])
    item.UpdatedAt = parseTimeUTC(fields["updated"])

    if sp, ok := fields[storyPointsField].(float64); ok {
        v := sp
        item.StoryPoints = &v
    }

    if a := mapAny(fields["assignee"]); a != nil {
        as := &domain.Assignee{
            Name:         strAny(a["displayName"]),
            LocationHint: strAny(a["timeZone"]),
        }
        if c.roleField != "" {
            if role := strAny(fields[c.roleField]); role != "" && role != "<nil>" { as.RoleHint = role }
        }
        item.Assignee = as
    }

    if links, ok := fields["issuelinks"].([]any); ok {
        for _, l0 := range links {
            l := mapAny(l0)
            if l == nil { continue }
            if out := mapAny(l["outwardIssue"]); out != nil { item.Blocks = append(item.Blocks, strAny(out["key"])) }
            if in := mapAny(l["inwardIssue"]); in != nil { item.BlockedBy = append(item.BlockedBy, strAny(in["key"])) }
        }
    }

    item.StatusHistory = parseChangelog(raw)
    return item
}

func parseChangelog(raw map[string]any) []domain.StatusChange {
    cl := mapAny(raw["changelog"])
    if cl == nil { return nil }
    histories, _ := cl["histories"].([]any)
    var out []domain.StatusChange
    for _, h0 := range histories {
        h := mapAny(h0)
        if h == nil { continue }
        author := "Unknown"
        if a := mapAny(h["author"]); a != nil {
            if n := strAny(a["displayName"]); n != "" { author = n }
        }
        at := parseTimeUTC(h["created"])
        items, _ := h["items"].([]any)
        for _, i0 := range items {
            it := mapAny(i0)
            if it == nil || strAny(it["field"]) != "status" { continue }
            out = append(out, domain.StatusChange{
                From:   strAny(it["fromString"]),
                To:     strAny(it["toString"]),
                Author: author,
                At:     at,
            })
        }
    }
    return out
}

func parseComments(raw map[string]any) []domain.Comment {
    list, _ := raw["comments"].([]any)
    out := make([]domain.Comment, 0, len(list))
    for _, c0 := range list {
        c := mapAny(c0)
        if c == nil { continue }
        author := "Unknown"
        if a := mapAny(c["author"]); a != nil {
            if n := strAny(a["displayName"]); n != "" { author = n }
        }
        out = append(out, domain.Comment{
            Author:    author,
            CreatedAt: parseTimeUTC(c["created"]),
            Body:      commentBody(c["body"]),
        })
    }
    return out
}

// commentBody handles both API v2 (plain string) and v3 (Atlassian Document
// Format) comment bodies. ADF is flattened to its text nodes.
func commentBody(v any) string {
    if s, ok := v.(string); ok { return s }
    m := mapAny(v)
    if m == nil { return "" }
    return flattenADF(m)
}

func flattenADF(node map[string]any) string {
    if t, ok := node["text"].(string); ok { return t }
    content, _ := node["content"].([]any)
    out := ""
    for _, c0 := range content {
        if c := mapAny(c0); c != nil {
            s := flattenADF(c)
            if s == "" { continue }
            if out != "" && strAny(c["type"]) == "paragraph" { out += "\n" }
            out += s
        }
    }
    return out
}
