/* Copyright (c) 2025 Pratap Yeragudipati
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strings"
    "time"

    "github.com/rs/zerolog"
    "github.com/ypratap11/consilo-saas/internal/config"
    "github.com/ypratap11/consilo-saas/internal/domain"
    "golang.org/x/time/rate"
)

// ErrNotFound reports a 404 from the issue API.
var ErrNotFound = errors.New("jira: not found")

type Client struct {
    baseURL   string
    email     string
    token     string
    apiVer    string
    roleField string
    http      *http.Client
    limiter   *rate.Limiter
    log       zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    rps := cfg.JiraRateLimitRPS
    if rps <= 0 { rps = 5 }
    return &Client{
        baseURL:   cfg.JiraBaseURL,
        email:     cfg.JiraEmail,
        token:     cfg.JiraToken,
        apiVer:    cfg.JiraAPIVersion,
        roleField: cfg.JiraRoleField,
        http:      &http.Client{Timeout: cfg.HTTPTimeout},
        limiter:   rate.NewLimiter(rate.Limit(rps), int(rps)+1),
        log:       log,
    }
}

func (c *Client) apiURL(path string, q url.Values) string {
    base := strings.TrimRight(c.baseURL, "/")
    if !strings.HasPrefix(path, "/") { path = "/" + path }
    u := base + path
    if len(q) > 0 { u = u + "?" + q.Encode() }
    return u
}

func (c *Client) versioned(path string) string {
    ver := c.apiVer
    if ver == "" { ver = "2" }
    return "/rest/api/" + ver + path
}

func (c *Client) doJSON(ctx context.Context, method, u string, body any) (map[string]any, error) {
    if c.baseURL == "" { return nil, errors.New("jira: empty baseURL") }
    var payload []byte
    if body != nil {
        b, err := json.Marshal(body)
        if err != nil { return nil, err }
        payload = b
    }
    var lastErr error
    for attempt := 0; attempt < 3; attempt++ {
        if err := c.limiter.Wait(ctx); err != nil { return nil, err }
        var r io.Reader
        if payload != nil { r = strings.NewReader(string(payload)) }
        req, err := http.NewRequestWithContext(ctx, method, u, r)
        if err != nil { return nil, err }
        if payload != nil { req.Header.Set("Content-Type", "application/json") }
        if c.email != "" && c.token != "" {
            req.SetBasicAuth(c.email, c.token)
        } else if c.token != "" {
            req.Header.Set("Authorization", "Bearer "+c.token)
        }
        resp, err := c.http.Do(req)
        if err != nil { lastErr = err } else {
            out, retry, derr := decodeResponse(resp)
            if derr == nil { return out, nil }
            if !retry { return nil, derr }
            lastErr = derr
        }
        // backoff
        time.Sleep(time.Duration(300*(1<<attempt)) * time.Millisecond)
    }
    return nil, lastErr
}

func decodeResponse(resp *http.Response) (out map[string]any, retry bool, err error) {
    defer resp.Body.Close()
    if resp.StatusCode == http.StatusNotFound {
        io.Copy(io.Discard, resp.Body)
        return nil, false, ErrNotFound
    }
    if resp.StatusCode >= 300 {
        b, _ := io.ReadAll(resp.Body)
        err = fmt.Errorf("jira api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
        // retry on 429/5xx
        return nil, resp.StatusCode == 429 || resp.StatusCode >= 500, err
    }
    if derr := json.NewDecoder(resp.Body).Decode(&out); derr != nil { return nil, false, derr }
    return out, false, nil
}

// Item fetches one issue with changelog expanded and maps it to a WorkItem.
func (c *Client) Item(ctx context.Context, key string) (*domain.WorkItem, error) {
    if key == "" { return nil, errors.New("jira: empty issue key") }
    q := url.Values{}
    q.Set("fields", "*all")
    q.Set("expand", "changelog")
    u := c.apiURL(c.versioned("/issue/"+url.PathEscape(key)), q)
    raw, err := c.doJSON(ctx, http.MethodGet, u, nil)
    if err != nil { return nil, err }
    return c.parseItem(raw), nil
}

// Comments fetches all comments for an issue in source order.
func (c *Client) Comments(ctx context.Context, key string) ([]domain.Comment, error) {
    if key == "" { return nil, errors.New("jira: empty issue key") }
    out := []domain.Comment{}
    start := 0
    for {
        q := url.Values{}
        q.Set("startAt", fmt.Sprint(start))
        q.Set("maxResults", "100")
        u := c.apiURL(c.versioned("/issue/"+url.PathEscape(key)+"/comment"), q)
        raw, err := c.doJSON(ctx, http.MethodGet, u, nil)
        if err != nil { return nil, err }
        page := parseComments(raw)
        out = append(out, page...)
        total := intField(raw, "total")
        start += len(page)
        if len(page) == 0 || start >= total { break }
    }
    return out, nil
}

// Search runs a JQL query and maps each hit to a WorkItem.
func (c *Client) Search(ctx context.Context, jql string, maxResults int) ([]domain.WorkItem, error) {
    if jql == "" { return nil, errors.New("jira: empty jql") }
    q := url.Values{}
    q.Set("jql", jql)
    if maxResults > 0 { q.Set("maxResults", fmt.Sprint(maxResults)) }
    q.Set("fields", "*all")
    q.Set("expand", "changelog")
    u := c.apiURL(c.versioned("/search"), q)
    raw, err := c.doJSON(ctx, http.MethodGet, u, nil)
    if err != nil { return nil, err }
    var out []domain.WorkItem
    if issues, ok := raw["issues"].([]any); ok {
        for _, i0 := range issues {
            if m, _ := i0.(map[string]any); m != nil {
                out = append(out, *c.parseItem(m))
            }
        }
    }
    return out, nil
}
