/* Copyright (c) 2025 Pratap Yeragudipati
 * SPDX-License-Identifier: BSD-3-Clause */
package analysis

import (
    "fmt"
    "os"
    "regexp"
    "strings"

    "github.com/ypratap11/consilo-saas/internal/domain"
    "gopkg.in/yaml.v3"
)

// PatternRule maps a display-name regex to a role. Rules are evaluated in
// order; the first match wins.
type PatternRule struct {
    Pattern string `yaml:"pattern"`
    Role    string `yaml:"role"`
}

type compiledRule struct {
    re   *regexp.Regexp
    role string
}

// RateTable holds the role/rate configuration used by the capacity model.
// It is immutable after construction and safe for concurrent reads.
type RateTable struct {
    RoleRates           map[string]float64
    UserRoles           map[string]string
    UserLocations       map[string]string
    UseRoleHint         bool
    DefaultRole         string
    DefaultRate         float64
    LocationMultipliers map[string]float64
    OvertimeMultiplier  float64
    WeekendMultiplier   float64

    rules []compiledRule
}

type rateFile struct {
    RoleRates           map[string]float64 `yaml:"role_rates"`
    UserRoles           map[string]string  `yaml:"user_roles"`
    UserLocations       map[string]string  `yaml:"user_locations"`
    UseRoleHint         *bool              `yaml:"use_role_hint"`
    NamePatterns        []PatternRule      `yaml:"name_patterns"`
    DefaultRole         string             `yaml:"default_role"`
    DefaultRate         float64            `yaml:"default_rate"`
    LocationMultipliers map[string]float64 `yaml:"location_multipliers"`
    OvertimeMultiplier  float64            `yaml:"overtime_multiplier"`
    WeekendMultiplier   float64            `yaml:"weekend_multiplier"`
}

// RoleUnknown labels an assignee whose role could not be resolved to a
// configured rate; the flat default rate applies.
const RoleUnknown = "Unknown (using default)"

func defaultPatterns() []PatternRule {
    return []PatternRule{
        {Pattern: `(Senior|Sr\.).*Engineer`, Role: "Senior Engineer"},
        {Pattern: `(Staff|Principal).*Engineer`, Role: "Staff Engineer"},
        {Pattern: `Engineer.*Manager`, Role: "Engineering Manager"},
        {Pattern: `Tech.*Lead`, Role: "Tech Lead"},
        {Pattern: `(Mid|Middle).*Engineer`, Role: "Mid Engineer"},
        {Pattern: `(Junior|Jr\.).*Engineer`, Role: "Junior Engineer"},
        {Pattern: `(Senior|Sr\.).*PM`, Role: "Senior PM"},
        {Pattern: `Product.*Manager`, Role: "PM"},
        {Pattern: `(Associate|Assoc\.).*PM`, Role: "Associate PM"},
        {Pattern: `(Senior|Sr\.).*Designer`, Role: "Senior Designer"},
        {Pattern: `Designer`, Role: "Designer"},
        {Pattern: `QA|Quality`, Role: "QA Engineer"},
        {Pattern: `DevOps`, Role: "DevOps Engineer"},
        {Pattern: `SRE|Reliability`, Role: "SRE"},
        {Pattern: `Data.*Scientist`, Role: "Data Scientist"},
        {Pattern: `Data.*Engineer`, Role: "Data Engineer"},
        {Pattern: `Contractor`, Role: "Contractor"},
        {Pattern: `Intern`, Role: "Intern"},
        {Pattern: `Consultant`, Role: "Consultant"},
    }
}

// DefaultRateTable returns the built-in rate configuration, used when no
// rates file is provided.
func DefaultRateTable() *RateTable {
    t := &RateTable{
        RoleRates: map[string]float64{
            "Senior Engineer":     5000,
            "Staff Engineer":      6000,
            "Principal Engineer":  7000,
            "Mid Engineer":        3000,
            "Junior Engineer":     2000,
            "Engineering Manager": 6500,
            "Tech Lead":           5500,
            "Senior PM":           5000,
            "PM":                  4000,
            "Associate PM":        2500,
            "Senior Designer":     4500,
            "Designer":            3500,
            "Junior Designer":     2000,
            "Senior QA":           4000,
            "QA Engineer":         3000,
            "DevOps Engineer":     4500,
            "SRE":                 5000,
            "Data Engineer":       4500,
            "Data Scientist":      5000,
            "Analytics Engineer":  3500,
            "Contractor":          3500,
            "Intern":              1000,
            "Consultant":          5000,
        },
        UserRoles:     map[string]string{},
        UserLocations: map[string]string{},
        UseRoleHint:   false,
        DefaultRole:   "Mid Engineer",
        DefaultRate:   3000,
        LocationMultipliers: map[string]float64{
            "San Francisco": 1.3,
            "New York":      1.2,
            "Austin":        1.0,
            "Portland":      1.0,
            "Bangalore":     0.4,
            "Warsaw":        0.5,
            "Remote":        1.0,
        },
        OvertimeMultiplier: 1.5,
        WeekendMultiplier:  2.0,
    }
    if err := t.compile(defaultPatterns()); err != nil {
        // built-in patterns are constant; a compile failure is a programming error
        panic(err)
    }
    return t
}

// LoadRateTable reads a YAML rates file and overlays it onto the defaults.
// A missing file is not an error; the defaults apply.
func LoadRateTable(path string) (*RateTable, error) {
    t := DefaultRateTable()
    if path == "" { return t, nil }
    data, err := os.ReadFile(path)
    if err != nil {
        if os.IsNotExist(err) { return t, nil }
        return nil, err
    }
    var f rateFile
    if err := yaml.Unmarshal(data, &f); err != nil { return nil, fmt.Errorf("rates file %s: %w", path, err) }
    if len(f.RoleRates) > 0 { t.RoleRates = f.RoleRates }
    if len(f.UserRoles) > 0 { t.UserRoles = f.UserRoles }
    if len(f.UserLocations) > 0 { t.UserLocations = f.UserLocations }
    if f.UseRoleHint != nil { t.UseRoleHint = *f.UseRoleHint }
    if f.DefaultRole != "" { t.DefaultRole = f.DefaultRole }
    if f.DefaultRate > 0 { t.DefaultRate = f.DefaultRate }
    if len(f.LocationMultipliers) > 0 { t.LocationMultipliers = f.LocationMultipliers }
    if f.OvertimeMultiplier > 0 { t.OvertimeMultiplier = f.OvertimeMultiplier }
    if f.WeekendMultiplier > 0 { t.WeekendMultiplier = f.WeekendMultiplier }
    if len(f.NamePatterns) > 0 {
        if err := t.compile(f.NamePatterns); err != nil { return nil, fmt.Errorf("rates file %s: %w", path, err) }
    }
    return t, nil
}

func (t *RateTable) compile(rules []PatternRule) error {
    out := make([]compiledRule, 0, len(rules))
    for _, r := range rules {
        re, err := regexp.Compile("(?i)" + r.Pattern)
        if err != nil { return fmt.Errorf("pattern %q: %w", r.Pattern, err) }
        out = append(out, compiledRule{re: re, role: r.Role})
    }
    t.rules = out
    return nil
}

// roleResolver returns a role match for an assignee, or false when this
// resolver has no opinion. Resolvers run in strict order; the first match
// short-circuits the chain.
type roleResolver func(a *domain.Assignee) (string, bool)

func (t *RateTable) mappedRole(a *domain.Assignee) (string, bool) {
    role, ok := t.UserRoles[a.Name]
    return role, ok
}

func (t *RateTable) hintedRole(a *domain.Assignee) (string, bool) {
    if !t.UseRoleHint || a.RoleHint == "" { return "", false }
    if _, known := t.RoleRates[a.RoleHint]; known { return a.RoleHint, true }
    return "", false
}

func (t *RateTable) patternRole(a *domain.Assignee) (string, bool) {
    for _, r := range t.rules {
        if r.re.MatchString(a.Name) { return r.role, true }
    }
    return "", false
}

func (t *RateTable) fallbackRole(a *domain.Assignee) (string, bool) {
    if t.DefaultRole != "" { return t.DefaultRole, true }
    return "", false
}

// ResolveRole walks the resolver chain: explicit mapping, role-hint
// attribute, name patterns, configured default.
func (t *RateTable) ResolveRole(a *domain.Assignee) (string, bool) {
    if a == nil || a.Name == "" { return "", false }
    for _, resolve := range []roleResolver{t.mappedRole, t.hintedRole, t.patternRole, t.fallbackRole} {
        if role, ok := resolve(a); ok { return role, true }
    }
    return "", false
}

// RateFor resolves an assignee to a daily rate and role label. When the
// resolved role has no configured rate (or nothing resolves), the flat
// default rate applies under the RoleUnknown label.
func (t *RateTable) RateFor(a *domain.Assignee) (float64, string) {
    role, ok := t.ResolveRole(a)
    if ok {
        if rate, known := t.RoleRates[role]; known { return rate, role }
    }
    return t.DefaultRate, RoleUnknown
}

// ResolveLocation resolves an assignee to a configured location: explicit
// mapping first, then a substring match of the location hint against known
// locations. Only locations with a configured multiplier resolve.
func (t *RateTable) ResolveLocation(a *domain.Assignee) (string, bool) {
    if a == nil { return "", false }
    if loc, ok := t.UserLocations[a.Name]; ok {
        if _, known := t.LocationMultipliers[loc]; known { return loc, true }
        return "", false
    }
    if a.LocationHint == "" { return "", false }
    hint := strings.ToLower(a.LocationHint)
    for loc := range t.LocationMultipliers {
        if strings.Contains(hint, strings.ToLower(loc)) { return loc, true }
    }
    return "", false
}
