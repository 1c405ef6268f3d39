package analysis

import (
    "strings"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/ypratap11/consilo-saas/internal/domain"
)

func TestCategorizeBlockersTaxonomy(t *testing.T) {
    comments := []domain.Comment{
        {Author: "a", Body: "Waiting on the payments team to merge their change"},
        {Author: "b", Body: "This needs a refactor before we touch legacy code"},
        {Author: "c", Body: "All good, shipping today"},
    }
    got := CategorizeBlockers(comments)
    assert.Len(t, got, 2)
    assert.Equal(t, []string{"dependency"}, got[0].Categories)
    assert.Equal(t, []string{"technical_debt"}, got[1].Categories)
}

func TestCategorizeBlockersLiteralFallback(t *testing.T) {
    got := CategorizeBlockers([]domain.Comment{{Body: "Completely blocked, no idea why"}})
    assert.Len(t, got, 1)
    assert.Equal(t, []string{"uncategorized"}, got[0].Categories)
}

func TestCategorizeBlockersNoMatch(t *testing.T) {
    got := CategorizeBlockers([]domain.Comment{{Body: "Looks fine to me"}})
    assert.Empty(t, got)
}

func TestCategorizeBlockersMultiCategory(t *testing.T) {
    got := CategorizeBlockers([]domain.Comment{{Body: "Blocked by the vendor, we should deploy a workaround"}})
    assert.Len(t, got, 1)
    assert.Equal(t, []string{"dependency", "external", "deployment"}, got[0].Categories)
    assert.NotEmpty(t, got[0].Categories)
}

func TestCategorizeBlockersCaseInsensitive(t *testing.T) {
    got := CategorizeBlockers([]domain.Comment{{Body: "WAITING ON infra"}})
    assert.Len(t, got, 1)
    assert.Equal(t, []string{"dependency"}, got[0].Categories)
}

func TestCategorizeBlockersSnippet(t *testing.T) {
    long := "blocked " + strings.Repeat("x", 300)
    when := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
    got := CategorizeBlockers([]domain.Comment{{Author: "dev", CreatedAt: when, Body: long}})
    assert.Len(t, got, 1)
    assert.Len(t, []rune(got[0].Snippet), 200)
    assert.Equal(t, "dev", got[0].Author)
    assert.Equal(t, when, got[0].Date)
}

func TestCountByCategory(t *testing.T) {
    blockers := []domain.BlockerRecord{
        {Categories: []string{"dependency", "external"}},
        {Categories: []string{"dependency"}},
        {Categories: []string{"uncategorized"}},
    }
    counts := CountByCategory(blockers)
    assert.Equal(t, map[string]int{"dependency": 2, "external": 1, "uncategorized": 1}, counts)
}
