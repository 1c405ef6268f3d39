package domain

import (
    "time"

    "github.com/google/uuid"
)

// Assignee is the person a work item is assigned to, as reported by the
// issue source. RoleHint and LocationHint come from optional custom
// attributes and may be empty.
type Assignee struct {
    Name         string `json:"name"`
    RoleHint     string `json:"role_hint,omitempty"`
    LocationHint string `json:"location_hint,omitempty"`
}

type StatusChange struct {
    From   string    `json:"from"`
    To     string    `json:"to"`
    Author string    `json:"author"`
    At     time.Time `json:"date"`
}

// WorkItem is a read-only snapshot of a ticket, fetched once per analysis.
type WorkItem struct {
    Key           string         `json:"key"`
    ProjectKey    string         `json:"project_key"`
    Summary       string         `json:"summary"`
    Status        string         `json:"status"`
    Priority      string         `json:"priority"`
    Assignee      *Assignee      `json:"assignee,omitempty"`
    CreatedAt     time.Time      `json:"created_at"`
    UpdatedAt     time.Time      `json:"updated_at"`
    StoryPoints   *float64       `json:"story_points,omitempty"`
    StatusHistory []StatusChange `json:"status_history,omitempty"`
    Blocks        []string       `json:"blocks,omitempty"`
    BlockedBy     []string       `json:"blocked_by,omitempty"`
}

// Comment carries a zero CreatedAt when the source timestamp could not be
// parsed; consumers treat zero as "no timestamp".
type Comment struct {
    Author    string    `json:"author"`
    CreatedAt time.Time `json:"created_at"`
    Body      string    `json:"body"`
}

const (
    SentimentPositive = "positive"
    SentimentNegative = "negative"
    SentimentNeutral  = "neutral"
)

type SentimentSignal struct {
    Date  time.Time `json:"date"`
    Label string    `json:"sentiment"`
    Score float64   `json:"score"`
}

type SentimentSummary struct {
    Total       int               `json:"total"`
    Positive    int               `json:"positive"`
    Negative    int               `json:"negative"`
    Neutral     int               `json:"neutral"`
    PositivePct float64           `json:"positive_pct"`
    NegativePct float64           `json:"negative_pct"`
    Trend       []SentimentSignal `json:"trend,omitempty"`
}

// BlockerRecord is one comment flagged as indicating impeded work.
// Categories is never empty.
type BlockerRecord struct {
    Author     string    `json:"author"`
    Date       time.Time `json:"date"`
    Snippet    string    `json:"snippet"`
    Categories []string  `json:"categories"`
}

type CapacityEstimate struct {
    EstimatedEffortDays   float64  `json:"estimated_effort_days"`
    Assignee              string   `json:"assignee"`
    Role                  string   `json:"assignee_role"`
    Location              string   `json:"assignee_location,omitempty"`
    BaseDailyCost         float64  `json:"base_daily_cost"`
    AppliedMultipliers    []string `json:"cost_multipliers,omitempty"`
    DailyCost             float64  `json:"daily_cost"`
    TotalEstimatedCost    float64  `json:"total_estimated_cost"`
    TotalCostIfBlocked    float64  `json:"total_cost_if_blocked"`
    DaysLostPerDayBlocked float64  `json:"days_lost_per_day_blocked"`
    OvertimeDetected      bool     `json:"overtime_detected"`
    WeekendDetected       bool     `json:"weekend_detected"`
}

type Timeline struct {
    CreatedAt           time.Time      `json:"created"`
    UpdatedAt           time.Time      `json:"updated"`
    AgeDays             int            `json:"age_days"`
    StaleDays           int            `json:"last_update_days"`
    CurrentStatus       string         `json:"current_status"`
    StatusChanges       []StatusChange `json:"status_changes,omitempty"`
    TimeInCurrentStatus int            `json:"time_in_current_status"`
}

// TrendHint is the one-shot heuristic computed from the current record only,
// distinct from the historical trend direction in TrendSeries.
type TrendHint struct {
    Sentiment string `json:"sentiment_trend"`
    Activity  string `json:"activity_trend"`
    Risk      string `json:"risk_trend"`
}

type Prediction struct {
    CompletionLikelihood string `json:"completion_likelihood"`
    RecommendedAction    string `json:"recommended_action"`
    EscalationNeeded     bool   `json:"escalation_needed"`
}

type Dependencies struct {
    Blocks    []string `json:"blocks"`
    BlockedBy []string `json:"blocked_by"`
}

type TeamBaseline struct {
    AvgAgeDays  float64 `json:"avg_age_days"`
    AvgComments float64 `json:"avg_comments"`
}

// AnalysisRecord is the immutable per-item analysis. Created once per
// invocation and never mutated afterwards.
type AnalysisRecord struct {
    WorkItemKey  string           `json:"issue_key"`
    ProjectKey   string           `json:"project_key"`
    Summary      string           `json:"summary"`
    Status       string           `json:"status"`
    Priority     string           `json:"priority"`
    Assignee     string           `json:"assignee"`
    Sentiment    SentimentSummary `json:"sentiment"`
    Blockers     []BlockerRecord  `json:"blockers"`
    Timeline     Timeline         `json:"timeline"`
    Capacity     CapacityEstimate `json:"capacity"`
    RiskScore    int              `json:"risk_score"`
    TrendHint    TrendHint        `json:"trends"`
    Dependencies Dependencies     `json:"dependencies"`
    SimilarItems []string         `json:"similar_issues"`
    Predictions  Prediction       `json:"predictions"`
    TeamBaseline TeamBaseline     `json:"team_baseline"`
    AnalyzedAt   time.Time        `json:"analyzed_at"`
}

type HighRiskItem struct {
    Key      string `json:"key"`
    Risk     int    `json:"risk"`
    Status   string `json:"status"`
    Assignee string `json:"assignee"`
    Summary  string `json:"summary"`
}

type RollupCounts struct {
    Items        int `json:"issues"`
    Projects     int `json:"projects"`
    Blockers     int `json:"blockers"`
    HighRisk     int `json:"high_risk"`
    MediumRisk   int `json:"medium_risk"`
    LowRisk      int `json:"low_risk"`
    StaleOver5d  int `json:"stale_updates_gt_5d"`
    StaleOver10d int `json:"stale_updates_gt_10d"`
}

type RollupRisk struct {
    Avg          float64  `json:"avg"`
    Max          int      `json:"max"`
    HighRiskKeys []string `json:"high_risk_keys,omitempty"`
}

type RollupCapacity struct {
    TotalDailyCost            float64 `json:"total_daily_cost"`
    TotalPersonDaysLostPerDay float64 `json:"total_person_days_lost_per_day"`
}

// RollupReport is a derived, non-owning view over a set of AnalysisRecords.
// It is recomputed on demand and never persisted as a source of truth.
type RollupReport struct {
    Counts             RollupCounts   `json:"counts"`
    Risk               RollupRisk     `json:"risk"`
    Capacity           RollupCapacity `json:"capacity"`
    BlockersByCategory map[string]int `json:"blockers_by_category"`
    ItemsByProject     map[string]int `json:"issues_by_project"`
    TopHighRisk        []HighRiskItem `json:"top_high_risk"`
}

type ItemError struct {
    Key    string `json:"key"`
    Reason string `json:"reason"`
}

// QuerySpec names one slice of a batch or portfolio run. Label is optional
// and defaults to slice_N in portfolio mode.
type QuerySpec struct {
    Label      string `json:"label"`
    Query      string `json:"jql"`
    MaxResults int    `json:"max_results"`
}

type BatchResult struct {
    Label    string           `json:"label,omitempty"`
    Query    string           `json:"jql,omitempty"`
    ItemKeys []string         `json:"issue_keys"`
    Records  []AnalysisRecord `json:"issues"`
    Errors   []ItemError      `json:"errors"`
    Rollup   RollupReport     `json:"rollup"`
}

type PortfolioResult struct {
    Slices  []BatchResult `json:"slices"`
    Overall BatchResult   `json:"overall"`
}

const (
    TrendImproving        = "improving"
    TrendStable           = "stable"
    TrendDegrading        = "degrading"
    TrendInsufficientData = "insufficient_data"
)

type TrendPoint struct {
    Timestamp    time.Time `json:"timestamp"`
    RiskScore    int       `json:"risk_score"`
    DailyCost    float64   `json:"daily_cost"`
    BlockerCount int       `json:"blocker_count"`
    NegativePct  float64   `json:"sentiment_negative_pct"`
}

// TrendSeries is reconstructed from persisted snapshots, oldest first.
// Direction is derived from the points, never stored independently.
type TrendSeries struct {
    ItemKey    string       `json:"issue_key"`
    ProjectKey string       `json:"project_key"`
    Points     []TrendPoint `json:"data_points"`
    Direction  string       `json:"trend_direction"`
}

// Snapshot is the persisted projection of one AnalysisRecord, keyed by
// (tenant, item key, analyzed-at). Append-only.
type Snapshot struct {
    TenantID           uuid.UUID `json:"tenant_id"`
    ItemKey            string    `json:"issue_key"`
    ProjectKey         string    `json:"project_key"`
    RiskScore          int       `json:"risk_score"`
    DailyCost          float64   `json:"daily_cost"`
    BlockerCount       int       `json:"blocker_count"`
    NegativePct        float64   `json:"sentiment_negative_pct"`
    AgeDays            int       `json:"age_days"`
    Assignee           string    `json:"assignee"`
    Role               string    `json:"assignee_role"`
    TotalEstimatedCost float64   `json:"total_estimated_cost"`
    AnalyzedAt         time.Time `json:"analyzed_at"`
    Payload            []byte    `json:"-"`
}
