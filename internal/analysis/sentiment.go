/* Copyright (c) 2025 Pratap Yeragudipati
 * SPDX-License-Identifier: BSD-3-Clause */
package analysis

import (
    "context"
    "strings"

    "github.com/ypratap11/consilo-saas/internal/domain"
)

// Classifier labels a piece of text as positive/negative/neutral with a
// confidence score in [0,1].
type Classifier interface {
    Classify(ctx context.Context, text string) (label string, score float64, err error)
}

// MaxClassifierInput bounds the text handed to the classifier; longer
// comments are head-truncated.
const MaxClassifierInput = 512

func truncate(text string) string {
    r := []rune(text)
    if len(r) <= MaxClassifierInput { return text }
    return string(r[:MaxClassifierInput])
}

// SummarizeSentiment classifies each comment and aggregates the labels.
// The adapter fails closed: a classifier error or an unrecognized label
// counts the comment as neutral and emits no trend entry. Zero comments
// yield an all-zero summary.
func SummarizeSentiment(ctx context.Context, cls Classifier, comments []domain.Comment) domain.SentimentSummary {
    var s domain.SentimentSummary
    if len(comments) == 0 { return s }

    for _, c := range comments {
        label := domain.SentimentNeutral
        score := 0.0
        if cls != nil {
            if l, sc, err := cls.Classify(ctx, truncate(c.Body)); err == nil {
                switch strings.ToLower(l) {
                case domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral:
                    label, score = strings.ToLower(l), sc
                    s.Trend = append(s.Trend, domain.SentimentSignal{Date: c.CreatedAt, Label: label, Score: score})
                }
            }
        }
        switch label {
        case domain.SentimentPositive:
            s.Positive++
        case domain.SentimentNegative:
            s.Negative++
        default:
            s.Neutral++
        }
        s.Total++
    }

    s.PositivePct = float64(s.Positive) / float64(s.Total) * 100
    s.NegativePct = float64(s.Negative) / float64(s.Total) * 100
    return s
}
