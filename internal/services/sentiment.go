package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/contentlab/contentlab/internal/models"
)

// sentimentScore is one label/confidence pair from the star-rating backend,
// which returns them most-confident first.
type sentimentScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// classifySentiment labels the text positive, neutral or negative. The
// backend receives the raw text and answers with star-rating labels; any
// failure or unrecognized shape resolves to neutral.
func (a *Analyzer) classifySentiment(ctx context.Context, text string) string {
	raw, err := a.gateway.Invoke(ctx, a.config.SentimentModel, text, "")
	if err != nil {
		slog.Warn("Sentiment facet failed, defaulting to neutral.", "error", err)
		return models.SentimentNeutral
	}
	return normalizeSentiment(raw)
}

// normalizeSentiment collapses the top star-rating label to a 3-way label:
// 1-2 stars negative, 3 stars neutral, 4-5 stars positive. The 5-to-3
// mapping is lossy on purpose and must stay stable for compatibility.
func normalizeSentiment(raw []byte) string {
	var ranked []sentimentScore
	if err := sonic.Unmarshal(raw, &ranked); err != nil || len(ranked) == 0 {
		return models.SentimentNeutral
	}
	label := strings.ToLower(ranked[0].Label)
	switch {
	case strings.ContainsAny(label, "12"):
		return models.SentimentNegative
	case strings.Contains(label, "3"):
		return models.SentimentNeutral
	case strings.ContainsAny(label, "45"):
		return models.SentimentPositive
	default:
		return models.SentimentNeutral
	}
}
