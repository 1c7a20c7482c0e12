package models

// Sentiment labels. Sentiment always resolves to one of these; unknown or
// missing backend output collapses to SentimentNeutral.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// AnalysisRequest is the input for the analyze-text endpoint.
type AnalysisRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// AnalysisResult bundles the outputs of all analysis facets. Every field is
// populated even under backend failure: summary may be empty, the list
// fields fall back to locally computed values, and sentiment defaults to
// neutral.
type AnalysisResult struct {
	Summary     string   `json:"summary"`
	Sentiment   string   `json:"sentiment"`
	Keywords    []string `json:"keywords"`
	Hashtags    []string `json:"hashtags"`
	Suggestions []string `json:"suggestions"`
}

// ErrorResponse is the JSON error envelope returned by all endpoints.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
