package services

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/contentlab/contentlab/internal/config"
	"github.com/contentlab/contentlab/internal/models"
)

// Invoker delivers a payload to a model backend and returns its raw JSON
// response. Implemented by inference.Gateway.
type Invoker interface {
	Invoke(ctx context.Context, modelID string, payload any, contentType string) ([]byte, error)
}

// AnalyzerConfig names the backend model for each analysis facet.
type AnalyzerConfig struct {
	SummaryModel    string
	SentimentModel  string
	KeywordModel    string
	SuggestionModel string
}

// LoadAnalyzerConfig reads facet model ids from the environment, defaulting
// to the public Hugging Face models each facet was built against.
func LoadAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		SummaryModel:    config.GetEnv("SUMMARY_MODEL", "facebook/mbart-large-50-many-to-many-mmt"),
		SentimentModel:  config.GetEnv("SENTIMENT_MODEL", "nlptown/bert-base-multilingual-uncased-sentiment"),
		KeywordModel:    config.GetEnv("KEYWORD_MODEL", "ml6team/keyphrase-extraction-distilbert-inspec"),
		SuggestionModel: config.GetEnv("SUGGESTION_MODEL", "facebook/blenderbot_small-90M"),
	}
}

// Analyzer runs the four analysis facets over a text blob. Each facet is
// fault isolated: a failing backend degrades that facet to its local
// fallback and never aborts the request.
type Analyzer struct {
	gateway Invoker
	config  AnalyzerConfig
}

// NewAnalyzer creates an Analyzer using the given inference gateway.
func NewAnalyzer(gateway Invoker, cfg AnalyzerConfig) *Analyzer {
	return &Analyzer{gateway: gateway, config: cfg}
}

// Analyze produces a complete AnalysisResult for the text. Keywords and
// sentiment must resolve before suggestions, which consumes both; the
// summary has no dependencies and runs concurrently with that chain.
// Empty or whitespace-only text is a validation failure.
func (a *Analyzer) Analyze(ctx context.Context, text, language string) (*models.AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Reason: "No text provided"}
	}
	lang := normalizeLang(language)

	var (
		summary     string
		sentiment   string
		keywords    []string
		suggestions []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary = a.summarize(gctx, text, lang)
		return nil
	})
	g.Go(func() error {
		sentiment = a.classifySentiment(gctx, text)
		keywords = a.extractKeywords(gctx, text)
		suggestions = a.suggest(gctx, text, lang, keywords, sentiment)
		return nil
	})
	// Facets swallow their own failures, so the group never returns an error.
	_ = g.Wait()

	return &models.AnalysisResult{
		Summary:     summary,
		Sentiment:   sentiment,
		Keywords:    keywords,
		Hashtags:    GenerateHashtags(keywords),
		Suggestions: suggestions,
	}, nil
}

// inferenceOptions mirrors the backend's execution options envelope.
type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}
