package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bytedance/sonic"
)

// mbartLangTags maps the API's simple language codes to the language tokens
// the summarization model expects. Unknown codes fall back to English.
var mbartLangTags = map[string]string{
	"eng": "en_XX",
	"hin": "hi_IN",
	"spa": "es_XX",
	"fra": "fr_XX",
	"por": "pt_XX",
}

func mbartTag(lang string) string {
	if tag, ok := mbartLangTags[lang]; ok {
		return tag
	}
	return "en_XX"
}

type summaryParameters struct {
	MaxLength int `json:"max_length"`
	MinLength int `json:"min_length"`
	NumBeams  int `json:"num_beams"`
	// TargetLang is best effort: not every backend deployment honors it,
	// so the summary may come back in the source language.
	TargetLang string `json:"target_lang"`
}

type summaryRequest struct {
	Inputs     string            `json:"inputs"`
	Parameters summaryParameters `json:"parameters"`
	Options    inferenceOptions  `json:"options"`
}

// summarize produces a short summary of the text, or the empty string when
// the backend fails. Summarization failure never fails the request.
func (a *Analyzer) summarize(ctx context.Context, text, lang string) string {
	req := summaryRequest{
		Inputs: text,
		Parameters: summaryParameters{
			MaxLength:  120,
			MinLength:  20,
			NumBeams:   4,
			TargetLang: mbartTag(lang),
		},
		Options: inferenceOptions{WaitForModel: true},
	}
	raw, err := a.gateway.Invoke(ctx, a.config.SummaryModel, req, "")
	if err != nil {
		slog.Warn("Summarization facet failed, returning empty summary.", "error", err)
		return ""
	}
	return normalizeSummary(raw)
}

// summaryDumpLimit bounds the stringified-response fallback so the summary
// field is never unbounded garbage.
const summaryDumpLimit = 300

// normalizeSummary extracts a summary string from the shapes the backend is
// known to return: an array of objects with a summary_text field, a bare
// string, an array of bare strings, or an object with summary_text. Any
// other shape degrades to a truncated dump of the raw response.
func normalizeSummary(raw []byte) string {
	var decoded any
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return truncateRunes(string(raw), summaryDumpLimit)
	}

	switch v := decoded.(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		if len(v) > 0 {
			switch first := v[0].(type) {
			case string:
				return strings.TrimSpace(first)
			case map[string]any:
				if s, ok := first["summary_text"].(string); ok {
					return strings.TrimSpace(s)
				}
			}
		}
	case map[string]any:
		if s, ok := v["summary_text"].(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return strings.TrimSpace(truncateRunes(string(raw), summaryDumpLimit))
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
