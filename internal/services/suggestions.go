package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/bytedance/sonic"

	"github.com/contentlab/contentlab/internal/models"
)

// maxSuggestions caps the suggestion list.
const maxSuggestions = 5

type generationParameters struct {
	MaxLength int `json:"max_length"`
	NumBeams  int `json:"num_beams"`
}

type generationRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters generationParameters `json:"parameters"`
	Options    inferenceOptions     `json:"options"`
}

// suggest asks a generative backend for improvement suggestions based on
// the text, its keywords and its sentiment. Backend failure or an empty
// normalization result substitutes a fixed rule-based list.
func (a *Analyzer) suggest(ctx context.Context, text, lang string, keywords []string, sentiment string) []string {
	req := generationRequest{
		Inputs:     buildSuggestionPrompt(text, lang, keywords, sentiment),
		Parameters: generationParameters{MaxLength: 120, NumBeams: 3},
		Options:    inferenceOptions{WaitForModel: true},
	}
	raw, err := a.gateway.Invoke(ctx, a.config.SuggestionModel, req, "")
	if err != nil {
		slog.Warn("Suggestion facet failed, using rule-based fallback.", "error", err)
		return fallbackSuggestions(sentiment)
	}
	suggestions := normalizeSuggestions(raw)
	if len(suggestions) == 0 {
		slog.Warn("Suggestion backend returned no usable text, using rule-based fallback.")
		return fallbackSuggestions(sentiment)
	}
	return suggestions
}

func buildSuggestionPrompt(text, lang string, keywords []string, sentiment string) string {
	topKeywords := keywords
	if len(topKeywords) > 10 {
		topKeywords = topKeywords[:10]
	}
	keywordList := strings.Join(topKeywords, ", ")
	if keywordList == "" {
		keywordList = "none"
	}
	return fmt.Sprintf(`You are a helpful assistant that gives short actionable suggestions (2-4 bullets) to improve the given content for social media. Language: %s.
Content:
"""%s"""

Detected keywords: %s.
Detected sentiment: %s.

Give 3 short suggestions, each as a single sentence.`, lang, text, keywordList, sentiment)
}

// normalizeSuggestions pulls generated text out of the known response
// shapes (array of objects with generated_text, object with generated_text,
// bare string, array of bare strings) and splits it into discrete
// suggestions. An unmatched shape yields nil, which the caller turns into
// the rule-based fallback.
func normalizeSuggestions(raw []byte) []string {
	var decoded any
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return nil
	}

	var generated string
	switch v := decoded.(type) {
	case string:
		generated = v
	case []any:
		if len(v) > 0 {
			switch first := v[0].(type) {
			case string:
				generated = first
			case map[string]any:
				if s, ok := first["generated_text"].(string); ok {
					generated = s
				}
			}
		}
	case map[string]any:
		if s, ok := v["generated_text"].(string); ok {
			generated = s
		}
	}

	generated = strings.TrimSpace(generated)
	if generated == "" {
		return nil
	}
	return splitSuggestions(generated)
}

// splitSuggestions breaks generated text into individual suggestions by
// newline when present, otherwise at sentence boundaries (a ., ? or !
// followed by whitespace). Empties are dropped and the list is capped.
func splitSuggestions(text string) []string {
	var parts []string
	if strings.Contains(text, "\n") {
		parts = strings.Split(text, "\n")
	} else {
		parts = splitSentences(text)
	}

	out := make([]string, 0, maxSuggestions)
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if (r == '.' || r == '?' || r == '!') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			sentences = append(sentences, string(runes[start:i+1]))
			// Skip the whitespace run separating sentences.
			j := i + 1
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			start = j
			i = j - 1
		}
	}
	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}

// fallbackSuggestions is the fixed rule-based list; the third entry softens
// the tone for negative content and nudges engagement otherwise.
func fallbackSuggestions(sentiment string) []string {
	third := "Add an engaging question to invite comments."
	if sentiment == models.SentimentNegative {
		third = "Soften the tone and highlight benefits."
	}
	return []string{
		"Consider shortening the content to one clear message.",
		"Add 2-3 relevant hashtags to increase reach.",
		third,
	}
}
