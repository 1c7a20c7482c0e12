package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/bytedance/sonic"
)

const (
	// maxKeywords caps the normalized backend keyword list.
	maxKeywords = 12
	// maxFallbackKeywords caps the local frequency fallback.
	maxFallbackKeywords = 8
	// minTokenRunes: fallback tokens this short or shorter are discarded.
	minTokenRunes = 3
)

type keywordRequest struct {
	Inputs string `json:"inputs"`
}

// extractKeywords asks the keyphrase backend for keywords. Both failure
// modes, a backend error and a response with zero usable keywords, route
// through the same local frequency fallback.
func (a *Analyzer) extractKeywords(ctx context.Context, text string) []string {
	raw, err := a.gateway.Invoke(ctx, a.config.KeywordModel, keywordRequest{Inputs: text}, "")
	if err != nil {
		slog.Warn("Keyword facet failed, using local fallback.", "error", err)
		return fallbackKeywords(text, maxFallbackKeywords)
	}
	keywords := normalizeKeywords(raw)
	if len(keywords) == 0 {
		slog.Warn("Keyword backend returned no usable keywords, using local fallback.")
		return fallbackKeywords(text, maxFallbackKeywords)
	}
	return keywords
}

// normalizeKeywords extracts keyword strings from the backend response. The
// response is an array whose elements are either bare strings or objects
// exposing one of several known field names, probed in priority order.
// Results are deduplicated by exact string equality and capped.
func normalizeKeywords(raw []byte) []string {
	var decoded any
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return nil
	}
	items, ok := decoded.([]any)
	if !ok {
		return nil
	}

	seen := make(map[string]struct{})
	out := make([]string, 0, maxKeywords)
	for _, item := range items {
		var kw string
		switch v := item.(type) {
		case string:
			kw = v
		case map[string]any:
			for _, field := range []string{"keyphrase", "word", "label", "value"} {
				if s, ok := v[field].(string); ok {
					kw = s
					break
				}
			}
		}
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}

// fallbackKeywords is the deterministic local algorithm: lowercase, strip
// everything but letters, digits and whitespace, tokenize, drop short
// tokens, rank by descending frequency with ties broken by first
// appearance.
func fallbackKeywords(text string, limit int) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	freq := make(map[string]int)
	var order []string
	for _, token := range strings.Fields(cleaned) {
		if len([]rune(token)) <= minTokenRunes {
			continue
		}
		if _, ok := freq[token]; !ok {
			order = append(order, token)
		}
		freq[token]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}
