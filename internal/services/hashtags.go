package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxHashtags caps the hashtag list.
const maxHashtags = 8

// GenerateHashtags derives hashtags from keywords, deterministically and in
// order: strip punctuation, title-case each word and concatenate, prefix
// with '#'. Keywords that clean down to nothing are skipped. Duplicates are
// not filtered here; the keyword facet already deduplicates upstream.
func GenerateHashtags(keywords []string) []string {
	tags := make([]string, 0, maxHashtags)
	for _, kw := range keywords {
		cleaned := strings.TrimSpace(stripPunctuation(kw))
		if cleaned == "" {
			continue
		}
		var b strings.Builder
		b.WriteByte('#')
		for _, part := range strings.Fields(cleaned) {
			b.WriteString(titleCase(part))
		}
		tags = append(tags, b.String())
		if len(tags) == maxHashtags {
			break
		}
	}
	return tags
}

// stripPunctuation removes every rune that is not a letter, digit or
// whitespace. Unicode-aware, so accented words survive cleaning.
func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}

// titleCase capitalizes the first rune and preserves the rest.
func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
