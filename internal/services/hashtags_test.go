package services

import (
	"fmt"
	"reflect"
	"testing"
)

func TestGenerateHashtags(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		want     []string
	}{
		{
			name:     "single word",
			keywords: []string{"growth"},
			want:     []string{"#Growth"},
		},
		{
			name:     "multi word becomes camel case",
			keywords: []string{"social media"},
			want:     []string{"#SocialMedia"},
		},
		{
			name:     "punctuation stripped",
			keywords: []string{"go-to market!"},
			want:     []string{"#GotoMarket"},
		},
		{
			name:     "keyword empty after cleaning is skipped",
			keywords: []string{"@@@", "growth"},
			want:     []string{"#Growth"},
		},
		{
			name:     "case of remaining characters preserved",
			keywords: []string{"iPhone tips"},
			want:     []string{"#IPhoneTips"},
		},
		{
			name:     "unicode letters survive",
			keywords: []string{"café culture"},
			want:     []string{"#CaféCulture"},
		},
		{
			name:     "empty input",
			keywords: nil,
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateHashtags(tt.keywords)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GenerateHashtags(%v) = %v, want %v", tt.keywords, got, tt.want)
			}
		})
	}
}

func TestGenerateHashtagsCap(t *testing.T) {
	keywords := make([]string, 20)
	for i := range keywords {
		keywords[i] = fmt.Sprintf("keyword%d", i)
	}
	got := GenerateHashtags(keywords)
	if len(got) != maxHashtags {
		t.Fatalf("expected %d hashtags, got %d", maxHashtags, len(got))
	}
	if got[0] != "#Keyword0" || got[7] != "#Keyword7" {
		t.Errorf("unexpected hashtag order: %v", got)
	}
}
