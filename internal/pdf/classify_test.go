package pdf

import "testing"

func TestIsScanned(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", true},
		{"four chars", "abcd", true},
		{"five chars", "abcde", false},
		{"long text", "This page clearly has an embedded text layer.", false},
		{"five unicode runes", "héllo", false},
		{"four unicode runes", "héll", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsScanned(tt.text); got != tt.want {
				t.Errorf("IsScanned(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
