package main

import (
	"image/color"
	"testing"
)

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		limit    int
		expected string
	}{
		{"Short", "page01.png", 20, "page01.png"},
		{"Exact", "page01.png", 10, "page01.png"},
		{"Cut", "a-very-long-file-name.png", 10, "a-very-..."},
		{"Tiny limit keeps everything", "page01.png", 3, "page01.png"},
		{"Multibyte", "日本語のファイル名.png", 8, "日本語のフ..."},
		{"Combining accents", "e\u0301e\u0301e\u0301e\u0301e\u0301", 4, "e\u0301..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateLabel(tt.in, tt.limit); got != tt.expected {
				t.Errorf("truncateLabel(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.expected)
			}
		})
	}
}

func TestFadeColor(t *testing.T) {
	tests := []struct {
		alpha    float64
		expected color.RGBA
	}{
		{1, color.RGBA{200, 100, 50, 255}},
		{0, color.RGBA{}},
		{-1, color.RGBA{}},
		{0.5, color.RGBA{100, 50, 25, 127}},
	}

	for _, tt := range tests {
		if got := fadeColor(color.RGBA{200, 100, 50, 255}, tt.alpha); got != tt.expected {
			t.Errorf("fadeColor(alpha=%v) = %v, want %v", tt.alpha, got, tt.expected)
		}
	}
}
