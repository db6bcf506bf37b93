package main

import (
	"regexp"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"basic", "Hello World", "hello-world"},
		{"special chars", "Title: With & Special!", "title-with-special"},
		{"unicode", "Café & Naïve", "caf-nave"},
		{"numbers", "React 18.2 Guide", "react-182-guide"},
		{"hyphen trimming", "---start---", "start"},
		{"collapsed dashes", "a -- b", "a-b"},
		{"tabs and newlines", "one\ttwo\nthree", "one-two-three"},
		{"empty", "", "article"},
		{"only punctuation", "!!!", "article"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSlugifyIsStable(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	inputs := []string{
		"Hello World", "  Leading and trailing  ", "UPPER case", "Content Strategy",
		"emoji 🚀 launch", "a--b", "-", "Q&A: What's next?", "2026",
	}

	for _, in := range inputs {
		once := Slugify(in)
		if !valid.MatchString(once) {
			t.Errorf("Slugify(%q) = %q, not a valid slug", in, once)
		}
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeArticleURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/articles/tech/foo/", "/articles/tech/foo/"},
		{"articles/tech/foo", "/articles/tech/foo/"},
		{"https://kevinsundstrom.com/articles/tech/foo/", "/articles/tech/foo/"},
		{"https://kevinsundstrom.com/articles/tech/foo?ref=x#top", "/articles/tech/foo/"},
		{"https://kevinsundstrom.com", "/"},
		{"", "/"},
	}

	for _, tt := range tests {
		if got := normalizeArticleURL(tt.input); got != tt.expected {
			t.Errorf("normalizeArticleURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSplitArticlePath(t *testing.T) {
	cat, slug, ok := splitArticlePath("https://kevinsundstrom.com/articles/design/color-theory/")
	if !ok || cat != "design" || slug != "color-theory" {
		t.Errorf("splitArticlePath = %q, %q, %v", cat, slug, ok)
	}

	for _, bad := range []string{"/articles/design/", "/blog/design/x/", "/articles/a/b/c/"} {
		if _, _, ok := splitArticlePath(bad); ok {
			t.Errorf("splitArticlePath(%q) should fail", bad)
		}
	}
}
