package toc

import "testing"

func TestSlug(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Getting Started", "getting-started"},
		{"FAQ & Tips!", "faq-tips"},
		{"  Padded   Title  ", "padded-title"},
		{"snake_case and-hyphen", "snake_case-and-hyphen"},
		{"Version 2.0 (beta)", "version-20-beta"},
		{"", ""},
		{"!!!", ""},
		{"目录", ""},
		{"Tabs\tand\nnewlines", "tabs-and-newlines"},
	}
	for _, tt := range tests {
		if got := Slug(tt.input); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSlugDeterministic(t *testing.T) {
	in := "Configuration Reference"
	first := Slug(in)
	for i := 0; i < 5; i++ {
		if got := Slug(in); got != first {
			t.Fatalf("Slug is not deterministic: %q then %q", first, got)
		}
	}
}

func TestSluggerFor(t *testing.T) {
	if got := SluggerFor(SlugBasic)("FAQ & Tips!"); got != "faq-tips" {
		t.Errorf("basic slugger = %q, want faq-tips", got)
	}
	if got := SluggerFor("unknown")("Getting Started"); got != "getting-started" {
		t.Errorf("fallback slugger = %q, want getting-started", got)
	}
	if got := SluggerFor(SlugTranslit)("Война и мир"); got == "" {
		t.Error("translit slugger returned an empty anchor for Cyrillic text")
	}
}
