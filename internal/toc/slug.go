package toc

import (
	"strings"
	"unicode"

	"github.com/gosimple/slug"
)

// Slugger derives an anchor id from heading text.
type Slugger func(text string) string

// Slug style names accepted by SluggerFor.
const (
	SlugBasic    = "basic"
	SlugTranslit = "translit"
)

// Slug lowercases text, drops everything that is not an ASCII word character,
// a hyphen or whitespace, and joins the remaining whitespace-separated runs
// with a single hyphen.
//
//	"Getting Started" -> "getting-started"
//	"FAQ & Tips!"     -> "faq-tips"
func Slug(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))

	var b strings.Builder
	b.Grow(len(text))
	gap := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			gap = true
		case isWordRune(r) || r == '-':
			if gap && b.Len() > 0 {
				b.WriteByte('-')
			}
			gap = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TranslitSlug transliterates non-ASCII text before slugging, so headings in
// Cyrillic or CJK scripts still get readable anchors.
func TranslitSlug(text string) string {
	return slug.Make(strings.TrimSpace(text))
}

// SluggerFor returns the slugger registered under name. Unknown names fall
// back to Slug.
func SluggerFor(name string) Slugger {
	switch name {
	case SlugTranslit:
		return TranslitSlug
	default:
		return Slug
	}
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
