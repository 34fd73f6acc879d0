package site

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/multierr"

	"github.com/sitetoc/sitetoc/internal/db"
	"github.com/sitetoc/sitetoc/internal/toc"
	"github.com/sitetoc/sitetoc/internal/tracker"
)

func TestBuildTree(t *testing.T) {
	paths := []string{
		"index.md",
		"guide/setup.md",
		"guide/advanced.md",
		"reference/api/client.md",
	}

	tree := BuildTree(paths, map[string]string{"guide/setup.md": "Setting Up"})

	if tree.Name != "docs" || !tree.IsDir {
		t.Fatalf("unexpected root: %+v", tree)
	}
	// Directories first (guide, reference), then index.md.
	if len(tree.Children) != 3 {
		t.Fatalf("root children = %d, want 3", len(tree.Children))
	}
	if tree.Children[0].Name != "guide" || !tree.Children[0].IsDir {
		t.Errorf("first child = %q, want guide dir", tree.Children[0].Name)
	}
	if tree.Children[2].Name != "index.md" || tree.Children[2].IsDir {
		t.Errorf("third child = %q, want index.md file", tree.Children[2].Name)
	}

	guide := tree.Children[0]
	if guide.Children[0].Name != "advanced.md" || guide.Children[1].Title != "Setting Up" {
		t.Errorf("guide children not sorted or titled: %+v %+v", guide.Children[0], guide.Children[1])
	}
	if tree.Children[1].Children[0].Path != "reference/api" {
		t.Errorf("nested dir path = %q, want reference/api", tree.Children[1].Children[0].Path)
	}
}

func TestTreeToHTML(t *testing.T) {
	tree := BuildTree([]string{"index.md", "guide/setup.md", "guide/a&b.md"}, map[string]string{"guide/setup.md": "Set <up>"})
	out := tree.ToHTML("guide/setup.md", "../")

	for _, want := range []string{
		`<a href="../index.html">Home</a>`,
		`<li class="dir expanded"><span class="dir-toggle">Guide</span>`,
		`<a href="../guide/setup.html" class="active">Set &lt;up&gt;</a>`,
		`a&amp;b`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("tree HTML missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDirName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"getting-started", "Getting Started"},
		{"api_reference", "Api Reference"},
		{"guide", "Guide"},
	}
	for _, tt := range tests {
		if got := formatDirName(tt.in); got != tt.want {
			t.Errorf("formatDirName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractTitle(t *testing.T) {
	if got := extractTitle("intro\n# My Page\n## Sub", "x.md"); got != "My Page" {
		t.Errorf("extractTitle = %q, want My Page", got)
	}
	if got := extractTitle("no heading", "guide/setup.md"); got != "setup" {
		t.Errorf("extractTitle fallback = %q, want setup", got)
	}
}

func TestSplitFrontMatter(t *testing.T) {
	fm, body, err := splitFrontMatter([]byte("---\ntitle: Custom\ntoc: false\n---\n# Heading\n"))
	if err != nil {
		t.Fatalf("splitFrontMatter: %v", err)
	}
	if fm.Title != "Custom" || fm.tocEnabled() {
		t.Errorf("unexpected front matter: %+v", fm)
	}
	if string(body) != "# Heading\n" {
		t.Errorf("body = %q", body)
	}

	fm, body, err = splitFrontMatter([]byte("# Plain\n---\n"))
	if err != nil || fm.Title != "" || !fm.tocEnabled() || string(body) != "# Plain\n---\n" {
		t.Errorf("plain source altered: fm=%+v body=%q err=%v", fm, body, err)
	}

	if _, _, err := splitFrontMatter([]byte("---\ntitle: [oops\n---\n")); err == nil {
		t.Error("expected error for malformed front matter")
	}
}

func TestSelected(t *testing.T) {
	include := []string{"**/*.md"}
	exclude := []string{"drafts/**", "_*.md"}
	tests := []struct {
		path string
		want bool
	}{
		{"index.md", true},
		{"guide/setup.md", true},
		{"drafts/wip.md", false},
		{"guide/_partial.md", false},
		{"notes.txt", false},
	}
	for _, tt := range tests {
		if got := selected(tt.path, include, exclude); got != tt.want {
			t.Errorf("selected(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	body := []byte("# Title\n\n```go\ncode\n```\n- item\n\nFirst real paragraph.\nSecond.\n")
	if got := summarize(body); got != "First real paragraph." {
		t.Errorf("summarize = %q", got)
	}
}

func TestRewriteMDLinks(t *testing.T) {
	in := `<a href="guide/setup.md">x</a><a href="api.md#client">y</a>`
	want := `<a href="guide/setup.html">x</a><a href="api.html#client">y</a>`
	if got := rewriteMDLinks(in); got != want {
		t.Errorf("rewriteMDLinks = %q, want %q", got, want)
	}
}

func TestFullSiteGeneration(t *testing.T) {
	docsDir := t.TempDir()
	outputDir := t.TempDir()

	writeTestFile(t, filepath.Join(docsDir, "index.md"), `# Test Project

Welcome to the documentation.

## Getting Started

Check the files below.

### FAQ & Tips!

## Install {#setup}
`)
	writeTestFile(t, filepath.Join(docsDir, "guide", "setup.md"), `# Setup

Nothing to see.

`+"```go\nfunc main() {}\n```\n")
	writeTestFile(t, filepath.Join(docsDir, "plain.md"), "---\ntitle: Plain Page\ntoc: false\n---\n## Hidden Section\n")
	writeTestFile(t, filepath.Join(docsDir, "drafts", "wip.md"), "# WIP\n## Draft\n")
	writeTestFile(t, filepath.Join(docsDir, "legacy", "old.html"),
		`<html><body><main><h2>Legacy Notes</h2></main><div id="toc-sidebar"></div></body></html>`)

	store, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer store.Close()

	gen := NewSiteGenerator(docsDir, outputDir, "test-project", toc.NewBuilder(toc.DefaultOptions()))
	gen.Exclude = []string{"drafts/**"}
	gen.Store = store

	pageCount, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if pageCount != 4 {
		t.Errorf("pageCount = %d, want 4", pageCount)
	}

	for _, f := range []string{"index.html", "style.css", "toc.js", "search-index.json", "guide/setup.html", "plain.html", "legacy/old.html"} {
		if _, err := os.Stat(filepath.Join(outputDir, filepath.FromSlash(f))); os.IsNotExist(err) {
			t.Errorf("expected file %s does not exist", f)
		}
	}
	if _, err := os.Stat(filepath.Join(outputDir, "drafts", "wip.html")); !os.IsNotExist(err) {
		t.Error("excluded draft was rendered")
	}

	index := readFile(t, filepath.Join(outputDir, "index.html"))
	for _, want := range []string{
		`<h2 id="getting-started" data-toc-index="0">Getting Started</h2>`,
		`<h3 id="faq-tips" data-toc-index="1">FAQ &amp; Tips!</h3>`,
		`<h2 id="setup" data-toc-index="2">Install</h2>`,
		`<aside class="toc-sidebar" id="toc-sidebar"><div class="toc-container"><h3>目录</h3><ul class="toc">`,
		`<li class="toc-level1"><a href="#getting-started">Getting Started</a></li>`,
		`<li class="toc-level2"><a href="#faq-tips">FAQ &amp; Tips!</a></li>`,
		`<li class="toc-level1"><a href="#setup">Install</a></li>`,
		`data-page="index.html"`,
		`<script src="toc.js">`,
	} {
		if !strings.Contains(index, want) {
			t.Errorf("index.html missing %q", want)
		}
	}
	if strings.Contains(index, `href="#test-project"`) {
		t.Error("h1 should not appear in the TOC")
	}

	// A page whose only heading is the h1 gets no TOC container.
	setup := readFile(t, filepath.Join(outputDir, "guide", "setup.html"))
	if strings.Contains(setup, "toc-container") {
		t.Error("guide/setup.html has no h2-h6 headings and should have no TOC")
	}
	if !strings.Contains(setup, `../style.css`) {
		t.Error("nested page should reference ../style.css")
	}

	plain := readFile(t, filepath.Join(outputDir, "plain.html"))
	if strings.Contains(plain, "toc-container") {
		t.Error("toc: false page received a TOC")
	}
	if !strings.Contains(plain, "<title>Plain Page") {
		t.Error("front matter title not used")
	}

	legacy := readFile(t, filepath.Join(outputDir, "legacy", "old.html"))
	if !strings.Contains(legacy, `<a href="#legacy-notes">Legacy Notes</a>`) {
		t.Error("standalone HTML page did not get a TOC")
	}

	var entries []SearchEntry
	if err := json.Unmarshal([]byte(readFile(t, filepath.Join(outputDir, "search-index.json"))), &entries); err != nil {
		t.Fatalf("parsing search-index.json: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("search entries = %d, want 3", len(entries))
	}

	outline, err := store.Page(context.Background(), "index.html")
	if err != nil {
		t.Fatalf("store.Page: %v", err)
	}
	if len(outline.TOC.Entries) != 3 || outline.TOC.Entries[2].ID != "setup" {
		t.Errorf("unexpected stored outline: %+v", outline.TOC.Entries)
	}
	if _, err := store.Page(context.Background(), "legacy/old.html"); err != nil {
		t.Errorf("standalone page outline not recorded: %v", err)
	}
}

func TestTrackerSettingsInPage(t *testing.T) {
	docsDir := t.TempDir()
	outputDir := t.TempDir()
	writeTestFile(t, filepath.Join(docsDir, "index.md"), "# Index\n## Example\n## Details\n## Example\n")

	gen := NewSiteGenerator(docsDir, outputDir, "test", nil)
	gen.Tracker = tracker.Options{
		ScrollOffset: 200,
		ClickOffset:  80,
		Delay:        50 * time.Millisecond,
		InitialDelay: 25 * time.Millisecond,
	}
	if _, err := gen.Generate(context.Background()); err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	index := readFile(t, filepath.Join(outputDir, "index.html"))
	for _, want := range []string{
		`data-scroll-offset="200" data-click-offset="80" data-delay="50" data-initial-delay="25"`,
		`<h2 id="example" data-toc-index="0">Example</h2>`,
		`<h2 id="details" data-toc-index="1">Details</h2>`,
		`<h2 id="example" data-toc-index="2">Example</h2>`,
	} {
		if !strings.Contains(index, want) {
			t.Errorf("index.html missing %q", want)
		}
	}

	script := readFile(t, filepath.Join(outputDir, "toc.js"))
	for _, want := range []string{`[data-toc-index="`, "startLocal", `"data-scroll-offset"`, `addEventListener("close", startLocal)`} {
		if !strings.Contains(script, want) {
			t.Errorf("toc.js missing %q", want)
		}
	}
}

func TestGenerateNoFiles(t *testing.T) {
	gen := NewSiteGenerator(t.TempDir(), t.TempDir(), "test", nil)
	_, err := gen.Generate(context.Background())
	if err == nil {
		t.Fatal("Generate should fail with no markdown files")
	}
	if !strings.Contains(err.Error(), "no markdown files") {
		t.Errorf("error = %q, want it to mention no markdown files", err.Error())
	}
}

func TestGenerateContinuesPastBrokenPage(t *testing.T) {
	docsDir := t.TempDir()
	outputDir := t.TempDir()
	writeTestFile(t, filepath.Join(docsDir, "good.md"), "# Good\n## Section\n")
	writeTestFile(t, filepath.Join(docsDir, "bad.md"), "---\ntitle: [oops\n---\n# Bad\n")

	gen := NewSiteGenerator(docsDir, outputDir, "test", nil)
	count, err := gen.Generate(context.Background())
	if err == nil {
		t.Fatal("expected an error for the broken page")
	}
	if n := len(multierr.Errors(err)); n != 1 {
		t.Errorf("errors = %d, want 1: %v", n, err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if !strings.Contains(readFile(t, filepath.Join(outputDir, "good.html")), `href="#section"`) {
		t.Error("good page was not built")
	}
}

func TestMDLinksInGeneratedHTML(t *testing.T) {
	docsDir := t.TempDir()
	outputDir := t.TempDir()

	writeTestFile(t, filepath.Join(docsDir, "index.md"), "# Index\n\n[Go to setup](guide/setup.md)")
	writeTestFile(t, filepath.Join(docsDir, "guide", "setup.md"), "# Setup\n\nSetup steps.")

	gen := NewSiteGenerator(docsDir, outputDir, "test", nil)
	if _, err := gen.Generate(context.Background()); err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	indexHTML := readFile(t, filepath.Join(outputDir, "index.html"))
	if strings.Contains(indexHTML, ".md\"") || strings.Contains(indexHTML, ".md#") {
		t.Error("generated HTML should not contain .md links (should be .html)")
	}
	if !strings.Contains(indexHTML, "guide/setup.html") {
		t.Error("generated HTML should contain .html links")
	}
}

// writeTestFile is a helper that creates a file with intermediate directories.
func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
