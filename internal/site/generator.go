package site

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/sitetoc/sitetoc/internal/db"
	"github.com/sitetoc/sitetoc/internal/progress"
	"github.com/sitetoc/sitetoc/internal/toc"
	"github.com/sitetoc/sitetoc/internal/tracker"
)

// SiteGenerator converts markdown documentation into a static HTML site
// whose pages carry a generated table of contents.
type SiteGenerator struct {
	DocsDir     string
	OutputDir   string
	ProjectName string
	Include     []string
	Exclude     []string

	Builder  *toc.Builder
	Tracker  tracker.Options // offsets and delays for the in-page fallback tracker
	Store    *db.DB          // optional outline index
	Reporter progress.Reporter
	Log      *zap.Logger
}

// NewSiteGenerator creates a SiteGenerator with the given directories.
func NewSiteGenerator(docsDir, outputDir, projectName string, builder *toc.Builder) *SiteGenerator {
	return &SiteGenerator{
		DocsDir:     docsDir,
		OutputDir:   outputDir,
		ProjectName: projectName,
		Include:     []string{"**/*.md"},
		Builder:     builder,
		Tracker:     tracker.DefaultOptions(),
		Reporter:    progress.Nop{},
		Log:         zap.NewNop(),
	}
}

// pageData holds the data passed to the HTML template for each page.
type pageData struct {
	Title       string
	ProjectName string
	Content     template.HTML
	TreeHTML    template.HTML
	BasePath    string
	PagePath    string
	SidebarID   string

	ScrollOffset float64
	ClickOffset  float64
	Delay        int64 // milliseconds
	InitialDelay int64 // milliseconds
}

// source is a markdown page after front matter has been split off.
type source struct {
	relPath string
	title   string
	fm      frontMatter
	body    []byte
}

// Generate builds the full static site. It returns the number of pages
// written. A page that fails to render does not stop the build; all page
// errors are returned together.
func (g *SiteGenerator) Generate(ctx context.Context) (int, error) {
	if g.Builder == nil {
		g.Builder = toc.NewBuilder(toc.DefaultOptions())
	}

	mdPaths, err := g.collect(".md")
	if err != nil {
		return 0, fmt.Errorf("walking docs dir: %w", err)
	}
	if len(mdPaths) == 0 {
		return 0, fmt.Errorf("no markdown files found in %s", g.DocsDir)
	}

	var errs error
	sources := make([]source, 0, len(mdPaths))
	titles := make(map[string]string, len(mdPaths))
	for _, relPath := range mdPaths {
		src, err := g.load(relPath)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("reading %s: %w", relPath, err))
			continue
		}
		sources = append(sources, src)
		titles[relPath] = src.title
	}

	// Build file tree for sidebar navigation.
	tree := BuildTree(mdPaths, titles)

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(filepath.Join(g.OutputDir, "style.css"), []byte(cssContent), 0o644); err != nil {
		return 0, err
	}
	if err := os.WriteFile(filepath.Join(g.OutputDir, "toc.js"), []byte(jsContent), 0o644); err != nil {
		return 0, err
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		// No auto heading ids: the TOC builder assigns them. {#id} attributes
		// still let authors pin an anchor.
		goldmark.WithParserOptions(
			parser.WithAttribute(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return 0, fmt.Errorf("parsing page template: %w", err)
	}

	g.Reporter.Start(len(sources))
	var (
		written []string
		index   []SearchEntry
	)
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			g.Reporter.Finish()
			return len(written), multierr.Append(errs, err)
		}
		g.Reporter.Update(i+1, src.relPath)

		t, err := g.renderPage(md, tmpl, tree, src)
		if err != nil {
			g.Log.Error("Page failed", zap.String("page", src.relPath), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("rendering %s: %w", src.relPath, err))
			continue
		}

		htmlPath := mdPathToHTML(src.relPath)
		written = append(written, htmlPath)
		index = append(index, newSearchEntry(htmlPath, src.title, src.body, t))
		errs = multierr.Append(errs, g.record(ctx, htmlPath, src.title, t))
	}
	g.Reporter.Finish()

	if err := WriteSearchIndex(index, filepath.Join(g.OutputDir, "search-index.json")); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("writing search index: %w", err))
	}

	// Standalone HTML pages are copied and get a TOC of their own.
	htmlPaths, err := g.collectAll(".html")
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("walking html pages: %w", err))
	}
	for _, relPath := range htmlPaths {
		t, err := g.copyHTML(relPath)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("copying %s: %w", relPath, err))
			continue
		}
		written = append(written, relPath)
		errs = multierr.Append(errs, g.record(ctx, relPath, strings.TrimSuffix(filepath.Base(relPath), ".html"), t))
	}

	if g.Store != nil {
		if removed, err := g.Store.DeletePagesNotIn(ctx, written); err != nil {
			errs = multierr.Append(errs, err)
		} else if removed > 0 {
			g.Log.Debug("Dropped stale outlines", zap.Int64("pages", removed))
		}
	}

	g.Log.Info("Site generated",
		zap.String("output", g.OutputDir),
		zap.Int("pages", len(written)),
		zap.Int("failed", len(multierr.Errors(errs))))
	return len(written), errs
}

// collect returns slash-separated paths under DocsDir with the given
// extension that pass the include/exclude globs.
func (g *SiteGenerator) collect(ext string) ([]string, error) {
	all, err := g.collectAll(ext)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, p := range all {
		if selected(p, g.Include, g.Exclude) {
			out = append(out, p)
		}
	}
	return out, nil
}

// collectAll returns every path under DocsDir with the given extension,
// honouring only the exclude globs.
func (g *SiteGenerator) collectAll(ext string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(g.DocsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ext) {
			return nil
		}
		rel, err := filepath.Rel(g.DocsDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if matchesAny(rel, g.Exclude) {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	return out, err
}

func (g *SiteGenerator) load(relPath string) (source, error) {
	raw, err := os.ReadFile(filepath.Join(g.DocsDir, filepath.FromSlash(relPath)))
	if err != nil {
		return source{}, err
	}
	fm, body, err := splitFrontMatter(raw)
	if err != nil {
		return source{}, err
	}
	title := fm.Title
	if title == "" {
		title = extractTitle(string(body), relPath)
	}
	return source{relPath: relPath, title: title, fm: fm, body: body}, nil
}

// renderPage converts a single markdown file to an HTML page and returns the
// TOC built for it. Pages with toc: false get none.
func (g *SiteGenerator) renderPage(md goldmark.Markdown, tmpl *template.Template, tree *FileTree, src source) (*toc.TOC, error) {
	var content bytes.Buffer
	if err := md.Convert(src.body, &content); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	htmlRelPath := mdPathToHTML(src.relPath)
	basePath := strings.Repeat("../", strings.Count(htmlRelPath, "/"))

	data := pageData{
		Title:       src.title,
		ProjectName: g.ProjectName,
		Content:     template.HTML(rewriteMDLinks(content.String())),
		TreeHTML:    template.HTML(tree.ToHTML(src.relPath, basePath)),
		BasePath:    basePath,
		PagePath:    htmlRelPath,
		SidebarID:   g.Builder.Options().SidebarID,

		ScrollOffset: g.Tracker.ScrollOffset,
		ClickOffset:  g.Tracker.ClickOffset,
		Delay:        g.Tracker.Delay.Milliseconds(),
		InitialDelay: g.Tracker.InitialDelay.Milliseconds(),
	}

	var page bytes.Buffer
	if err := tmpl.Execute(&page, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	outPath := filepath.Join(g.OutputDir, filepath.FromSlash(htmlRelPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, err
	}

	if !src.fm.tocEnabled() {
		return nil, os.WriteFile(outPath, page.Bytes(), 0o644)
	}

	var out bytes.Buffer
	t, err := g.Builder.Process(&page, &out)
	if err != nil {
		return nil, err
	}
	return t, os.WriteFile(outPath, out.Bytes(), 0o644)
}

// copyHTML copies a standalone HTML page into the output and injects its TOC.
func (g *SiteGenerator) copyHTML(relPath string) (*toc.TOC, error) {
	data, err := os.ReadFile(filepath.Join(g.DocsDir, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, err
	}
	outPath := filepath.Join(g.OutputDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return nil, err
	}
	return g.Builder.ProcessFile(outPath)
}

// record stores the page outline when an outline store is configured.
func (g *SiteGenerator) record(ctx context.Context, htmlPath, title string, t *toc.TOC) error {
	if g.Store == nil {
		return nil
	}
	outline := db.PageOutline{Path: htmlPath, Title: title}
	if t != nil {
		outline.TOC = *t
	}
	if err := g.Store.SavePage(ctx, outline); err != nil {
		return fmt.Errorf("recording outline of %s: %w", htmlPath, err)
	}
	return nil
}

// extractTitle pulls the first # heading from markdown content, or falls back to the filename.
func extractTitle(content, relPath string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return strings.TrimSuffix(filepath.Base(relPath), ".md")
}

// rewriteMDLinks changes .md links in HTML content to .html links.
func rewriteMDLinks(content string) string {
	content = strings.ReplaceAll(content, `.md"`, `.html"`)
	return strings.ReplaceAll(content, `.md#`, `.html#`)
}
