package toc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoDocument is returned when Build or Inject is handed a nil document.
var ErrNoDocument = errors.New("toc: no document")

// Options controls which headings are collected and how the TOC block is rendered.
type Options struct {
	Scope          string // element name that bounds the content area
	MinLevel       int
	MaxLevel       int
	SidebarID      string // id of the element the TOC block is appended to
	Title          string
	ContainerClass string
	ListClass      string
	Slugger        Slugger
}

// DefaultOptions returns the options used by generated documentation pages.
func DefaultOptions() Options {
	return Options{
		Scope:          "main",
		MinLevel:       2,
		MaxLevel:       6,
		SidebarID:      "toc-sidebar",
		Title:          "目录",
		ContainerClass: "toc-container",
		ListClass:      "toc",
		Slugger:        Slug,
	}
}

// Entry is one TOC link. It points at the heading with the same ID.
type Entry struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// Href is the fragment link for the entry's heading.
func (e Entry) Href() string { return "#" + e.ID }

// Class is the list item class. Levels deeper than h5 share toc-level4.
func (e Entry) Class() string {
	return "toc-level" + strconv.Itoa(min(e.Level-1, 4))
}

// TOC is the ordered list of entries built for one page.
type TOC struct {
	Title   string  `json:"title"`
	Entries []Entry `json:"entries"`
}

// Empty reports whether the page had no headings.
func (t *TOC) Empty() bool { return t == nil || len(t.Entries) == 0 }

// Builder scans pages for headings and renders their table of contents.
type Builder struct {
	opts Options
}

// NewBuilder returns a Builder. Zero-valued options are filled from DefaultOptions.
func NewBuilder(opts Options) *Builder {
	def := DefaultOptions()
	if opts.Scope == "" {
		opts.Scope = def.Scope
	}
	if opts.MinLevel == 0 {
		opts.MinLevel = def.MinLevel
	}
	if opts.MaxLevel == 0 {
		opts.MaxLevel = def.MaxLevel
	}
	if opts.SidebarID == "" {
		opts.SidebarID = def.SidebarID
	}
	if opts.Title == "" {
		opts.Title = def.Title
	}
	if opts.ContainerClass == "" {
		opts.ContainerClass = def.ContainerClass
	}
	if opts.ListClass == "" {
		opts.ListClass = def.ListClass
	}
	if opts.Slugger == nil {
		opts.Slugger = def.Slugger
	}
	return &Builder{opts: opts}
}

// Options returns the effective builder options.
func (b *Builder) Options() Options { return b.opts }

// IndexAttr is stamped on every collected heading with the index of its TOC
// entry, so a page can locate the heading behind each entry even when ids repeat.
const IndexAttr = "data-toc-index"

// Build collects the headings of doc and returns one entry per heading in
// document order. Headings without an id get one derived from their text;
// existing ids are never changed, so building twice is a no-op for the DOM.
func (b *Builder) Build(doc *html.Node) (*TOC, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}
	t := &TOC{Title: b.opts.Title}
	headings := CollectHeadings(doc, b.opts.Scope, b.opts.MinLevel, b.opts.MaxLevel)
	if len(headings) == 0 {
		return t, nil
	}

	t.Entries = make([]Entry, 0, len(headings))
	for i, h := range headings {
		if h.ID == "" {
			h.setID(b.opts.Slugger(h.Text))
		}
		setAttr(h.node, IndexAttr, strconv.Itoa(i))
		t.Entries = append(t.Entries, Entry{Level: h.Level, Text: h.Text, ID: h.ID})
	}
	return t, nil
}

// Render produces the TOC block: a container holding the title and the list of links.
func (b *Builder) Render(t *TOC) *html.Node {
	container := element(atom.Div, "class", b.opts.ContainerClass)

	title := element(atom.H3)
	title.AppendChild(text(t.Title))
	container.AppendChild(title)

	list := element(atom.Ul, "class", b.opts.ListClass)
	for _, e := range t.Entries {
		item := element(atom.Li, "class", e.Class())
		link := element(atom.A, "href", e.Href())
		link.AppendChild(text(e.Text))
		item.AppendChild(link)
		list.AppendChild(item)
	}
	container.AppendChild(list)
	return container
}

// Inject appends the rendered TOC to the sidebar element. It reports false
// without touching doc when the TOC is empty or the page has no sidebar.
func (b *Builder) Inject(doc *html.Node, t *TOC) (bool, error) {
	if doc == nil {
		return false, ErrNoDocument
	}
	if t.Empty() {
		return false, nil
	}
	sidebar := elementByID(doc, b.opts.SidebarID)
	if sidebar == nil {
		return false, nil
	}
	sidebar.AppendChild(b.Render(t))
	return true, nil
}

// Process parses an HTML page from r, builds and injects its TOC and writes
// the resulting page to w.
func (b *Builder) Process(r io.Reader, w io.Writer) (*TOC, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	t, err := b.Build(doc)
	if err != nil {
		return nil, err
	}
	if _, err := b.Inject(doc, t); err != nil {
		return nil, err
	}
	if err := html.Render(w, doc); err != nil {
		return nil, fmt.Errorf("rendering html: %w", err)
	}
	return t, nil
}

// ProcessFile runs Process over the file at path and rewrites it in place.
func (b *Builder) ProcessFile(path string) (*TOC, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	t, err := b.Process(bytes.NewReader(data), &out)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := os.WriteFile(path, out.Bytes(), info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	return t, nil
}

// Outline parses an HTML page and returns its TOC without injecting anything.
func (b *Builder) Outline(r io.Reader) (*TOC, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return b.Build(doc)
}

func element(a atom.Atom, kv ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
