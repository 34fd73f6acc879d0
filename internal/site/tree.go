package site

import (
	"fmt"
	"html"
	"path"
	"sort"
	"strings"
)

// FileTree is a node of the page navigation tree.
type FileTree struct {
	Name     string
	Title    string // display name: page title for files, prettified name for dirs
	Path     string // slash-separated path relative to the docs root
	IsDir    bool
	Children []*FileTree
}

// BuildTree constructs a FileTree from relative markdown paths.
// titles maps a path to its page title; it may be nil.
func BuildTree(paths []string, titles map[string]string) *FileTree {
	root := &FileTree{Name: "docs", IsDir: true}

	for _, p := range paths {
		parts := strings.Split(p, "/")
		node := root
		for i, part := range parts {
			child := node.child(part)
			if child == nil {
				child = &FileTree{Name: part, Path: strings.Join(parts[:i+1], "/")}
				if i < len(parts)-1 {
					child.IsDir = true
					child.Title = formatDirName(part)
				} else {
					child.Title = titles[p]
				}
				node.Children = append(node.Children, child)
			}
			node = child
		}
	}

	root.sort()
	return root
}

func (t *FileTree) child(name string) *FileTree {
	for _, c := range t.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// sort orders children directories first, then alphabetically, recursively.
func (t *FileTree) sort() {
	sort.Slice(t.Children, func(i, j int) bool {
		a, b := t.Children[i], t.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, c := range t.Children {
		if c.IsDir {
			c.sort()
		}
	}
}

// ToHTML renders the tree as nested lists for the navigation sidebar.
// Directories on the way to activePath are expanded. basePath leads from the
// current page back to the site root.
func (t *FileTree) ToHTML(activePath, basePath string) string {
	var b strings.Builder
	home := ""
	if activePath == "index.md" {
		home = ` class="active"`
	}
	fmt.Fprintf(&b, `<ul><li class="file home-link"><a href="%sindex.html"%s>Home</a></li></ul>`+"\n", basePath, home)
	t.render(&b, activePath, basePath)
	return b.String()
}

func (t *FileTree) render(b *strings.Builder, activePath, basePath string) {
	if len(t.Children) == 0 {
		return
	}
	b.WriteString("<ul>\n")
	for _, c := range t.Children {
		if c.IsDir {
			state := ""
			if strings.HasPrefix(activePath, c.Path+"/") {
				state = " expanded"
			}
			fmt.Fprintf(b, `<li class="dir%s"><span class="dir-toggle">%s</span>`+"\n", state, html.EscapeString(c.label()))
			c.render(b, activePath, basePath)
			b.WriteString("</li>\n")
			continue
		}
		if c.Path == "index.md" {
			continue
		}
		active := ""
		if c.Path == activePath {
			active = ` class="active"`
		}
		fmt.Fprintf(b, `<li class="file"><a href="%s"%s>%s</a></li>`+"\n",
			basePath+mdPathToHTML(c.Path), active, html.EscapeString(c.label()))
	}
	b.WriteString("</ul>\n")
}

func (t *FileTree) label() string {
	if t.Title != "" {
		return t.Title
	}
	return strings.TrimSuffix(t.Name, path.Ext(t.Name))
}

// mdPathToHTML converts a markdown path to its HTML equivalent.
func mdPathToHTML(p string) string {
	if strings.HasSuffix(p, ".md") {
		return strings.TrimSuffix(p, ".md") + ".html"
	}
	return p
}

// formatDirName title-cases the hyphen or underscore separated words of a directory name.
func formatDirName(name string) string {
	words := strings.FieldsFunc(name, func(c rune) bool {
		return c == '-' || c == '_'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
