package toc

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Heading is a heading element found inside the page's content scope.
type Heading struct {
	Level int
	Text  string
	ID    string

	node *html.Node
}

// setID writes id back to the underlying element.
func (h *Heading) setID(id string) {
	h.ID = id
	setAttr(h.node, "id", id)
}

// CollectHeadings returns every h{minLevel..maxLevel} element that is a
// descendant of an element named scope, in document order. Nested scope
// elements do not produce duplicates.
func CollectHeadings(doc *html.Node, scope string, minLevel, maxLevel int) []*Heading {
	var out []*Heading
	var walk func(n *html.Node, inScope bool)
	walk = func(n *html.Node, inScope bool) {
		if n.Type == html.ElementNode {
			if inScope {
				if lvl := headingLevel(n); lvl >= minLevel && lvl <= maxLevel {
					out = append(out, &Heading{
						Level: lvl,
						Text:  textContent(n),
						ID:    attr(n, "id"),
						node:  n,
					})
				}
			} else if n.Data == scope {
				inScope = true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inScope)
		}
	}
	if doc != nil {
		walk(doc, false)
	}
	return out
}

// headingLevel returns 1..6 for h1..h6 elements and 0 otherwise.
func headingLevel(n *html.Node) int {
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// elementByID returns the first element in document order carrying id.
func elementByID(doc *html.Node, id string) *html.Node {
	if doc == nil || id == "" {
		return nil
	}
	if doc.Type == html.ElementNode && attr(doc, "id") == id {
		return doc
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if found := elementByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
