package site

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// frontMatter is the optional YAML header of a markdown page.
type frontMatter struct {
	Title string `yaml:"title"`
	// TOC disables the table of contents for the page when set to false.
	TOC *bool `yaml:"toc"`
}

func (f frontMatter) tocEnabled() bool {
	return f.TOC == nil || *f.TOC
}

var fmDelim = []byte("---")

// splitFrontMatter separates a leading "---" delimited YAML block from the
// markdown body. Sources without one are returned unchanged.
func splitFrontMatter(src []byte) (frontMatter, []byte, error) {
	var fm frontMatter

	src = bytes.TrimPrefix(src, []byte("\xef\xbb\xbf"))
	firstLine, rest, ok := bytes.Cut(src, []byte("\n"))
	if !ok || !bytes.Equal(bytes.TrimRight(firstLine, "\r "), fmDelim) {
		return fm, src, nil
	}

	var header []byte
	for len(rest) > 0 {
		var line []byte
		line, rest, _ = bytes.Cut(rest, []byte("\n"))
		if bytes.Equal(bytes.TrimRight(line, "\r "), fmDelim) {
			if err := yaml.Unmarshal(header, &fm); err != nil {
				return fm, nil, fmt.Errorf("parsing front matter: %w", err)
			}
			return fm, rest, nil
		}
		header = append(header, line...)
		header = append(header, '\n')
	}

	// No closing delimiter: treat the whole file as markdown.
	return frontMatter{}, src, nil
}
