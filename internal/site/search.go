package site

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/sitetoc/sitetoc/internal/toc"
)

// SearchEntry represents a single searchable page in the documentation.
type SearchEntry struct {
	Path     string          `json:"path"`
	Title    string          `json:"title"`
	Summary  string          `json:"summary"`
	Sections []SearchSection `json:"sections,omitempty"`
}

// SearchSection points at one heading of a page so results can deep-link.
type SearchSection struct {
	Text   string `json:"text"`
	Anchor string `json:"anchor"`
}

// newSearchEntry builds the index entry of a rendered page from its markdown
// body and the TOC the builder produced for it.
func newSearchEntry(htmlPath, title string, body []byte, t *toc.TOC) SearchEntry {
	entry := SearchEntry{
		Path:    htmlPath,
		Title:   title,
		Summary: summarize(body),
	}
	if t != nil {
		for _, e := range t.Entries {
			entry.Sections = append(entry.Sections, SearchSection{
				Text:   strings.TrimSpace(e.Text),
				Anchor: e.ID,
			})
		}
	}
	return entry
}

// summarize returns the first paragraph line that is not a heading, list
// item or code fence, truncated to 200 bytes.
func summarize(body []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(body))
	inFence := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "```") {
			inFence = !inFence
			continue
		}
		if inFence || line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") ||
			strings.HasPrefix(line, "|") || strings.HasPrefix(line, "<") {
			continue
		}
		if len(line) > 200 {
			line = line[:200] + "..."
		}
		return line
	}
	return ""
}

// WriteSearchIndex writes the search index as JSON to the given path.
func WriteSearchIndex(entries []SearchEntry, outputPath string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
