package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"

	"github.com/sitetoc/sitetoc/internal/toc"
)

// detectDocsDir returns the first conventional documentation directory that exists.
func detectDocsDir() string {
	for _, dir := range []string{"docs", "doc", "documentation", "content"} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return "docs"
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	cfg := DefaultConfig()

	fmt.Println("sitetoc configuration")
	fmt.Println()

	// 1. Project name.
	namePrompt := promptui.Prompt{
		Label:   "Project name",
		Default: cfg.ProjectName,
	}
	name, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("project name: %w", err)
	}
	cfg.ProjectName = name

	// 2. Docs directory.
	docsPrompt := promptui.Prompt{
		Label:   "Markdown source directory",
		Default: detectDocsDir(),
	}
	cfg.DocsDir, err = docsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("docs dir: %w", err)
	}

	// 3. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the generated site",
		Default: cfg.OutputDir,
	}
	cfg.OutputDir, err = outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	// 4. TOC title.
	titlePrompt := promptui.Prompt{
		Label:   "Table of contents title",
		Default: cfg.TOC.Title,
	}
	cfg.TOC.Title, err = titlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("toc title: %w", err)
	}

	// 5. Anchor style.
	slugPrompt := promptui.Select{
		Label: "Heading anchor style",
		Items: []string{
			"basic:    ASCII word characters only (getting-started)",
			"translit: transliterate non-Latin headings (voina-i-mir)",
		},
	}
	slugIdx, _, err := slugPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("slug selection: %w", err)
	}
	cfg.TOC.Slug = []string{toc.SlugBasic, toc.SlugTranslit}[slugIdx]

	// 6. Server port.
	portPrompt := promptui.Prompt{
		Label:   "Port for sitetoc serve",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p <= 0 || p > 65535 {
				return fmt.Errorf("invalid port")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
