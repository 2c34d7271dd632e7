package questionary

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RandomTheme is the label of the synthetic pseudo-theme covering the whole
// section. It is never listed as a selectable theme.
const RandomTheme = "Случайный вопрос"

// ErrInvalidCatalog is returned when catalog content breaks structural rules.
var ErrInvalidCatalog = errors.New("invalid questionary catalog")

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the typed question hierarchy loaded at startup.
type Catalog struct {
	Sections []Section `yaml:"sections" json:"sections"`
}

// Section is a top-level topic shown on the main menu.
type Section struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Themes      []Theme `yaml:"themes" json:"themes"`
}

// Theme groups questions inside a section.
type Theme struct {
	Name      string   `yaml:"name" json:"name"`
	Questions []string `yaml:"questions" json:"questions,omitempty"`
}

// Default returns the catalog bundled with the binary.
func Default() (Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// LoadFile reads and validates a YAML catalog from disk.
func LoadFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a YAML catalog and validates it.
func Load(r io.Reader) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return Catalog{}, fmt.Errorf("%w: empty document", ErrInvalidCatalog)
		}
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Validate rejects empty or ambiguous content early so that selection never
// runs into an empty pool at conversation time.
func (c Catalog) Validate() error {
	if len(c.Sections) == 0 {
		return fmt.Errorf("%w: no sections", ErrInvalidCatalog)
	}

	seenSections := make(map[string]struct{}, len(c.Sections))
	for i, section := range c.Sections {
		name := strings.TrimSpace(section.Name)
		if name == "" {
			return fmt.Errorf("%w: section #%d has no name", ErrInvalidCatalog, i+1)
		}
		if _, dup := seenSections[name]; dup {
			return fmt.Errorf("%w: duplicate section %q", ErrInvalidCatalog, name)
		}
		seenSections[name] = struct{}{}

		if len(section.Themes) == 0 {
			return fmt.Errorf("%w: section %q has no themes", ErrInvalidCatalog, name)
		}

		seenThemes := make(map[string]struct{}, len(section.Themes))
		for j, theme := range section.Themes {
			themeName := strings.TrimSpace(theme.Name)
			switch {
			case themeName == "":
				return fmt.Errorf("%w: section %q theme #%d has no name", ErrInvalidCatalog, name, j+1)
			case themeName == RandomTheme:
				return fmt.Errorf("%w: section %q uses reserved theme name %q", ErrInvalidCatalog, name, RandomTheme)
			}
			if _, dup := seenThemes[themeName]; dup {
				return fmt.Errorf("%w: section %q has duplicate theme %q", ErrInvalidCatalog, name, themeName)
			}
			seenThemes[themeName] = struct{}{}

			if len(theme.Questions) == 0 {
				return fmt.Errorf("%w: theme %q in section %q has no questions", ErrInvalidCatalog, themeName, name)
			}
			for k, q := range theme.Questions {
				if strings.TrimSpace(q) == "" {
					return fmt.Errorf("%w: theme %q in section %q has blank question #%d", ErrInvalidCatalog, themeName, name, k+1)
				}
			}
		}
	}
	return nil
}

// QuestionCount returns the total number of questions in the catalog.
func (c Catalog) QuestionCount() int {
	total := 0
	for _, section := range c.Sections {
		for _, theme := range section.Themes {
			total += len(theme.Questions)
		}
	}
	return total
}
