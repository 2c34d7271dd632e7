package questionary

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// Repository answers read-only lookups over the question catalog.
type Repository interface {
	ListSections() []string
	DescribeSection(name string) string
	ListThemes(section string) []string
	// PickRandomQuestion selects a question from the theme, or from the whole
	// section when theme is empty or unknown. ok is false when nothing can be
	// selected.
	PickRandomQuestion(section, theme string) (question string, ok bool)
}

type sectionEntry struct {
	description string
	themes      []string
	questions   map[string][]string
	all         []string
}

// MemoryRepository implements Repository over an immutable in-memory index.
type MemoryRepository struct {
	order    []string
	sections map[string]*sectionEntry

	mu  sync.Mutex
	rng *rand.Rand
}

// Option customises a MemoryRepository.
type Option func(*MemoryRepository)

// WithSource makes selection deterministic, mostly for tests.
func WithSource(src rand.Source) Option {
	return func(r *MemoryRepository) {
		if src != nil {
			r.rng = rand.New(src)
		}
	}
}

// NewMemoryRepository indexes an already validated catalog.
func NewMemoryRepository(c Catalog, opts ...Option) *MemoryRepository {
	repo := &MemoryRepository{
		order:    make([]string, 0, len(c.Sections)),
		sections: make(map[string]*sectionEntry, len(c.Sections)),
	}

	for _, section := range c.Sections {
		name := strings.TrimSpace(section.Name)
		entry := &sectionEntry{
			description: section.Description,
			themes:      make([]string, 0, len(section.Themes)),
			questions:   make(map[string][]string, len(section.Themes)),
		}
		for _, theme := range section.Themes {
			themeName := strings.TrimSpace(theme.Name)
			if themeName == RandomTheme {
				continue
			}
			questions := append([]string(nil), theme.Questions...)
			entry.themes = append(entry.themes, themeName)
			entry.questions[themeName] = questions
			entry.all = append(entry.all, questions...)
		}
		repo.order = append(repo.order, name)
		repo.sections[name] = entry
	}

	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// ListSections returns section names in catalog order.
func (r *MemoryRepository) ListSections() []string {
	return append([]string(nil), r.order...)
}

// DescribeSection returns the section description or an empty string.
func (r *MemoryRepository) DescribeSection(name string) string {
	entry, ok := r.sections[name]
	if !ok {
		return ""
	}
	return entry.description
}

// ListThemes returns the selectable themes of a section.
func (r *MemoryRepository) ListThemes(section string) []string {
	entry, ok := r.sections[section]
	if !ok {
		return []string{}
	}
	return append([]string(nil), entry.themes...)
}

// PickRandomQuestion draws uniformly from the theme or the whole section.
// Calls are independent, so the same question may come up twice in a row.
func (r *MemoryRepository) PickRandomQuestion(section, theme string) (string, bool) {
	entry, ok := r.sections[section]
	if !ok {
		return "", false
	}

	pool := entry.all
	if questions, ok := entry.questions[theme]; ok {
		pool = questions
	}
	if len(pool) == 0 {
		return "", false
	}
	return pool[r.intN(len(pool))], true
}

func (r *MemoryRepository) intN(n int) int {
	if r.rng == nil {
		return rand.IntN(n)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}
