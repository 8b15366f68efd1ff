// Package recommend proposes SEO metadata for a page path from a lookup table.
package recommend

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/dtnitsch/seo-companion/models"
	"gopkg.in/yaml.v3"
)

//go:embed default_table.yaml
var defaultTable []byte

// Generic values used when a path has no table entry.
const (
	GenericChangeFrequency = models.ChangeMonthly
	GenericPriority        = 0.5
)

// Template is one table entry. Title and Description may contain {site} and {page}.
type Template struct {
	PageName        string                 `yaml:"page_name"`
	Title           string                 `yaml:"title"`
	Description     string                 `yaml:"description"`
	ChangeFrequency models.ChangeFrequency `yaml:"change_frequency"`
	Priority        float64                `yaml:"priority"`
}

// Table maps lowercased paths to templates.
type Table struct {
	GenericSuffix string              `yaml:"generic_suffix"`
	Pages         map[string]Template `yaml:"pages"`
}

// Recommendation is the metadata proposed for one page.
type Recommendation struct {
	PageName        string
	Title           string
	MetaDescription string
	ChangeFrequency models.ChangeFrequency
	Priority        float64
}

// DefaultTable returns the built-in table.
func DefaultTable() (Table, error) {
	return ParseTable(defaultTable)
}

// LoadTable reads a table from a YAML file.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read recommendation table: %w", err)
	}
	t, err := ParseTable(data)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseTable decodes and validates a YAML table. Path keys are lowercased.
func ParseTable(data []byte) (Table, error) {
	var raw Table
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Table{}, fmt.Errorf("failed to parse recommendation table: %w", err)
	}

	t := Table{GenericSuffix: strings.TrimSpace(raw.GenericSuffix), Pages: make(map[string]Template, len(raw.Pages))}
	for path, tmpl := range raw.Pages {
		freq, err := models.ParseChangeFrequency(string(tmpl.ChangeFrequency))
		if err != nil {
			return Table{}, fmt.Errorf("entry %q: %w", path, err)
		}
		if tmpl.Priority < 0 || tmpl.Priority > 1 {
			return Table{}, fmt.Errorf("entry %q: priority %v outside [0, 1]", path, tmpl.Priority)
		}
		tmpl.ChangeFrequency = freq
		t.Pages[strings.ToLower(path)] = tmpl
	}
	return t, nil
}

// Synthesizer looks up recommendations. It is safe for concurrent use.
type Synthesizer struct {
	table Table
}

// New returns a Synthesizer over table.
func New(table Table) *Synthesizer {
	return &Synthesizer{table: table}
}

// Recommend returns the table entry for path, or generic values built from pageName and siteName.
func (s *Synthesizer) Recommend(path, pageName, siteName string) Recommendation {
	if tmpl, ok := s.table.Pages[strings.ToLower(path)]; ok {
		name := tmpl.PageName
		if name == "" {
			name = pageName
		}
		r := strings.NewReplacer("{site}", siteName, "{page}", name)
		return Recommendation{
			PageName:        name,
			Title:           r.Replace(tmpl.Title),
			MetaDescription: r.Replace(tmpl.Description),
			ChangeFrequency: tmpl.ChangeFrequency,
			Priority:        tmpl.Priority,
		}
	}

	desc := fmt.Sprintf("Explore %s on %s.", strings.ToLower(pageName), siteName)
	if s.table.GenericSuffix != "" {
		desc += " " + s.table.GenericSuffix
	}
	return Recommendation{
		PageName:        pageName,
		Title:           fmt.Sprintf("%s | %s", pageName, siteName),
		MetaDescription: desc,
		ChangeFrequency: GenericChangeFrequency,
		Priority:        GenericPriority,
	}
}
