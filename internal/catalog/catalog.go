// Package catalog is the read-only set of reflection templates offered for
// selection. The catalog is a YAML resource loaded once at start.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/proofhq/proof/pkg/models"
	"gopkg.in/yaml.v3"
)

// AllCategories selects every template in ByCategory.
const AllCategories = "전체"

//go:embed templates.yaml
var builtin []byte

// ErrNotFound is returned by Get for an unknown template id.
var ErrNotFound = errors.New("template not found")

type document struct {
	Templates []models.Template `yaml:"templates"`
}

// Catalog holds templates in display order.
type Catalog struct {
	templates []models.Template
	byID      map[string]int
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(builtin)
}

// Load reads a catalog from path, or the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse template catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]int, len(doc.Templates))}
	for i, t := range doc.Templates {
		switch {
		case t.ID == "":
			return nil, fmt.Errorf("template #%d: missing id", i+1)
		case t.Name == "":
			return nil, fmt.Errorf("template %q: missing name", t.ID)
		case len(t.Questions) == 0:
			return nil, fmt.Errorf("template %q: no questions", t.ID)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("template %q: duplicate id", t.ID)
		}
		c.byID[t.ID] = len(c.templates)
		c.templates = append(c.templates, t)
	}
	return c, nil
}

// All returns every template in display order.
func (c *Catalog) All() []models.Template {
	out := make([]models.Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Get returns the template with id.
func (c *Catalog) Get(id string) (models.Template, error) {
	i, ok := c.byID[id]
	if !ok {
		return models.Template{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	t := c.templates[i]
	t.Questions = append([]string(nil), t.Questions...)
	return t, nil
}

// ByCategory filters templates. AllCategories or "" returns everything.
func (c *Catalog) ByCategory(category string) []models.Template {
	if category == "" || category == AllCategories {
		return c.All()
	}
	var out []models.Template
	for _, t := range c.templates {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Categories lists AllCategories followed by each category in first-seen order.
func (c *Catalog) Categories() []string {
	seen := map[string]bool{}
	out := []string{AllCategories}
	for _, t := range c.templates {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out
}
