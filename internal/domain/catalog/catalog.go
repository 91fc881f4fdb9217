// Package catalog holds the static site content and the battle roster.
package catalog

import (
	_ "embed"
	"fmt"
	"maps"
	"os"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/okian/herofan/internal/domain/model"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the full content set served by the site.
type Catalog struct {
	Banner     Banner                    `json:"banner" yaml:"banner"`
	Attributes []AttributeLabel          `json:"attributes" yaml:"attributes"`
	Roster     []model.CompetitorProfile `json:"roster" yaml:"roster"`
	Featured   []Character               `json:"featured" yaml:"featured"`
	Timeline   []Phase                   `json:"timeline" yaml:"timeline"`
	Statistics []Statistic               `json:"statistics" yaml:"statistics"`
	Footer     []LinkGroup               `json:"footer" yaml:"footer"`

	byID map[int]int
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads a catalog from a YAML file. An empty path returns Default.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML catalog data.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.fillLabels()
	c.index()
	return &c, nil
}

// Validate checks roster ids are unique and positive, every hero declares the
// same attribute keys as the first one, and no score is negative.
func (c *Catalog) Validate() error {
	if len(c.Roster) < 2 {
		return fmt.Errorf("%w: roster needs at least two heroes, got %d", ErrInvalidCatalog, len(c.Roster))
	}
	seen := make(map[int]struct{}, len(c.Roster))
	ref := c.Roster[0].Attributes
	for i := range c.Roster {
		h := &c.Roster[i]
		if h.ID <= 0 {
			return fmt.Errorf("%w: hero %q has id %d", ErrInvalidCatalog, h.Name, h.ID)
		}
		if _, dup := seen[h.ID]; dup {
			return fmt.Errorf("%w: duplicate hero id %d", ErrInvalidCatalog, h.ID)
		}
		seen[h.ID] = struct{}{}
		if h.Name == "" {
			return fmt.Errorf("%w: hero %d has no name", ErrInvalidCatalog, h.ID)
		}
		if len(h.Attributes) == 0 {
			return fmt.Errorf("%w: hero %d has no stats", ErrInvalidCatalog, h.ID)
		}
		if !h.Attributes.SameKeys(ref) {
			return fmt.Errorf("%w: hero %d stats differ from hero %d", ErrInvalidCatalog, h.ID, c.Roster[0].ID)
		}
		for k, v := range h.Attributes {
			if v < 0 {
				return fmt.Errorf("%w: hero %d has negative %s", ErrInvalidCatalog, h.ID, k)
			}
		}
	}
	return nil
}

// fillLabels appends a title-cased label for every roster key without one.
func (c *Catalog) fillLabels() {
	known := make(map[string]bool, len(c.Attributes))
	for i := range c.Attributes {
		if c.Attributes[i].Label == "" {
			c.Attributes[i].Label = Label(c.Attributes[i].Key)
		}
		known[c.Attributes[i].Key] = true
	}
	var missing []string
	for k := range c.Roster[0].Attributes {
		if !known[k] {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	for _, k := range missing {
		c.Attributes = append(c.Attributes, AttributeLabel{Key: k, Label: Label(k)})
	}
}

func (c *Catalog) index() {
	c.byID = make(map[int]int, len(c.Roster))
	for i := range c.Roster {
		c.byID[c.Roster[i].ID] = i
	}
}

// Label derives a display label from an attribute key, e.g. "combat_skill"
// becomes "Combat Skill".
func Label(key string) string {
	b := []byte(key)
	for i := range b {
		if b[i] == '_' || b[i] == '-' {
			b[i] = ' '
		}
	}
	return cases.Title(language.English).String(string(b))
}

// Hero returns a copy of the roster hero with id.
func (c *Catalog) Hero(id int) (model.CompetitorProfile, error) {
	i, ok := c.byID[id]
	if !ok {
		return model.CompetitorProfile{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	h := c.Roster[i]
	h.Attributes = maps.Clone(h.Attributes)
	return h, nil
}

// AttributeOrder returns the attribute keys in label order.
func (c *Catalog) AttributeOrder() []string {
	order := make([]string, len(c.Attributes))
	for i, a := range c.Attributes {
		order[i] = a.Key
	}
	return order
}
