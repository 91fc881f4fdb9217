// Package model contains domain models passed between layers.
package model

import (
	"slices"
	"sort"
)

// Reference attribute keys used by the bundled roster.
const (
	AttrStrength     = "strength"
	AttrIntelligence = "intelligence"
	AttrSpeed        = "speed"
	AttrDurability   = "durability"
	AttrCombat       = "combat"
)

// DefaultAttributeOrder is the display order of the reference attributes.
var DefaultAttributeOrder = []string{AttrStrength, AttrIntelligence, AttrSpeed, AttrDurability, AttrCombat}

// Attributes maps an attribute name to its integer score.
type Attributes map[string]int

// Total returns the raw sum of every score.
func (a Attributes) Total() int {
	total := 0
	for _, v := range a {
		total += v
	}
	return total
}

// Keys returns attribute names in display order: names listed in order come
// first in that order, the rest follow alphabetically.
func (a Attributes) Keys(order []string) []string {
	keys := make([]string, 0, len(a))
	for _, k := range order {
		if _, ok := a[k]; ok {
			keys = append(keys, k)
		}
	}
	rest := make([]string, 0, len(a)-len(keys))
	for k := range a {
		if !slices.Contains(keys, k) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// SameKeys reports whether a and b declare exactly the same attribute names.
func (a Attributes) SameKeys(b Attributes) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// CompetitorProfile is a hero that can enter the arena.
type CompetitorProfile struct {
	ID          int        `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	RealName    string     `json:"real_name" yaml:"real_name"`
	Description string     `json:"description" yaml:"description"`
	Tagline     string     `json:"tagline" yaml:"tagline"`
	Color       string     `json:"color" yaml:"color"`
	Attributes  Attributes `json:"stats" yaml:"stats"`
}
