// Package catalog holds the read-only drug reference data: the drug catalog
// keyed by normalized name and the curated table of known interactions.
package catalog

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Severity grades the clinical risk of combining two drugs.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Valid reports whether s is one of the known severity grades.
func (s Severity) Valid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// DrugProfile is the reference information kept for a single drug.
type DrugProfile struct {
	Name                string `json:"name" yaml:"name" validate:"required"`
	DrugClass           string `json:"drug_class" yaml:"drug_class"`
	Mechanism           string `json:"mechanism" yaml:"mechanism"`
	CommonUses          string `json:"common_uses" yaml:"common_uses"`
	InteractionsProfile string `json:"interactions_profile" yaml:"interactions_profile"`
}

// Document returns the text representation used to embed the profile.
func (p DrugProfile) Document() string {
	return strings.Join([]string{
		p.Name,
		p.DrugClass,
		p.Mechanism,
		p.CommonUses,
		p.InteractionsProfile,
	}, " ")
}

// NormalizeName maps a user supplied or stored drug name onto its catalog key.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(name)))
}

// Entry pairs a catalog key with its profile.
type Entry struct {
	Key     string      `json:"name"`
	Profile DrugProfile `json:"info"`
}

// Catalog maps normalized drug names to profiles. Keys keep the position of
// their first occurrence while the profile is the last one loaded for that key.
// A Catalog is immutable once built.
type Catalog struct {
	keys  []string
	drugs map[string]DrugProfile
}

// NewCatalog builds a catalog from profiles in load order.
func NewCatalog(profiles []DrugProfile) *Catalog {
	c := &Catalog{
		keys:  make([]string, 0, len(profiles)),
		drugs: make(map[string]DrugProfile, len(profiles)),
	}
	for _, p := range profiles {
		key := NormalizeName(p.Name)
		if _, ok := c.drugs[key]; !ok {
			c.keys = append(c.keys, key)
		}
		c.drugs[key] = p
	}
	return c
}

// Get looks up a drug by any spelling that normalizes to its key.
func (c *Catalog) Get(name string) (DrugProfile, bool) {
	if c == nil {
		return DrugProfile{}, false
	}
	p, ok := c.drugs[NormalizeName(name)]
	return p, ok
}

// Keys returns the catalog keys in ordinal order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Entries returns every key with its profile in ordinal order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, Entry{Key: k, Profile: c.drugs[k]})
	}
	return out
}

// Len returns the number of distinct drugs.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}
