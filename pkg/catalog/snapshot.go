package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"
)

// ErrMalformedSnapshot is returned when snapshot data cannot be decoded or
// does not describe a usable catalog.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Format identifies the encoding of a snapshot document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the snapshot encoding from a file or object key.
// Anything that is not .yaml or .yml is treated as JSON.
func FormatFromPath(p string) Format {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Snapshot is the on-disk shape of the reference data.
type Snapshot struct {
	Drugs        []DrugProfile       `json:"drugs" yaml:"drugs" validate:"required,dive"`
	Interactions []InteractionRecord `json:"interactions" yaml:"interactions" validate:"required,dive"`
}

var validate = validator.New()

// Decode parses and validates a snapshot document.
func Decode(data []byte, format Format) (Snapshot, error) {
	var snap Snapshot
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &snap)
	default:
		err = json.Unmarshal(data, &snap)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: decode %s: %v", ErrMalformedSnapshot, format, err)
	}

	if err := validate.Struct(snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	for i, d := range snap.Drugs {
		if NormalizeName(d.Name) == "" {
			return Snapshot{}, fmt.Errorf("%w: drug %d has a blank name", ErrMalformedSnapshot, i)
		}
	}
	for i, r := range snap.Interactions {
		if NormalizeName(r.DrugA) == "" || NormalizeName(r.DrugB) == "" {
			return Snapshot{}, fmt.Errorf("%w: interaction %d has a blank drug name", ErrMalformedSnapshot, i)
		}
	}

	return snap, nil
}

// Build turns a decoded snapshot into the catalog and interaction table.
func (s Snapshot) Build() (*Catalog, *InteractionTable) {
	return NewCatalog(s.Drugs), NewInteractionTable(s.Interactions)
}

// Load decodes data, choosing the format from name, and builds both structures.
func Load(data []byte, name string) (*Catalog, *InteractionTable, error) {
	snap, err := Decode(data, FormatFromPath(name))
	if err != nil {
		return nil, nil, err
	}
	cat, table := snap.Build()
	return cat, table, nil
}
