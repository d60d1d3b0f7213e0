package catalog

// InteractionRecord is a curated assessment for an unordered pair of drugs.
type InteractionRecord struct {
	DrugA          string   `json:"drug_a" yaml:"drug_a" validate:"required"`
	DrugB          string   `json:"drug_b" yaml:"drug_b" validate:"required"`
	Severity       Severity `json:"severity" yaml:"severity" validate:"required,oneof=mild moderate severe"`
	Description    string   `json:"description" yaml:"description"`
	Recommendation string   `json:"recommendation" yaml:"recommendation"`
	References     []string `json:"references,omitempty" yaml:"references"`
}

type pair struct {
	a, b string
}

func (p pair) matches(a, b string) bool {
	return (p.a == a && p.b == b) || (p.a == b && p.b == a)
}

// InteractionTable is the ordered list of curated interactions.
type InteractionTable struct {
	records []InteractionRecord
	pairs   []pair
}

// NewInteractionTable keeps records in the given order; the first record
// matching a pair wins on lookup.
func NewInteractionTable(records []InteractionRecord) *InteractionTable {
	t := &InteractionTable{
		records: make([]InteractionRecord, len(records)),
		pairs:   make([]pair, len(records)),
	}
	copy(t.records, records)
	for i, r := range records {
		t.pairs[i] = pair{a: NormalizeName(r.DrugA), b: NormalizeName(r.DrugB)}
	}
	return t
}

// Find returns the first record whose pair equals {a, b} in either order,
// comparing normalized names.
func (t *InteractionTable) Find(a, b string) (InteractionRecord, bool) {
	if t == nil {
		return InteractionRecord{}, false
	}
	na, nb := NormalizeName(a), NormalizeName(b)
	for i, p := range t.pairs {
		if p.matches(na, nb) {
			return t.records[i], true
		}
	}
	return InteractionRecord{}, false
}

// Len returns the number of records, duplicates included.
func (t *InteractionTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}
