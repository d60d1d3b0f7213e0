// Package resolve answers "what is the interaction risk between these two
// drugs" by trying a curated lookup first and synthesizing an explanation
// when no curated record exists.
package resolve

import (
	"context"

	"github.com/rxcheck/ddi/pkg/catalog"
)

// Method records which layer produced an assessment.
type Method string

const (
	MethodStaticLookup Method = "static_lookup"
	MethodAIRAG        Method = "ai_rag"
	MethodRuleBased    Method = "rule_based"
)

const staticConfidence = 0.95

// Assessment is the answer returned for a drug pair. It is built per request
// and never cached.
type Assessment struct {
	Severity       catalog.Severity `json:"severity"`
	Description    string           `json:"description"`
	Recommendation string           `json:"recommendation"`
	Sources        []string         `json:"sources"`
	Confidence     float64          `json:"confidence"`
	Method         Method           `json:"method"`
}

// Request carries everything a Synthesizer may use. Names are the caller's
// trimmed spelling; profiles are zero when the drug is not in the catalog.
type Request struct {
	DrugA    string
	DrugB    string
	ProfileA catalog.DrugProfile
	ProfileB catalog.DrugProfile
	KnownA   bool
	KnownB   bool
	// Score is the similarity estimate clamped to [0, 1].
	Score float64
}

// Synthesizer produces an assessment for a pair without a curated record.
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, req Request) (Assessment, error)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
