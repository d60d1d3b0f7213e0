package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rxcheck/ddi/pkg/catalog"
	"github.com/rxcheck/ddi/pkg/embedding"
	"github.com/rxcheck/ddi/pkg/logger"
)

// ErrInternal is returned when resolving a pair failed unexpectedly.
var ErrInternal = errors.New("internal error")

const staticSource = "Static Database"

// PipelineParams wires the pipeline. Index and Reasoner are optional; a
// Reasoner without an Index is dropped.
type PipelineParams struct {
	Catalog  *catalog.Catalog
	Table    *catalog.InteractionTable
	Index    *embedding.Index
	Reasoner Synthesizer
	Observer Observer
}

// Pipeline resolves drug pairs against read-only reference data. It is safe
// for concurrent use.
type Pipeline struct {
	catalog  *catalog.Catalog
	table    *catalog.InteractionTable
	index    *embedding.Index
	chain    *Chain
	observer Observer

	reasoning bool
}

// Capabilities reports which optional layers are active.
type Capabilities struct {
	Reasoning    bool     `json:"reasoning"`
	Index        bool     `json:"index"`
	Encoder      string   `json:"encoder,omitempty"`
	Strategies   []string `json:"strategies"`
	Drugs        int      `json:"drugs"`
	Interactions int      `json:"interactions"`
}

func NewPipeline(p PipelineParams) *Pipeline {
	observer := p.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	if p.Index == nil && p.Reasoner != nil {
		logger.Warn("Reasoning disabled without a similarity index", "strategy", p.Reasoner.Name())
		p.Reasoner = nil
	}
	return &Pipeline{
		catalog:   p.Catalog,
		table:     p.Table,
		index:     p.Index,
		chain:     NewChain(observer, p.Reasoner),
		observer:  observer,
		reasoning: p.Reasoner != nil,
	}
}

// Resolve returns the assessment for drugA and drugB. A curated record wins
// outright; otherwise the similarity estimate feeds the explanation chain.
// Unknown drugs are not an error.
func (p *Pipeline) Resolve(ctx context.Context, drugA, drugB string) (out Assessment, err error) {
	a := strings.TrimSpace(drugA)
	b := strings.TrimSpace(drugB)
	log := logger.FromContext(ctx).With("drug_a", a, "drug_b", b)
	ctx = logger.NewContext(ctx, log)

	defer func() {
		if r := recover(); r != nil {
			log.Error("Recovered while resolving interaction", "panic", r)
			out = Assessment{}
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	if rec, ok := p.table.Find(a, b); ok {
		out = staticAssessment(rec)
		p.observer.ObserveResolution(out.Method)
		return out, nil
	}

	sim := p.index.Similarity(a, b)
	p.observer.ObserveSimilarity(sim.Status)
	if sim.Status != embedding.StatusOK {
		log.Debug("Similarity unavailable", "status", sim.Status)
	}

	req := Request{
		DrugA: a,
		DrugB: b,
		Score: clamp01(sim.Score),
	}
	req.ProfileA, req.KnownA = p.catalog.Get(a)
	req.ProfileB, req.KnownB = p.catalog.Get(b)

	out, err = p.chain.Synthesize(ctx, req)
	if err != nil {
		return Assessment{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	p.observer.ObserveResolution(out.Method)
	return out, nil
}

func staticAssessment(rec catalog.InteractionRecord) Assessment {
	sources := []string{staticSource}
	if len(rec.References) > 0 {
		sources = make([]string, len(rec.References))
		copy(sources, rec.References)
	}
	return Assessment{
		Severity:       rec.Severity,
		Description:    rec.Description,
		Recommendation: rec.Recommendation,
		Sources:        sources,
		Confidence:     staticConfidence,
		Method:         MethodStaticLookup,
	}
}

// GetDrug returns the catalog profile for name.
func (p *Pipeline) GetDrug(name string) (catalog.DrugProfile, bool) {
	return p.catalog.Get(name)
}

// ListDrugs returns every catalog entry in key order.
func (p *Pipeline) ListDrugs() []catalog.Entry {
	return p.catalog.Entries()
}

func (p *Pipeline) Capabilities() Capabilities {
	return Capabilities{
		Reasoning:    p.reasoning,
		Index:        p.index != nil,
		Encoder:      p.index.Encoder(),
		Strategies:   p.chain.Names(),
		Drugs:        p.catalog.Len(),
		Interactions: p.table.Len(),
	}
}
