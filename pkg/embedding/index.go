package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rxcheck/ddi/pkg/catalog"
)

// Status describes how a similarity estimate was obtained.
type Status string

const (
	StatusOK           Status = "ok"
	StatusDrugNotFound Status = "drug_not_found"
	StatusUnavailable  Status = "unavailable"
	StatusError        Status = "error"
)

// SimilarityResult is a cosine score in [-1, 1] with its status. The score is
// zero whenever the status is not ok.
type SimilarityResult struct {
	Score  float64 `json:"score"`
	Status Status  `json:"status"`
}

// Index holds one L2-normalized vector per catalog key, stored at the key's
// ordinal position. A nil *Index is valid and reports every query as
// unavailable.
type Index struct {
	encoder   string
	dimension int
	positions map[string]int
	vectors   [][]float32
}

// Build embeds every catalog profile in key order. Any failure returns an
// error and no index.
func Build(ctx context.Context, cat *catalog.Catalog, enc Encoder) (*Index, error) {
	if enc == nil {
		return nil, errors.New("no encoder configured")
	}
	entries := cat.Entries()
	if len(entries) == 0 {
		return nil, errors.New("catalog is empty")
	}

	docs := make([]string, len(entries))
	for i, e := range entries {
		docs[i] = e.Profile.Document()
	}

	if p, ok := enc.(Preparer); ok {
		if err := p.Prepare(docs); err != nil {
			return nil, fmt.Errorf("prepare %s encoder: %w", enc.Name(), err)
		}
	}

	vecs, err := enc.EmbedTexts(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("encode catalog with %s: %w", enc.Name(), err)
	}
	return newIndex(enc.Name(), entries, vecs)
}

func newIndex(encoder string, entries []catalog.Entry, vecs [][]float32) (*Index, error) {
	if len(vecs) != len(entries) {
		return nil, fmt.Errorf("encoder returned %d vectors for %d drugs", len(vecs), len(entries))
	}
	dim := len(vecs[0])
	if dim == 0 {
		return nil, errors.New("encoder returned empty vectors")
	}

	ix := &Index{
		encoder:   encoder,
		dimension: dim,
		positions: make(map[string]int, len(entries)),
		vectors:   make([][]float32, len(entries)),
	}
	for i, e := range entries {
		if len(vecs[i]) != dim {
			return nil, fmt.Errorf("vector for %q has dimension %d, want %d", e.Key, len(vecs[i]), dim)
		}
		ix.positions[e.Key] = i
		ix.vectors[i] = normalize(vecs[i])
	}
	return ix, nil
}

// Similarity returns the cosine similarity between two drugs by name.
// It never panics.
func (ix *Index) Similarity(a, b string) (res SimilarityResult) {
	if ix == nil {
		return SimilarityResult{Status: StatusUnavailable}
	}
	defer func() {
		if r := recover(); r != nil {
			res = SimilarityResult{Status: StatusError}
		}
	}()

	pa, okA := ix.positions[catalog.NormalizeName(a)]
	pb, okB := ix.positions[catalog.NormalizeName(b)]
	if !okA || !okB {
		return SimilarityResult{Status: StatusDrugNotFound}
	}

	score, err := cosine(ix.vectors[pa], ix.vectors[pb])
	if err != nil {
		return SimilarityResult{Status: StatusError}
	}
	return SimilarityResult{Score: score, Status: StatusOK}
}

// Len returns the number of indexed drugs.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.vectors)
}

// Dimension returns the vector dimension.
func (ix *Index) Dimension() int {
	if ix == nil {
		return 0
	}
	return ix.dimension
}

// Encoder returns the name of the encoder that produced the vectors.
func (ix *Index) Encoder() string {
	if ix == nil {
		return ""
	}
	return ix.encoder
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	n := math.Sqrt(sum)
	if n == 0 {
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / n)
	}
	return out
}

// cosine re-normalizes both vectors before taking the inner product.
func cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d != %d", len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, errors.New("zero-norm vector")
	}
	score := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, errors.New("non-finite similarity")
	}
	return max(-1, min(1, score)), nil
}
