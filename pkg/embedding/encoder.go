// Package embedding turns drug profiles into vectors and answers similarity
// queries between drugs of the catalog.
package embedding

import (
	"context"
)

// Encoder maps texts to fixed-dimension vectors, one per input, in order.
type Encoder interface {
	Name() string
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Preparer is implemented by encoders that must see the whole corpus before
// they can embed, such as TF-IDF.
type Preparer interface {
	Prepare(corpus []string) error
}
