package embedding

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// EmbeddingGenerator is the slice of an AI client used for remote encoding.
type EmbeddingGenerator interface {
	GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error)
}

const defaultBatchSize = 64

// RemoteEncoder embeds texts through an AI client, sending batches
// concurrently. The client bounds the real parallelism.
type RemoteEncoder struct {
	name      string
	client    EmbeddingGenerator
	batchSize int
}

// NewRemoteEncoder wraps client. name identifies the encoder and model, for
// example "openai/text-embedding-3-small".
func NewRemoteEncoder(name string, client EmbeddingGenerator, batchSize int) *RemoteEncoder {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &RemoteEncoder{name: name, client: client, batchSize: batchSize}
}

func (r *RemoteEncoder) Name() string { return r.name }

func (r *RemoteEncoder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, len(texts))
	eg, ectx := errgroup.WithContext(ctx)
	for start := 0; start < len(texts); start += r.batchSize {
		end := min(start+r.batchSize, len(texts))
		batch := make([][]byte, 0, end-start)
		for _, t := range texts[start:end] {
			batch = append(batch, []byte(t))
		}
		offset := start
		eg.Go(func() error {
			res, err := r.client.GenerateEmbeddings(ectx, batch)
			if err != nil {
				return err
			}
			if len(res) != len(batch) {
				return fmt.Errorf("embedding batch size mismatch: got %d want %d", len(res), len(batch))
			}
			copy(out[offset:], res)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
