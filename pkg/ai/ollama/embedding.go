package ollama

import (
	"context"
	"fmt"
	"strings"

	"github.com/rxcheck/ddi/pkg/ai"

	"github.com/ollama/ollama/api"
)

// GenerateEmbeddings embeds all non-blank inputs in one request. Blank
// inputs map to zero vectors.
func (c *OllamaClient) GenerateEmbeddings(
	ctx context.Context,
	inputs [][]byte,
) ([][]float32, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	idx := make([]int, 0, len(inputs))
	texts := make([]string, 0, len(inputs))
	for i, in := range inputs {
		if len(strings.TrimSpace(string(in))) == 0 {
			continue
		}
		idx = append(idx, i)
		texts = append(texts, string(in))
	}

	out := make([][]float32, len(inputs))
	if len(texts) == 0 {
		for i := range out {
			out[i] = make([]float32, c.embeddingDim)
		}
		return out, nil
	}

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.reqLock.Release(1)

	res, err := c.Client.Embed(ctx, &api.EmbedRequest{
		Model: c.embeddingModel,
		Input: texts,
	})
	if err != nil {
		return nil, err
	}

	c.reportUsage(ai.OperationEmbedding, ai.ModelMetrics{
		InputTokens: res.PromptEvalCount,
		TotalTokens: res.PromptEvalCount,
		DurationMs:  res.TotalDuration.Milliseconds(),
	})

	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding response size mismatch: got %d want %d", len(res.Embeddings), len(texts))
	}

	dim := 0
	for j, e := range res.Embeddings {
		v := ai.FitDimension(e, c.embeddingDim)
		dim = len(v)
		out[idx[j]] = v
	}
	for i := range out {
		if out[i] == nil {
			out[i] = make([]float32, dim)
		}
	}
	return out, nil
}
