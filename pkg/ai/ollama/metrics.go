package ollama

import (
	"github.com/rxcheck/ddi/pkg/ai"
)

func (c *OllamaClient) reportUsage(operation string, m ai.ModelMetrics) {
	if c.usage == nil {
		return
	}
	c.usage.ObserveUsage(c.Name(), operation, m)
}
