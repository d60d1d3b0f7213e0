package resolve

import (
	"time"

	"github.com/rxcheck/ddi/pkg/embedding"
)

// Observer receives pipeline events, typically to export metrics.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveResolution(method Method)
	ObserveSimilarity(status embedding.Status)
	ObserveFallback(strategy string, reason string)
	ObserveReasoning(d time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveResolution(Method)              {}
func (nopObserver) ObserveSimilarity(embedding.Status)    {}
func (nopObserver) ObserveFallback(string, string)        {}
func (nopObserver) ObserveReasoning(time.Duration, error) {}
