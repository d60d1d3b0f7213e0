package resolve

import (
	"context"
	"errors"

	"github.com/rxcheck/ddi/pkg/logger"
)

// Chain tries each synthesizer in order and returns the first result that
// did not fail.
type Chain struct {
	strategies []Synthesizer
	observer   Observer
}

// NewChain builds a chain ending in the rule engine. Nil strategies are
// skipped.
func NewChain(observer Observer, strategies ...Synthesizer) *Chain {
	if observer == nil {
		observer = nopObserver{}
	}
	c := &Chain{observer: observer}
	for _, s := range strategies {
		if s == nil {
			continue
		}
		if _, ok := s.(RuleSynthesizer); ok {
			continue
		}
		c.strategies = append(c.strategies, s)
	}
	c.strategies = append(c.strategies, RuleSynthesizer{})
	return c
}

// Names lists the strategies in the order they are tried.
func (c *Chain) Names() []string {
	out := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		out[i] = s.Name()
	}
	return out
}

func (c *Chain) Synthesize(ctx context.Context, req Request) (Assessment, error) {
	var errs []error
	for _, s := range c.strategies {
		out, err := s.Synthesize(ctx, req)
		if err == nil {
			return out, nil
		}
		reason := FallbackReason(err)
		logger.FromContext(ctx).Warn("Explanation strategy failed, falling back",
			"strategy", s.Name(),
			"reason", reason,
			"err", err,
		)
		c.observer.ObserveFallback(s.Name(), reason)
		errs = append(errs, err)
	}
	return Assessment{}, errors.Join(errs...)
}
