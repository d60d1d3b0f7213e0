package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rxcheck/ddi/pkg/ai"
	"github.com/rxcheck/ddi/pkg/catalog"
	"github.com/rxcheck/ddi/pkg/logger"

	"github.com/go-playground/validator"
	"github.com/sony/gobreaker"
)

// ErrInvalidAnswer is returned when the reasoning service answered but the
// answer does not satisfy the assessment contract.
var ErrInvalidAnswer = errors.New("reasoning answer failed validation")

// StructuredCompleter is the part of an AI client the reasoning strategy needs.
type StructuredCompleter interface {
	Name() string
	GenerateCompletionWithFormat(
		ctx context.Context,
		name string,
		description string,
		prompt string,
		out any,
		opts ...ai.GenerateOption,
	) error
}

// ReasoningConfig tunes the reasoning strategy. Zero values select the
// defaults noted on each field.
type ReasoningConfig struct {
	Model       string        // backend default when empty
	Timeout     time.Duration // 5s
	MaxTokens   int           // 300
	Temperature float64       // 0.1

	// BreakerFailures consecutive failures open the breaker for
	// BreakerCooldown. Defaults are 5 and 30s.
	BreakerFailures uint32
	BreakerCooldown time.Duration

	// Source is reported in Assessment.Sources, "<backend> analysis" by default.
	Source string

	Observer Observer
}

// ReasoningSynthesizer asks an external language model for a structured
// assessment. Every call is attempted once under a deadline and guarded by a
// circuit breaker; any failure is returned so the chain can fall back.
type ReasoningSynthesizer struct {
	client   StructuredCompleter
	breaker  *gobreaker.CircuitBreaker
	cfg      ReasoningConfig
	validate *validator.Validate
}

type reasoningAnswer struct {
	Severity       string `json:"severity" jsonschema:"enum=mild,enum=moderate,enum=severe" validate:"required,oneof=mild moderate severe"`
	Description    string `json:"description" validate:"required"`
	Recommendation string `json:"recommendation" validate:"required"`
}

// NewReasoningSynthesizer wraps client with the given configuration.
func NewReasoningSynthesizer(client StructuredCompleter, cfg ReasoningConfig) *ReasoningSynthesizer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 300
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}
	if cfg.Source == "" {
		cfg.Source = client.Name() + " analysis"
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}

	failures := cfg.BreakerFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "reasoning-" + client.Name(),
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// a caller that went away says nothing about the backend
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &ReasoningSynthesizer{
		client:   client,
		breaker:  breaker,
		cfg:      cfg,
		validate: validator.New(),
	}
}

func (r *ReasoningSynthesizer) Name() string { return string(MethodAIRAG) }

func (r *ReasoningSynthesizer) Synthesize(ctx context.Context, req Request) (Assessment, error) {
	prompt := buildInteractionPrompt(req)

	opts := []ai.GenerateOption{
		ai.WithSystemPrompts(ai.InteractionSystemPrompt),
		ai.WithTemperature(r.cfg.Temperature),
		ai.WithMaxTokens(r.cfg.MaxTokens),
	}
	if r.cfg.Model != "" {
		opts = append(opts, ai.WithModel(r.cfg.Model))
	}

	start := time.Now()
	res, err := r.breaker.Execute(func() (any, error) {
		cctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()

		var answer reasoningAnswer
		if err := r.client.GenerateCompletionWithFormat(
			cctx,
			"interaction_assessment",
			"Clinical assessment of a drug-drug interaction",
			prompt,
			&answer,
			opts...,
		); err != nil {
			return nil, err
		}

		answer.Severity = strings.ToLower(strings.TrimSpace(answer.Severity))
		answer.Description = strings.TrimSpace(answer.Description)
		answer.Recommendation = strings.TrimSpace(answer.Recommendation)
		if err := r.validate.Struct(answer); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
		}
		return answer, nil
	})
	r.cfg.Observer.ObserveReasoning(time.Since(start), err)
	if err != nil {
		return Assessment{}, err
	}

	answer := res.(reasoningAnswer)
	return Assessment{
		Severity:       catalog.Severity(answer.Severity),
		Description:    answer.Description,
		Recommendation: answer.Recommendation,
		Sources:        []string{r.cfg.Source},
		Confidence:     min(0.8, req.Score+0.3),
		Method:         MethodAIRAG,
	}, nil
}

func buildInteractionPrompt(req Request) string {
	profiles := drugContext("Drug A", req.DrugA, req.ProfileA) + "\n" + drugContext("Drug B", req.DrugB, req.ProfileB)
	return fmt.Sprintf(ai.InteractionPrompt, req.DrugA, req.DrugB, profiles, req.Score)
}

func drugContext(label, name string, p catalog.DrugProfile) string {
	return fmt.Sprintf(ai.InteractionDrugContext,
		label,
		name,
		orUnknown(p.DrugClass),
		orUnknown(p.Mechanism),
		orUnknown(p.InteractionsProfile),
	)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

// FallbackReason classifies a strategy failure for logs and metrics.
func FallbackReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.Is(err, ai.ErrInvalidResponse), errors.Is(err, ErrInvalidAnswer):
		return "invalid_response"
	default:
		return "error"
	}
}
