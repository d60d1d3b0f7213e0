package resolve

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rxcheck/ddi/pkg/ai"
	"github.com/rxcheck/ddi/pkg/catalog"
	"github.com/rxcheck/ddi/pkg/embedding"
)

func testData() (*catalog.Catalog, *catalog.InteractionTable) {
	cat := catalog.NewCatalog([]catalog.DrugProfile{
		{Name: "Warfarin", DrugClass: "Anticoagulant", Mechanism: "Vitamin K antagonist", InteractionsProfile: "Bleeding risk"},
		{Name: "Ibuprofen", DrugClass: "NSAID", Mechanism: "COX inhibitor", InteractionsProfile: "GI bleeding"},
		{Name: "Aspirin", DrugClass: "NSAID / Antiplatelet", Mechanism: "Irreversible COX inhibitor"},
		{Name: "Lisinopril", DrugClass: "ACE Inhibitor", Mechanism: "ACE blockade"},
		{Name: "Metformin", DrugClass: "Biguanide", Mechanism: "Hepatic gluconeogenesis suppression"},
		{Name: "Naproxen", DrugClass: "NSAID", Mechanism: "COX inhibitor"},
	})
	table := catalog.NewInteractionTable([]catalog.InteractionRecord{
		{
			DrugA: "Aspirin", DrugB: "Warfarin", Severity: catalog.SeveritySevere,
			Description:    "Major bleeding risk",
			Recommendation: "Avoid combination",
			References:     []string{"FDA Drug Safety Communication"},
		},
		{
			DrugA: "Lisinopril", DrugB: "Metformin", Severity: catalog.SeverityMild,
			Description: "Possible hypoglycemia", Recommendation: "Monitor glucose",
		},
	})
	return cat, table
}

// vectorIndex builds an index whose warfarin/ibuprofen cosine is 0.6.
func vectorIndex(t *testing.T, cat *catalog.Catalog) *embedding.Index {
	t.Helper()
	vecs := map[string][]float32{
		"warfarin":   {1, 0, 0},
		"ibuprofen":  {0.6, 0.8, 0},
		"aspirin":    {0, 1, 0},
		"lisinopril": {0, 0, 1},
		"metformin":  {0, 0.6, 0.8},
		"naproxen":   {-1, 0, 0},
	}
	keys := cat.Keys()
	out := make([][]float32, len(keys))
	for i, k := range keys {
		out[i] = vecs[k]
	}
	ix, err := embedding.Build(context.Background(), cat, staticEncoder(out))
	if err != nil {
		t.Fatalf("embedding.Build() error = %v", err)
	}
	return ix
}

type staticEncoder [][]float32

func (s staticEncoder) Name() string { return "static" }

func (s staticEncoder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return s, nil
}

type fakeCompleter struct {
	mu      sync.Mutex
	calls   int
	content string
	err     error
	delay   time.Duration
	prompts []string
}

func (f *fakeCompleter) Name() string { return "fake" }

func (f *fakeCompleter) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.err != nil {
		return f.err
	}
	return ai.UnmarshalFlexible(f.content, out)
}

type countingObserver struct {
	mu          sync.Mutex
	resolutions map[Method]int
	fallbacks   map[string]int
	similarity  map[embedding.Status]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{
		resolutions: map[Method]int{},
		fallbacks:   map[string]int{},
		similarity:  map[embedding.Status]int{},
	}
}

func (o *countingObserver) ObserveResolution(m Method) {
	o.mu.Lock()
	o.resolutions[m]++
	o.mu.Unlock()
}

func (o *countingObserver) ObserveSimilarity(s embedding.Status) {
	o.mu.Lock()
	o.similarity[s]++
	o.mu.Unlock()
}

func (o *countingObserver) ObserveFallback(strategy, reason string) {
	o.mu.Lock()
	o.fallbacks[strategy+"/"+reason]++
	o.mu.Unlock()
}

func (o *countingObserver) ObserveReasoning(time.Duration, error) {}

func newPipeline(t *testing.T, withIndex bool, reasoner Synthesizer, obs Observer) *Pipeline {
	t.Helper()
	cat, table := testData()
	var ix *embedding.Index
	if withIndex {
		ix = vectorIndex(t, cat)
	}
	return NewPipeline(PipelineParams{
		Catalog:  cat,
		Table:    table,
		Index:    ix,
		Reasoner: reasoner,
		Observer: obs,
	})
}

func TestResolve_StaticLookup(t *testing.T) {
	p := newPipeline(t, true, nil, nil)

	out, err := p.Resolve(context.Background(), "Aspirin", "Warfarin")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if out.Method != MethodStaticLookup || out.Confidence != 0.95 || out.Severity != catalog.SeveritySevere {
		t.Fatalf("unexpected assessment %+v", out)
	}
	if len(out.Sources) != 1 || out.Sources[0] != "FDA Drug Safety Communication" {
		t.Fatalf("sources = %v", out.Sources)
	}
}

func TestResolve_StaticLookupDefaultSource(t *testing.T) {
	p := newPipeline(t, false, nil, nil)
	out, err := p.Resolve(context.Background(), "metformin", "LISINOPRIL")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if out.Method != MethodStaticLookup || len(out.Sources) != 1 || out.Sources[0] != "Static Database" {
		t.Fatalf("unexpected assessment %+v", out)
	}
}

func TestResolve_StaticLookupSkipsReasoning(t *testing.T) {
	fc := &fakeCompleter{content: `{"severity":"mild","description":"d","recommendation":"r"}`}
	p := newPipeline(t, true, NewReasoningSynthesizer(fc, ReasoningConfig{}), nil)

	if _, err := p.Resolve(context.Background(), "warfarin", "aspirin"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if fc.calls != 0 {
		t.Fatalf("reasoning service called %d times for a curated pair", fc.calls)
	}
}

func TestResolve_Symmetric(t *testing.T) {
	fc := &fakeCompleter{content: `{"severity":"moderate","description":"d","recommendation":"r"}`}
	pipelines := map[string]*Pipeline{
		"rules only":     newPipeline(t, true, nil, nil),
		"no index":       newPipeline(t, false, nil, nil),
		"with reasoning": newPipeline(t, true, NewReasoningSynthesizer(fc, ReasoningConfig{}), nil),
	}
	pairs := [][2]string{
		{"Warfarin", "Ibuprofen"},
		{"Aspirin", "Warfarin"},
		{"Lisinopril", "Naproxen"},
		{"Metformin", "Unknownium"},
	}

	for name, p := range pipelines {
		for _, pair := range pairs {
			ab, err1 := p.Resolve(context.Background(), pair[0], pair[1])
			ba, err2 := p.Resolve(context.Background(), pair[1], pair[0])
			if err1 != nil || err2 != nil {
				t.Fatalf("%s: Resolve() errors %v, %v", name, err1, err2)
			}
			if ab.Severity != ba.Severity || ab.Method != ba.Method || ab.Confidence != ba.Confidence {
				t.Fatalf("%s: %v not symmetric: %+v vs %+v", name, pair, ab, ba)
			}
		}
	}
}

func TestResolve_UncuratedPairNeverStatic(t *testing.T) {
	p := newPipeline(t, true, nil, nil)
	cat, table := testData()
	for _, a := range cat.Keys() {
		for _, b := range cat.Keys() {
			if _, ok := table.Find(a, b); ok {
				continue
			}
			out, err := p.Resolve(context.Background(), a, b)
			if err != nil {
				t.Fatalf("Resolve(%q, %q) error = %v", a, b, err)
			}
			if out.Method == MethodStaticLookup {
				t.Fatalf("Resolve(%q, %q) used static lookup for an uncurated pair", a, b)
			}
		}
	}
}

func TestResolve_ConfidenceBounds(t *testing.T) {
	fc := &fakeCompleter{content: `{"severity":"moderate","description":"d","recommendation":"r"}`}
	pipelines := []*Pipeline{
		newPipeline(t, true, nil, nil),
		newPipeline(t, true, NewReasoningSynthesizer(fc, ReasoningConfig{}), nil),
	}
	cat, _ := testData()
	names := append(cat.Keys(), "unknownium")

	for _, p := range pipelines {
		for _, a := range names {
			for _, b := range names {
				out, err := p.Resolve(context.Background(), a, b)
				if err != nil {
					t.Fatalf("Resolve(%q, %q) error = %v", a, b, err)
				}
				switch out.Method {
				case MethodRuleBased:
					if out.Confidence < 0.3 || out.Confidence > 1 {
						t.Fatalf("rule confidence %v out of [0.3, 1]", out.Confidence)
					}
				case MethodAIRAG:
					if out.Confidence < 0.3 || out.Confidence > 0.8 {
						t.Fatalf("ai confidence %v out of [0.3, 0.8]", out.Confidence)
					}
				case MethodStaticLookup:
					if out.Confidence != 0.95 {
						t.Fatalf("static confidence %v, want 0.95", out.Confidence)
					}
				}
			}
		}
	}
}

func TestResolve_AnticoagulantNSAIDIsSevere(t *testing.T) {
	p := newPipeline(t, true, nil, nil)
	for _, pair := range [][2]string{{"Warfarin", "Ibuprofen"}, {"Naproxen", "Warfarin"}} {
		out, err := p.Resolve(context.Background(), pair[0], pair[1])
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if out.Severity != catalog.SeveritySevere || out.Method != MethodRuleBased {
			t.Fatalf("Resolve(%v) = %+v, want severe rule_based", pair, out)
		}
		if out.Description != "High bleeding risk when combining anticoagulants with NSAIDs." {
			t.Fatalf("description = %q", out.Description)
		}
	}
}

func TestResolve_WarfarinIbuprofenScenario(t *testing.T) {
	p := newPipeline(t, true, nil, nil)
	out, err := p.Resolve(context.Background(), "Warfarin", "Ibuprofen")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if out.Severity != catalog.SeveritySevere {
		t.Fatalf("severity = %q, want severe", out.Severity)
	}
	if diff := out.Confidence - 0.6; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("confidence = %v, want 0.6", out.Confidence)
	}
	if out.Recommendation != "Avoid combination if possible. Use alternative pain management." {
		t.Fatalf("recommendation = %q", out.Recommendation)
	}
	if len(out.Sources) != 1 || out.Sources[0] != "Rule-based analysis" {
		t.Fatalf("sources = %v", out.Sources)
	}
}

func TestResolve_SingleHighRiskMarkerStaysMild(t *testing.T) {
	p := newPipeline(t, true, nil, nil)
	out, err := p.Resolve(context.Background(), "Warfarin", "Metformin")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if out.Severity != catalog.SeverityMild {
		t.Fatalf("severity = %q, want mild", out.Severity)
	}
	want := "Potential interaction between Warfarin and Metformin based on drug class analysis."
	if out.Description != want {
		t.Fatalf("description = %q, want %q", out.Description, want)
	}
}

func TestResolve_BothHighRiskIsModerate(t *testing.T) {
	p := newPipeline(t, true, nil, nil)
	out, err := p.Resolve(context.Background(), "Lisinopril", "Naproxen")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if out.Severity != catalog.SeverityModerate {
		t.Fatalf("severity = %q, want moderate", out.Severity)
	}
	if out.Description != "Moderate interaction risk between ace inhibitor and nsaid." {
		t.Fatalf("description = %q", out.Description)
	}
	// cosine of orthogonal vectors clamps to the 0.3 floor
	if out.Confidence != 0.3 {
		t.Fatalf("confidence = %v, want 0.3", out.Confidence)
	}
}

func TestResolve_CaseAndWhitespaceInsensitive(t *testing.T) {
	p := newPipeline(t, true, nil, nil)
	base, err := p.Resolve(context.Background(), "Warfarin", "Ibuprofen")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	for _, pair := range [][2]string{
		{"warfarin", "ibuprofen"},
		{"  WARFARIN", "IbUpRoFeN  "},
		{"\tWarfarin\n", " ibuprofen"},
	} {
		out, err := p.Resolve(context.Background(), pair[0], pair[1])
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if out.Severity != base.Severity || out.Method != base.Method || out.Confidence != base.Confidence {
			t.Fatalf("Resolve(%q) = %+v, want %+v", pair, out, base)
		}
	}
}

func TestResolve_UnknownDrugsWithoutIndex(t *testing.T) {
	obs := newCountingObserver()
	p := newPipeline(t, false, nil, obs)

	out, err := p.Resolve(context.Background(), "Foo", "Bar")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := Assessment{
		Severity:       catalog.SeverityMild,
		Description:    "Potential interaction between Foo and Bar based on drug class analysis.",
		Recommendation: "Monitor patients as clinically appropriate.",
		Confidence:     0.3,
		Method:         MethodRuleBased,
	}
	if out.Severity != want.Severity || out.Description != want.Description ||
		out.Recommendation != want.Recommendation || out.Confidence != want.Confidence || out.Method != want.Method {
		t.Fatalf("Resolve() = %+v, want %+v", out, want)
	}
	if obs.similarity[embedding.StatusUnavailable] != 1 {
		t.Fatalf("expected one unavailable similarity, got %v", obs.similarity)
	}
}

func TestResolve_MalformedReasoningFallsBackToRules(t *testing.T) {
	rulesOnly := newPipeline(t, true, nil, nil)
	want, err := rulesOnly.Resolve(context.Background(), "Warfarin", "Ibuprofen")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	tests := []struct {
		name   string
		fc     *fakeCompleter
		reason string
	}{
		{name: "not json", fc: &fakeCompleter{content: "hello"}, reason: "invalid_response"},
		{name: "missing fields", fc: &fakeCompleter{content: `{"severity":"moderate"}`}, reason: "invalid_response"},
		{name: "bad severity", fc: &fakeCompleter{content: `{"severity":"catastrophic","description":"d","recommendation":"r"}`}, reason: "invalid_response"},
		{name: "transport error", fc: &fakeCompleter{err: errors.New("connection refused")}, reason: "error"},
		{name: "timeout", fc: &fakeCompleter{delay: time.Second, content: `{}`}, reason: "timeout"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			obs := newCountingObserver()
			reasoner := NewReasoningSynthesizer(tc.fc, ReasoningConfig{Timeout: 20 * time.Millisecond, Observer: obs})
			p := newPipeline(t, true, reasoner, obs)

			got, err := p.Resolve(context.Background(), "Warfarin", "Ibuprofen")
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.Severity != want.Severity || got.Description != want.Description ||
				got.Recommendation != want.Recommendation || got.Confidence != want.Confidence ||
				got.Method != want.Method || strings.Join(got.Sources, ",") != strings.Join(want.Sources, ",") {
				t.Fatalf("Resolve() = %+v, want rule-based %+v", got, want)
			}
			if obs.fallbacks["ai_rag/"+tc.reason] != 1 {
				t.Fatalf("fallbacks = %v, want ai_rag/%s", obs.fallbacks, tc.reason)
			}
		})
	}
}

func TestResolve_ReasoningSuccess(t *testing.T) {
	fc := &fakeCompleter{content: `{"severity":" Moderate ","description":"Additive effect.","recommendation":"Monitor."}`}
	obs := newCountingObserver()
	p := newPipeline(t, true, NewReasoningSynthesizer(fc, ReasoningConfig{Observer: obs}), obs)

	out, err := p.Resolve(context.Background(), "Warfarin", "Ibuprofen")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if out.Method != MethodAIRAG || out.Severity != catalog.SeverityModerate {
		t.Fatalf("unexpected assessment %+v", out)
	}
	if diff := out.Confidence - 0.8; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("confidence = %v, want min(0.8, 0.6+0.3)", out.Confidence)
	}
	if len(out.Sources) != 1 || out.Sources[0] != "fake analysis" {
		t.Fatalf("sources = %v", out.Sources)
	}
	if obs.resolutions[MethodAIRAG] != 1 {
		t.Fatalf("resolutions = %v", obs.resolutions)
	}

	prompt := fc.prompts[0]
	for _, want := range []string{"Warfarin", "Ibuprofen", "Class: Anticoagulant", "Mechanism: COX inhibitor", "0.600"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestResolve_ReasoningPromptMarksUnknownDrug(t *testing.T) {
	fc := &fakeCompleter{content: `{"severity":"mild","description":"d","recommendation":"r"}`}
	p := newPipeline(t, true, NewReasoningSynthesizer(fc, ReasoningConfig{}), nil)

	out, err := p.Resolve(context.Background(), "Warfarin", "Unknownium")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if out.Confidence != 0.3 {
		t.Fatalf("confidence = %v, want 0.3 for drug_not_found", out.Confidence)
	}
	if !strings.Contains(fc.prompts[0], "Class: Unknown") {
		t.Fatalf("prompt should mark unknown profile:\n%s", fc.prompts[0])
	}
}

func TestReasoning_CircuitBreakerOpens(t *testing.T) {
	fc := &fakeCompleter{err: errors.New("503")}
	obs := newCountingObserver()
	reasoner := NewReasoningSynthesizer(fc, ReasoningConfig{
		BreakerFailures: 2,
		BreakerCooldown: time.Hour,
		Observer:        obs,
	})
	p := newPipeline(t, true, reasoner, obs)

	for i := 0; i < 4; i++ {
		out, err := p.Resolve(context.Background(), "Warfarin", "Ibuprofen")
		if err != nil || out.Method != MethodRuleBased {
			t.Fatalf("Resolve() = %+v, %v", out, err)
		}
	}
	if fc.calls != 2 {
		t.Fatalf("reasoning service called %d times, want 2 before the breaker opened", fc.calls)
	}
	if obs.fallbacks["ai_rag/circuit_open"] != 2 {
		t.Fatalf("fallbacks = %v", obs.fallbacks)
	}
}

func TestReasoning_CanceledCallsDoNotOpenBreaker(t *testing.T) {
	fc := &fakeCompleter{err: context.Canceled}
	obs := newCountingObserver()
	reasoner := NewReasoningSynthesizer(fc, ReasoningConfig{
		BreakerFailures: 2,
		BreakerCooldown: time.Hour,
		Observer:        obs,
	})
	p := newPipeline(t, true, reasoner, obs)

	for i := 0; i < 5; i++ {
		out, err := p.Resolve(context.Background(), "Warfarin", "Ibuprofen")
		if err != nil || out.Method != MethodRuleBased {
			t.Fatalf("Resolve() = %+v, %v", out, err)
		}
	}
	if fc.calls != 5 {
		t.Fatalf("reasoning service called %d times, want 5 with the breaker closed", fc.calls)
	}
	if obs.fallbacks["ai_rag/circuit_open"] != 0 || obs.fallbacks["ai_rag/canceled"] != 5 {
		t.Fatalf("fallbacks = %v", obs.fallbacks)
	}

	fc.mu.Lock()
	fc.err = nil
	fc.content = `{"severity":"moderate","description":"d","recommendation":"r"}`
	fc.mu.Unlock()
	out, err := p.Resolve(context.Background(), "Warfarin", "Ibuprofen")
	if err != nil || out.Method != MethodAIRAG {
		t.Fatalf("Resolve() after cancellations = %+v, %v", out, err)
	}
}

func TestResolve_ReasonerIgnoredWithoutIndex(t *testing.T) {
	fc := &fakeCompleter{content: `{"severity":"moderate","description":"d","recommendation":"r"}`}
	obs := newCountingObserver()
	p := newPipeline(t, false, NewReasoningSynthesizer(fc, ReasoningConfig{Observer: obs}), obs)

	out, err := p.Resolve(context.Background(), "Foo", "Bar")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if out.Method != MethodRuleBased || out.Confidence != 0.3 {
		t.Fatalf("Resolve() = %+v, want rule_based at 0.3", out)
	}
	if fc.calls != 0 {
		t.Fatalf("reasoning service called %d times without an index", fc.calls)
	}
	caps := p.Capabilities()
	if caps.Reasoning || strings.Join(caps.Strategies, ",") != "rule_based" {
		t.Fatalf("Capabilities() = %+v", caps)
	}
}

type panickingSynth struct{}

func (panickingSynth) Name() string { return "panics" }

func (panickingSynth) Synthesize(context.Context, Request) (Assessment, error) {
	panic("boom")
}

func TestResolve_RecoversPanics(t *testing.T) {
	p := newPipeline(t, true, panickingSynth{}, nil)
	_, err := p.Resolve(context.Background(), "Warfarin", "Ibuprofen")
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("Resolve() error = %v, want ErrInternal", err)
	}
}

func TestResolve_Concurrent(t *testing.T) {
	fc := &fakeCompleter{content: `{"severity":"mild","description":"d","recommendation":"r"}`}
	p := newPipeline(t, true, NewReasoningSynthesizer(fc, ReasoningConfig{}), newCountingObserver())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := "Warfarin", "Ibuprofen"
			if i%2 == 0 {
				a, b = "Aspirin", "Warfarin"
			}
			if _, err := p.Resolve(context.Background(), a, b); err != nil {
				t.Errorf("Resolve() error = %v", err)
			}
		}(i)
	}
	wg.Wait()
}

func TestPipeline_Accessors(t *testing.T) {
	fc := &fakeCompleter{}
	p := newPipeline(t, true, NewReasoningSynthesizer(fc, ReasoningConfig{}), nil)

	if prof, ok := p.GetDrug("  WARFARIN "); !ok || prof.DrugClass != "Anticoagulant" {
		t.Fatalf("GetDrug() = %+v, %v", prof, ok)
	}
	if _, ok := p.GetDrug("unknownium"); ok {
		t.Fatalf("GetDrug() found unknown drug")
	}
	entries := p.ListDrugs()
	if len(entries) != 6 || entries[0].Key != "warfarin" {
		t.Fatalf("ListDrugs() = %v", entries)
	}

	caps := p.Capabilities()
	if !caps.Reasoning || !caps.Index || caps.Encoder != "static" || caps.Drugs != 6 || caps.Interactions != 2 {
		t.Fatalf("Capabilities() = %+v", caps)
	}
	if strings.Join(caps.Strategies, ",") != "ai_rag,rule_based" {
		t.Fatalf("strategies = %v", caps.Strategies)
	}

	bare := newPipeline(t, false, nil, nil).Capabilities()
	if bare.Reasoning || bare.Index || bare.Encoder != "" {
		t.Fatalf("bare Capabilities() = %+v", bare)
	}
}

func TestFallbackReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{context.DeadlineExceeded, "timeout"},
		{context.Canceled, "canceled"},
		{ai.ErrInvalidResponse, "invalid_response"},
		{ErrInvalidAnswer, "invalid_response"},
		{errors.New("x"), "error"},
	}
	for _, tc := range tests {
		if got := FallbackReason(tc.err); got != tc.want {
			t.Fatalf("FallbackReason(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
