package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/rxcheck/ddi/pkg/catalog"
)

var highRiskClasses = []string{"anticoagulant", "nsaid", "ace inhibitor"}

const ruleSource = "Rule-based analysis"

// RuleSynthesizer grades a pair from the drug classes alone. It always
// succeeds and is the last link of every chain.
type RuleSynthesizer struct{}

func (RuleSynthesizer) Name() string { return string(MethodRuleBased) }

func (RuleSynthesizer) Synthesize(_ context.Context, req Request) (Assessment, error) {
	classA := strings.ToLower(req.ProfileA.DrugClass)
	classB := strings.ToLower(req.ProfileB.DrugClass)

	out := Assessment{
		Severity:       catalog.SeverityMild,
		Description:    fmt.Sprintf("Potential interaction between %s and %s based on drug class analysis.", req.DrugA, req.DrugB),
		Recommendation: "Monitor patients as clinically appropriate.",
		Sources:        []string{ruleSource},
		Confidence:     max(0.3, req.Score),
		Method:         MethodRuleBased,
	}

	if isHighRisk(classA) && isHighRisk(classB) {
		out.Severity = catalog.SeverityModerate
		out.Description = fmt.Sprintf("Moderate interaction risk between %s and %s.", classA, classB)
		out.Recommendation = "Monitor closely for adverse effects and consider dose adjustments."
	}

	if bleedingRisk(classA, classB) {
		out.Severity = catalog.SeveritySevere
		out.Description = "High bleeding risk when combining anticoagulants with NSAIDs."
		out.Recommendation = "Avoid combination if possible. Use alternative pain management."
	}

	return out, nil
}

func isHighRisk(class string) bool {
	for _, c := range highRiskClasses {
		if strings.Contains(class, c) {
			return true
		}
	}
	return false
}

func bleedingRisk(a, b string) bool {
	return (strings.Contains(a, "anticoagulant") && strings.Contains(b, "nsaid")) ||
		(strings.Contains(a, "nsaid") && strings.Contains(b, "anticoagulant"))
}
