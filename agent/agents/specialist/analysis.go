package specialist

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
)

type analysisAgent struct{}

func newAnalysisAgent() *analysisAgent {
	return &analysisAgent{}
}

// Coverage counts distinct lowercase whitespace-separated tokens across items.
func Coverage(items []string) int {
	seen := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(strings.Join(items, " "))) {
		seen[tok] = struct{}{}
	}
	return len(seen)
}

// AnalysisConfidence grows with coverage and saturates at 0.9.
func AnalysisConfidence(coverage int) float64 {
	return min(0.95, 0.5+min(0.4, float64(coverage)/400))
}

func (a *analysisAgent) Analyze(_ context.Context, items []string, goal string) (contractx.StepResult, error) {
	coverage := Coverage(items)

	reasoning := fmt.Sprintf("Analyzed %d items with approx %d unique tokens.", len(items), coverage)
	if goal != "" {
		reasoning += " Goal: " + goal
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	return contractx.StepResult{
		Content:    "Summary: " + strings.Join(parts, "; ") + "\nReasoning: " + reasoning,
		Confidence: AnalysisConfidence(coverage),
		Meta: map[string]any{
			"coverage": coverage,
		},
	}, nil
}
