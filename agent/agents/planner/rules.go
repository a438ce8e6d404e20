package planner

import (
	"strings"

	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
)

var (
	researchKeywords = []string{"research", "find", "look up", "papers", "information", "what are", "list"}
	analysisKeywords = []string{"analyze", "compare", "efficiency", "trade-off", "recommend", "which is better", "summarize"}
	memoryKeywords   = []string{"what did we", "earlier", "previously", "remember", "recall"}

	defaultPlan = contractx.Plan{contractx.StepResearch, contractx.StepAnalysis}
)

// RulePlan classifies question by keyword. Memory always runs first when it
// matches; a question matching nothing gets research followed by analysis.
func RulePlan(question string) contractx.Plan {
	q := strings.ToLower(question)

	plan := make(contractx.Plan, 0, contractx.MaxPlanSteps)
	if containsAny(q, memoryKeywords) {
		plan = append(plan, contractx.StepMemory)
	}
	if containsAny(q, researchKeywords) {
		plan = append(plan, contractx.StepResearch)
	}
	if containsAny(q, analysisKeywords) {
		plan = append(plan, contractx.StepAnalysis)
	}

	if len(plan) == 0 {
		return append(contractx.Plan{}, defaultPlan...)
	}
	return plan
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
