package planner

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	capabilityx "github.com/tanpawarit/stepwise-orchestrator/agent/capability"
	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
)

var fencedArrayPattern = regexp.MustCompile("(?is)```(?:json)?\\s*(\\[.*?\\])\\s*```")

// extractJSONArray prefers a fenced code block holding an array and otherwise
// takes everything from the first '[' to the last ']'.
func extractJSONArray(text string) (string, bool) {
	if m := fencedArrayPattern.FindStringSubmatch(text); m != nil {
		return m[1], true
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// ParsePlan validates untrusted collaborator output. Non-string, unknown and
// repeated entries are dropped silently and at most MaxPlanSteps are kept.
// It fails only when no array can be decoded or nothing valid remains.
func ParsePlan(text string) (contractx.Plan, error) {
	raw, ok := extractJSONArray(text)
	if !ok {
		return nil, fmt.Errorf("%w: no json array in planner output", contractx.ErrSchemaViolation)
	}

	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: decode planner output: %v", contractx.ErrSchemaViolation, err)
	}

	plan := make(contractx.Plan, 0, contractx.MaxPlanSteps)
	for _, item := range items {
		name, ok := item.(string)
		if !ok {
			continue
		}
		step, ok := capabilityx.Lookup(name)
		if !ok || plan.Has(step) {
			continue
		}
		plan = append(plan, step)
		if len(plan) >= contractx.MaxPlanSteps {
			break
		}
	}

	if len(plan) == 0 {
		return nil, contractx.ErrPlanEmpty
	}
	return plan, nil
}
