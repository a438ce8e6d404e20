package orchestratornode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
)

const recallConfidence = 0.8

// RecallMemory runs only when memory leads the plan. The memory step is then
// consumed; a plan left empty falls through to research.
func RecallMemory(
	ctx context.Context,
	in *GraphState,
	memory contractx.MemoryAgent,
	topK int,
) (*GraphState, error) {
	if err := requireState(in); err != nil {
		return nil, err
	}
	if len(in.Plan) == 0 || in.Plan[0] != contractx.StepMemory {
		return in, nil
	}

	hits, err := memory.Recall(ctx, in.Question, topK)
	if err != nil {
		return nil, fmt.Errorf("recall memory: %w", err)
	}
	if len(hits) > 0 {
		in.appendStep(formatRecall(hits), recallConfidence)
	}

	in.Plan = in.Plan.Without(contractx.StepMemory)
	if len(in.Plan) == 0 {
		in.Plan = contractx.Plan{contractx.StepResearch}
	}
	return in, nil
}

func formatRecall(hits []contractx.KnowledgeHit) string {
	var b strings.Builder
	b.WriteString("Recall:")
	for _, h := range hits {
		fmt.Fprintf(&b, "\n- %s: %s", h.Topic, h.Content)
	}
	return b.String()
}
