package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
)

const researchAgentName = "research"

func RunResearch(
	ctx context.Context,
	in *GraphState,
	researcher contractx.Researcher,
	store contractx.KnowledgeStore,
) (*GraphState, error) {
	if err := requireState(in); err != nil {
		return nil, err
	}
	if !in.Plan.Has(contractx.StepResearch) {
		return in, nil
	}

	out, err := researcher.Research(ctx, in.Question)
	if err != nil {
		return nil, fmt.Errorf("research step: %w", err)
	}

	store.AddAgentState(researchAgentName, in.Question, map[string]any{
		"confidence":  out.Confidence,
		"used_memory": out.Meta["used_memory"],
	})
	log.Info().
		Str("content", preview(out.Content)).
		Float64("confidence", out.Confidence).
		Msg("research.out")

	in.appendStep(out.Content, out.Confidence)
	return in, nil
}
