package orchestratornode

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
)

const analysisAgentName = "analysis"

// RunAnalysis feeds every result accumulated so far in this turn to the
// analyst, with the question as its goal.
func RunAnalysis(
	ctx context.Context,
	in *GraphState,
	analyst contractx.Analyst,
	store contractx.KnowledgeStore,
) (*GraphState, error) {
	if err := requireState(in); err != nil {
		return nil, err
	}
	if !in.Plan.Has(contractx.StepAnalysis) {
		return in, nil
	}

	out, err := analyst.Analyze(ctx, slices.Clone(in.Results), in.Question)
	if err != nil {
		return nil, fmt.Errorf("analysis step: %w", err)
	}

	store.AddAgentState(analysisAgentName, in.Question, map[string]any{
		"confidence": out.Confidence,
		"coverage":   out.Meta["coverage"],
	})
	log.Info().
		Str("content", preview(out.Content)).
		Float64("confidence", out.Confidence).
		Msg("analysis.out")

	in.appendStep(out.Content, out.Confidence)
	return in, nil
}
