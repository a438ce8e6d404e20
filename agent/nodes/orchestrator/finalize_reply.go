package orchestratornode

import (
	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if err := requireState(in); err != nil {
		return GraphOutput{}, err
	}

	return GraphOutput{Result: contractx.Result{
		Content:    in.Content,
		Confidence: in.Confidence,
		Metadata: map[string]any{
			"plan": in.Plan.Strings(),
		},
	}}, nil
}
