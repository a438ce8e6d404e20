package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
)

const summaryTag = "summary"

// PersistSummary records the turn twice: as a summary knowledge record
// attributed to the coordinator, and as a manager conversation entry.
func PersistSummary(
	ctx context.Context,
	in *GraphState,
	memory contractx.MemoryAgent,
	store contractx.KnowledgeStore,
	coordinator string,
) (*GraphState, error) {
	if err := requireState(in); err != nil {
		return nil, err
	}

	if _, err := memory.Remember(ctx, contractx.KnowledgeInput{
		Topic:      in.Question,
		Content:    in.Content,
		Source:     coordinator,
		Agent:      coordinator,
		Confidence: in.Confidence,
		Tags:       []string{summaryTag},
	}); err != nil {
		return nil, fmt.Errorf("persist summary: %w", err)
	}

	store.AddMessage(contractx.RoleManager, in.Content, map[string]any{
		"confidence": in.Confidence,
	})
	return in, nil
}
