package specialist

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
)

const (
	researchAgentName      = "research"
	researchTopK           = 5
	researchMaxReuse       = 0.9
	seededLookupSource     = "seeded_lookup"
	seededLookupConfidence = 0.6
)

type researchAgent struct {
	store contractx.KnowledgeStore
}

func newResearchAgent(store contractx.KnowledgeStore) *researchAgent {
	return &researchAgent{store: store}
}

// Research answers from stored knowledge when anything matches and otherwise
// records a placeholder finding for the query.
func (r *researchAgent) Research(_ context.Context, query string) (contractx.StepResult, error) {
	hits := r.store.SearchKnowledge(query, researchTopK, contractx.SearchHybrid)
	if len(hits) > 0 {
		lines := make([]string, len(hits))
		best := 0.0
		for i, h := range hits {
			lines[i] = fmt.Sprintf("- %s: %s (conf=%.2f)", h.Topic, h.Content, h.Confidence)
			best = max(best, h.Confidence)
		}
		return contractx.StepResult{
			Content:    strings.Join(lines, "\n"),
			Confidence: min(researchMaxReuse, best),
			Meta: map[string]any{
				"used_memory": true,
				"hits":        len(hits),
			},
		}, nil
	}

	finding := fmt.Sprintf("Simulated findings related to: %s.", query)
	id := r.store.AddKnowledge(contractx.KnowledgeInput{
		Topic:      query,
		Content:    finding,
		Source:     seededLookupSource,
		Agent:      researchAgentName,
		Confidence: seededLookupConfidence,
		Tags:       []string{"research", "auto"},
	})
	return contractx.StepResult{
		Content:    finding,
		Confidence: seededLookupConfidence,
		Meta: map[string]any{
			"used_memory": false,
			"stored_as":   id,
		},
	}, nil
}
