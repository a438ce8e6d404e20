package specialist

import (
	"context"
	"strings"

	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
)

const memoryAgentSource = "memory_agent"

type memoryAgent struct {
	store contractx.KnowledgeStore
}

func newMemoryAgent(store contractx.KnowledgeStore) *memoryAgent {
	return &memoryAgent{store: store}
}

func (m *memoryAgent) Recall(_ context.Context, query string, k int) ([]contractx.KnowledgeHit, error) {
	return m.store.SearchKnowledge(query, k, contractx.SearchHybrid), nil
}

// Remember commits a finding; an empty source is attributed to the memory agent.
func (m *memoryAgent) Remember(_ context.Context, in contractx.KnowledgeInput) (string, error) {
	if strings.TrimSpace(in.Source) == "" {
		in.Source = memoryAgentSource
	}
	return m.store.AddKnowledge(in), nil
}
