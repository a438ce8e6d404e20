package specialist

import (
	"errors"

	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
)

type registryImpl struct {
	memory   contractx.MemoryAgent
	research contractx.Researcher
	analysis contractx.Analyst
}

func (r *registryImpl) Memory() contractx.MemoryAgent {
	return r.memory
}

func (r *registryImpl) Research() contractx.Researcher {
	return r.research
}

func (r *registryImpl) Analysis() contractx.Analyst {
	return r.analysis
}

// NewRegistry wires the three specialists to one shared knowledge store.
func NewRegistry(store contractx.KnowledgeStore) (contractx.Registry, error) {
	if store == nil {
		return nil, errors.New("knowledge store is required")
	}

	return &registryImpl{
		memory:   newMemoryAgent(store),
		research: newResearchAgent(store),
		analysis: newAnalysisAgent(),
	}, nil
}
