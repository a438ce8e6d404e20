package contract

import "context"

// Planner turns a question into an ordered list of steps. It never fails:
// an unusable collaborator answer degrades to the rule-based plan.
type Planner interface {
	Classify(ctx context.Context, question string) Plan
}

// Collaborator is the external planning service. Its reply is untrusted free text.
type Collaborator interface {
	Enabled() bool
	Complete(ctx context.Context, req CollaboratorRequest) (string, error)
}

// KnowledgeStore is the subset of the memory store the coordinator writes to and reads from.
type KnowledgeStore interface {
	AddMessage(role Role, content string, metadata map[string]any) string
	AddKnowledge(in KnowledgeInput) string
	SearchKnowledge(query string, k int, mode SearchMode) []KnowledgeHit
	AddAgentState(agent string, task string, details map[string]any) string
}

type MemoryAgent interface {
	Recall(ctx context.Context, query string, k int) ([]KnowledgeHit, error)
	Remember(ctx context.Context, in KnowledgeInput) (string, error)
}

type Researcher interface {
	Research(ctx context.Context, query string) (StepResult, error)
}

type Analyst interface {
	Analyze(ctx context.Context, items []string, goal string) (StepResult, error)
}

type Registry interface {
	Memory() MemoryAgent
	Research() Researcher
	Analysis() Analyst
}
