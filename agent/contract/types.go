package contract

import (
	"slices"
	"time"
)

type Step string

const (
	StepMemory   Step = "memory"
	StepResearch Step = "research"
	StepAnalysis Step = "analysis"
)

// MaxPlanSteps caps how many steps a validated plan may carry.
const MaxPlanSteps = 3

// Plan is an ordered, duplicate-free list of steps.
type Plan []Step

func (p Plan) Has(step Step) bool {
	return slices.Contains(p, step)
}

func (p Plan) Without(step Step) Plan {
	out := make(Plan, 0, len(p))
	for _, s := range p {
		if s != step {
			out = append(out, s)
		}
	}
	return out
}

func (p Plan) Strings() []string {
	out := make([]string, len(p))
	for i, s := range p {
		out[i] = string(s)
	}
	return out
}

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAgent   Role = "agent"
)

type SearchMode string

const (
	SearchHybrid  SearchMode = "hybrid"
	SearchVector  SearchMode = "vector"
	SearchKeyword SearchMode = "keyword"
)

// Result is the answer of a single question-answering turn.
type Result struct {
	Content    string         `json:"content"`
	Confidence float64        `json:"confidence"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type ConversationEntry struct {
	ID        string         `json:"id"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type KnowledgeRecord struct {
	ID         string    `json:"id"`
	Topic      string    `json:"topic"`
	Content    string    `json:"content"`
	Source     string    `json:"source"`
	Agent      string    `json:"agent"`
	Timestamp  time.Time `json:"timestamp"`
	Confidence float64   `json:"confidence"`
	Tags       []string  `json:"tags,omitempty"`
}

// KnowledgeInput carries the caller-provided fields of a new KnowledgeRecord.
type KnowledgeInput struct {
	Topic      string   `json:"topic" yaml:"topic"`
	Content    string   `json:"content" yaml:"content"`
	Source     string   `json:"source" yaml:"source"`
	Agent      string   `json:"agent" yaml:"agent"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
	Tags       []string `json:"tags,omitempty" yaml:"tags"`
}

// KnowledgeHit is a record joined back from a search hit, with the best score seen for it.
type KnowledgeHit struct {
	KnowledgeRecord
	Score float64 `json:"score"`
}

type AgentExecutionTrace struct {
	ID        string         `json:"id"`
	Agent     string         `json:"agent"`
	Task      string         `json:"task"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// CollaboratorRequest carries the rendered planner instruction and question.
// Sampling parameters are fixed when the collaborator is built.
type CollaboratorRequest struct {
	System string `json:"system"`
	User   string `json:"user"`
}

// StepResult is what a single specialist step contributes to a turn.
type StepResult struct {
	Content    string         `json:"content"`
	Confidence float64        `json:"confidence"`
	Meta       map[string]any `json:"meta,omitempty"`
}
