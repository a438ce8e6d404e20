package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
	promptx "github.com/tanpawarit/stepwise-orchestrator/agent/prompt"
)

const defaultTimeout = 2 * time.Second

var _ contractx.Planner = (*Planner)(nil)

// Planner asks the collaborator for a plan and falls back to RulePlan when the
// collaborator is absent, disabled, slow, failing, or returns nothing usable.
type Planner struct {
	collaborator contractx.Collaborator
	systemPrompt string
	timeout      time.Duration
}

type Option func(*Planner)

// WithTimeout bounds a single collaborator call.
func WithTimeout(d time.Duration) Option {
	return func(p *Planner) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// New builds a planner. A nil collaborator means rules only.
func New(collaborator contractx.Collaborator, opts ...Option) (*Planner, error) {
	prompts, err := promptx.LoadPromptSet()
	if err != nil {
		return nil, err
	}

	p := &Planner{
		collaborator: collaborator,
		systemPrompt: prompts.Planner,
		timeout:      defaultTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

func (p *Planner) Classify(ctx context.Context, question string) contractx.Plan {
	plan, err := p.fromCollaborator(ctx, question)
	if err == nil {
		return plan
	}
	log.Debug().Err(err).Msg("planner.fallback")
	return RulePlan(question)
}

type completion struct {
	out string
	err error
}

// fromCollaborator bounds the call by p.timeout even when the collaborator
// ignores its context; a late reply is dropped.
func (p *Planner) fromCollaborator(ctx context.Context, question string) (contractx.Plan, error) {
	if p.collaborator == nil || !p.collaborator.Enabled() {
		return nil, contractx.ErrCollaboratorDisabled
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req := contractx.CollaboratorRequest{
		System: p.systemPrompt,
		User:   promptx.PlannerUserMessage(question),
	}
	done := make(chan completion, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- completion{err: fmt.Errorf("collaborator panic: %v", r)}
			}
		}()
		out, err := p.collaborator.Complete(callCtx, req)
		done <- completion{out: out, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, res.err)
		}
		return ParsePlan(res.out)
	case <-callCtx.Done():
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, callCtx.Err())
	}
}
