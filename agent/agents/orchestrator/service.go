package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	plannerx "github.com/tanpawarit/stepwise-orchestrator/agent/agents/planner"
	specialistx "github.com/tanpawarit/stepwise-orchestrator/agent/agents/specialist"
	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
	nodex "github.com/tanpawarit/stepwise-orchestrator/agent/nodes/orchestrator"
)

const (
	degradedConfidence = 0.3
	defaultRecallTopK  = 5
)

type Config struct {
	// Name identifies the coordinator in summary records. Defaults to "manager".
	Name       string
	RecallTopK int
}

// Coordinator runs one question-answering turn: plan, execute the steps in
// order, aggregate and persist. Handle never fails; internal errors become a
// degraded answer.
type Coordinator struct {
	store    contractx.KnowledgeStore
	planner  contractx.Planner
	registry contractx.Registry

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	name       string
	recallTopK int
}

func New(
	store contractx.KnowledgeStore,
	planner contractx.Planner,
	registry contractx.Registry,
	cfg Config,
) (*Coordinator, error) {
	if store == nil {
		return nil, errors.New("knowledge store is required")
	}
	if planner == nil {
		rules, err := plannerx.New(nil)
		if err != nil {
			return nil, fmt.Errorf("build rule planner: %w", err)
		}
		planner = rules
	}
	if registry == nil {
		reg, err := specialistx.NewRegistry(store)
		if err != nil {
			return nil, err
		}
		registry = reg
	}

	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = string(contractx.RoleManager)
	}
	topK := cfg.RecallTopK
	if topK <= 0 {
		topK = defaultRecallTopK
	}

	c := &Coordinator{
		store:      store,
		planner:    planner,
		registry:   registry,
		name:       name,
		recallTopK: topK,
	}

	graphRunner, err := c.compileTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	c.graphRunner = graphRunner

	return c, nil
}

func (c *Coordinator) Name() string {
	return c.name
}

// Handle answers a single question.
func (c *Coordinator) Handle(ctx context.Context, question string) contractx.Result {
	c.store.AddMessage(contractx.RoleUser, question, nil)

	plan := c.planner.Classify(ctx, question)
	log.Info().Strs("plan", plan.Strings()).Msg("manager.plan")

	out, err := c.runTurn(ctx, question, plan)
	if err != nil {
		return c.degrade(err)
	}
	return out.Result
}

func (c *Coordinator) runTurn(ctx context.Context, question string, plan contractx.Plan) (out nodex.GraphOutput, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nodex.GraphOutput{}, fmt.Errorf("turn panic: %v", r)
		}
	}()

	return c.graphRunner.Invoke(ctx, nodex.GraphInput{
		Question: question,
		Plan:     plan,
	})
}

func (c *Coordinator) degrade(err error) contractx.Result {
	msg := err.Error()
	log.Error().Err(err).Msg("manager.turn_failed")

	content := "Encountered an error; providing best-effort summary. Error: " + msg
	c.store.AddMessage(contractx.RoleManager, content, map[string]any{"error": true})

	return contractx.Result{
		Content:    content,
		Confidence: degradedConfidence,
		Metadata: map[string]any{
			"error": msg,
		},
	}
}
