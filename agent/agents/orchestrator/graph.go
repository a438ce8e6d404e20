package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/tanpawarit/stepwise-orchestrator/agent/nodes/orchestrator"
)

func (c *Coordinator) compileTurnGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("prepare_turn",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.PrepareTurn(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node prepare_turn: %w", err)
	}

	if err := graph.AddLambdaNode("recall_memory",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RecallMemory(ctx, in, c.registry.Memory(), c.recallTopK)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node recall_memory: %w", err)
	}

	if err := graph.AddLambdaNode("run_research",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RunResearch(ctx, in, c.registry.Research(), c.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node run_research: %w", err)
	}

	if err := graph.AddLambdaNode("run_analysis",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RunAnalysis(ctx, in, c.registry.Analysis(), c.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node run_analysis: %w", err)
	}

	if err := graph.AddLambdaNode("aggregate",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Aggregate(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node aggregate: %w", err)
	}

	if err := graph.AddLambdaNode("persist_summary",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.PersistSummary(ctx, in, c.registry.Memory(), c.store, c.name)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node persist_summary: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	edges := [][2]string{
		{compose.START, "prepare_turn"},
		{"prepare_turn", "recall_memory"},
		{"recall_memory", "run_research"},
		{"run_research", "run_analysis"},
		{"run_analysis", "aggregate"},
		{"aggregate", "persist_summary"},
		{"persist_summary", "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.handle_turn"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
