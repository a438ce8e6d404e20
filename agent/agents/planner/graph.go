package planner

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
)

// compileCollaboratorGraph wires request -> messages -> chat model. The system
// prompt is passed verbatim; braces in it are not template placeholders.
func compileCollaboratorGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
) (compose.Runnable[contractx.CollaboratorRequest, *schema.Message], error) {
	graph := compose.NewGraph[contractx.CollaboratorRequest, *schema.Message]()

	if err := graph.AddLambdaNode("messages",
		compose.InvokableLambda(func(ctx context.Context, req contractx.CollaboratorRequest) ([]*schema.Message, error) {
			return []*schema.Message{
				schema.SystemMessage(req.System),
				schema.UserMessage(req.User),
			}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add collaborator messages node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add collaborator model node: %w", err)
	}

	edges := [][2]string{
		{compose.START, "messages"},
		{"messages", "model"},
		{"model", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add collaborator edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("planner.collaborator_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile collaborator graph: %w", err)
	}
	return runner, nil
}
