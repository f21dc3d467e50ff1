package agents

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
)

// LoadFunc builds the message list an agent node sends to its model. It runs
// inside the node, so implementations read shared state via ProcessState.
type LoadFunc func(ctx context.Context) ([]*schema.Message, error)

// RouteFunc consumes the model's reply, updates shared state and returns the
// name of the next graph node.
type RouteFunc func(ctx context.Context, input *schema.Message) (string, error)

// NewModelNode builds a three-step agent subgraph: load messages, call the
// chat model, route on the reply.
func NewModelNode[I, O any](ctx context.Context, chatModel model.BaseChatModel, load LoadFunc, route RouteFunc) *compose.Graph[I, O] {
	g := compose.NewGraph[I, O]()

	_ = g.AddLambdaNode("load", compose.InvokableLambdaWithOption(typedLoader[I](load)))
	_ = g.AddChatModelNode("agent", chatModel)
	_ = g.AddLambdaNode("router", compose.InvokableLambdaWithOption(typedRouter[O](route)))

	_ = g.AddEdge(compose.START, "load")
	_ = g.AddEdge("load", "agent")
	_ = g.AddEdge("agent", "router")
	_ = g.AddEdge("router", compose.END)

	return g
}

// NewReactNode builds an agent subgraph whose model step is a react agent
// with tool access instead of a bare chat model call.
func NewReactNode[I, O any](ctx context.Context, chatModel model.ToolCallingChatModel, tools []tool.BaseTool, load LoadFunc, route RouteFunc) (*compose.Graph[I, O], error) {
	agent, err := react.NewAgent(ctx, &react.AgentConfig{
		MaxStep:          40,
		ToolCallingModel: chatModel,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: tools,
		},
		StreamToolCallChecker: ToolCallChecker,
	})
	if err != nil {
		return nil, fmt.Errorf("create react agent: %w", err)
	}
	agentLambda, err := compose.AnyLambda(agent.Generate, agent.Stream, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create agent lambda: %w", err)
	}

	g := compose.NewGraph[I, O]()

	_ = g.AddLambdaNode("load", compose.InvokableLambdaWithOption(typedLoader[I](load)))
	_ = g.AddLambdaNode("agent", agentLambda)
	_ = g.AddLambdaNode("router", compose.InvokableLambdaWithOption(typedRouter[O](route)))

	_ = g.AddEdge(compose.START, "load")
	_ = g.AddEdge("load", "agent")
	_ = g.AddEdge("agent", "router")
	_ = g.AddEdge("router", compose.END)

	return g, nil
}

func typedLoader[I any](load LoadFunc) func(context.Context, I, ...any) ([]*schema.Message, error) {
	return func(ctx context.Context, _ I, _ ...any) ([]*schema.Message, error) {
		return load(ctx)
	}
}

func typedRouter[O any](route RouteFunc) func(context.Context, *schema.Message, ...any) (O, error) {
	return func(ctx context.Context, input *schema.Message, _ ...any) (O, error) {
		next, err := route(ctx, input)
		if err != nil {
			var zero O
			return zero, err
		}
		if out, ok := any(next).(O); ok {
			return out, nil
		}
		var zero O
		return zero, nil
	}
}
