package graph

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"

	"github.com/cloudwego/eino/callbacks"
	ecmodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/coincortex/coincortex/internal/models"
)

// StreamEvent is one unit of orchestrator progress pushed to consumers.
type StreamEvent struct {
	Event        string `json:"event"`
	Agent        string `json:"agent"`
	ID           string `json:"id"`
	Content      string `json:"content"`
	ToolName     string `json:"tool_name,omitempty"`
	ToolArgs     string `json:"tool_args,omitempty"`
	ToolCallID   string `json:"tool_call_id,omitempty"`
	FinishReason string `json:"finish_reason,omitempty"`
}

// LoggerCallback streams orchestrator progress to an optional channel and a
// structured consumer. Attach with compose.WithCallbacks on Invoke/Stream.
type LoggerCallback struct {
	callbacks.HandlerBuilder

	Out  chan string            // plain text chunks for terminal rendering
	Emit func(ev StreamEvent)   // structured events for persistence or bridges
}

func (cb *LoggerCallback) push(ev StreamEvent) {
	if cb.Emit != nil {
		cb.Emit(ev)
	}
	if cb.Out != nil && ev.Content != "" {
		cb.Out <- ev.Content
	}
}

func (cb *LoggerCallback) pushMsg(ctx context.Context, msgID string, msg *schema.Message) {
	if msg == nil {
		return
	}

	agentName := ""
	_ = compose.ProcessState[*models.TradingState](ctx, func(_ context.Context, state *models.TradingState) error {
		agentName = state.Goto
		return nil
	})

	ev := StreamEvent{
		Agent:   agentName,
		ID:      msgID,
		Content: msg.Content,
	}
	if msg.ResponseMeta != nil {
		ev.FinishReason = msg.ResponseMeta.FinishReason
	}

	if msg.Role == schema.Tool {
		ev.Event = "tool_call_result"
		ev.ToolCallID = msg.ToolCallID
		cb.push(ev)
		return
	}

	if len(msg.ToolCalls) == 1 {
		tc := msg.ToolCalls[0]
		ev.ToolCallID = tc.ID
		ev.ToolName = tc.Function.Name
		ev.ToolArgs = tc.Function.Arguments
		if tc.Function.Name != "" {
			ev.Event = "tool_call"
		} else {
			ev.Event = "tool_call_chunk"
		}
		cb.push(ev)
		return
	}
	if len(msg.ToolCalls) > 1 {
		return
	}

	ev.Event = "message_chunk"
	cb.push(ev)
}

func (cb *LoggerCallback) OnStart(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
	if _, ok := input.(string); ok {
		agentName := ""
		_ = compose.ProcessState[*models.TradingState](ctx, func(_ context.Context, state *models.TradingState) error {
			agentName = state.Goto
			return nil
		})
		cb.push(StreamEvent{Event: "agent_start", Agent: agentName})
	}
	return ctx
}

func (cb *LoggerCallback) OnEnd(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
	return ctx
}

func (cb *LoggerCallback) OnError(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
	slog.Error("orchestrator callback error", "error", err)
	cb.push(StreamEvent{Event: "error", Content: err.Error()})
	return ctx
}

func (cb *LoggerCallback) OnEndWithStreamOutput(ctx context.Context, info *callbacks.RunInfo,
	output *schema.StreamReader[callbacks.CallbackOutput]) context.Context {
	msgID := randID()
	go func() {
		defer output.Close()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("stream callback panic", "recover", r)
			}
		}()
		for {
			frame, err := output.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				slog.Warn("stream callback recv", "error", err)
				return
			}

			switch v := frame.(type) {
			case *schema.Message:
				cb.pushMsg(ctx, msgID, v)
			case *ecmodel.CallbackOutput:
				cb.pushMsg(ctx, msgID, v.Message)
			case []*schema.Message:
				for _, m := range v {
					cb.pushMsg(ctx, msgID, m)
				}
			}
		}
	}()
	return ctx
}

func (cb *LoggerCallback) OnStartWithStreamInput(ctx context.Context, info *callbacks.RunInfo,
	input *schema.StreamReader[callbacks.CallbackInput]) context.Context {
	defer input.Close()
	return ctx
}

func randID() string {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "msg"
	}
	return hex.EncodeToString(buf)
}
