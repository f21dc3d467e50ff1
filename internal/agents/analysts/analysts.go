// Package analysts implements the four data-gathering agents that open the
// pipeline: market, social sentiment, news and fundamentals. Each node loads
// a role prompt, runs a tool-calling react agent and stores its report on the
// shared trading state before handing off to the next node.
package analysts

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/coincortex/coincortex/internal/agents"
	"github.com/coincortex/coincortex/internal/models"
	"github.com/coincortex/coincortex/internal/prompts"
)

const analystSystemTemplate = `You are a helpful AI assistant, collaborating with other assistants.
Use the provided tools to progress towards answering the question.
If you are unable to fully answer, that's OK; another assistant with different tools
will help where you left off. Execute what you can to make progress.
If you or any other assistant has the FINAL TRANSACTION PROPOSAL: **BUY/HOLD/SELL** or deliverable,
prefix your response with FINAL TRANSACTION PROPOSAL: **BUY/HOLD/SELL** so the team knows to stop.

You have access to the following tools: {tool_names}.

{system_message}

For your reference, the current date is {current_date}. We are looking at the {asset_description}.`

// loadAnalystMessages assembles the system and user messages for an analyst
// role. The role prompt comes from the embedded templates; cryptocurrencies
// get the role's crypto guidance appended automatically.
func loadAnalystMessages(ctx context.Context, role string, toolNames []string) ([]*schema.Message, error) {
	var (
		output []*schema.Message
		err    error
	)
	stateErr := compose.ProcessState[*models.TradingState](ctx, func(_ context.Context, state *models.TradingState) error {
		systemPrompt, loadErr := prompts.ForRole(role, state.AssetType)
		if loadErr != nil {
			return loadErr
		}

		promptTemp := prompt.FromMessages(schema.FString,
			schema.SystemMessage(analystSystemTemplate),
			schema.MessagesPlaceholder("user_input", true),
		)
		output, err = promptTemp.Format(ctx, map[string]any{
			"tool_names":        strings.Join(toolNames, ", "),
			"system_message":    systemPrompt,
			"current_date":      time.Now().Format("2006-01-02"),
			"trade_date":        state.TradeDate,
			"asset_description": prompts.AssetDescription(state.AssetType, state.CompanyOfInterest),
			"user_input":        state.Messages,
		})
		return err
	})
	if stateErr != nil {
		return nil, stateErr
	}
	return output, nil
}

// storeReport saves the analyst's reply into the state field chosen by
// assign, appends it to the message log and routes to the next node.
func storeReport(ctx context.Context, input *schema.Message, next, reportFile string, assign func(state *models.TradingState, report string)) (string, error) {
	var output string
	err := compose.ProcessState[*models.TradingState](ctx, func(_ context.Context, state *models.TradingState) error {
		defer func() {
			output = state.Goto
		}()
		if input != nil && input.Content != "" {
			assign(state, input.Content)
			state.Messages = append(state.Messages, input)
			agents.SaveReport(state, reportFile, input.Content)
		}
		state.Goto = next
		return nil
	})
	return output, err
}

func toolNames(ctx context.Context, tools []tool.BaseTool) []string {
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil {
			continue
		}
		names = append(names, info.Name)
	}
	return names
}
