// Package researchers implements the bull and bear debate agents. The two
// nodes alternate until the configured number of debate rounds is reached,
// then hand off to the research manager for a verdict.
package researchers

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/coincortex/coincortex/internal/budget"
	"github.com/coincortex/coincortex/internal/models"
	"github.com/coincortex/coincortex/internal/prompts"
)

// loadDebateMessages builds the prompt for one debate turn. The four analyst
// reports plus the running debate transcript are clamped into the configured
// token budget before being handed to the model.
func loadDebateMessages(ctx context.Context, role string) ([]*schema.Message, error) {
	var output []*schema.Message
	err := compose.ProcessState[*models.TradingState](ctx, func(_ context.Context, state *models.TradingState) error {
		systemPrompt, loadErr := prompts.ForRole(role, state.AssetType)
		if loadErr != nil {
			return loadErr
		}
		systemPrompt = strings.ReplaceAll(systemPrompt, "{asset_focus}", prompts.AssetFocus(state.AssetType))

		debate := state.InvestmentDebateState
		history := ""
		currentResponse := ""
		if debate != nil {
			history = debate.History
			currentResponse = debate.CurrentResponse
		}

		b := budget.FromConfig(state.Config)
		contentBudget := b.ContentBudgetTokens() - budget.EstimateTokens(systemPrompt)
		clamped := budget.ClampBlocks([]budget.Block{
			{Name: "market", Text: state.MarketReport},
			{Name: "sentiment", Text: state.SentimentReport},
			{Name: "news", Text: state.NewsReport},
			{Name: "fundamentals", Text: state.FundamentalsReport},
			{Name: "history", Text: history},
			{Name: "current_response", Text: currentResponse},
		}, contentBudget)

		userPrompt := fmt.Sprintf(`Resources available:
Market research report: %s
Social media sentiment report: %s
Latest world affairs news: %s
%s: %s
Conversation history of the debate: %s
Last opposing argument: %s

Use this information to deliver a compelling argument, engage with the opposing points, and debate the merits of the %s position.`,
			clamped["market"],
			clamped["sentiment"],
			clamped["news"],
			prompts.FundamentalsLabel(state.AssetType),
			clamped["fundamentals"],
			clamped["history"],
			clamped["current_response"],
			prompts.AssetFocus(state.AssetType),
		)

		output = []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(userPrompt),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}
