// Package managers implements the research manager, the agent that turns the
// bull/bear debate into an investment plan for the trader.
package managers

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/coincortex/coincortex/consts"
	"github.com/coincortex/coincortex/internal/agents"
	"github.com/coincortex/coincortex/internal/budget"
	"github.com/coincortex/coincortex/internal/config"
	"github.com/coincortex/coincortex/internal/models"
	"github.com/coincortex/coincortex/internal/prompts"
)

func NewResearchManagerNode[I, O any](ctx context.Context, cfg *config.Config) *compose.Graph[I, O] {
	return agents.NewModelNode[I, O](ctx, agents.DeepModel, loadResearchManagerMessages, researchManagerRouter)
}

func loadResearchManagerMessages(ctx context.Context) ([]*schema.Message, error) {
	var output []*schema.Message
	err := compose.ProcessState[*models.TradingState](ctx, func(_ context.Context, state *models.TradingState) error {
		systemPrompt, loadErr := prompts.ForRole(prompts.RoleResearchManager, state.AssetType)
		if loadErr != nil {
			return loadErr
		}

		history := ""
		if state.InvestmentDebateState != nil {
			history = state.InvestmentDebateState.History
		}

		b := budget.FromConfig(state.Config)
		contentBudget := b.ContentBudgetTokens() - budget.EstimateTokens(systemPrompt)
		clamped := budget.ClampBlocks([]budget.Block{
			{Name: "market", Text: state.MarketReport},
			{Name: "sentiment", Text: state.SentimentReport},
			{Name: "news", Text: state.NewsReport},
			{Name: "fundamentals", Text: state.FundamentalsReport},
			{Name: "history", Text: history},
		}, contentBudget)

		userPrompt := fmt.Sprintf(`Analyst reports:
Market research report: %s
Social media sentiment report: %s
Latest world affairs news: %s
%s: %s

Debate history:
%s

Evaluate the debate and deliver your decision together with a detailed investment plan for the trader.`,
			clamped["market"],
			clamped["sentiment"],
			clamped["news"],
			prompts.FundamentalsLabel(state.AssetType),
			clamped["fundamentals"],
			clamped["history"],
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

func researchManagerRouter(ctx context.Context, input *schema.Message) (string, error) {
	var output string
	err := compose.ProcessState[*models.TradingState](ctx, func(_ context.Context, state *models.TradingState) error {
		defer func() {
			output = state.Goto
		}()
		if input != nil && input.Content != "" {
			if state.InvestmentDebateState != nil {
				state.InvestmentDebateState.JudgeDecision = input.Content
			}
			state.InvestmentPlan = input.Content
			state.Messages = append(state.Messages, input)
			agents.SaveReport(state, "investment_plan.md", input.Content)
		}
		state.Goto = consts.Trader
		return nil
	})
	return output, err
}
