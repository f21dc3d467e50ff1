// Package trader implements the trading agent. It turns the research
// manager's investment plan into a concrete trade proposal ending with the
// FINAL TRANSACTION PROPOSAL marker the signal extractor looks for.
package trader

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/coincortex/coincortex/consts"
	"github.com/coincortex/coincortex/internal/agents"
	"github.com/coincortex/coincortex/internal/budget"
	"github.com/coincortex/coincortex/internal/config"
	"github.com/coincortex/coincortex/internal/models"
	"github.com/coincortex/coincortex/internal/prompts"
)

func NewTraderNode[I, O any](ctx context.Context, cfg *config.Config) *compose.Graph[I, O] {
	return agents.NewModelNode[I, O](ctx, agents.QuickModel, loadTraderMessages, traderRouter)
}

func loadTraderMessages(ctx context.Context) ([]*schema.Message, error) {
	var output []*schema.Message
	err := compose.ProcessState[*models.TradingState](ctx, func(_ context.Context, state *models.TradingState) error {
		systemPrompt, loadErr := prompts.ForRole(prompts.RoleTrader, state.AssetType)
		if loadErr != nil {
			return loadErr
		}
		systemPrompt = strings.ReplaceAll(systemPrompt, "{asset_type}", prompts.AssetFocus(state.AssetType))

		b := budget.FromConfig(state.Config)
		contentBudget := b.ContentBudgetTokens() - budget.EstimateTokens(systemPrompt)
		clamped := budget.ClampBlocks([]budget.Block{
			{Name: "market", Text: state.MarketReport},
			{Name: "sentiment", Text: state.SentimentReport},
			{Name: "news", Text: state.NewsReport},
			{Name: "fundamentals", Text: state.FundamentalsReport},
			{Name: "plan", Text: state.InvestmentPlan},
		}, contentBudget)

		userPrompt := fmt.Sprintf(`Based on a comprehensive analysis by a team of analysts, here is an investment plan tailored for %s. This plan incorporates insights from current technical market trends, macroeconomic indicators, and social media sentiment. Use this plan as a foundation for evaluating your next trading decision.

Proposed investment plan: %s

Market research report: %s
Social media sentiment report: %s
Latest world affairs news: %s
%s: %s

Leverage these insights to make an informed and strategic decision.`,
			prompts.AssetDescription(state.AssetType, state.CompanyOfInterest),
			clamped["plan"],
			clamped["market"],
			clamped["sentiment"],
			clamped["news"],
			prompts.FundamentalsLabel(state.AssetType),
			clamped["fundamentals"],
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

func traderRouter(ctx context.Context, input *schema.Message) (string, error) {
	var output string
	err := compose.ProcessState[*models.TradingState](ctx, func(_ context.Context, state *models.TradingState) error {
		defer func() {
			output = state.Goto
		}()
		if input != nil && input.Content != "" {
			state.TraderInvestmentPlan = input.Content
			state.Messages = append(state.Messages, input)
			agents.SaveReport(state, "trader_plan.md", input.Content)
		}
		state.Goto = consts.RiskyAnalyst
		return nil
	})
	return output, err
}
