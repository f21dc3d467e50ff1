package risk_mgmt

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/coincortex/coincortex/internal/agents"
	"github.com/coincortex/coincortex/internal/budget"
	"github.com/coincortex/coincortex/internal/config"
	"github.com/coincortex/coincortex/internal/models"
	"github.com/coincortex/coincortex/internal/prompts"
)

// NewRiskJudgeNode builds the node that weighs the risk debate and issues
// the final trade decision. It runs on the deep-think model.
func NewRiskJudgeNode[I, O any](ctx context.Context, cfg *config.Config) *compose.Graph[I, O] {
	return agents.NewModelNode[I, O](ctx, agents.DeepModel, loadRiskJudgeMessages, riskJudgeRouter)
}

func loadRiskJudgeMessages(ctx context.Context) ([]*schema.Message, error) {
	var output []*schema.Message
	err := compose.ProcessState[*models.TradingState](ctx, func(_ context.Context, state *models.TradingState) error {
		systemPrompt, loadErr := prompts.ForRole(prompts.RoleRiskManager, state.AssetType)
		if loadErr != nil {
			return loadErr
		}

		history := ""
		if state.RiskDebateState != nil {
			history = state.RiskDebateState.History
		}

		b := budget.FromConfig(state.Config)
		contentBudget := b.ContentBudgetTokens() - budget.EstimateTokens(systemPrompt)
		clamped := budget.ClampBlocks([]budget.Block{
			{Name: "plan", Text: state.TraderInvestmentPlan},
			{Name: "history", Text: history},
		}, contentBudget)

		userPrompt := fmt.Sprintf(`Trader's original plan: %s

Risk debate history:
%s

Deliver your final verdict on the trader's plan.`,
			clamped["plan"],
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

func riskJudgeRouter(ctx context.Context, input *schema.Message) (string, error) {
	var output string
	err := compose.ProcessState[*models.TradingState](ctx, func(_ context.Context, state *models.TradingState) error {
		defer func() {
			output = state.Goto
		}()
		if input != nil && input.Content != "" {
			if state.RiskDebateState != nil {
				state.RiskDebateState.JudgeDecision = input.Content
			}
			state.FinalTradeDecision = input.Content
			state.Messages = append(state.Messages, input)
			agents.SaveReport(state, "final_trade_decision.md", input.Content)
		}
		state.Goto = compose.END
		return nil
	})
	return output, err
}
