// Package risk_mgmt implements the three-way risk debate over the trader's
// plan (risky, safe, neutral) and the risk judge that closes it with the
// final trade decision.
package risk_mgmt

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/coincortex/coincortex/consts"
	"github.com/coincortex/coincortex/internal/agents"
	"github.com/coincortex/coincortex/internal/budget"
	"github.com/coincortex/coincortex/internal/models"
	"github.com/coincortex/coincortex/internal/prompts"
)

// loadRiskMessages builds the prompt for one risk debate turn.
func loadRiskMessages(ctx context.Context, role string) ([]*schema.Message, error) {
	var output []*schema.Message
	err := compose.ProcessState[*models.TradingState](ctx, func(_ context.Context, state *models.TradingState) error {
		systemPrompt, loadErr := prompts.ForRole(role, state.AssetType)
		if loadErr != nil {
			return loadErr
		}

		debate := state.RiskDebateState
		history := ""
		risky, safe, neutral := "", "", ""
		if debate != nil {
			history = debate.History
			risky = debate.CurrentRiskyResponse
			safe = debate.CurrentSafeResponse
			neutral = debate.CurrentNeutralResponse
		}

		b := budget.FromConfig(state.Config)
		contentBudget := b.ContentBudgetTokens() - budget.EstimateTokens(systemPrompt)
		clamped := budget.ClampBlocks([]budget.Block{
			{Name: "plan", Text: state.TraderInvestmentPlan},
			{Name: "market", Text: state.MarketReport},
			{Name: "sentiment", Text: state.SentimentReport},
			{Name: "news", Text: state.NewsReport},
			{Name: "fundamentals", Text: state.FundamentalsReport},
			{Name: "history", Text: history},
			{Name: "risky", Text: risky},
			{Name: "safe", Text: safe},
			{Name: "neutral", Text: neutral},
		}, contentBudget)

		userPrompt := fmt.Sprintf(`Trader's decision: %s

Market Research Report: %s
Social Media Sentiment Report: %s
Latest World Affairs Report: %s
%s: %s

Conversation history: %s
Last risky analyst argument: %s
Last safe analyst argument: %s
Last neutral analyst argument: %s

Engage with the other analysts' latest points and argue your perspective on the trader's decision.`,
			clamped["plan"],
			clamped["market"],
			clamped["sentiment"],
			clamped["news"],
			prompts.FundamentalsTitle(state.AssetType),
			clamped["fundamentals"],
			clamped["history"],
			clamped["risky"],
			clamped["safe"],
			clamped["neutral"],
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

// recordRiskTurn appends one debator's argument to the risk debate state and
// returns the next node: the next speaker in the rotation, or the judge once
// every analyst has spoken in each configured round.
func recordRiskTurn(ctx context.Context, input *schema.Message, speaker, nextSpeaker, reportFile string, assign func(debate *models.RiskDebateState, labeled string)) (string, error) {
	var output string
	err := compose.ProcessState[*models.TradingState](ctx, func(_ context.Context, state *models.TradingState) error {
		defer func() {
			output = state.Goto
		}()
		debate := state.RiskDebateState
		if input != nil && debate != nil {
			argument := strings.TrimSpace(input.Content)
			if argument == "" {
				argument = "(no argument provided)"
			}
			labeled := speaker + " Analyst: " + argument
			debate.History = strings.TrimSpace(debate.History + "\n" + labeled)
			debate.LatestSpeaker = speaker
			debate.Count++
			assign(debate, labeled)
			state.Messages = append(state.Messages, input)
			agents.SaveReport(state, reportFile, labeled)
		}

		next := nextSpeaker
		if debate != nil && debate.Count >= 3*debate.MaxRounds {
			next = consts.RiskJudge
		}
		state.Goto = next
		return nil
	})
	return output, err
}
