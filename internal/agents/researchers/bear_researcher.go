package researchers

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/coincortex/coincortex/consts"
	"github.com/coincortex/coincortex/internal/agents"
	"github.com/coincortex/coincortex/internal/config"
	"github.com/coincortex/coincortex/internal/models"
	"github.com/coincortex/coincortex/internal/prompts"
)

func NewBearResearcherNode[I, O any](ctx context.Context, cfg *config.Config) *compose.Graph[I, O] {
	load := func(ctx context.Context) ([]*schema.Message, error) {
		return loadDebateMessages(ctx, prompts.RoleBearResearcher)
	}
	return agents.NewModelNode[I, O](ctx, agents.QuickModel, load, bearResearcherRouter)
}

func bearResearcherRouter(ctx context.Context, input *schema.Message) (string, error) {
	var output string
	err := compose.ProcessState[*models.TradingState](ctx, func(_ context.Context, state *models.TradingState) error {
		defer func() {
			output = state.Goto
		}()
		debate := state.InvestmentDebateState
		if input != nil && debate != nil {
			argument := strings.TrimSpace(input.Content)
			if argument == "" {
				argument = "(no argument provided)"
			}
			labeled := "Bear Analyst: " + argument
			debate.History = strings.TrimSpace(debate.History + "\n" + labeled)
			debate.BearHistory = strings.TrimSpace(debate.BearHistory + "\n" + labeled)
			debate.CurrentResponse = labeled
			debate.Count++
			state.Messages = append(state.Messages, input)
			agents.SaveReport(state, "bear_researcher_report.md", labeled)
		}

		next := consts.BullResearcher
		if debate != nil && debate.Count >= 2*debate.MaxRounds {
			next = consts.ResearchManager
		}
		state.Goto = next
		return nil
	})
	return output, err
}
