package risk_mgmt

import (
	"context"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/coincortex/coincortex/consts"
	"github.com/coincortex/coincortex/internal/agents"
	"github.com/coincortex/coincortex/internal/config"
	"github.com/coincortex/coincortex/internal/models"
	"github.com/coincortex/coincortex/internal/prompts"
)

func NewSafeAnalystNode[I, O any](ctx context.Context, cfg *config.Config) *compose.Graph[I, O] {
	load := func(ctx context.Context) ([]*schema.Message, error) {
		return loadRiskMessages(ctx, prompts.RoleSafeDebator)
	}
	route := func(ctx context.Context, input *schema.Message) (string, error) {
		return recordRiskTurn(ctx, input, "Safe", consts.NeutralAnalyst, "safe_analyst_report.md",
			func(debate *models.RiskDebateState, labeled string) {
				debate.SafeHistory = debate.SafeHistory + "\n" + labeled
				debate.CurrentSafeResponse = labeled
			})
	}
	return agents.NewModelNode[I, O](ctx, agents.QuickModel, load, route)
}
