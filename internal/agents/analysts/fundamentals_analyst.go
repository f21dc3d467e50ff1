package analysts

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/coincortex/coincortex/consts"
	"github.com/coincortex/coincortex/internal/agents"
	"github.com/coincortex/coincortex/internal/config"
	"github.com/coincortex/coincortex/internal/models"
	"github.com/coincortex/coincortex/internal/prompts"
	"github.com/coincortex/coincortex/internal/tools"
)

// NewFundamentalsAnalystNode builds the fundamentals analyst. For stocks it
// reads company profile and insider activity; for cryptocurrencies the tools
// decline and the role prompt redirects the model to project analysis.
func NewFundamentalsAnalystNode[I, O any](ctx context.Context, cfg *config.Config) (*compose.Graph[I, O], error) {
	fundamentalsTools := []tool.BaseTool{
		tools.NewCompanyInfoTool(cfg),
		tools.NewInsiderSentimentTool(cfg),
		tools.NewInsiderTransactionsTool(cfg),
		tools.NewNewsTool(cfg),
	}
	names := toolNames(ctx, fundamentalsTools)

	load := func(ctx context.Context) ([]*schema.Message, error) {
		return loadAnalystMessages(ctx, prompts.RoleFundamentalsAnalyst, names)
	}
	route := func(ctx context.Context, input *schema.Message) (string, error) {
		return storeReport(ctx, input, consts.BullResearcher, "fundamentals_report.md",
			func(state *models.TradingState, report string) {
				state.FundamentalsReport = report
			})
	}

	return agents.NewReactNode[I, O](ctx, agents.QuickModel, fundamentalsTools, load, route)
}
