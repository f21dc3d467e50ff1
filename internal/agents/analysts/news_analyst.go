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

// NewNewsAnalystNode builds the news analyst. get_news routes between
// Google News and Finnhub per asset type; get_global_news covers macro and
// market-wide headlines.
func NewNewsAnalystNode[I, O any](ctx context.Context, cfg *config.Config) (*compose.Graph[I, O], error) {
	newsTools := []tool.BaseTool{
		tools.NewNewsTool(cfg),
		tools.NewGlobalNewsTool(cfg),
	}
	names := toolNames(ctx, newsTools)

	load := func(ctx context.Context) ([]*schema.Message, error) {
		return loadAnalystMessages(ctx, prompts.RoleNewsAnalyst, names)
	}
	route := func(ctx context.Context, input *schema.Message) (string, error) {
		return storeReport(ctx, input, consts.FundamentalsAnalyst, "news_report.md",
			func(state *models.TradingState, report string) {
				state.NewsReport = report
			})
	}

	return agents.NewReactNode[I, O](ctx, agents.QuickModel, newsTools, load, route)
}
