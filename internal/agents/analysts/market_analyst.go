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

// NewMarketAnalystNode builds the market analyst. It carries both the stock
// and the crypto price tools; the role prompt steers the model to the right
// ones for the asset under analysis.
func NewMarketAnalystNode[I, O any](ctx context.Context, cfg *config.Config) (*compose.Graph[I, O], error) {
	marketTools := []tool.BaseTool{
		tools.NewStockDataTool(cfg),
		tools.NewCryptoPriceTool(cfg),
		tools.NewCryptoIntradayTool(cfg),
		tools.NewStockIndicatorTool(cfg),
		tools.NewAssetTypeTool(),
	}
	names := toolNames(ctx, marketTools)

	load := func(ctx context.Context) ([]*schema.Message, error) {
		return loadAnalystMessages(ctx, prompts.RoleMarketAnalyst, names)
	}
	route := func(ctx context.Context, input *schema.Message) (string, error) {
		return storeReport(ctx, input, consts.SocialMediaAnalyst, "market_report.md",
			func(state *models.TradingState, report string) {
				state.MarketReport = report
			})
	}

	return agents.NewReactNode[I, O](ctx, agents.QuickModel, marketTools, load, route)
}
