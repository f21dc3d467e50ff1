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

// NewSocialAnalystNode builds the social sentiment analyst.
func NewSocialAnalystNode[I, O any](ctx context.Context, cfg *config.Config) (*compose.Graph[I, O], error) {
	socialTools := []tool.BaseTool{
		tools.NewNewsTool(cfg),
	}
	names := toolNames(ctx, socialTools)

	load := func(ctx context.Context) ([]*schema.Message, error) {
		return loadAnalystMessages(ctx, prompts.RoleSocialAnalyst, names)
	}
	route := func(ctx context.Context, input *schema.Message) (string, error) {
		return storeReport(ctx, input, consts.NewsAnalyst, "sentiment_report.md",
			func(state *models.TradingState, report string) {
				state.SentimentReport = report
			})
	}

	return agents.NewReactNode[I, O](ctx, agents.QuickModel, socialTools, load, route)
}
