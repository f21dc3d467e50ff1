package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/coincortex/coincortex/consts"
	"github.com/coincortex/coincortex/internal/agents/analysts"
	"github.com/coincortex/coincortex/internal/agents/managers"
	"github.com/coincortex/coincortex/internal/agents/researchers"
	"github.com/coincortex/coincortex/internal/agents/risk_mgmt"
	"github.com/coincortex/coincortex/internal/agents/trader"
	"github.com/coincortex/coincortex/internal/config"
	"github.com/coincortex/coincortex/internal/models"
)

// agentHandOff routes to the node the previous agent wrote into state.Goto.
func agentHandOff(ctx context.Context, input string) (next string, err error) {
	_ = compose.ProcessState[*models.TradingState](ctx, func(_ context.Context, state *models.TradingState) error {
		next = state.Goto
		return nil
	})
	return next, nil
}

// NewTradingOrchestrator wires the full agent pipeline: four analysts, the
// bull/bear debate, the research manager, the trader, the three-way risk
// debate and the risk judge. Every node hands off through agentHandOff, so
// the debate cycles are driven by the routing the agents record in state.
func NewTradingOrchestrator[I, O, S any](ctx context.Context, genFunc compose.GenLocalState[S], cfg *config.Config) (compose.Runnable[I, O], error) {
	g := compose.NewGraph[I, O](
		compose.WithGenLocalState(genFunc),
	)

	outMap := map[string]bool{
		consts.MarketAnalyst:       true,
		consts.SocialMediaAnalyst:  true,
		consts.NewsAnalyst:         true,
		consts.FundamentalsAnalyst: true,
		consts.BullResearcher:      true,
		consts.BearResearcher:      true,
		consts.ResearchManager:     true,
		consts.Trader:              true,
		consts.RiskyAnalyst:        true,
		consts.SafeAnalyst:         true,
		consts.NeutralAnalyst:      true,
		consts.RiskJudge:           true,
		compose.END:                true,
	}

	marketAnalystGraph, err := analysts.NewMarketAnalystNode[I, O](ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build market analyst: %w", err)
	}
	socialAnalystGraph, err := analysts.NewSocialAnalystNode[I, O](ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build social analyst: %w", err)
	}
	newsAnalystGraph, err := analysts.NewNewsAnalystNode[I, O](ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build news analyst: %w", err)
	}
	fundamentalsAnalystGraph, err := analysts.NewFundamentalsAnalystNode[I, O](ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build fundamentals analyst: %w", err)
	}

	bullResearcherGraph := researchers.NewBullResearcherNode[I, O](ctx, cfg)
	bearResearcherGraph := researchers.NewBearResearcherNode[I, O](ctx, cfg)
	researchManagerGraph := managers.NewResearchManagerNode[I, O](ctx, cfg)

	traderGraph := trader.NewTraderNode[I, O](ctx, cfg)

	riskyAnalystGraph := risk_mgmt.NewRiskyAnalystNode[I, O](ctx, cfg)
	safeAnalystGraph := risk_mgmt.NewSafeAnalystNode[I, O](ctx, cfg)
	neutralAnalystGraph := risk_mgmt.NewNeutralAnalystNode[I, O](ctx, cfg)
	riskJudgeGraph := risk_mgmt.NewRiskJudgeNode[I, O](ctx, cfg)

	_ = g.AddGraphNode(consts.MarketAnalyst, marketAnalystGraph, compose.WithNodeName(consts.MarketAnalyst))
	_ = g.AddGraphNode(consts.SocialMediaAnalyst, socialAnalystGraph, compose.WithNodeName(consts.SocialMediaAnalyst))
	_ = g.AddGraphNode(consts.NewsAnalyst, newsAnalystGraph, compose.WithNodeName(consts.NewsAnalyst))
	_ = g.AddGraphNode(consts.FundamentalsAnalyst, fundamentalsAnalystGraph, compose.WithNodeName(consts.FundamentalsAnalyst))
	_ = g.AddGraphNode(consts.BullResearcher, bullResearcherGraph, compose.WithNodeName(consts.BullResearcher))
	_ = g.AddGraphNode(consts.BearResearcher, bearResearcherGraph, compose.WithNodeName(consts.BearResearcher))
	_ = g.AddGraphNode(consts.ResearchManager, researchManagerGraph, compose.WithNodeName(consts.ResearchManager))
	_ = g.AddGraphNode(consts.Trader, traderGraph, compose.WithNodeName(consts.Trader))
	_ = g.AddGraphNode(consts.RiskyAnalyst, riskyAnalystGraph, compose.WithNodeName(consts.RiskyAnalyst))
	_ = g.AddGraphNode(consts.SafeAnalyst, safeAnalystGraph, compose.WithNodeName(consts.SafeAnalyst))
	_ = g.AddGraphNode(consts.NeutralAnalyst, neutralAnalystGraph, compose.WithNodeName(consts.NeutralAnalyst))
	_ = g.AddGraphNode(consts.RiskJudge, riskJudgeGraph, compose.WithNodeName(consts.RiskJudge))

	_ = g.AddBranch(consts.MarketAnalyst, compose.NewGraphBranch(agentHandOff, outMap))
	_ = g.AddBranch(consts.SocialMediaAnalyst, compose.NewGraphBranch(agentHandOff, outMap))
	_ = g.AddBranch(consts.NewsAnalyst, compose.NewGraphBranch(agentHandOff, outMap))
	_ = g.AddBranch(consts.FundamentalsAnalyst, compose.NewGraphBranch(agentHandOff, outMap))
	_ = g.AddBranch(consts.BullResearcher, compose.NewGraphBranch(agentHandOff, outMap))
	_ = g.AddBranch(consts.BearResearcher, compose.NewGraphBranch(agentHandOff, outMap))
	_ = g.AddBranch(consts.ResearchManager, compose.NewGraphBranch(agentHandOff, outMap))
	_ = g.AddBranch(consts.Trader, compose.NewGraphBranch(agentHandOff, outMap))
	_ = g.AddBranch(consts.RiskyAnalyst, compose.NewGraphBranch(agentHandOff, outMap))
	_ = g.AddBranch(consts.SafeAnalyst, compose.NewGraphBranch(agentHandOff, outMap))
	_ = g.AddBranch(consts.NeutralAnalyst, compose.NewGraphBranch(agentHandOff, outMap))
	_ = g.AddBranch(consts.RiskJudge, compose.NewGraphBranch(agentHandOff, outMap))

	_ = g.AddEdge(compose.START, consts.MarketAnalyst)

	maxSteps := 128
	if cfg != nil && cfg.MaxRecurLimit > 0 {
		maxSteps = cfg.MaxRecurLimit
	}

	r, err := g.Compile(ctx,
		compose.WithGraphName("CoinCortex-TradingAgents"),
		compose.WithNodeTriggerMode(compose.AnyPredecessor),
		compose.WithMaxRunSteps(maxSteps),
	)
	if err != nil {
		return nil, fmt.Errorf("compile trading graph: %w", err)
	}
	return r, nil
}
