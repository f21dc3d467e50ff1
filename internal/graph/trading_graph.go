package graph

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"

	"github.com/coincortex/coincortex/internal/agents"
	"github.com/coincortex/coincortex/internal/budget"
	"github.com/coincortex/coincortex/internal/config"
	"github.com/coincortex/coincortex/internal/dataflows"
	"github.com/coincortex/coincortex/internal/debug"
	"github.com/coincortex/coincortex/internal/models"
	"github.com/coincortex/coincortex/internal/processing"
	"github.com/coincortex/coincortex/internal/storage"
)

// TradingAgentsGraph runs the full multi-agent analysis pipeline for one
// symbol and trade date, and persists sessions, reports and decisions.
type TradingAgentsGraph struct {
	config   *config.Config
	logger   *slog.Logger
	store    *storage.Store
	debug    bool
	debugger *debug.EinoDebugger
}

func NewTradingAgentsGraph(debugMode bool, cfg *config.Config) (*TradingAgentsGraph, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	ctx := context.Background()
	if err := agents.InitChatModels(ctx, cfg); err != nil {
		return nil, fmt.Errorf("init chat models: %w", err)
	}
	if err := dataflows.Initialize(cfg); err != nil {
		return nil, fmt.Errorf("init dataflows: %w", err)
	}

	store, err := storage.Open(filepath.Join(cfg.DataDir, "coincortex.db"))
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	return &TradingAgentsGraph{
		config: cfg,
		logger: slog.Default(),
		store:  store,
		debug:  debugMode,
	}, nil
}

func (g *TradingAgentsGraph) Close() error {
	if g.store == nil {
		return nil
	}
	return g.store.Close()
}

// Store exposes the session store for callers that render history.
func (g *TradingAgentsGraph) Store() *storage.Store {
	return g.store
}

// Propagate analyzes symbol for the given trade date (YYYY-MM-DD) and
// returns the final state together with the extracted trading decision.
func (g *TradingAgentsGraph) Propagate(ctx context.Context, symbol, date string) (*models.TradingState, *models.TradingDecision, error) {
	return g.PropagateWithCallback(ctx, symbol, date, nil)
}

// PropagateWithCallback runs the pipeline with an optional progress callback
// attached to the orchestrator.
func (g *TradingAgentsGraph) PropagateWithCallback(ctx context.Context, symbol, date string, cb *LoggerCallback) (*models.TradingState, *models.TradingDecision, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, nil, fmt.Errorf("symbol is required")
	}
	if strings.TrimSpace(date) == "" {
		date = time.Now().Format("2006-01-02")
	}
	parsedDate, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trade date %q: %w", date, err)
	}
	date = parsedDate.Format("2006-01-02")

	userPrompt := fmt.Sprintf("Analyze trading opportunities for %s on %s", symbol, date)
	state := models.NewTradingState(symbol, parsedDate, userPrompt, g.config)

	// The orchestrator is rebuilt per run so the local state generator can
	// hand out this run's prepared state.
	orchestrator, err := NewTradingOrchestrator[string, string, *models.TradingState](
		ctx,
		func(ctx context.Context) *models.TradingState { return state },
		g.config,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("build orchestrator: %w", err)
	}

	sessionID := fmt.Sprintf("%s-%s-%s", symbol, date, randID())
	if err := g.store.CreateSession(ctx, storage.SessionRecord{
		ID:        sessionID,
		Symbol:    symbol,
		AssetType: state.AssetType.String(),
		TradeDate: date,
	}); err != nil {
		g.logger.Warn("create session record", "session", sessionID, "error", err)
	}

	g.logger.Info("starting analysis",
		"session", sessionID,
		"symbol", symbol,
		"asset_type", state.AssetType.String(),
		"trade_date", date,
	)

	var opts []compose.Option
	if cb != nil {
		opts = append(opts, compose.WithCallbacks(cb))
	}

	if _, err := orchestrator.Invoke(ctx, symbol, opts...); err != nil {
		if statusErr := g.store.UpdateSessionStatus(ctx, sessionID, storage.StatusError); statusErr != nil {
			g.logger.Warn("update session status", "session", sessionID, "error", statusErr)
		}
		return nil, nil, fmt.Errorf("orchestrator failed: %w", err)
	}

	decision, err := processing.ProcessSignalWithModel(ctx, state, agents.QuickModel, budget.FromConfig(g.config))
	if err != nil {
		if statusErr := g.store.UpdateSessionStatus(ctx, sessionID, storage.StatusError); statusErr != nil {
			g.logger.Warn("update session status", "session", sessionID, "error", statusErr)
		}
		return state, nil, fmt.Errorf("process signal: %w", err)
	}
	state.Decision = decision

	g.persistRun(ctx, sessionID, state, decision)

	g.logger.Info("analysis complete",
		"session", sessionID,
		"symbol", symbol,
		"action", decision.Action,
		"confidence", decision.Confidence,
	)

	return state, decision, nil
}

func (g *TradingAgentsGraph) persistRun(ctx context.Context, sessionID string, state *models.TradingState, decision *models.TradingDecision) {
	reports := []struct {
		name    string
		content string
	}{
		{"market_report", state.MarketReport},
		{"sentiment_report", state.SentimentReport},
		{"news_report", state.NewsReport},
		{"fundamentals_report", state.FundamentalsReport},
		{"investment_plan", state.InvestmentPlan},
		{"trader_plan", state.TraderInvestmentPlan},
		{"final_trade_decision", state.FinalTradeDecision},
	}
	seq := 0
	for _, r := range reports {
		if strings.TrimSpace(r.content) == "" {
			continue
		}
		seq++
		if err := g.store.SaveReport(ctx, storage.ReportRecord{
			SessionID: sessionID,
			Name:      r.name,
			Content:   r.content,
			Seq:       seq,
		}); err != nil {
			g.logger.Warn("save report", "session", sessionID, "report", r.name, "error", err)
		}
	}

	if err := g.store.SaveDecision(ctx, storage.DecisionRecord{
		SessionID:  sessionID,
		Action:     decision.Action,
		Confidence: decision.Confidence,
		Risk:       decision.Risk,
		Reason:     decision.Reason,
	}); err != nil {
		g.logger.Warn("save decision", "session", sessionID, "error", err)
	}

	if err := g.store.UpdateSessionStatus(ctx, sessionID, storage.StatusDone); err != nil {
		g.logger.Warn("update session status", "session", sessionID, "error", err)
	}
}

// ReflectAndRemember records realized returns for a past decision. The
// reflection loop itself is not implemented yet; returns are only logged.
func (g *TradingAgentsGraph) ReflectAndRemember(positionReturns float64) error {
	g.logger.Info("position returns recorded", "returns", positionReturns)
	return nil
}

func (g *TradingAgentsGraph) StartDebugServer() error {
	if g.debugger != nil {
		return fmt.Errorf("debug server is already running")
	}
	dbg := debug.NewEinoDebugger(g.config)
	if err := dbg.Initialize(); err != nil {
		return err
	}
	g.debugger = dbg
	return nil
}

func (g *TradingAgentsGraph) IsDebugRunning() bool {
	return g.debugger != nil && g.debugger.IsEnabled()
}
