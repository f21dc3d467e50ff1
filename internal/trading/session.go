// Package trading runs one end-to-end analysis session and exposes its
// live progress to the CLI.
package trading

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coincortex/coincortex/internal/config"
	"github.com/coincortex/coincortex/internal/graph"
	"github.com/coincortex/coincortex/internal/message"
	"github.com/coincortex/coincortex/internal/models"
)

// Session drives a single analysis run for one symbol and date.
type Session struct {
	config *config.Config
	symbol string
	date   string
	buffer *message.MessageBuffer

	started  time.Time
	finished time.Time
}

func NewSession(cfg *config.Config, symbol, date string) *Session {
	return &Session{
		config: cfg,
		symbol: strings.ToUpper(strings.TrimSpace(symbol)),
		date:   date,
		buffer: message.NewMessageBuffer(200),
	}
}

// Buffer exposes the live progress buffer for rendering.
func (s *Session) Buffer() *message.MessageBuffer {
	return s.buffer
}

// Elapsed returns the run duration so far, or the total once finished.
func (s *Session) Elapsed() time.Duration {
	if s.started.IsZero() {
		return 0
	}
	if s.finished.IsZero() {
		return time.Since(s.started)
	}
	return s.finished.Sub(s.started)
}

// Execute runs the full pipeline and returns the final state and decision.
func (s *Session) Execute(ctx context.Context) (*models.TradingState, *models.TradingDecision, error) {
	if s.symbol == "" {
		return nil, nil, fmt.Errorf("symbol is required")
	}
	if err := s.validateConfig(); err != nil {
		return nil, nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	g, err := graph.NewTradingAgentsGraph(s.config.Debug, s.config)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize trading graph: %w", err)
	}
	defer g.Close()

	cb := &graph.LoggerCallback{Emit: s.consumeEvent}

	s.started = time.Now()
	state, decision, err := g.PropagateWithCallback(ctx, s.symbol, s.date, cb)
	s.finished = time.Now()
	if err != nil {
		s.buffer.AddMessage(s.buffer.CurrentAgent(), "error", err.Error())
		if current := s.buffer.CurrentAgent(); current != "" {
			s.buffer.UpdateAgentStatus(current, message.StateError)
		}
		return nil, nil, err
	}

	s.recordReports(state)
	s.buffer.CompleteAll()
	return state, decision, nil
}

func (s *Session) validateConfig() error {
	switch s.config.LLMProvider {
	case "deepseek":
		if s.config.DeepSeekAPIKey == "" {
			return fmt.Errorf("DEEPSEEK_API_KEY is required for the deepseek provider")
		}
	case "openai", "":
		if s.config.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	default:
		return fmt.Errorf("unsupported LLM provider %q", s.config.LLMProvider)
	}
	return nil
}

// consumeEvent folds orchestrator stream events into the progress buffer.
func (s *Session) consumeEvent(ev graph.StreamEvent) {
	switch ev.Event {
	case "agent_start":
		s.buffer.UpdateAgentStatus(ev.Agent, message.StateInProgress)
	case "tool_call":
		s.buffer.AddToolCall(ev.Agent, ev.ToolName, ev.ToolArgs)
		s.buffer.AddMessage(ev.Agent, "tool_call", "calling "+ev.ToolName)
	case "tool_call_result":
		s.buffer.AddMessage(ev.Agent, "tool_call", ev.Content)
	case "message_chunk":
		// Only record completed messages, chunk-level noise drowns the log.
		if ev.FinishReason != "" && strings.TrimSpace(ev.Content) != "" {
			s.buffer.AddMessage(ev.Agent, "reasoning", ev.Content)
		}
	case "error":
		s.buffer.AddMessage(ev.Agent, "error", ev.Content)
	}
}

func (s *Session) recordReports(state *models.TradingState) {
	if state == nil {
		return
	}
	s.buffer.UpdateReportSection("market_report", state.MarketReport)
	s.buffer.UpdateReportSection("sentiment_report", state.SentimentReport)
	s.buffer.UpdateReportSection("news_report", state.NewsReport)
	s.buffer.UpdateReportSection("fundamentals_report", state.FundamentalsReport)
	s.buffer.UpdateReportSection("investment_plan", state.InvestmentPlan)
	s.buffer.UpdateReportSection("trader_plan", state.TraderInvestmentPlan)
	s.buffer.UpdateReportSection("final_trade_decision", state.FinalTradeDecision)
}
