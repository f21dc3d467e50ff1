package message

import (
	"fmt"
	"testing"

	"github.com/coincortex/coincortex/consts"
)

func TestMessageWindowIsBounded(t *testing.T) {
	buf := NewMessageBuffer(3)
	for i := 0; i < 5; i++ {
		buf.AddMessage("trader", "reasoning", fmt.Sprintf("msg-%d", i))
	}

	got := buf.RecentMessages(10)
	if len(got) != 3 {
		t.Fatalf("expected 3 buffered messages, got %d", len(got))
	}
	if got[0].Content != "msg-2" || got[2].Content != "msg-4" {
		t.Errorf("unexpected window: first=%s last=%s", got[0].Content, got[2].Content)
	}
}

func TestAgentStatusTransitions(t *testing.T) {
	buf := NewMessageBuffer(10)

	buf.UpdateAgentStatus(consts.MarketAnalyst, StateInProgress)
	if buf.CurrentAgent() != consts.MarketAnalyst {
		t.Errorf("current agent = %s, want %s", buf.CurrentAgent(), consts.MarketAnalyst)
	}

	// Moving to the next agent completes the previous one.
	buf.UpdateAgentStatus(consts.NewsAnalyst, StateInProgress)
	if buf.AgentStatus(consts.MarketAnalyst) != StateCompleted {
		t.Errorf("market analyst = %s, want %s", buf.AgentStatus(consts.MarketAnalyst), StateCompleted)
	}
	if buf.CompletedCount() != 1 {
		t.Errorf("completed count = %d, want 1", buf.CompletedCount())
	}

	// Unknown agents are ignored.
	buf.UpdateAgentStatus("unknown_agent", StateInProgress)
	if buf.CurrentAgent() != consts.NewsAnalyst {
		t.Errorf("unknown agent changed current agent to %s", buf.CurrentAgent())
	}

	buf.CompleteAll()
	if buf.CompletedCount() != len(NodeOrder) {
		t.Errorf("completed count = %d, want %d", buf.CompletedCount(), len(NodeOrder))
	}
}

func TestReportSectionsOrdered(t *testing.T) {
	buf := NewMessageBuffer(10)
	buf.UpdateReportSection("final_trade_decision", "hold")
	buf.UpdateReportSection("market_report", "up")
	buf.UpdateReportSection("news_report", "")

	sections := buf.ReportSections()
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Agent != "market_report" || sections[1].Agent != "final_trade_decision" {
		t.Errorf("sections out of order: %s, %s", sections[0].Agent, sections[1].Agent)
	}
}
