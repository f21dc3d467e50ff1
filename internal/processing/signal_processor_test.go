package processing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/coincortex/coincortex/internal/asset"
	"github.com/coincortex/coincortex/internal/budget"
	"github.com/coincortex/coincortex/internal/models"
)

func TestExtractProposal(t *testing.T) {
	tests := []struct {
		text   string
		action string
		ok     bool
	}{
		{"FINAL TRANSACTION PROPOSAL: **BUY**", "BUY", true},
		{"analysis... FINAL TRANSACTION PROPOSAL: **SELL** end", "SELL", true},
		{"final transaction proposal: hold", "HOLD", true},
		{"The trader said FINAL TRANSACTION PROPOSAL: **BUY** earlier, but I conclude FINAL TRANSACTION PROPOSAL: **HOLD**", "HOLD", true},
		{"no marker here", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		action, ok := ExtractProposal(tt.text)
		if ok != tt.ok || action != tt.action {
			t.Errorf("ExtractProposal(%q) = (%q, %v), want (%q, %v)", tt.text, action, ok, tt.action, tt.ok)
		}
	}
}

func TestProcessTradingDecisionHonorsMarker(t *testing.T) {
	state := &models.TradingState{
		CompanyOfInterest:  "BTC",
		TradeDate:          "2024-05-01",
		AssetType:          asset.Classify("BTC"),
		MarketReport:       "sell sell sell bearish decline",
		FinalTradeDecision: "Despite the bearish noise, momentum supports entry. FINAL TRANSACTION PROPOSAL: **BUY**",
	}

	signal, err := NewSignalProcessor().ProcessTradingDecision(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if signal.Action != "BUY" {
		t.Errorf("action = %s, want BUY (marker must override pattern scores)", signal.Action)
	}
	if signal.Confidence < 0.1 || signal.Confidence > 1.0 {
		t.Errorf("confidence %v out of range", signal.Confidence)
	}
	if signal.Risk < 0.05 || signal.Risk > 1.0 {
		t.Errorf("risk %v out of range", signal.Risk)
	}
}

func TestProcessTradingDecisionFallsBackToScoring(t *testing.T) {
	state := &models.TradingState{
		CompanyOfInterest:  "AAPL",
		TradeDate:          "2024-05-01",
		AssetType:          asset.Classify("AAPL"),
		FinalTradeDecision: "The outlook is bearish. We should sell and exit. Overvalued at current levels. Expect continued decline.",
	}

	signal, err := NewSignalProcessor().ProcessTradingDecision(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if signal.Action != "SELL" {
		t.Errorf("action = %s, want SELL", signal.Action)
	}
}

func TestProcessSignalBuildsDecision(t *testing.T) {
	state := &models.TradingState{
		CompanyOfInterest:  "ETH",
		TradeDate:          "2024-06-15",
		AssetType:          asset.Classify("ETH"),
		FinalTradeDecision: "Strong network growth. FINAL TRANSACTION PROPOSAL: **BUY**",
	}

	decision, err := ProcessSignal(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Symbol != "ETH" {
		t.Errorf("symbol = %s, want ETH", decision.Symbol)
	}
	if decision.AssetType != "cryptocurrency" {
		t.Errorf("asset type = %s, want cryptocurrency", decision.AssetType)
	}
	if decision.Action != "BUY" {
		t.Errorf("action = %s, want BUY", decision.Action)
	}
	want := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	if !decision.Date.Equal(want) {
		t.Errorf("date = %v, want %v", decision.Date, want)
	}
}

type stubChatModel struct {
	reply    string
	err      error
	gotInput string
}

func (m *stubChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.gotInput = in[len(in)-1].Content
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *stubChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func TestProcessTradingDecisionUsesModel(t *testing.T) {
	state := &models.TradingState{
		CompanyOfInterest:  "BTC",
		TradeDate:          "2024-05-01",
		AssetType:          asset.Classify("BTC"),
		FinalTradeDecision: "Momentum supports entry. FINAL TRANSACTION PROPOSAL: **BUY**",
	}

	stub := &stubChatModel{reply: "The decision is **SELL**."}
	sp := NewModelSignalProcessor(stub, budget.PromptBudget{MaxInputTokens: 8000, ReservedOutputTokens: 1000})

	signal, err := sp.ProcessTradingDecision(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if signal.Action != "SELL" {
		t.Errorf("action = %s, want SELL (model verdict must win)", signal.Action)
	}
	if stub.gotInput == "" {
		t.Error("model was never consulted")
	}
}

func TestModelFailureFallsBackToMarker(t *testing.T) {
	state := &models.TradingState{
		CompanyOfInterest:  "BTC",
		TradeDate:          "2024-05-01",
		AssetType:          asset.Classify("BTC"),
		FinalTradeDecision: "FINAL TRANSACTION PROPOSAL: **HOLD**",
	}

	stub := &stubChatModel{err: errors.New("rate limited")}
	sp := NewModelSignalProcessor(stub, budget.PromptBudget{MaxInputTokens: 8000, ReservedOutputTokens: 1000})

	signal, err := sp.ProcessTradingDecision(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if signal.Action != "HOLD" {
		t.Errorf("action = %s, want HOLD from the marker fallback", signal.Action)
	}
}

func TestModelInputIsClamped(t *testing.T) {
	long := strings.Repeat("The debate ran long. ", 2000)
	state := &models.TradingState{
		CompanyOfInterest:  "ETH",
		TradeDate:          "2024-05-01",
		AssetType:          asset.Classify("ETH"),
		FinalTradeDecision: long + " FINAL TRANSACTION PROPOSAL: **BUY**",
	}

	stub := &stubChatModel{reply: "BUY"}
	b := budget.PromptBudget{MaxInputTokens: 600, ReservedOutputTokens: 100}
	sp := NewModelSignalProcessor(stub, b)

	if _, err := sp.ProcessTradingDecision(context.Background(), state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := budget.EstimateTokens(stub.gotInput); got > b.ContentBudgetTokens() {
		t.Errorf("model input is %d tokens, budget is %d", got, b.ContentBudgetTokens())
	}
	if !strings.Contains(stub.gotInput, "truncated") {
		t.Error("expected the clamped input to carry the truncation marker")
	}
}

func TestEmptyStateDefaultsToHold(t *testing.T) {
	signal, err := NewSignalProcessor().ProcessTradingDecision(context.Background(), &models.TradingState{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if signal.Action != "HOLD" {
		t.Errorf("action = %s, want HOLD", signal.Action)
	}
}
