package models

import (
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/coincortex/coincortex/internal/asset"
	"github.com/coincortex/coincortex/internal/config"
)

type InvestDebateState struct {
	BullHistory     string `json:"bull_history"`
	BearHistory     string `json:"bear_history"`
	History         string `json:"history"`
	CurrentResponse string `json:"current_response"`
	JudgeDecision   string `json:"judge_decision"`
	Count           int    `json:"count"`
	MaxRounds       int    `json:"max_rounds"`
	CurrentRound    int    `json:"current_round"`
}

type RiskDebateState struct {
	RiskyHistory           string `json:"risky_history"`
	SafeHistory            string `json:"safe_history"`
	NeutralHistory         string `json:"neutral_history"`
	History                string `json:"history"`
	CurrentRiskyResponse   string `json:"current_risky_response"`
	CurrentSafeResponse    string `json:"current_safe_response"`
	CurrentNeutralResponse string `json:"current_neutral_response"`
	JudgeDecision          string `json:"judge_decision"`
	LatestSpeaker          string `json:"latest_speaker"`
	Count                  int    `json:"count"`
	MaxRounds              int    `json:"max_rounds"`
	CurrentRound           int    `json:"current_round"`
}

// TradingState is the shared state threaded through the agent graph.
//
// AssetType is computed once from the ticker when the state is created and is
// never revised mid-pipeline; every downstream prompt and routing decision
// reads the same classification.
type TradingState struct {
	Messages          []*schema.Message `json:"messages"`
	CompanyOfInterest string            `json:"company_of_interest"`
	TradeDate         string            `json:"trade_date"`
	AssetType         asset.Type        `json:"asset_type"`
	MarketData        []*MarketData     `json:"market_data"`

	MarketReport       string `json:"market_report"`
	FundamentalsReport string `json:"fundamentals_report"`
	NewsReport         string `json:"news_report"`
	SentimentReport    string `json:"sentiment_report"`

	InvestmentDebateState *InvestDebateState `json:"investment_debate_state"`
	RiskDebateState       *RiskDebateState   `json:"risk_debate_state"`
	TraderInvestmentPlan  string             `json:"trader_investment_plan"`
	InvestmentPlan        string             `json:"investment_plan"`
	FinalTradeDecision    string             `json:"final_trade_decision"`
	Decision              *TradingDecision   `json:"decision"`
	Goto                  string             `json:"goto"`
	MaxIterations         int                `json:"max_iterations"`
	CurrentIteration      int                `json:"current_iteration"`
	Config                *config.Config     `json:"config"`
}

func NewTradingState(symbol string, date time.Time, userPrompt string, cfg *config.Config) *TradingState {
	maxDebate := 1
	maxRisk := 1
	if cfg != nil {
		maxDebate = cfg.MaxDebateRounds
		maxRisk = cfg.MaxRiskDiscussRounds
	}

	return &TradingState{
		Messages: []*schema.Message{
			schema.UserMessage(userPrompt),
		},
		CompanyOfInterest: symbol,
		TradeDate:         date.Format("2006-01-02"),
		AssetType:         asset.Classify(symbol),
		MarketData:        make([]*MarketData, 0),
		InvestmentDebateState: &InvestDebateState{
			MaxRounds: maxDebate,
		},
		RiskDebateState: &RiskDebateState{
			MaxRounds: maxRisk,
		},
		MaxIterations:    20,
		CurrentIteration: 0,
		Goto:             "market_analyst",
		Config:           cfg,
	}
}
