package graph

import (
	"github.com/coincortex/coincortex/internal/config"
	"github.com/coincortex/coincortex/internal/models"
)

// ConditionalLogic decides when the debate cycles end.
type ConditionalLogic struct {
	MaxDebateRounds      int
	MaxRiskDiscussRounds int
}

func NewConditionalLogic(cfg *config.Config) *ConditionalLogic {
	cl := &ConditionalLogic{
		MaxDebateRounds:      1,
		MaxRiskDiscussRounds: 1,
	}
	if cfg != nil {
		if cfg.MaxDebateRounds > 0 {
			cl.MaxDebateRounds = cfg.MaxDebateRounds
		}
		if cfg.MaxRiskDiscussRounds > 0 {
			cl.MaxRiskDiscussRounds = cfg.MaxRiskDiscussRounds
		}
	}
	return cl
}

// ShouldContinueDebate reports whether another bull/bear exchange is due.
// One round is a bull turn plus a bear turn.
func (cl *ConditionalLogic) ShouldContinueDebate(state *models.TradingState) bool {
	if state.InvestmentDebateState == nil {
		return false
	}
	return state.InvestmentDebateState.Count < 2*cl.MaxDebateRounds
}

// ShouldContinueRiskDiscussion reports whether another risky/safe/neutral
// cycle is due. One round is one turn from each of the three analysts.
func (cl *ConditionalLogic) ShouldContinueRiskDiscussion(state *models.TradingState) bool {
	if state.RiskDebateState == nil {
		return false
	}
	return state.RiskDebateState.Count < 3*cl.MaxRiskDiscussRounds
}
