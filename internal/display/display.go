// Package display renders final analysis results to the terminal and
// exports them to disk.
package display

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/coincortex/coincortex/internal/models"
)

// ResultsDisplay handles the display of analysis results
type ResultsDisplay struct {
	symbol string
	date   string
}

func NewResultsDisplay(symbol, date string) *ResultsDisplay {
	return &ResultsDisplay{
		symbol: symbol,
		date:   date,
	}
}

// DisplayAnalysisResults shows the full set of analysis results
func (d *ResultsDisplay) DisplayAnalysisResults(state *models.TradingState, decision *models.TradingDecision) {
	d.showHeader()
	d.showExecutiveSummary(state, decision)
	d.showMarketAnalysis(state)
	d.showResearchDebate(state)
	d.showRiskAssessment(state)
	d.showFinalRecommendation(state)
	d.showFooter()
}

func (d *ResultsDisplay) showHeader() {
	fmt.Println()
	fmt.Println(strings.Repeat("═", 76))
	fmt.Printf("  ANALYSIS RESULTS FOR %s (%s)\n", d.symbol, d.date)
	fmt.Println(strings.Repeat("═", 76))
	fmt.Println()
}

func (d *ResultsDisplay) showExecutiveSummary(state *models.TradingState, decision *models.TradingDecision) {
	fmt.Println("EXECUTIVE SUMMARY")
	fmt.Println(strings.Repeat("─", 76))

	action := "PENDING"
	if decision != nil && decision.Action != "" {
		action = decision.Action
	} else if state.FinalTradeDecision != "" {
		action = extractRecommendation(state.FinalTradeDecision)
	}

	fmt.Printf("Final Recommendation: %s\n", action)
	fmt.Printf("Asset:                %s (%s)\n", state.CompanyOfInterest, state.AssetType)
	fmt.Printf("Analysis Date:        %s\n", state.TradeDate)
	if decision != nil {
		fmt.Printf("Confidence:           %.2f\n", decision.Confidence)
		fmt.Printf("Risk Score:           %.2f\n", decision.Risk)
	}
	fmt.Println()
}

func (d *ResultsDisplay) showMarketAnalysis(state *models.TradingState) {
	fmt.Println("MARKET ANALYSIS")
	fmt.Println(strings.Repeat("─", 76))

	d.showSection("Market Research", state.MarketReport)
	d.showSection("Social Sentiment", state.SentimentReport)
	d.showSection("News Analysis", state.NewsReport)
	d.showSection(fundamentalsTitle(state), state.FundamentalsReport)

	fmt.Println()
}

func fundamentalsTitle(state *models.TradingState) string {
	if state.AssetType.IsCrypto() {
		return "Project Analysis"
	}
	return "Fundamentals"
}

func (d *ResultsDisplay) showResearchDebate(state *models.TradingState) {
	fmt.Println("RESEARCH DEBATE")
	fmt.Println(strings.Repeat("─", 76))

	if state.InvestmentDebateState != nil {
		debate := state.InvestmentDebateState

		fmt.Println("Bull Arguments:")
		d.displayDebateHistory(debate.BullHistory, "   ")

		fmt.Println("Bear Arguments:")
		d.displayDebateHistory(debate.BearHistory, "   ")

		fmt.Println("Portfolio Manager Decision:")
		if debate.JudgeDecision != "" {
			d.displayWrappedText(debate.JudgeDecision, "   ")
		} else {
			fmt.Println("   (Decision pending)")
		}

		fmt.Printf("Debate Turns: %d\n", debate.Count)
	} else {
		fmt.Println("   (No debate data available)")
	}

	fmt.Println()
}

func (d *ResultsDisplay) showRiskAssessment(state *models.TradingState) {
	fmt.Println("RISK ASSESSMENT")
	fmt.Println(strings.Repeat("─", 76))

	if state.RiskDebateState != nil {
		risk := state.RiskDebateState

		fmt.Println("Risky Analyst View:")
		d.displayDebateHistory(risk.RiskyHistory, "   ")

		fmt.Println("Safe Analyst View:")
		d.displayDebateHistory(risk.SafeHistory, "   ")

		fmt.Println("Neutral Analyst View:")
		d.displayDebateHistory(risk.NeutralHistory, "   ")

		fmt.Println("Risk Manager Decision:")
		if risk.JudgeDecision != "" {
			d.displayWrappedText(risk.JudgeDecision, "   ")
		} else {
			fmt.Println("   (Decision pending)")
		}

		fmt.Printf("Risk Discussion Turns: %d\n", risk.Count)
		fmt.Printf("Last Speaker: %s\n", risk.LatestSpeaker)
	} else {
		fmt.Println("   (No risk assessment data available)")
	}

	fmt.Println()
}

func (d *ResultsDisplay) showFinalRecommendation(state *models.TradingState) {
	fmt.Println("FINAL RECOMMENDATION & REASONING")
	fmt.Println(strings.Repeat("─", 76))

	if state.FinalTradeDecision != "" {
		fmt.Printf("RECOMMENDATION: %s\n\n", extractRecommendation(state.FinalTradeDecision))

		fmt.Println("Detailed Reasoning:")
		d.displayWrappedText(state.FinalTradeDecision, "   ")

		if state.TraderInvestmentPlan != "" {
			fmt.Println("\nTrading Plan:")
			d.displayWrappedText(state.TraderInvestmentPlan, "   ")
		}

		if state.InvestmentPlan != "" {
			fmt.Println("\nInvestment Strategy:")
			d.displayWrappedText(state.InvestmentPlan, "   ")
		}
	} else {
		fmt.Println("   (Final recommendation not yet available)")
	}

	fmt.Println()
}

func (d *ResultsDisplay) showFooter() {
	fmt.Println(strings.Repeat("═", 76))
	fmt.Printf("Analysis completed at: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println("This analysis is for informational purposes only and should not be")
	fmt.Println("considered as financial advice. Always do your own research.")
	fmt.Println(strings.Repeat("═", 76))
	fmt.Println()
}

func (d *ResultsDisplay) showSection(title, content string) {
	fmt.Printf("%s:\n", title)
	if content != "" {
		d.displayWrappedText(content, "   ")
	} else {
		fmt.Println("   (No data available)")
	}
	fmt.Println()
}

func (d *ResultsDisplay) displayDebateHistory(history, indent string) {
	if history == "" {
		fmt.Printf("%s(No arguments recorded)\n", indent)
		return
	}

	for _, line := range strings.Split(history, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		d.displayWrappedText(line, indent)
	}
	fmt.Println()
}

func (d *ResultsDisplay) displayWrappedText(text, indent string) {
	const maxWidth = 75
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	line := indent + words[0]
	for i := 1; i < len(words); i++ {
		if len(line)+1+len(words[i]) > maxWidth {
			fmt.Println(line)
			line = indent + words[i]
		} else {
			line += " " + words[i]
		}
	}
	if line != indent {
		fmt.Println(line)
	}
}

func extractRecommendation(decision string) string {
	decision = strings.ToUpper(decision)

	switch {
	case strings.Contains(decision, "BUY"):
		return "BUY"
	case strings.Contains(decision, "SELL"):
		return "SELL"
	case strings.Contains(decision, "HOLD"):
		return "HOLD"
	}
	return "PENDING"
}

// SaveResultsToFile writes a JSON export of the analysis next to the
// per-agent markdown reports.
func (d *ResultsDisplay) SaveResultsToFile(state *models.TradingState, decision *models.TradingDecision, path string) error {
	result := map[string]interface{}{
		"metadata": map[string]string{
			"symbol":        state.CompanyOfInterest,
			"asset_type":    state.AssetType.String(),
			"analysis_date": state.TradeDate,
			"generated_at":  time.Now().Format(time.RFC3339),
		},
		"recommendation":  extractRecommendation(state.FinalTradeDecision),
		"final_decision":  state.FinalTradeDecision,
		"trading_plan":    state.TraderInvestmentPlan,
		"investment_plan": state.InvestmentPlan,
		"analysis": map[string]string{
			"market_report":       state.MarketReport,
			"sentiment_report":    state.SentimentReport,
			"news_report":         state.NewsReport,
			"fundamentals_report": state.FundamentalsReport,
		},
	}

	if decision != nil {
		result["decision"] = map[string]interface{}{
			"action":     decision.Action,
			"confidence": decision.Confidence,
			"risk":       decision.Risk,
			"reason":     decision.Reason,
		}
	}

	if state.InvestmentDebateState != nil {
		result["debate"] = map[string]interface{}{
			"bull_arguments": state.InvestmentDebateState.BullHistory,
			"bear_arguments": state.InvestmentDebateState.BearHistory,
			"judge_decision": state.InvestmentDebateState.JudgeDecision,
			"rounds":         state.InvestmentDebateState.Count,
		}
	}

	if state.RiskDebateState != nil {
		result["risk"] = map[string]interface{}{
			"risky_view":     state.RiskDebateState.RiskyHistory,
			"safe_view":      state.RiskDebateState.SafeHistory,
			"neutral_view":   state.RiskDebateState.NeutralHistory,
			"judge_decision": state.RiskDebateState.JudgeDecision,
			"latest_speaker": state.RiskDebateState.LatestSpeaker,
			"rounds":         state.RiskDebateState.Count,
		}
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create results directory: %w", err)
	}
	return os.WriteFile(path, jsonData, 0o644)
}
