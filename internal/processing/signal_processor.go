// Package processing turns free-form agent output into a structured trading
// decision. The trader and risk judge are prompted to end with an explicit
// FINAL TRANSACTION PROPOSAL marker; pattern scoring over the full transcript
// is the fallback when the marker is missing.
package processing

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/coincortex/coincortex/internal/budget"
	"github.com/coincortex/coincortex/internal/models"
)

var (
	proposalRE = regexp.MustCompile(`(?i)FINAL TRANSACTION PROPOSAL:\s*\**\s*(BUY|SELL|HOLD)\s*\**`)
	actionRE   = regexp.MustCompile(`(?i)\b(BUY|SELL|HOLD)\b`)
)

const extractSystemPrompt = "You are an efficient assistant designed to analyze paragraphs or financial reports provided by a group of analysts. Your task is to extract the investment decision: SELL, BUY, or HOLD. Provide only the extracted decision (SELL, BUY, or HOLD) as your output, without adding any additional text or information."

type SignalProcessor struct {
	model  model.BaseChatModel
	budget budget.PromptBudget

	buyPatterns  []*regexp.Regexp
	sellPatterns []*regexp.Regexp
	holdPatterns []*regexp.Regexp
	riskPatterns []*regexp.Regexp
}

// TradingSignal is the extracted, machine-readable verdict.
type TradingSignal struct {
	Action     string  `json:"action"`
	Confidence float64 `json:"confidence"`
	Risk       float64 `json:"risk"`
	Reasoning  string  `json:"reasoning"`
}

func NewSignalProcessor() *SignalProcessor {
	return &SignalProcessor{
		buyPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(buy|accumulate|long|bullish|upside|invest)\b`),
			regexp.MustCompile(`(?i)\b(strong buy|buy recommendation)\b`),
			regexp.MustCompile(`(?i)\b(undervalued|oversold|growth potential)\b`),
		},
		sellPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(sell|short|bearish|downside|divest|exit)\b`),
			regexp.MustCompile(`(?i)\b(strong sell|sell recommendation|avoid)\b`),
			regexp.MustCompile(`(?i)\b(overvalued|overbought|decline)\b`),
		},
		holdPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(hold|maintain|neutral|wait|sideways)\b`),
			regexp.MustCompile(`(?i)\b(no action|stay put|keep position)\b`),
		},
		riskPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(volatility|volatile|drawdown|liquidation|leverage)\b`),
			regexp.MustCompile(`(?i)\b(risk|risky|uncertain|regulatory|hack|exploit)\b`),
		},
	}
}

// NewModelSignalProcessor builds a processor that asks the quick-think chat
// model to read the verdict, with marker and pattern scoring as fallback.
func NewModelSignalProcessor(m model.BaseChatModel, b budget.PromptBudget) *SignalProcessor {
	sp := NewSignalProcessor()
	sp.model = m
	sp.budget = b
	return sp
}

// ProcessTradingDecision extracts a trading signal from the completed state.
// With a model configured the final trade decision is read by the LLM;
// the explicit proposal marker and pattern scoring over the transcript back
// it up, so extraction never fails outright.
func (sp *SignalProcessor) ProcessTradingDecision(ctx context.Context, state *models.TradingState) (*TradingSignal, error) {
	verdict := state.FinalTradeDecision
	if strings.TrimSpace(verdict) == "" {
		verdict = state.TraderInvestmentPlan
	}

	if action, ok := sp.extractWithModel(ctx, verdict); ok {
		return sp.signalFor(action, state), nil
	}
	if action, ok := ExtractProposal(state.FinalTradeDecision); ok {
		return sp.signalFor(action, state), nil
	}
	if action, ok := ExtractProposal(state.TraderInvestmentPlan); ok {
		return sp.signalFor(action, state), nil
	}
	return sp.signalFor(sp.extractAction(sp.combinedText(state)), state), nil
}

// extractWithModel asks the chat model for the verdict. The input is clamped
// to the content budget since debate outputs can run long.
func (sp *SignalProcessor) extractWithModel(ctx context.Context, verdict string) (string, bool) {
	if sp.model == nil || strings.TrimSpace(verdict) == "" {
		return "", false
	}

	clamped := budget.TruncateMiddle(verdict, sp.budget.ContentBudgetTokens())
	resp, err := sp.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(extractSystemPrompt),
		schema.UserMessage(clamped),
	})
	if err != nil {
		slog.Warn("signal extraction model call failed", "error", err)
		return "", false
	}

	action := actionRE.FindString(resp.Content)
	if action == "" {
		slog.Warn("signal extraction model returned no verdict", "content", resp.Content)
		return "", false
	}
	return strings.ToUpper(action), true
}

// ExtractProposal finds an explicit FINAL TRANSACTION PROPOSAL marker.
func ExtractProposal(text string) (string, bool) {
	matches := proposalRE.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return "", false
	}
	// The last marker wins; earlier ones may be quoted from other agents.
	return strings.ToUpper(matches[len(matches)-1][1]), true
}

func (sp *SignalProcessor) signalFor(action string, state *models.TradingState) *TradingSignal {
	text := sp.combinedText(state)
	return &TradingSignal{
		Action:     action,
		Confidence: sp.calculateConfidence(text, action),
		Risk:       sp.calculateRisk(text),
		Reasoning:  sp.extractReasoning(state.FinalTradeDecision, action),
	}
}

func (sp *SignalProcessor) combinedText(state *models.TradingState) string {
	judgeDecision := ""
	if state.InvestmentDebateState != nil {
		judgeDecision = state.InvestmentDebateState.JudgeDecision
	}
	return strings.Join([]string{
		state.MarketReport,
		state.SentimentReport,
		state.NewsReport,
		state.FundamentalsReport,
		judgeDecision,
		state.TraderInvestmentPlan,
		state.FinalTradeDecision,
	}, " ")
}

func (sp *SignalProcessor) extractAction(text string) string {
	text = strings.ToLower(text)

	buyScore := 0
	sellScore := 0
	holdScore := 0
	for _, pattern := range sp.buyPatterns {
		buyScore += len(pattern.FindAllString(text, -1))
	}
	for _, pattern := range sp.sellPatterns {
		sellScore += len(pattern.FindAllString(text, -1))
	}
	for _, pattern := range sp.holdPatterns {
		holdScore += len(pattern.FindAllString(text, -1))
	}

	if buyScore > sellScore && buyScore > holdScore {
		return "BUY"
	}
	if sellScore > buyScore && sellScore > holdScore {
		return "SELL"
	}
	return "HOLD"
}

func (sp *SignalProcessor) calculateConfidence(text, action string) float64 {
	text = strings.ToLower(text)
	totalWords := len(strings.Fields(text))
	if totalWords == 0 {
		return 0.5
	}

	var relevantPatterns []*regexp.Regexp
	switch action {
	case "BUY":
		relevantPatterns = sp.buyPatterns
	case "SELL":
		relevantPatterns = sp.sellPatterns
	case "HOLD":
		relevantPatterns = sp.holdPatterns
	}

	matchCount := 0
	for _, pattern := range relevantPatterns {
		matchCount += len(pattern.FindAllString(text, -1))
	}

	confidence := float64(matchCount) / float64(totalWords) * 10
	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence < 0.1 {
		confidence = 0.1
	}
	return confidence
}

func (sp *SignalProcessor) calculateRisk(text string) float64 {
	text = strings.ToLower(text)
	totalWords := len(strings.Fields(text))
	if totalWords == 0 {
		return 0.5
	}

	matchCount := 0
	for _, pattern := range sp.riskPatterns {
		matchCount += len(pattern.FindAllString(text, -1))
	}

	risk := float64(matchCount) / float64(totalWords) * 10
	if risk > 1.0 {
		risk = 1.0
	}
	if risk < 0.05 {
		risk = 0.05
	}
	return risk
}

func (sp *SignalProcessor) extractReasoning(text, action string) string {
	sentences := strings.Split(text, ".")
	relevantSentences := []string{}

	actionWords := map[string][]string{
		"BUY":  {"buy", "bullish", "positive", "growth", "opportunity", "undervalued"},
		"SELL": {"sell", "bearish", "negative", "risk", "decline", "overvalued"},
		"HOLD": {"hold", "neutral", "wait", "maintain", "uncertain"},
	}

	words := actionWords[action]
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) < 10 {
			continue
		}
		for _, word := range words {
			if strings.Contains(strings.ToLower(sentence), word) {
				relevantSentences = append(relevantSentences, sentence)
				break
			}
		}
		if len(relevantSentences) >= 3 {
			break
		}
	}

	if len(relevantSentences) == 0 {
		return "Decision based on comprehensive analysis of market conditions."
	}
	return strings.Join(relevantSentences, ". ")
}

// ProcessSignal builds the structured trading decision from a completed run
// using pattern extraction only.
func ProcessSignal(ctx context.Context, state *models.TradingState) (*models.TradingDecision, error) {
	return processSignal(ctx, NewSignalProcessor(), state)
}

// ProcessSignalWithModel builds the structured trading decision, reading the
// verdict with the given chat model first.
func ProcessSignalWithModel(ctx context.Context, state *models.TradingState, m model.BaseChatModel, b budget.PromptBudget) (*models.TradingDecision, error) {
	return processSignal(ctx, NewModelSignalProcessor(m, b), state)
}

func processSignal(ctx context.Context, processor *SignalProcessor, state *models.TradingState) (*models.TradingDecision, error) {
	signal, err := processor.ProcessTradingDecision(ctx, state)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", state.TradeDate)
	if err != nil {
		date = time.Now()
	}

	return &models.TradingDecision{
		Symbol:     state.CompanyOfInterest,
		AssetType:  state.AssetType.String(),
		Date:       date,
		Action:     signal.Action,
		Reason:     signal.Reasoning,
		Confidence: signal.Confidence,
		Risk:       signal.Risk,
	}, nil
}
