package cli

import (
	"time"

	"github.com/coincortex/coincortex/internal/asset"
)

// ResearchDepth represents the depth of analysis
type ResearchDepth string

const (
	ShallowResearch ResearchDepth = "shallow" // 1 round
	MediumResearch  ResearchDepth = "medium"  // 2 rounds
	DeepResearch    ResearchDepth = "deep"    // 3 rounds
)

// LLMProvider represents available LLM providers
type LLMProvider string

const (
	OpenAIProvider   LLMProvider = "openai"
	DeepSeekProvider LLMProvider = "deepseek"
)

// UserSelections holds all user choices for the analysis
type UserSelections struct {
	Ticker        string        `json:"ticker"`
	AssetType     asset.Type    `json:"-"`
	AnalysisDate  time.Time     `json:"analysis_date"`
	ResearchDepth ResearchDepth `json:"research_depth"`
	LLMProvider   LLMProvider   `json:"llm_provider"`
	QuickModel    string        `json:"quick_model"`
	DeepModel     string        `json:"deep_model"`
}

// GetResearchRounds returns the number of debate rounds for each depth
func (r ResearchDepth) GetResearchRounds() int {
	switch r {
	case ShallowResearch:
		return 1
	case MediumResearch:
		return 2
	case DeepResearch:
		return 3
	default:
		return 1
	}
}

// GetProviderModels returns available quick and deep models for a provider
func (p LLMProvider) GetProviderModels() ([]string, []string) {
	switch p {
	case OpenAIProvider:
		quick := []string{"gpt-4o-mini", "gpt-4o", "gpt-3.5-turbo"}
		deep := []string{"o4-mini", "gpt-4o", "gpt-4-turbo"}
		return quick, deep
	case DeepSeekProvider:
		quick := []string{"deepseek-chat"}
		deep := []string{"deepseek-reasoner", "deepseek-chat"}
		return quick, deep
	default:
		return []string{}, []string{}
	}
}

// DisplayName returns a human-readable node name for progress rendering
func DisplayName(node string) string {
	switch node {
	case "market_analyst":
		return "Market Analyst"
	case "social_media_analyst":
		return "Social Media Analyst"
	case "news_analyst":
		return "News Analyst"
	case "fundamentals_analyst":
		return "Fundamentals Analyst"
	case "bull_researcher":
		return "Bull Researcher"
	case "bear_researcher":
		return "Bear Researcher"
	case "research_manager":
		return "Research Manager"
	case "trader":
		return "Trader"
	case "risky_analyst":
		return "Risky Analyst"
	case "safe_analyst":
		return "Safe Analyst"
	case "neutral_analyst":
		return "Neutral Analyst"
	case "risk_judge":
		return "Risk Judge"
	default:
		return node
	}
}
