package cli

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"github.com/coincortex/coincortex/internal/asset"
)

var tickerRE = regexp.MustCompile(`^[A-Z0-9.-]+$`)

// PromptForTicker prompts the user to enter a ticker symbol. Both stock
// tickers and cryptocurrency symbols are accepted; the detected asset class
// is echoed back so the user knows which analysis path will run.
func PromptForTicker() (string, asset.Type, error) {
	var ticker string
	prompt := &survey.Input{
		Message: "Enter the ticker symbol (e.g., AAPL, MSFT, BTC, ETH):",
		Help:    "Stock tickers and cryptocurrency symbols are both supported",
	}

	err := survey.AskOne(prompt, &ticker, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(strings.ToUpper(val.(string)))
		if len(str) == 0 {
			return fmt.Errorf("ticker symbol cannot be empty")
		}
		if len(str) > 10 {
			return fmt.Errorf("ticker symbol too long (max 10 characters)")
		}
		if !tickerRE.MatchString(str) {
			return fmt.Errorf("invalid ticker format (use letters, numbers, dots, and hyphens only)")
		}
		return nil
	}))
	if err != nil {
		return "", 0, err
	}

	ticker = strings.TrimSpace(strings.ToUpper(ticker))
	assetType := asset.Classify(ticker)
	DisplayInfo(fmt.Sprintf("Detected asset class for %s: %s", ticker, assetType))

	return ticker, assetType, nil
}

// PromptForAnalysisDate prompts the user to enter an analysis date
func PromptForAnalysisDate() (time.Time, error) {
	var dateStr string
	prompt := &survey.Input{
		Message: "Enter the analysis date (YYYY-MM-DD) or press Enter for today:",
		Help:    "Format: YYYY-MM-DD (e.g., 2024-01-15). Leave empty for today's date.",
		Default: time.Now().Format("2006-01-02"),
	}

	err := survey.AskOne(prompt, &dateStr, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(val.(string))
		if str == "" {
			return nil
		}

		parsedDate, err := time.Parse("2006-01-02", str)
		if err != nil {
			return fmt.Errorf("invalid date format, use YYYY-MM-DD")
		}

		tomorrow := time.Now().AddDate(0, 0, 1)
		if parsedDate.After(tomorrow) {
			return fmt.Errorf("analysis date cannot be more than 1 day in the future")
		}

		fiveYearsAgo := time.Now().AddDate(-5, 0, 0)
		if parsedDate.Before(fiveYearsAgo) {
			return fmt.Errorf("analysis date cannot be more than 5 years in the past")
		}

		return nil
	}))
	if err != nil {
		return time.Time{}, err
	}

	if strings.TrimSpace(dateStr) == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", strings.TrimSpace(dateStr))
}

// PromptForResearchDepth prompts the user to select research depth
func PromptForResearchDepth() (ResearchDepth, error) {
	var selected string

	options := []string{
		fmt.Sprintf("Shallow (%d round) - Quick analysis", ShallowResearch.GetResearchRounds()),
		fmt.Sprintf("Medium (%d rounds) - Balanced analysis", MediumResearch.GetResearchRounds()),
		fmt.Sprintf("Deep (%d rounds) - Comprehensive analysis", DeepResearch.GetResearchRounds()),
	}

	prompt := &survey.Select{
		Message: "Select research depth:",
		Options: options,
		Help:    "Choose the depth of analysis. More rounds provide more comprehensive results but take longer.",
		Default: options[0],
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	switch {
	case strings.HasPrefix(selected, "Shallow"):
		return ShallowResearch, nil
	case strings.HasPrefix(selected, "Medium"):
		return MediumResearch, nil
	case strings.HasPrefix(selected, "Deep"):
		return DeepResearch, nil
	default:
		return ShallowResearch, nil
	}
}

// PromptForLLMProvider prompts the user to select an LLM provider
func PromptForLLMProvider() (LLMProvider, error) {
	var selected string

	options := []string{
		string(OpenAIProvider) + " - OpenAI GPT models",
		string(DeepSeekProvider) + " - DeepSeek models",
	}

	prompt := &survey.Select{
		Message: "Select LLM provider:",
		Options: options,
		Help:    "Choose your language model provider. Make sure the matching API key is configured.",
		Default: options[0],
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	provider := strings.Split(selected, " -")[0]
	return LLMProvider(provider), nil
}

// PromptForModels prompts the user to select quick and deep thinking models
func PromptForModels(provider LLMProvider) (string, string, error) {
	quickModels, deepModels := provider.GetProviderModels()
	if len(quickModels) == 0 || len(deepModels) == 0 {
		return "", "", fmt.Errorf("no models available for provider %s", provider)
	}

	var quickModel string
	quickPrompt := &survey.Select{
		Message: "Select quick-thinking model (for analysts and debate turns):",
		Options: quickModels,
		Help:    "This model is used for tool-calling analysis and debate rounds.",
		Default: quickModels[0],
	}
	if err := survey.AskOne(quickPrompt, &quickModel); err != nil {
		return "", "", err
	}

	var deepModel string
	deepPrompt := &survey.Select{
		Message: "Select deep-thinking model (for manager and judge decisions):",
		Options: deepModels,
		Help:    "This model is used for the research manager and risk judge.",
		Default: deepModels[0],
	}
	if err := survey.AskOne(deepPrompt, &deepModel); err != nil {
		return "", "", err
	}

	return quickModel, deepModel, nil
}

// PromptForConfirmation prompts the user to confirm their selections
func PromptForConfirmation(selections UserSelections) (bool, error) {
	summary := fmt.Sprintf(`
Analysis Configuration Summary:
────────────────────────────────────────────────

  Ticker Symbol:     %s
  Asset Class:       %s
  Analysis Date:     %s
  Research Depth:    %s (%d rounds)
  LLM Provider:      %s
  Quick Model:       %s
  Deep Model:        %s

────────────────────────────────────────────────
`,
		selections.Ticker,
		selections.AssetType,
		selections.AnalysisDate.Format("2006-01-02"),
		selections.ResearchDepth,
		selections.ResearchDepth.GetResearchRounds(),
		selections.LLMProvider,
		selections.QuickModel,
		selections.DeepModel,
	)

	fmt.Println(summary)

	var confirmed bool
	prompt := &survey.Confirm{
		Message: "Proceed with this analysis configuration?",
		Default: true,
	}

	err := survey.AskOne(prompt, &confirmed)
	return confirmed, err
}

// PromptForRestartOrExit prompts user when analysis completes
func PromptForRestartOrExit() (bool, error) {
	var choice string
	prompt := &survey.Select{
		Message: "Analysis completed! What would you like to do next?",
		Options: []string{
			"Start a new analysis",
			"Exit CoinCortex",
		},
		Default: "Exit CoinCortex",
	}

	if err := survey.AskOne(prompt, &choice); err != nil {
		return false, err
	}
	return choice == "Start a new analysis", nil
}
