package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coincortex/coincortex/internal/config"
	"github.com/coincortex/coincortex/internal/utils"
)

const configFilename = "coincortex.json"

var configStore = utils.NewConfigStore(configFilename)

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Show, validate and persist CoinCortex configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "save [PATH]",
		Short: "Save the current configuration to a JSON file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return saveConfig(cfg, path)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "load PATH",
		Short: "Load configuration overrides from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cfg, args[0])
		},
	})

	return configCmd
}

// saveConfig writes the config as JSON. API keys come from the environment
// and are blanked before writing so the file can be committed safely.
func saveConfig(cfg *config.Config, path string) error {
	resolved := path
	var err error
	if resolved == "" {
		resolved, err = configStore.Resolve(cfg.ProjectDir)
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
	} else if resolved, err = configStore.SetPath(resolved); err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}

	sanitized := cfg.Clone()
	sanitized.OpenAIAPIKey = ""
	sanitized.DeepSeekAPIKey = ""
	sanitized.AlphaVantageAPIKey = ""
	sanitized.FinnhubAPIKey = ""

	data, err := json.MarshalIndent(sanitized, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := configStore.Write(resolved, data); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	DisplaySuccess("Configuration saved to " + resolved)
	return nil
}

// loadConfig overlays a JSON config file onto the active configuration.
func loadConfig(cfg *config.Config, path string) error {
	resolved, err := configStore.SetPath(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}

	data, err := configStore.Read(resolved)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("loaded configuration is invalid: %w", err)
	}

	DisplaySuccess("Configuration loaded from " + resolved)
	return nil
}

// showConfig displays the current configuration
func showConfig(cfg *config.Config) {
	fmt.Println("Current CoinCortex Configuration:")
	fmt.Println(strings.Repeat("═", 46))
	fmt.Printf("Project Directory:    %s\n", cfg.ProjectDir)
	fmt.Printf("Results Directory:    %s\n", cfg.ResultsDir)
	fmt.Printf("Data Directory:       %s\n", cfg.DataDir)
	fmt.Printf("Cache Directory:      %s\n", cfg.DataCacheDir)
	fmt.Println()
	fmt.Printf("LLM Provider:         %s\n", cfg.LLMProvider)
	fmt.Printf("Deep Think Model:     %s\n", cfg.DeepThinkLLM)
	fmt.Printf("Quick Think Model:    %s\n", cfg.QuickThinkLLM)
	fmt.Printf("Backend URL:          %s\n", cfg.BackendURL)
	fmt.Println()
	fmt.Printf("Max Debate Rounds:    %d\n", cfg.MaxDebateRounds)
	fmt.Printf("Max Risk Rounds:      %d\n", cfg.MaxRiskDiscussRounds)
	fmt.Printf("Max Recursion Limit:  %d\n", cfg.MaxRecurLimit)
	fmt.Printf("Max Input Tokens:     %d\n", cfg.MaxInputTokens)
	fmt.Println()
	fmt.Printf("Crypto Market:        %s\n", cfg.Crypto.DefaultMarket)
	fmt.Printf("Crypto Interval:      %s\n", cfg.Crypto.DefaultInterval)
	for category, vendor := range cfg.DataVendors {
		fmt.Printf("Vendor %-14s %s\n", category+":", vendor)
	}
	fmt.Println()
	fmt.Printf("Online Tools:         %t\n", cfg.OnlineTools)
	fmt.Printf("Cache Enabled:        %t\n", cfg.CacheEnabled)
	fmt.Printf("Debug Mode:           %t\n", cfg.Debug)
	fmt.Printf("Eino Debug:           %t\n", cfg.EinoDebugEnabled)
	if cfg.EinoDebugEnabled {
		fmt.Printf("Eino Debug Port:      %d\n", cfg.EinoDebugPort)
	}
	fmt.Println()

	fmt.Println("API Configuration:")
	fmt.Println(strings.Repeat("─", 24))
	printKeyStatus("OpenAI API", cfg.OpenAIAPIKey)
	printKeyStatus("DeepSeek API", cfg.DeepSeekAPIKey)
	printKeyStatus("Alpha Vantage API", cfg.AlphaVantageAPIKey)
	printKeyStatus("Finnhub API", cfg.FinnhubAPIKey)
}

func printKeyStatus(name, key string) {
	status := "not configured"
	if key != "" {
		status = "configured"
	}
	fmt.Printf("%-21s %s\n", name+":", status)
}

// validateConfig validates the configuration and dependencies
func validateConfig(cfg *config.Config) error {
	fmt.Println("Validating CoinCortex Configuration...")
	fmt.Println(strings.Repeat("═", 46))

	fmt.Print("Checking directories... ")
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Println("FAIL")
		return fmt.Errorf("directory validation failed: %w", err)
	}
	fmt.Println("ok")

	fmt.Print("Checking configuration values... ")
	if err := cfg.Validate(); err != nil {
		fmt.Println("FAIL")
		return err
	}
	fmt.Println("ok")

	fmt.Print("Checking API keys... ")
	var warnings []string
	switch cfg.LLMProvider {
	case "deepseek":
		if cfg.DeepSeekAPIKey == "" {
			warnings = append(warnings, "DeepSeek API key not configured")
		}
	default:
		if cfg.OpenAIAPIKey == "" {
			warnings = append(warnings, "OpenAI API key not configured")
		}
	}
	if cfg.AlphaVantageAPIKey == "" {
		warnings = append(warnings, "Alpha Vantage API key not configured (crypto data unavailable)")
	}
	if cfg.FinnhubAPIKey == "" {
		warnings = append(warnings, "Finnhub API key not configured (news data limited)")
	}

	if len(warnings) > 0 {
		fmt.Println("warnings")
		for _, warning := range warnings {
			fmt.Printf("  - %s\n", warning)
		}
	} else {
		fmt.Println("ok")
	}

	fmt.Println()
	if len(warnings) == 0 {
		DisplaySuccess("Configuration validation completed successfully!")
	} else {
		DisplayInfo(fmt.Sprintf("Validation completed with %d warnings. Some features may be limited.", len(warnings)))
	}

	fmt.Println()
	fmt.Println("Tips:")
	fmt.Println("  - Set ALPHA_VANTAGE_API_KEY for cryptocurrency price data")
	fmt.Println("  - Set FINNHUB_API_KEY for company and crypto news")
	fmt.Println("  - Use 'coincortex analyze BTC' to start your first analysis")

	return nil
}
