package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/coincortex/coincortex/internal/asset"
	"github.com/coincortex/coincortex/internal/config"
	"github.com/coincortex/coincortex/internal/display"
	"github.com/coincortex/coincortex/internal/logging"
	"github.com/coincortex/coincortex/internal/trading"
)

const version = "0.1.0"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "coincortex",
		Short: "CoinCortex - AI-powered trading analysis for stocks and crypto",
		Long: `CoinCortex is a multi-agent trading analysis system powered by Large Language Models.
It routes stock tickers and cryptocurrency symbols through the right data vendors and
runs analyst, research, trading and risk teams to produce an actionable decision.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}
			logging.SetDefault(logging.New(logging.Options{
				Dir:   filepath.Join(cfg.ProjectDir, "logs"),
				Debug: cfg.Debug,
			}))
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewInteractiveSession(cfg).Start()
		},
	}

	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	rootCmd.AddCommand(newDetectCmd())
	rootCmd.AddCommand(newHistoryCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")

	return rootCmd
}

// newAnalyzeCmd creates the analyze command
func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze SYMBOL [SYMBOL...]",
		Short: "Run trading analysis for one or more symbols",
		Long: `Run a comprehensive trading analysis for stock tickers or cryptocurrency symbols.
Examples:
  coincortex analyze AAPL --date=2024-03-15
  coincortex analyze BTC ETH SOL --date=2024-03-15 --concurrent=2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			depth, _ := cmd.Flags().GetString("depth")
			concurrent, _ := cmd.Flags().GetInt("concurrent")

			applyDepth(cfg, ResearchDepth(depth))

			if len(args) > 1 {
				return NewBatchManager(cfg).RunBatchAnalysis(args, date, concurrent)
			}
			return runAnalyzeCommand(cfg, args[0], date)
		},
	}

	cmd.Flags().String("date", "", "Analysis date in YYYY-MM-DD format (today if not provided)")
	cmd.Flags().String("depth", string(ShallowResearch), "Research depth: shallow, medium or deep")
	cmd.Flags().Int("concurrent", 1, "Concurrent analyses when multiple symbols are given")

	return cmd
}

// newDetectCmd creates the detect command, which classifies symbols without
// running an analysis.
func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect SYMBOL [SYMBOL...]",
		Short: "Show the detected asset class for symbols",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			for _, arg := range args {
				symbol := strings.ToUpper(strings.TrimSpace(arg))
				fmt.Printf("%-10s %s\n", symbol, asset.Classify(symbol))
			}
		},
	}
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("CoinCortex %s\n", version)
			fmt.Println("Multi-agent trading analysis for stocks and cryptocurrencies")
		},
	}
}

// applyDepth maps a research depth onto the debate round limits.
func applyDepth(cfg *config.Config, depth ResearchDepth) {
	rounds := depth.GetResearchRounds()
	cfg.MaxDebateRounds = rounds
	cfg.MaxRiskDiscussRounds = rounds
}

// runAnalyzeCommand executes the main analysis workflow for one symbol
func runAnalyzeCommand(cfg *config.Config, symbol, date string) error {
	ctx := context.Background()

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
	}

	DisplayInfo(fmt.Sprintf("Starting analysis for %s (%s) on %s", symbol, asset.Classify(symbol), date))

	session := trading.NewSession(cfg, symbol, date)

	done := make(chan struct{})
	go renderProgress(session, done)

	state, decision, err := session.Execute(ctx)
	close(done)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	results := display.NewResultsDisplay(symbol, date)
	results.DisplayAnalysisResults(state, decision)

	exportPath := filepath.Join(cfg.ResultsDir, symbol, date, "analysis.json")
	if err := results.SaveResultsToFile(state, decision, exportPath); err != nil {
		DisplayError(fmt.Errorf("save analysis export: %w", err))
	} else {
		DisplaySuccess("Results saved to " + exportPath)
	}

	return nil
}

// renderProgress prints a status line whenever the active agent changes.
func renderProgress(session *trading.Session, done <-chan struct{}) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	lastAgent := ""
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			current := session.Buffer().CurrentAgent()
			if current != "" && current != lastAgent {
				lastAgent = current
				DisplayInfo(fmt.Sprintf("[%s] %s working...",
					session.Elapsed().Round(time.Second), DisplayName(current)))
			}
		}
	}
}
