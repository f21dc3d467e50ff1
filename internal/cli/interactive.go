package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/coincortex/coincortex/internal/config"
	"github.com/coincortex/coincortex/internal/display"
	"github.com/coincortex/coincortex/internal/trading"
)

// InteractiveSession walks the user through configuring and running analyses.
type InteractiveSession struct {
	mu     sync.RWMutex
	config *config.Config
}

func NewInteractiveSession(cfg *config.Config) *InteractiveSession {
	return &InteractiveSession{config: cfg}
}

// Start runs the interactive loop until the user exits. The persisted
// config file is watched so edits made in another terminal apply to the
// next analysis rather than requiring a restart.
func (s *InteractiveSession) Start() error {
	DisplayWelcomeBanner()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.watchConfig(ctx)

	for {
		selections, err := s.collectSelections()
		if err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				DisplayInfo("Goodbye!")
				return nil
			}
			return err
		}

		confirmed, err := PromptForConfirmation(selections)
		if err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				DisplayInfo("Goodbye!")
				return nil
			}
			return err
		}
		if !confirmed {
			DisplayInfo("Analysis cancelled.")
			continue
		}

		s.runAnalysis(selections)

		again, err := PromptForRestartOrExit()
		if err != nil || !again {
			DisplayInfo("Thank you for using CoinCortex!")
			return nil
		}
	}
}

func (s *InteractiveSession) collectSelections() (UserSelections, error) {
	var selections UserSelections

	ticker, assetType, err := PromptForTicker()
	if err != nil {
		return selections, err
	}
	selections.Ticker = ticker
	selections.AssetType = assetType

	date, err := PromptForAnalysisDate()
	if err != nil {
		return selections, err
	}
	selections.AnalysisDate = date

	depth, err := PromptForResearchDepth()
	if err != nil {
		return selections, err
	}
	selections.ResearchDepth = depth

	provider, err := PromptForLLMProvider()
	if err != nil {
		return selections, err
	}
	selections.LLMProvider = provider

	quickModel, deepModel, err := PromptForModels(provider)
	if err != nil {
		return selections, err
	}
	selections.QuickModel = quickModel
	selections.DeepModel = deepModel

	return selections, nil
}

func (s *InteractiveSession) watchConfig(ctx context.Context) {
	// The file on disk never holds API keys, those stay in the
	// environment. Keep the in-memory keys across reloads.
	initial := s.config.Clone()
	initial.OpenAIAPIKey = ""
	initial.DeepSeekAPIKey = ""
	initial.AlphaVantageAPIKey = ""
	initial.FinnhubAPIKey = ""

	mgr, err := config.NewManager(
		config.WithConfigDir(s.config.ProjectDir),
		config.WithInitialConfig(initial),
	)
	if err != nil {
		slog.Warn("config file unavailable, edits will not be picked up", "error", err)
		return
	}
	err = mgr.Watch(ctx, func(cfg config.Config) {
		s.mu.Lock()
		cfg.OpenAIAPIKey = s.config.OpenAIAPIKey
		cfg.DeepSeekAPIKey = s.config.DeepSeekAPIKey
		cfg.AlphaVantageAPIKey = s.config.AlphaVantageAPIKey
		cfg.FinnhubAPIKey = s.config.FinnhubAPIKey
		s.config = &cfg
		s.mu.Unlock()
		DisplayInfo("Configuration reloaded from " + mgr.Path())
	})
	if err != nil {
		slog.Warn("config watch failed", "error", err)
	}
}

func (s *InteractiveSession) applySelections(selections UserSelections) *config.Config {
	s.mu.RLock()
	cfg := s.config.Clone()
	s.mu.RUnlock()
	cfg.LLMProvider = string(selections.LLMProvider)
	cfg.QuickThinkLLM = selections.QuickModel
	cfg.DeepThinkLLM = selections.DeepModel
	applyDepth(cfg, selections.ResearchDepth)
	return cfg
}

func (s *InteractiveSession) runAnalysis(selections UserSelections) {
	cfg := s.applySelections(selections)
	date := selections.AnalysisDate.Format("2006-01-02")

	DisplayAnalysisHeader(selections)

	session := trading.NewSession(cfg, selections.Ticker, date)

	done := make(chan struct{})
	go renderProgress(session, done)

	state, decision, err := session.Execute(context.Background())
	close(done)
	if err != nil {
		DisplayError(err)
		return
	}

	// Final redraw with everything completed.
	DisplayProgressPanel(session.Buffer())
	DisplayMessagesPanel(session.Buffer(), 10)
	DisplayRunSummary(selections, session.Buffer(), session.Elapsed(), cfg.ResultsDir)

	results := display.NewResultsDisplay(selections.Ticker, date)
	results.DisplayAnalysisResults(state, decision)

	exportPath := filepath.Join(cfg.ResultsDir, selections.Ticker, date, "analysis.json")
	if err := results.SaveResultsToFile(state, decision, exportPath); err != nil {
		DisplayError(fmt.Errorf("save analysis export: %w", err))
	} else {
		DisplaySuccess("Results saved to " + exportPath)
	}
}
