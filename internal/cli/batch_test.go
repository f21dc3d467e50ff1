package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/coincortex/coincortex/internal/config"
)

func TestValidateSymbols(t *testing.T) {
	bm := NewBatchManager(config.DefaultConfig())

	valid, invalid := bm.ValidateSymbols([]string{
		"btc", "AAPL", " eth ", "AAPL", "toolongsymbol", "BRK.B", "bad symbol", "",
	})

	wantValid := []string{"BTC", "AAPL", "ETH", "BRK.B"}
	if !reflect.DeepEqual(valid, wantValid) {
		t.Fatalf("valid = %v, want %v", valid, wantValid)
	}

	wantInvalid := []string{"toolongsymbol", "bad symbol", ""}
	if !reflect.DeepEqual(invalid, wantInvalid) {
		t.Fatalf("invalid = %v, want %v", invalid, wantInvalid)
	}
}

func TestLoadSymbolsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.txt")
	content := "# watchlist\nbtc\n\nAAPL\n  sol  \n# comment\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	bm := NewBatchManager(config.DefaultConfig())
	symbols, err := bm.LoadSymbolsFromFile(path)
	if err != nil {
		t.Fatalf("LoadSymbolsFromFile: %v", err)
	}

	want := []string{"BTC", "AAPL", "SOL"}
	if !reflect.DeepEqual(symbols, want) {
		t.Fatalf("symbols = %v, want %v", symbols, want)
	}
}

func TestResearchDepthRounds(t *testing.T) {
	cases := []struct {
		depth  ResearchDepth
		rounds int
	}{
		{ShallowResearch, 1},
		{MediumResearch, 2},
		{DeepResearch, 3},
		{ResearchDepth("unknown"), 1},
	}
	for _, tc := range cases {
		if got := tc.depth.GetResearchRounds(); got != tc.rounds {
			t.Errorf("%s: rounds = %d, want %d", tc.depth, got, tc.rounds)
		}
	}
}

func TestApplyDepth(t *testing.T) {
	cfg := config.DefaultConfig()
	applyDepth(cfg, DeepResearch)
	if cfg.MaxDebateRounds != 3 || cfg.MaxRiskDiscussRounds != 3 {
		t.Fatalf("deep depth set rounds %d/%d, want 3/3",
			cfg.MaxDebateRounds, cfg.MaxRiskDiscussRounds)
	}
}
