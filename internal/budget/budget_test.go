package budget

import (
	"strings"
	"testing"

	"github.com/coincortex/coincortex/internal/config"
)

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("EstimateTokens(empty) = %d, want 0", got)
	}
	if got := EstimateTokens("a"); got != 1 {
		t.Errorf("EstimateTokens(a) = %d, want 1", got)
	}
	// Should overestimate: 300 chars is at most ~100 real tokens.
	if got := EstimateTokens(strings.Repeat("x", 300)); got < 100 {
		t.Errorf("EstimateTokens(300 chars) = %d, want >= 100", got)
	}
}

func TestTruncateMiddleShortTextUntouched(t *testing.T) {
	text := "short signal"
	if got := TruncateMiddle(text, 1000); got != text {
		t.Errorf("TruncateMiddle altered text under budget: %q", got)
	}
}

func TestTruncateMiddleKeepsHeadAndTail(t *testing.T) {
	text := "HEAD " + strings.Repeat("middle ", 2000) + " TAIL"
	got := TruncateMiddle(text, 100)

	if !strings.HasPrefix(got, "HEAD") {
		t.Errorf("truncated text lost its head: %q", got[:20])
	}
	if !strings.HasSuffix(got, "TAIL") {
		t.Errorf("truncated text lost its tail: %q", got[len(got)-20:])
	}
	if !strings.Contains(got, "<truncated>") {
		t.Error("truncated text missing marker")
	}
	if EstimateTokens(got) > 110 {
		t.Errorf("truncated text still too large: %d tokens", EstimateTokens(got))
	}
}

func TestTruncateMiddleZeroBudget(t *testing.T) {
	if got := TruncateMiddle("anything", 0); got != "" {
		t.Errorf("TruncateMiddle with zero budget = %q, want empty", got)
	}
}

func TestTruncateTailKeepsRecent(t *testing.T) {
	text := strings.Repeat("old ", 2000) + "RECENT"
	got := TruncateTail(text, 50)

	if !strings.HasSuffix(got, "RECENT") {
		t.Errorf("tail truncation lost recent content: %q", got)
	}
	if !strings.HasPrefix(got, "\n...<truncated>...") {
		t.Errorf("tail truncation missing leading marker: %q", got[:30])
	}
}

func TestClampBlocksSharesBudget(t *testing.T) {
	blocks := []Block{
		{Name: "market", Text: strings.Repeat("m", 9000)},
		{Name: "news", Text: strings.Repeat("n", 9000)},
		{Name: "social", Text: "tiny"},
	}

	clamped := ClampBlocks(blocks, 1000)

	if len(clamped) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(clamped))
	}
	if clamped["social"] != "tiny" {
		t.Errorf("small block should be untouched, got %q", clamped["social"])
	}
	total := 0
	for _, text := range clamped {
		total += EstimateTokens(text)
	}
	if total > 1100 {
		t.Errorf("clamped blocks exceed budget: %d tokens", total)
	}
}

func TestClampBlocksZeroBudget(t *testing.T) {
	clamped := ClampBlocks([]Block{{Name: "a", Text: "text"}}, 0)
	if clamped["a"] != "" {
		t.Errorf("zero budget should empty all blocks, got %q", clamped["a"])
	}
}

func TestFromConfig(t *testing.T) {
	b := FromConfig(nil)
	if b.MaxInputTokens != 12000 || b.ReservedOutputTokens != 2048 {
		t.Errorf("nil config defaults wrong: %+v", b)
	}

	cfg := &config.Config{MaxInputTokens: 8000, ReservedOutputTokens: 1000}
	b = FromConfig(cfg)
	if b.ContentBudgetTokens() != 7000 {
		t.Errorf("ContentBudgetTokens = %d, want 7000", b.ContentBudgetTokens())
	}
}
