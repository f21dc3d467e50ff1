// Package budget keeps LLM prompt inputs inside a token budget.
//
// Token counts are estimated with a chars-per-token heuristic that errs high,
// so clamped prompts stay safely under provider limits without a tokenizer
// dependency.
package budget

import (
	"strings"

	"github.com/coincortex/coincortex/internal/config"
)

const truncationMarker = "\n...<truncated>...\n"

// PromptBudget describes the input budget for a single LLM call.
type PromptBudget struct {
	// MaxInputTokens is the total budget for prompt input.
	MaxInputTokens int
	// ReservedOutputTokens is held back for the model's response.
	ReservedOutputTokens int
}

// ContentBudgetTokens is the budget left for prompt content.
func (b PromptBudget) ContentBudgetTokens() int {
	n := b.MaxInputTokens - b.ReservedOutputTokens
	if n < 1 {
		return 1
	}
	return n
}

// FromConfig builds a budget from the application config.
func FromConfig(cfg *config.Config) PromptBudget {
	b := PromptBudget{
		MaxInputTokens:       12000,
		ReservedOutputTokens: 2048,
	}
	if cfg == nil {
		return b
	}
	if cfg.MaxInputTokens > 0 {
		b.MaxInputTokens = cfg.MaxInputTokens
	}
	if cfg.ReservedOutputTokens > 0 {
		b.ReservedOutputTokens = cfg.ReservedOutputTokens
	}
	return b
}

// EstimateTokens estimates the token count of text. English averages 3-4
// characters per token; dividing by 3 deliberately overestimates.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	n := (len(text) + 2) / 3
	if n < 1 {
		return 1
	}
	return n
}

// TruncateMiddle clamps text to maxTokens, keeping the head and tail and
// dropping the middle. Debate transcripts carry their framing up front and
// their conclusions at the end, so the middle is the cheapest cut.
func TruncateMiddle(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	if EstimateTokens(text) <= maxTokens {
		return text
	}

	charsBudget := maxTokens * 3
	if len(text) <= charsBudget {
		return text
	}

	markerLen := len(truncationMarker)
	headChars := (charsBudget - markerLen) / 2
	if headChars < 1 {
		headChars = 1
	}
	tailChars := charsBudget - markerLen - headChars
	if tailChars < 1 {
		tailChars = 1
	}

	head := strings.TrimRight(text[:headChars], " \t\n")
	tail := strings.TrimLeft(text[len(text)-tailChars:], " \t\n")
	return head + truncationMarker + tail
}

// TruncateTail clamps text to maxTokens keeping only the most recent content.
func TruncateTail(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	if EstimateTokens(text) <= maxTokens {
		return text
	}

	charsBudget := maxTokens * 3
	if len(text) <= charsBudget {
		return text
	}

	tailChars := charsBudget - len(truncationMarker)
	if tailChars < 1 {
		tailChars = 1
	}
	return truncationMarker + strings.TrimLeft(text[len(text)-tailChars:], " \t\n")
}

// ClampBlocks fits a set of named prompt blocks into a shared total budget.
// Each block gets an equal share first; if the joined result still exceeds
// the budget, the largest block is shaved until everything fits.
func ClampBlocks(blocks []Block, totalTokens int) map[string]string {
	clamped := make(map[string]string, len(blocks))
	if totalTokens <= 0 {
		for _, b := range blocks {
			clamped[b.Name] = ""
		}
		return clamped
	}
	if len(blocks) == 0 {
		return clamped
	}

	perBlock := totalTokens / len(blocks)
	if perBlock < 1 {
		perBlock = 1
	}
	for _, b := range blocks {
		clamped[b.Name] = TruncateMiddle(b.Text, perBlock)
	}

	prev := -1
	for total := joinedTokens(clamped); total > totalTokens && total != prev; total = joinedTokens(clamped) {
		prev = total
		biggest := ""
		biggestTokens := -1
		for name, text := range clamped {
			if t := EstimateTokens(text); t > biggestTokens {
				biggest, biggestTokens = name, t
			}
		}
		if biggestTokens <= 1 {
			break
		}
		shaved := biggestTokens * 9 / 10
		if shaved < 1 {
			shaved = 1
		}
		clamped[biggest] = TruncateMiddle(clamped[biggest], shaved)
	}

	return clamped
}

// Block is a named prompt section subject to clamping.
type Block struct {
	Name string
	Text string
}

func joinedTokens(clamped map[string]string) int {
	total := 0
	for _, text := range clamped {
		total += EstimateTokens(text) + EstimateTokens("\n\n")
	}
	return total
}
