package agents

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cloudwego/eino/schema"

	"github.com/coincortex/coincortex/internal/models"
)

// ToolCallChecker reports whether a streamed response contains tool calls.
// Used by react agents to decide between the tool loop and a final answer.
func ToolCallChecker(ctx context.Context, sr *schema.StreamReader[*schema.Message]) (bool, error) {
	defer sr.Close()
	for {
		msg, err := sr.Recv()
		if err != nil {
			if err == io.EOF || err.Error() == "EOF" {
				return false, nil
			}
			return false, err
		}
		if len(msg.ToolCalls) > 0 {
			return true, nil
		}
	}
}

// SaveReport persists an agent's output under
// <results_dir>/<symbol>/<trade_date>/<fileName>. Failures are logged and
// swallowed; report persistence never interrupts the pipeline.
func SaveReport(state *models.TradingState, fileName, content string) {
	if state == nil || state.Config == nil || content == "" {
		return
	}
	dir := filepath.Join(state.Config.ResultsDir, state.CompanyOfInterest, state.TradeDate)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Warn("create report directory failed", "dir", dir, "error", err)
		return
	}
	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		slog.Warn("write report failed", "path", path, "error", err)
	}
}
