package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coincortex/coincortex/internal/config"
	"github.com/coincortex/coincortex/internal/storage"
)

// newHistoryCmd creates the history command backed by the session store.
func newHistoryCmd(cfg *config.Config) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past analysis sessions",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent analysis sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return withStore(cfg, func(store *storage.Store) error {
				return listHistory(store, limit)
			})
		},
	}
	listCmd.Flags().Int("limit", 20, "Maximum number of sessions to show")

	showCmd := &cobra.Command{
		Use:   "show SESSION_ID",
		Short: "Show the decision and reports of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			full, _ := cmd.Flags().GetBool("full")
			return withStore(cfg, func(store *storage.Store) error {
				return showHistory(store, args[0], full)
			})
		},
	}
	showCmd.Flags().Bool("full", false, "Print full report contents")

	historyCmd.AddCommand(listCmd)
	historyCmd.AddCommand(showCmd)
	return historyCmd
}

func withStore(cfg *config.Config, fn func(*storage.Store) error) error {
	store, err := storage.Open(filepath.Join(cfg.DataDir, "coincortex.db"))
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func listHistory(store *storage.Store, limit int) error {
	sessions, err := store.ListSessions(context.Background(), 0, limit)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		DisplayInfo("No analysis sessions recorded yet.")
		return nil
	}

	fmt.Printf("%-36s %-8s %-14s %-12s %-8s\n", "SESSION", "SYMBOL", "ASSET", "DATE", "STATUS")
	fmt.Println(strings.Repeat("─", 84))
	for _, s := range sessions {
		fmt.Printf("%-36s %-8s %-14s %-12s %-8s\n", s.ID, s.Symbol, s.AssetType, s.TradeDate, s.Status)
	}
	return nil
}

func showHistory(store *storage.Store, sessionID string, full bool) error {
	ctx := context.Background()

	session, err := store.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return fmt.Errorf("session %q not found", sessionID)
	}

	fmt.Printf("Session:    %s\n", session.ID)
	fmt.Printf("Symbol:     %s (%s)\n", session.Symbol, session.AssetType)
	fmt.Printf("Trade Date: %s\n", session.TradeDate)
	fmt.Printf("Status:     %s\n", session.Status)
	fmt.Println()

	decision, err := store.GetDecision(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("get decision: %w", err)
	}
	if decision != nil {
		fmt.Printf("Decision:   %s (confidence %.2f, risk %.2f)\n", decision.Action, decision.Confidence, decision.Risk)
		if decision.Reason != "" {
			fmt.Printf("Reason:     %s\n", decision.Reason)
		}
	} else {
		fmt.Println("Decision:   (none recorded)")
	}
	fmt.Println()

	reports, err := store.ListReports(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("list reports: %w", err)
	}
	if len(reports) == 0 {
		fmt.Println("No reports recorded.")
		return nil
	}

	fmt.Printf("Reports (%d):\n", len(reports))
	for _, r := range reports {
		if full {
			fmt.Println(strings.Repeat("─", 60))
			fmt.Printf("## %s\n\n%s\n", r.Name, r.Content)
		} else {
			fmt.Printf("  %-22s %d chars\n", r.Name, len(r.Content))
		}
	}
	if !full {
		fmt.Println("\nUse --full to print report contents.")
	}
	return nil
}
