package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "coincortex.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSessionLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	session := SessionRecord{
		ID:        "sess-1",
		Symbol:    "BTC",
		AssetType: "cryptocurrency",
		TradeDate: "2024-05-01",
	}
	if err := store.CreateSession(ctx, session); err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := store.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got == nil {
		t.Fatal("session not found")
	}
	if got.Status != StatusRunning {
		t.Errorf("status = %s, want %s", got.Status, StatusRunning)
	}
	if got.AssetType != "cryptocurrency" {
		t.Errorf("asset type = %s, want cryptocurrency", got.AssetType)
	}

	if err := store.UpdateSessionStatus(ctx, "sess-1", StatusDone); err != nil {
		t.Fatalf("update status: %v", err)
	}
	got, err = store.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get session after update: %v", err)
	}
	if got.Status != StatusDone {
		t.Errorf("status = %s, want %s", got.Status, StatusDone)
	}
}

func TestCreateSessionUpsert(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := SessionRecord{ID: "sess-1", Symbol: "ETH", AssetType: "cryptocurrency", TradeDate: "2024-05-01"}
	if err := store.CreateSession(ctx, base); err != nil {
		t.Fatalf("create session: %v", err)
	}
	base.Status = StatusError
	if err := store.CreateSession(ctx, base); err != nil {
		t.Fatalf("upsert session: %v", err)
	}

	got, err := store.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.Status != StatusError {
		t.Errorf("status = %s, want %s after upsert", got.Status, StatusError)
	}
}

func TestReportsAndDecision(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.CreateSession(ctx, SessionRecord{ID: "sess-1", Symbol: "BTC", AssetType: "cryptocurrency", TradeDate: "2024-05-01"}); err != nil {
		t.Fatalf("create session: %v", err)
	}

	reports := []ReportRecord{
		{SessionID: "sess-1", Name: "market_report", Content: "trend up", Seq: 1},
		{SessionID: "sess-1", Name: "news_report", Content: "etf inflows", Seq: 2},
	}
	for _, r := range reports {
		if err := store.SaveReport(ctx, r); err != nil {
			t.Fatalf("save report %s: %v", r.Name, err)
		}
	}
	// Overwrite keeps one row per report name.
	if err := store.SaveReport(ctx, ReportRecord{SessionID: "sess-1", Name: "market_report", Content: "trend up, revised", Seq: 1}); err != nil {
		t.Fatalf("overwrite report: %v", err)
	}

	listed, err := store.ListReports(ctx, "sess-1")
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(listed))
	}
	if listed[0].Name != "market_report" || listed[0].Content != "trend up, revised" {
		t.Errorf("unexpected first report: %+v", listed[0])
	}

	decision := DecisionRecord{SessionID: "sess-1", Action: "BUY", Confidence: 0.8, Risk: 0.4, Reason: "momentum"}
	if err := store.SaveDecision(ctx, decision); err != nil {
		t.Fatalf("save decision: %v", err)
	}
	got, err := store.GetDecision(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get decision: %v", err)
	}
	if got == nil || got.Action != "BUY" || got.Confidence != 0.8 {
		t.Errorf("unexpected decision: %+v", got)
	}
}

func TestListSessionsPaging(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	ids := []string{"a", "b", "c"}
	for _, id := range ids {
		if err := store.CreateSession(ctx, SessionRecord{ID: id, Symbol: "BTC", AssetType: "cryptocurrency", TradeDate: "2024-05-01"}); err != nil {
			t.Fatalf("create session %s: %v", id, err)
		}
	}

	page, err := store.ListSessions(ctx, 0, 2)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(page))
	}
	if page[0].ID != "c" {
		t.Errorf("newest first: got %s, want c", page[0].ID)
	}

	next, err := store.ListSessions(ctx, page[1].RowID, 2)
	if err != nil {
		t.Fatalf("list next page: %v", err)
	}
	if len(next) != 1 || next[0].ID != "a" {
		t.Errorf("unexpected second page: %+v", next)
	}
}

func TestGetSessionMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.GetSession(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing session, got %+v", got)
	}
}
