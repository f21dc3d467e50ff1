package tools

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coincortex/coincortex/internal/dataflows"
)

func TestResolveDateRangeExplicit(t *testing.T) {
	start, end, err := resolveDateRange("2024-01-01", "2024-02-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Format("2006-01-02") != "2024-01-01" {
		t.Errorf("start = %s, want 2024-01-01", start.Format("2006-01-02"))
	}
	if end.Format("2006-01-02") != "2024-02-01" {
		t.Errorf("end = %s, want 2024-02-01", end.Format("2006-01-02"))
	}
}

func TestResolveDateRangeDefaults(t *testing.T) {
	start, end, err := resolveDateRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := int(end.Sub(start).Hours() / 24); got != defaultLookBackDays {
		t.Errorf("default window = %d days, want %d", got, defaultLookBackDays)
	}
}

func TestResolveDateRangeDefaultStart(t *testing.T) {
	start, end, err := resolveDateRange("", "2024-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end.Format("2006-01-02") != "2024-03-15" {
		t.Errorf("end = %s, want 2024-03-15", end.Format("2006-01-02"))
	}
	if start.Format("2006-01-02") != "2024-02-14" {
		t.Errorf("start = %s, want 2024-02-14", start.Format("2006-01-02"))
	}
}

func TestResolveDateRangeErrors(t *testing.T) {
	if _, _, err := resolveDateRange("2024/01/01", ""); err == nil {
		t.Error("expected error for malformed start date")
	}
	if _, _, err := resolveDateRange("", "01-01-2024"); err == nil {
		t.Error("expected error for malformed end date")
	}
	if _, _, err := resolveDateRange("2024-06-01", "2024-01-01"); err == nil {
		t.Error("expected error when start is after end")
	}
}

func TestInsiderWindowDefaults(t *testing.T) {
	from, to, err := insiderWindow(InsiderActivityInput{CurrDate: "2024-05-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if to.Format("2006-01-02") != "2024-05-01" {
		t.Errorf("to = %s, want 2024-05-01", to.Format("2006-01-02"))
	}
	if from.Format("2006-01-02") != "2024-04-01" {
		t.Errorf("from = %s, want 2024-04-01", from.Format("2006-01-02"))
	}

	from, to, err = insiderWindow(InsiderActivityInput{CurrDate: "2024-05-01", LookBackDays: 90})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from.Format("2006-01-02") != "2024-02-01" {
		t.Errorf("from with 90 day lookback = %s, want 2024-02-01", from.Format("2006-01-02"))
	}

	if _, _, err := insiderWindow(InsiderActivityInput{CurrDate: "May 1"}); err == nil {
		t.Error("expected error for malformed curr_date")
	}
}

func TestToIndicatorBars(t *testing.T) {
	in := []*dataflows.MarketData{
		{
			Symbol: "BTC",
			Date:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Open:   decimal.NewFromFloat(42000.5),
			High:   decimal.NewFromFloat(43100.25),
			Low:    decimal.NewFromFloat(41800),
			Close:  decimal.NewFromFloat(42950.75),
			Volume: 12345,
		},
	}

	out := toIndicatorBars(in)
	if len(out) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(out))
	}
	bar := out[0]
	if bar.Symbol != "BTC" {
		t.Errorf("symbol = %s, want BTC", bar.Symbol)
	}
	if bar.Date != "2024-03-01" {
		t.Errorf("date = %s, want 2024-03-01", bar.Date)
	}
	if bar.Close != 42950.75 {
		t.Errorf("close = %v, want 42950.75", bar.Close)
	}
	if bar.Volume != 12345 {
		t.Errorf("volume = %d, want 12345", bar.Volume)
	}
}
