package dataflows

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/coincortex/coincortex/internal/config"
)

const sampleDailyCSV = `timestamp,open,high,low,close,volume
2024-01-03,44950.00,45500.00,44100.25,45000.50,38215.11
2024-01-01,42000.00,42800.00,41500.00,42250.75,41002.90
2024-01-02,42250.75,44100.00,42100.00,43900.10,52876.34
`

func TestParseAlphaVantageCSV(t *testing.T) {
	bars, err := parseAlphaVantageCSV(sampleDailyCSV, "BTC")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}

	// Bars come back sorted ascending by date regardless of response order.
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Date.Before(bars[i].Date) {
			t.Errorf("bars not sorted: %v before %v", bars[i-1].Date, bars[i].Date)
		}
	}

	first := bars[0]
	if first.Symbol != "BTC" {
		t.Errorf("expected symbol BTC, got %s", first.Symbol)
	}
	if first.Date.Format("2006-01-02") != "2024-01-01" {
		t.Errorf("expected first date 2024-01-01, got %s", first.Date.Format("2006-01-02"))
	}
	if first.Close.String() != "42250.75" {
		t.Errorf("expected close 42250.75, got %s", first.Close.String())
	}
	if first.Volume != 41002 {
		t.Errorf("expected volume 41002, got %d", first.Volume)
	}
}

func TestParseAlphaVantageCSVIntradayTimestamps(t *testing.T) {
	body := `timestamp,open,high,low,close,volume
2024-01-01 12:00:00,42000.00,42100.00,41950.00,42050.00,120.5
2024-01-01 13:00:00,42050.00,42300.00,42000.00,42250.00,98.2
`
	bars, err := parseAlphaVantageCSV(body, "ETH")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].Date.Hour() != 12 {
		t.Errorf("expected hour 12, got %d", bars[0].Date.Hour())
	}
}

func TestParseAlphaVantageCSVBadRows(t *testing.T) {
	body := `timestamp,open,high,low,close,volume
not-a-date,1,2,3,4,5
2024-01-01,42000.00,42800.00,41500.00,not-a-number,100
2024-01-02,42250.75,44100.00,42100.00,43900.10,52876.34
`
	bars, err := parseAlphaVantageCSV(body, "BTC")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("expected 1 valid bar, got %d", len(bars))
	}
}

func TestParseAlphaVantageCSVShortRows(t *testing.T) {
	// A truncated response body cuts rows mid-record.
	body := `timestamp,open,high,low,close,volume
2024-01-01,42000.00,42800.00
2024-01-02,42250.75,44100.00,42100.00,43900.10,52876.34
2024-01-03,43900.00
`
	bars, err := parseAlphaVantageCSV(body, "BTC")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("expected 1 valid bar, got %d", len(bars))
	}
	if bars[0].Date.Format("2006-01-02") != "2024-01-02" {
		t.Fatalf("expected the complete row to survive, got %s", bars[0].Date)
	}
}

func TestParseAlphaVantageCSVMissingColumn(t *testing.T) {
	body := `timestamp,open,high,low
2024-01-01,1,2,3
`
	if _, err := parseAlphaVantageCSV(body, "BTC"); err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestGetCryptoDailyDateFilter(t *testing.T) {
	bars, err := parseAlphaVantageCSV(sampleDailyCSV, "BTC")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	start, _ := time.Parse("2006-01-02", "2024-01-02")
	end, _ := time.Parse("2006-01-02", "2024-01-03")
	dateRange := &DateRange{Start: start, End: end}

	before := make([]*MarketData, len(bars))
	copy(before, bars)

	filtered := filterBarsByRange(bars, dateRange)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 bars in range, got %d", len(filtered))
	}
	for i := range bars {
		if bars[i] != before[i] {
			t.Fatalf("filter mutated the input slice at %d", i)
		}
	}
}

func TestGetCryptoIntradayRejectsBadInterval(t *testing.T) {
	cfg := config.DefaultConfigWithRoot(t.TempDir())
	cfg.AlphaVantageAPIKey = "test"
	client := NewAlphaVantageClient(cfg)

	_, err := client.GetCryptoIntraday(context.Background(), "BTC", "USD", "2min")
	if err == nil {
		t.Fatal("expected error for invalid interval")
	}
	if !strings.Contains(err.Error(), "interval") {
		t.Errorf("expected interval error, got: %v", err)
	}
}

func TestGetCryptoDailyRequiresAPIKey(t *testing.T) {
	cfg := config.DefaultConfigWithRoot(t.TempDir())
	cfg.AlphaVantageAPIKey = ""
	client := NewAlphaVantageClient(cfg)

	_, err := client.GetCryptoDaily(context.Background(), "BTC", "USD", nil)
	if err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestGetCryptoDailyLive(t *testing.T) {
	apiKey := os.Getenv("ALPHA_VANTAGE_API_KEY")
	if apiKey == "" {
		t.Skipf("ALPHA_VANTAGE_API_KEY not set, skipping live API test")
	}

	cfg := config.DefaultConfigWithRoot(t.TempDir())
	cfg.AlphaVantageAPIKey = apiKey
	client := NewAlphaVantageClient(cfg)

	bars, err := client.GetCryptoDaily(context.Background(), "BTC", "USD", nil)
	if err != nil {
		t.Fatalf("live fetch failed: %v", err)
	}
	if len(bars) == 0 {
		t.Fatal("expected at least one bar")
	}
}
