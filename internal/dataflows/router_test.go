package dataflows

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/coincortex/coincortex/internal/config"
	"github.com/shopspring/decimal"
)

func TestVendorsForCategory(t *testing.T) {
	crypto := VendorsForCategory(config.CategoryCrypto)
	if len(crypto) != 1 || crypto[0] != config.VendorAlphaVantage {
		t.Errorf("expected crypto category served by alpha_vantage only, got %v", crypto)
	}

	stock := VendorsForCategory(config.CategoryCoreStock)
	if len(stock) == 0 || stock[0] != config.VendorYahooFinance {
		t.Errorf("expected yahoo_finance as default stock vendor, got %v", stock)
	}

	if got := VendorsForCategory("no_such_category"); len(got) != 0 {
		t.Errorf("expected no vendors for unknown category, got %v", got)
	}
}

func TestVendorSupports(t *testing.T) {
	if !VendorSupports(config.CategoryCrypto, config.VendorAlphaVantage) {
		t.Error("alpha_vantage should serve cryptocurrency_data")
	}
	if VendorSupports(config.CategoryCrypto, config.VendorYahooFinance) {
		t.Error("yahoo_finance should not serve cryptocurrency_data")
	}
	if !VendorSupports(config.CategoryCoreStock, config.VendorYahooFinance) {
		t.Error("yahoo_finance should serve core_stock_apis")
	}
}

func TestResolveVendorFallsBackOnMismatch(t *testing.T) {
	cfg := config.DefaultConfigWithRoot(t.TempDir())
	// A stock-only vendor configured for the crypto category cannot serve it.
	cfg.DataVendors[config.CategoryCrypto] = config.VendorYahooFinance

	r := NewRouter(cfg)
	vendor, err := r.resolveVendor(config.CategoryCrypto)
	if err != nil {
		t.Fatalf("resolveVendor failed: %v", err)
	}
	if vendor != config.VendorAlphaVantage {
		t.Errorf("expected fallback to alpha_vantage, got %s", vendor)
	}
}

func TestResolveVendorUnknownCategory(t *testing.T) {
	r := NewRouter(config.DefaultConfigWithRoot(t.TempDir()))
	if _, err := r.resolveVendor("no_such_category"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func testBars(symbol string, dates ...string) []*MarketData {
	bars := make([]*MarketData, 0, len(dates))
	for i, d := range dates {
		date, _ := time.Parse("2006-01-02", d)
		px := decimal.NewFromInt(int64(100 + i))
		bars = append(bars, &MarketData{
			Symbol: symbol,
			Date:   date,
			Open:   px, High: px, Low: px, Close: px,
			Volume: 1000,
		})
	}
	return bars
}

func TestRenderCryptoReport(t *testing.T) {
	start, _ := time.Parse("2006-01-02", "2024-01-01")
	end, _ := time.Parse("2006-01-02", "2024-01-02")
	report := renderCryptoReport("BTC", "USD", start, end, testBars("BTC", "2024-01-01", "2024-01-02"))

	if !strings.HasPrefix(report, "# Cryptocurrency data for BTC/USD\n") {
		t.Errorf("unexpected report header:\n%s", report)
	}
	if !strings.Contains(report, "# Date range: 2024-01-01 to 2024-01-02\n") {
		t.Errorf("missing date range line:\n%s", report)
	}
	if !strings.Contains(report, "timestamp,open,high,low,close,volume\n") {
		t.Errorf("missing CSV header:\n%s", report)
	}
	if !strings.Contains(report, "2024-01-01,100,100,100,100,1000\n") {
		t.Errorf("missing bar row:\n%s", report)
	}
}

func TestRenderCryptoReportEmpty(t *testing.T) {
	report := renderCryptoReport("BTC", "USD", time.Time{}, time.Time{}, nil)
	if report != "No data available for BTC/USD" {
		t.Errorf("unexpected empty report: %q", report)
	}
}

func TestRenderStockReport(t *testing.T) {
	report := renderStockReport("AAPL", time.Time{}, time.Time{}, testBars("AAPL", "2024-01-01"))
	if !strings.HasPrefix(report, "# Stock data for AAPL\n") {
		t.Errorf("unexpected report header:\n%s", report)
	}
	if strings.Contains(report, "# Date range:") {
		t.Errorf("zero dates should omit the range line:\n%s", report)
	}
}

func TestGetPriceReportDegradesOnFetchFailure(t *testing.T) {
	cfg := config.DefaultConfigWithRoot(t.TempDir())
	cfg.AlphaVantageAPIKey = "" // crypto fetch cannot succeed
	cfg.CacheEnabled = false
	r := NewRouter(cfg)

	report := r.GetPriceReport(context.Background(), "btc", time.Time{}, time.Time{})
	if report != "No data available for BTC (cryptocurrency)" {
		t.Errorf("expected placeholder report, got %q", report)
	}
}

func TestGetCryptoIntradayReportDegradesOnBadInterval(t *testing.T) {
	cfg := config.DefaultConfigWithRoot(t.TempDir())
	cfg.AlphaVantageAPIKey = "test"
	cfg.CacheEnabled = false
	r := NewRouter(cfg)

	report := r.GetCryptoIntradayReport(context.Background(), "ETH", "", "7min")
	if !strings.Contains(report, "No intraday data available for ETH/USD at 7min interval") {
		t.Errorf("expected placeholder report, got %q", report)
	}
}
