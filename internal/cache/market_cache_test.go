package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/coincortex/coincortex/internal/models"
)

func testBars(symbol string, start time.Time, days int) []*models.MarketData {
	bars := make([]*models.MarketData, 0, days)
	for i := 0; i < days; i++ {
		px := 100.0 + float64(i)
		bars = append(bars, &models.MarketData{
			Symbol: symbol,
			Date:   start.AddDate(0, 0, i).Format("2006-01-02"),
			Open:   px,
			High:   px + 1,
			Low:    px - 1,
			Close:  px + 0.5,
			Volume: 1000 + int64(i),
		})
	}
	return bars
}

func TestGetMissesWhenEmpty(t *testing.T) {
	c := NewMarketDataCache(t.TempDir())
	if _, ok := c.Get("BTC", "2024-01-01", "2024-01-10"); ok {
		t.Fatal("expected a miss on an empty cache")
	}
}

func TestSetThenGet(t *testing.T) {
	c := NewMarketDataCache(t.TempDir())
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.Set("btc", testBars("BTC", start, 30))

	bars, ok := c.Get("BTC", "2024-01-05", "2024-01-10")
	if !ok {
		t.Fatal("expected a hit after Set")
	}
	if len(bars) != 6 {
		t.Fatalf("expected 6 bars in range, got %d", len(bars))
	}
	if bars[0].Date != "2024-01-05" || bars[len(bars)-1].Date != "2024-01-10" {
		t.Fatalf("unexpected range: %s .. %s", bars[0].Date, bars[len(bars)-1].Date)
	}
	if c.Stats() != 1 {
		t.Fatalf("expected 1 cached symbol, got %d", c.Stats())
	}
}

func TestGetMissesOnNarrowRange(t *testing.T) {
	c := NewMarketDataCache(t.TempDir())
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c.Set("ETH", testBars("ETH", start, 10))

	// The request starts well before the cached history begins.
	if _, ok := c.Get("ETH", "2024-01-01", "2024-03-05"); ok {
		t.Fatal("expected a miss when cached history starts too late")
	}
}

func TestGetFallsBackToCSV(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	writer := NewMarketDataCache(dir)
	writer.Set("SOL", testBars("SOL", start, 20))

	// A fresh instance has no memory entries and must read the file.
	reader := NewMarketDataCache(dir)
	bars, ok := reader.Get("SOL", "2024-01-02", "2024-01-06")
	if !ok {
		t.Fatal("expected a hit from the CSV layer")
	}
	if len(bars) != 5 {
		t.Fatalf("expected 5 bars, got %d", len(bars))
	}
	if bars[2].Close != 103.5 {
		t.Fatalf("unexpected close on third bar: %v", bars[2].Close)
	}
}

func TestClearDropsMemoryOnly(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	c := NewMarketDataCache(dir)
	c.Set("ADA", testBars("ADA", start, 15))
	c.Clear()

	if c.Stats() != 0 {
		t.Fatalf("expected empty memory cache, got %d entries", c.Stats())
	}
	if _, ok := c.Get("ADA", "2024-01-03", "2024-01-08"); !ok {
		t.Fatal("expected the file layer to survive Clear")
	}
}

func TestSliceRangeAllowsTradingGaps(t *testing.T) {
	// Weekend gap: cached bars start Monday, request starts Saturday.
	bars := []*models.MarketData{}
	for i := 0; i < 5; i++ {
		bars = append(bars, &models.MarketData{
			Date:  fmt.Sprintf("2024-01-%02d", 8+i),
			Close: 100,
		})
	}
	if _, ok := sliceRange(bars, "2024-01-06", "2024-01-12"); !ok {
		t.Fatal("expected a weekend gap at the start to be tolerated")
	}
	if _, ok := sliceRange(bars, "2023-12-01", "2024-01-12"); ok {
		t.Fatal("expected a month-long gap to be rejected")
	}
}
