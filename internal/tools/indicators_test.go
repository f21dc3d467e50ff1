package tools

import (
	"math"
	"testing"
	"time"

	"github.com/coincortex/coincortex/internal/models"
)

func barsWithCloses(closes []float64) []*models.MarketData {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]*models.MarketData, 0, len(closes))
	for i, c := range closes {
		bars = append(bars, &models.MarketData{
			Symbol: "TEST",
			Date:   start.AddDate(0, 0, i).Format("2006-01-02"),
			Open:   c, High: c + 1, Low: c - 1, Close: c,
			Volume: 1000,
		})
	}
	return bars
}

func fullWindow() (time.Time, time.Time) {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestCalculateSMA(t *testing.T) {
	bars := barsWithCloses([]float64{1, 2, 3, 4, 5})
	start, end := fullWindow()

	values, err := calculateSMA(bars, 3, start, end)
	if err != nil {
		t.Fatalf("SMA failed: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(values))
	}
	// (1+2+3)/3, (2+3+4)/3, (3+4+5)/3
	expected := []float64{2, 3, 4}
	for i, want := range expected {
		if math.Abs(values[i].Value-want) > 1e-9 {
			t.Errorf("SMA[%d] = %v, want %v", i, values[i].Value, want)
		}
	}
}

func TestCalculateEMAStartsAtSMA(t *testing.T) {
	bars := barsWithCloses([]float64{10, 20, 30, 40})
	start, end := fullWindow()

	values, err := calculateEMA(bars, 3, start, end)
	if err != nil {
		t.Fatalf("EMA failed: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(values))
	}
	if math.Abs(values[0].Value-20) > 1e-9 {
		t.Errorf("first EMA should equal the seed SMA 20, got %v", values[0].Value)
	}
	// multiplier = 0.5: 40*0.5 + 20*0.5 = 30
	if math.Abs(values[1].Value-30) > 1e-9 {
		t.Errorf("second EMA = %v, want 30", values[1].Value)
	}
}

func TestCalculateRSIAllGains(t *testing.T) {
	closes := make([]float64, 0, 20)
	for i := 0; i < 20; i++ {
		closes = append(closes, float64(100+i))
	}
	start, end := fullWindow()

	values, err := calculateRSI(barsWithCloses(closes), 14, start, end)
	if err != nil {
		t.Fatalf("RSI failed: %v", err)
	}
	if len(values) == 0 {
		t.Fatal("expected RSI values")
	}
	for _, v := range values {
		if v.Value != 100 {
			t.Errorf("RSI for monotonic gains should be 100, got %v on %s", v.Value, v.Date)
		}
	}
}

func TestCalculateRSIInsufficientData(t *testing.T) {
	start, end := fullWindow()
	if _, err := calculateRSI(barsWithCloses([]float64{1, 2, 3}), 14, start, end); err == nil {
		t.Fatal("expected error for insufficient data")
	}
}

func TestCalculateBollingerBands(t *testing.T) {
	// Constant closes give zero deviation: both bands collapse onto the SMA.
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 50
	}
	bars := barsWithCloses(closes)
	start, end := fullWindow()

	upper, err := calculateBollingerBand(bars, 20, 2, start, end)
	if err != nil {
		t.Fatalf("upper band failed: %v", err)
	}
	lower, err := calculateBollingerBand(bars, 20, -2, start, end)
	if err != nil {
		t.Fatalf("lower band failed: %v", err)
	}
	for i := range upper {
		if math.Abs(upper[i].Value-50) > 1e-9 || math.Abs(lower[i].Value-50) > 1e-9 {
			t.Errorf("bands on flat series should equal 50, got ub=%v lb=%v", upper[i].Value, lower[i].Value)
		}
	}
}

func TestCalculateATRFlatSeries(t *testing.T) {
	// High-low spread of 2 on every bar with no gaps: ATR is exactly 2.
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100
	}
	start, end := fullWindow()

	values, err := calculateATR(barsWithCloses(closes), 14, start, end)
	if err != nil {
		t.Fatalf("ATR failed: %v", err)
	}
	if len(values) == 0 {
		t.Fatal("expected ATR values")
	}
	for _, v := range values {
		if math.Abs(v.Value-2) > 1e-9 {
			t.Errorf("ATR = %v, want 2", v.Value)
		}
	}
}

func TestCalculateVWMAEqualVolumes(t *testing.T) {
	bars := barsWithCloses([]float64{10, 20, 30})
	start, end := fullWindow()

	values, err := calculateVWMA(bars, 3, start, end)
	if err != nil {
		t.Fatalf("VWMA failed: %v", err)
	}
	if len(values) != 1 {
		t.Fatalf("expected 1 value, got %d", len(values))
	}
	if math.Abs(values[0].Value-20) > 1e-9 {
		t.Errorf("VWMA with equal volumes should equal SMA 20, got %v", values[0].Value)
	}
}

func TestCalculateMACDAlignment(t *testing.T) {
	closes := make([]float64, 0, 60)
	for i := 0; i < 60; i++ {
		closes = append(closes, 100+float64(i)*0.5)
	}
	start, end := fullWindow()

	macd, err := calculateMACD(barsWithCloses(closes), start, end)
	if err != nil {
		t.Fatalf("MACD failed: %v", err)
	}
	if len(macd) != 60-25 {
		t.Fatalf("expected %d MACD values, got %d", 60-25, len(macd))
	}
	// In a steady uptrend the fast EMA stays above the slow EMA.
	for _, v := range macd {
		if v.Value <= 0 {
			t.Errorf("MACD in uptrend should be positive, got %v on %s", v.Value, v.Date)
		}
	}

	hist, err := calculateMACDHistogram(barsWithCloses(closes), start, end)
	if err != nil {
		t.Fatalf("MACD histogram failed: %v", err)
	}
	if len(hist) == 0 {
		t.Fatal("expected histogram values")
	}
}

func TestCalculateIndicatorUnsupported(t *testing.T) {
	start, end := fullWindow()
	if _, err := calculateIndicator(barsWithCloses([]float64{1, 2}), "stochrsi", start, end); err == nil {
		t.Fatal("expected error for unsupported indicator")
	}
}

func TestCalculateIndicatorSortsData(t *testing.T) {
	bars := barsWithCloses([]float64{1, 2, 3, 4, 5})
	// Shuffle order; calculateIndicator must sort by date before computing.
	bars[0], bars[4] = bars[4], bars[0]
	start, end := fullWindow()

	values, err := calculateIndicator(bars, "close_10_ema", start, end)
	if err == nil && len(values) > 0 {
		t.Fatal("expected insufficient data error for 10 EMA on 5 bars")
	}

	values, err = calculateIndicator(bars, "boll", start, end)
	if err != nil {
		t.Fatalf("boll failed: %v", err)
	}
	_ = values

	sma, err := calculateIndicator(bars, "close_50_sma", start, end)
	if err != nil {
		t.Fatalf("sma failed: %v", err)
	}
	if len(sma) != 0 {
		t.Errorf("50 SMA on 5 bars should produce no values, got %d", len(sma))
	}
}

func TestBestIndParamsCoverage(t *testing.T) {
	start, end := fullWindow()
	closes := make([]float64, 0, 260)
	for i := 0; i < 260; i++ {
		closes = append(closes, 100+math.Sin(float64(i)/10)*10)
	}
	bars := barsWithCloses(closes)

	for indicator := range bestIndParams {
		if _, err := calculateIndicator(bars, indicator, start, end); err != nil {
			t.Errorf("indicator %s from the catalog failed to compute: %v", indicator, err)
		}
	}
}
