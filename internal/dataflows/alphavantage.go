package dataflows

import (
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/coincortex/coincortex/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// AlphaVantageClient fetches cryptocurrency OHLCV data from Alpha Vantage.
type AlphaVantageClient struct {
	client *resty.Client
	cache  *CacheManager
	apiKey string
}

// NewAlphaVantageClient creates a new Alpha Vantage client
func NewAlphaVantageClient(cfg *Config) *AlphaVantageClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "alpha_vantage")
	cache := NewCacheManager(cacheDir, 1*time.Hour, cfg.CacheEnabled)

	client := resty.New()
	client.SetBaseURL("https://www.alphavantage.co")
	client.SetTimeout(30 * time.Second)

	return &AlphaVantageClient{
		client: client,
		cache:  cache,
		apiKey: cfg.AlphaVantageAPIKey,
	}
}

// GetCryptoDaily fetches daily crypto bars (DIGITAL_CURRENCY_DAILY) for
// symbol quoted in market. A zero-valued date range means no filtering.
func (av *AlphaVantageClient) GetCryptoDaily(ctx context.Context, symbol, market string, dateRange *DateRange) ([]*MarketData, error) {
	bars, err := av.fetchBars(ctx, "DIGITAL_CURRENCY_DAILY", symbol, market, map[string]string{})
	if err != nil {
		return nil, err
	}

	if dateRange != nil {
		bars = filterBarsByRange(bars, dateRange)
	}

	return bars, nil
}

// filterBarsByRange returns the bars inside r. The input is never mutated;
// fetchBars results may be shared with the cache layer.
func filterBarsByRange(bars []*MarketData, r *DateRange) []*MarketData {
	out := make([]*MarketData, 0, len(bars))
	for _, bar := range bars {
		if r.Contains(bar.Date) {
			out = append(out, bar)
		}
	}
	return out
}

// GetCryptoIntraday fetches intraday crypto bars (CRYPTO_INTRADAY) at the
// given interval (1min, 5min, 15min, 30min, 60min).
func (av *AlphaVantageClient) GetCryptoIntraday(ctx context.Context, symbol, market, interval string) ([]*MarketData, error) {
	if err := config.ValidateInterval(interval); err != nil {
		return nil, err
	}
	return av.fetchBars(ctx, "CRYPTO_INTRADAY", symbol, market, map[string]string{
		"interval": interval,
	})
}

func (av *AlphaVantageClient) fetchBars(ctx context.Context, function, symbol, market string, extra map[string]string) ([]*MarketData, error) {
	if av.apiKey == "" {
		return nil, fmt.Errorf("Alpha Vantage API key not configured")
	}
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	symbol = NormalizeSymbol(symbol)
	market = NormalizeSymbol(market)

	cacheKey := map[string]interface{}{
		"function": function,
		"symbol":   symbol,
		"market":   market,
	}
	for k, v := range extra {
		cacheKey[k] = v
	}

	var cached []*MarketData
	if av.cache.Get("alpha_vantage", strings.ToLower(function), cacheKey, &cached) {
		return cached, nil
	}

	params := map[string]string{
		"function": function,
		"symbol":   symbol,
		"market":   market,
		"datatype": "csv",
		"apikey":   av.apiKey,
	}
	for k, v := range extra {
		params[k] = v
	}

	var result []*MarketData
	err := WithRetry(DefaultRetryConfig(), func() error {
		resp, err := av.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			Get("/query")

		if err != nil {
			return fmt.Errorf("failed to fetch %s for %s/%s: %w", function, symbol, market, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("API error %d: %s", resp.StatusCode(), resp.String())
		}

		body := resp.String()
		// Alpha Vantage reports errors and rate limits as JSON bodies even
		// when csv output was requested.
		if strings.HasPrefix(strings.TrimSpace(body), "{") {
			return fmt.Errorf("API rejected %s for %s/%s: %s", function, symbol, market, strings.TrimSpace(body))
		}

		result, err = parseAlphaVantageCSV(body, symbol)
		if err != nil {
			return fmt.Errorf("failed to parse %s response: %w", function, err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	av.cache.Set("alpha_vantage", strings.ToLower(function), cacheKey, result)

	return result, nil
}

// parseAlphaVantageCSV decodes an Alpha Vantage CSV body into bars. Columns
// are located by header name so daily and intraday layouts both parse.
func parseAlphaVantageCSV(body, symbol string) ([]*MarketData, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("empty response body")
	}

	reader := csv.NewReader(strings.NewReader(body))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []*MarketData{}, nil
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	maxIdx := 0
	for _, required := range []string{"timestamp", "open", "high", "low", "close", "volume"} {
		idx, ok := col[required]
		if !ok {
			return nil, fmt.Errorf("missing column %q in response", required)
		}
		if idx > maxIdx {
			maxIdx = idx
		}
	}

	bars := make([]*MarketData, 0, len(records)-1)
	for _, row := range records[1:] {
		// Truncated bodies produce short rows; skip them like bad values.
		if len(row) <= maxIdx {
			continue
		}
		date, err := ParseDateString(row[col["timestamp"]])
		if err != nil {
			continue
		}

		open, err1 := decimal.NewFromString(row[col["open"]])
		high, err2 := decimal.NewFromString(row[col["high"]])
		low, err3 := decimal.NewFromString(row[col["low"]])
		closePx, err4 := decimal.NewFromString(row[col["close"]])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}

		volume, _ := strconv.ParseFloat(row[col["volume"]], 64)

		bars = append(bars, &MarketData{
			Symbol:    symbol,
			Date:      date,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePx,
			AdjClose:  closePx,
			Volume:    int64(volume),
			Timestamp: time.Now(),
		})
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})

	return bars, nil
}
