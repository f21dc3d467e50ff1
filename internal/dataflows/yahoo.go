package dataflows

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

// YahooFinanceClient fetches equity quotes and daily history from Yahoo
// Finance. It serves the stock side of price routing.
type YahooFinanceClient struct {
	cache   *CacheManager
	dataDir string
}

// NewYahooFinanceClient creates a new Yahoo Finance client
func NewYahooFinanceClient(cfg *Config) *YahooFinanceClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "yahoo_finance")
	cache := NewCacheManager(cacheDir, 24*time.Hour, cfg.CacheEnabled)

	return &YahooFinanceClient{
		cache:   cache,
		dataDir: cfg.DataDir,
	}
}

// GetQuote gets current quote data for a symbol
func (yf *YahooFinanceClient) GetQuote(symbol string) (*MarketData, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var cached MarketData
	if yf.cache.Get("yahoo", "quote", symbol, &cached) {
		return &cached, nil
	}

	var result *MarketData
	err := WithRetry(DefaultRetryConfig(), func() error {
		q, err := quote.Get(symbol)
		if err != nil {
			return fmt.Errorf("failed to get quote for %s: %w", symbol, err)
		}

		result = &MarketData{
			Symbol:    symbol,
			Date:      time.Now(),
			Open:      decimal.NewFromFloat(q.RegularMarketOpen),
			High:      decimal.NewFromFloat(q.RegularMarketDayHigh),
			Low:       decimal.NewFromFloat(q.RegularMarketDayLow),
			Close:     decimal.NewFromFloat(q.RegularMarketPrice),
			AdjClose:  decimal.NewFromFloat(q.RegularMarketPrice),
			Volume:    int64(q.RegularMarketVolume),
			Timestamp: time.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	yf.cache.Set("yahoo", "quote", symbol, result)

	return result, nil
}

// GetHistoricalData gets daily bars for a symbol between start and end.
func (yf *YahooFinanceClient) GetHistoricalData(symbol string, start, end time.Time) ([]*MarketData, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	cacheKey := map[string]interface{}{
		"symbol": symbol,
		"start":  start.Format("2006-01-02"),
		"end":    end.Format("2006-01-02"),
	}

	var cached []*MarketData
	if yf.cache.Get("yahoo", "historical", cacheKey, &cached) {
		return cached, nil
	}

	var result []*MarketData
	err := WithRetry(DefaultRetryConfig(), func() error {
		params := &chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		}

		iter := chart.Get(params)

		result = make([]*MarketData, 0)
		for iter.Next() {
			bar := iter.Bar()
			result = append(result, &MarketData{
				Symbol:    symbol,
				Date:      time.Unix(int64(bar.Timestamp), 0),
				Open:      bar.Open,
				High:      bar.High,
				Low:       bar.Low,
				Close:     bar.Close,
				AdjClose:  bar.AdjClose,
				Volume:    int64(bar.Volume),
				Timestamp: time.Now(),
			})
		}

		if err := iter.Err(); err != nil {
			return fmt.Errorf("failed to get historical data for %s: %w", symbol, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	yf.cache.Set("yahoo", "historical", cacheKey, result)

	return result, nil
}

// GetHistoricalDataWindow gets daily bars for a rolling window ending today.
func (yf *YahooFinanceClient) GetHistoricalDataWindow(symbol string, days int) ([]*MarketData, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	return yf.GetHistoricalData(symbol, start, end)
}

// GetOfflineData loads previously saved bars from the data directory.
func (yf *YahooFinanceClient) GetOfflineData(symbol string, start, end time.Time) ([]*MarketData, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	filePath := filepath.Join(yf.dataDir, "market_data", "price_data",
		fmt.Sprintf("%s_%s_%s.json", symbol,
			start.Format("2006-01-02"), end.Format("2006-01-02")))

	var result []*MarketData
	if err := LoadDataFromFile(filePath, &result); err != nil {
		return nil, fmt.Errorf("offline data not available for %s (%s): %w",
			symbol, FormatDateRange(start, end), err)
	}

	return result, nil
}

// GetCompanyInfo gets basic company information from the quote endpoint.
func (yf *YahooFinanceClient) GetCompanyInfo(symbol string) (map[string]interface{}, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var cached map[string]interface{}
	if yf.cache.Get("yahoo", "company_info", symbol, &cached) {
		return cached, nil
	}

	q, err := quote.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get company info for %s: %w", symbol, err)
	}

	info := map[string]interface{}{
		"symbol":               symbol,
		"company_name":         q.ShortName,
		"exchange":             q.FullExchangeName,
		"currency":             q.CurrencyID,
		"market_state":         q.MarketState,
		"regular_market_price": q.RegularMarketPrice,
		"regular_market_time":  q.RegularMarketTime,
		"quote_type":           q.QuoteType,
		"is_tradeable":         q.IsTradeable,
		"fetched_at":           time.Now(),
	}

	yf.cache.Set("yahoo", "company_info", symbol, info)

	return info, nil
}
