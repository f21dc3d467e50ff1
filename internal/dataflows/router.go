package dataflows

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/coincortex/coincortex/internal/asset"
	"github.com/coincortex/coincortex/internal/config"
)

// vendorCategories maps each tool category to the vendors able to serve it.
// Routing never hands a category to a vendor outside its list.
var vendorCategories = map[string][]string{
	config.CategoryCoreStock: {config.VendorYahooFinance, config.VendorAlphaVantage},
	config.CategoryCrypto:    {config.VendorAlphaVantage},
	config.CategoryNews:      {config.VendorFinnhub, "google_news"},
}

// VendorsForCategory returns the vendors capable of serving a category.
func VendorsForCategory(category string) []string {
	vendors := vendorCategories[category]
	out := make([]string, len(vendors))
	copy(out, vendors)
	return out
}

// VendorSupports reports whether vendor can serve the given category.
func VendorSupports(category, vendor string) bool {
	for _, v := range vendorCategories[category] {
		if v == vendor {
			return true
		}
	}
	return false
}

// Router dispatches price and news requests to the right vendor client
// based on the asset class of the symbol and the configured vendor map.
type Router struct {
	cfg     *Config
	yahoo   *YahooFinanceClient
	alpha   *AlphaVantageClient
	finnhub *FinnhubClient
	scraper *NewsScraperClient
	logger  *slog.Logger
}

// NewRouter creates a router with one client per vendor.
func NewRouter(cfg *Config) *Router {
	return &Router{
		cfg:     cfg,
		yahoo:   NewYahooFinanceClient(cfg),
		alpha:   NewAlphaVantageClient(cfg),
		finnhub: NewFinnhubClient(cfg),
		scraper: NewNewsScraperClient(cfg),
		logger:  slog.Default().With("component", "dataflows"),
	}
}

// resolveVendor picks the configured vendor for a category, falling back to
// the category's first capable vendor when the configured one cannot serve it.
func (r *Router) resolveVendor(category string) (string, error) {
	vendors := vendorCategories[category]
	if len(vendors) == 0 {
		return "", fmt.Errorf("unknown tool category %q", category)
	}

	configured := r.cfg.Vendor(category)
	if configured == "" {
		return vendors[0], nil
	}
	if !VendorSupports(category, configured) {
		r.logger.Warn("configured vendor cannot serve category, using default",
			"category", category, "vendor", configured, "default", vendors[0])
		return vendors[0], nil
	}
	return configured, nil
}

// GetPriceData fetches OHLCV bars for symbol between start and end. The
// symbol's asset class is decided here, once, and picks the vendor path:
// cryptocurrencies go to the crypto vendor, everything else to the stock
// vendor. The requested date range is passed through unaltered.
func (r *Router) GetPriceData(ctx context.Context, symbol string, start, end time.Time) ([]*MarketData, error) {
	if asset.IsCryptoSymbol(symbol) {
		return r.getCryptoData(ctx, symbol, start, end)
	}
	return r.getStockData(ctx, symbol, start, end)
}

func (r *Router) getCryptoData(ctx context.Context, symbol string, start, end time.Time) ([]*MarketData, error) {
	vendor, err := r.resolveVendor(config.CategoryCrypto)
	if err != nil {
		return nil, err
	}
	if vendor != config.VendorAlphaVantage {
		return nil, fmt.Errorf("no crypto data client for vendor %q", vendor)
	}

	market := r.cfg.Crypto.DefaultMarket
	r.logger.Info("routing price request to crypto vendor",
		"symbol", symbol, "market", market, "vendor", vendor)

	var dateRange *DateRange
	if !start.IsZero() && !end.IsZero() {
		dateRange = &DateRange{Start: start, End: end}
	}
	return r.alpha.GetCryptoDaily(ctx, symbol, market, dateRange)
}

func (r *Router) getStockData(ctx context.Context, symbol string, start, end time.Time) ([]*MarketData, error) {
	vendor, err := r.resolveVendor(config.CategoryCoreStock)
	if err != nil {
		return nil, err
	}

	r.logger.Info("routing price request to stock vendor",
		"symbol", symbol, "vendor", vendor)

	// Yahoo is the only wired stock history source. Alpha Vantage stays in
	// the registry for quota failover but shares Yahoo's client here.
	return r.yahoo.GetHistoricalData(symbol, start, end)
}

// GetPriceReport fetches bars and renders them as an annotated CSV report
// for LLM consumption. Fetch failures degrade to a placeholder message so
// an analysis run keeps going on vendor outages.
func (r *Router) GetPriceReport(ctx context.Context, symbol string, start, end time.Time) string {
	symbol = NormalizeSymbol(symbol)
	assetType := asset.Classify(symbol)

	if assetType.IsCrypto() {
		return r.GetCryptoPriceReport(ctx, symbol, "", start, end)
	}

	bars, err := r.getStockData(ctx, symbol, start, end)
	if err != nil {
		r.logger.Warn("price fetch failed, degrading to placeholder",
			"symbol", symbol, "asset_type", assetType.String(), "error", err)
		return fmt.Sprintf("No data available for %s (%s)", symbol, assetType)
	}
	return renderStockReport(symbol, start, end, bars)
}

// GetCryptoPriceReport fetches daily crypto bars quoted in market (config
// default when empty) and renders the annotated CSV report.
func (r *Router) GetCryptoPriceReport(ctx context.Context, symbol, market string, start, end time.Time) string {
	symbol = NormalizeSymbol(symbol)
	if market == "" {
		market = r.cfg.Crypto.DefaultMarket
	}

	var dateRange *DateRange
	if !start.IsZero() && !end.IsZero() {
		dateRange = &DateRange{Start: start, End: end}
	}

	bars, err := r.alpha.GetCryptoDaily(ctx, symbol, market, dateRange)
	if err != nil {
		r.logger.Warn("crypto price fetch failed, degrading to placeholder",
			"symbol", symbol, "market", market, "error", err)
		return fmt.Sprintf("No data available for %s (%s)", symbol, asset.Crypto)
	}
	return renderCryptoReport(symbol, market, start, end, bars)
}

// GetCryptoIntradayReport fetches intraday crypto bars and renders them as
// an annotated CSV report. Same degradation policy as GetPriceReport.
func (r *Router) GetCryptoIntradayReport(ctx context.Context, symbol, market, interval string) string {
	symbol = NormalizeSymbol(symbol)
	if market == "" {
		market = r.cfg.Crypto.DefaultMarket
	}
	if interval == "" {
		interval = r.cfg.Crypto.DefaultInterval
	}

	bars, err := r.alpha.GetCryptoIntraday(ctx, symbol, market, interval)
	if err != nil {
		r.logger.Warn("intraday fetch failed, degrading to placeholder",
			"symbol", symbol, "interval", interval, "error", err)
		return fmt.Sprintf("No intraday data available for %s/%s at %s interval", symbol, market, interval)
	}
	if len(bars) == 0 {
		return fmt.Sprintf("No intraday data available for %s/%s at %s interval", symbol, market, interval)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Intraday cryptocurrency data for %s/%s\n", symbol, market)
	fmt.Fprintf(&sb, "# Interval: %s\n", interval)
	fmt.Fprintf(&sb, "# Data retrieved on: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	writeBarCSV(&sb, bars, "2006-01-02 15:04:05")
	return sb.String()
}

// GetNews returns articles for a symbol. Crypto symbols query the scraper by
// project name context and Finnhub's crypto category, stocks use Finnhub
// company news.
func (r *Router) GetNews(ctx context.Context, symbol string, from, to time.Time) ([]*NewsArticle, error) {
	symbol = NormalizeSymbol(symbol)

	if asset.IsCryptoSymbol(symbol) {
		params := GoogleNewsParams{
			Query:     symbol + " cryptocurrency",
			StartDate: from,
			EndDate:   to,
		}
		articles, err := r.scraper.GetGoogleNews(ctx, params)
		if err != nil {
			r.logger.Warn("crypto news scrape failed", "symbol", symbol, "error", err)
			return r.finnhub.GetGeneralNews(ctx, "crypto")
		}
		return articles, nil
	}

	return r.finnhub.GetCompanyNews(ctx, symbol, from, to)
}

// Finnhub exposes the underlying Finnhub client for fundamentals tooling.
func (r *Router) Finnhub() *FinnhubClient { return r.finnhub }

// Yahoo exposes the underlying Yahoo client for quote tooling.
func (r *Router) Yahoo() *YahooFinanceClient { return r.yahoo }

// AlphaVantage exposes the underlying Alpha Vantage client.
func (r *Router) AlphaVantage() *AlphaVantageClient { return r.alpha }

// Scraper exposes the underlying news scraper client.
func (r *Router) Scraper() *NewsScraperClient { return r.scraper }

func renderCryptoReport(symbol, market string, start, end time.Time, bars []*MarketData) string {
	if len(bars) == 0 {
		return fmt.Sprintf("No data available for %s/%s", symbol, market)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Cryptocurrency data for %s/%s\n", symbol, strings.ToUpper(market))
	if !start.IsZero() && !end.IsZero() {
		fmt.Fprintf(&sb, "# Date range: %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	fmt.Fprintf(&sb, "# Data retrieved on: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	writeBarCSV(&sb, bars, "2006-01-02")
	return sb.String()
}

func renderStockReport(symbol string, start, end time.Time, bars []*MarketData) string {
	if len(bars) == 0 {
		return fmt.Sprintf("No data available for %s", symbol)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Stock data for %s\n", symbol)
	if !start.IsZero() && !end.IsZero() {
		fmt.Fprintf(&sb, "# Date range: %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	fmt.Fprintf(&sb, "# Data retrieved on: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	writeBarCSV(&sb, bars, "2006-01-02")
	return sb.String()
}

func writeBarCSV(sb *strings.Builder, bars []*MarketData, dateFormat string) {
	sb.WriteString("timestamp,open,high,low,close,volume\n")
	for _, bar := range bars {
		fmt.Fprintf(sb, "%s,%s,%s,%s,%s,%d\n",
			bar.Date.Format(dateFormat),
			bar.Open.String(), bar.High.String(), bar.Low.String(),
			bar.Close.String(), bar.Volume)
	}
}
