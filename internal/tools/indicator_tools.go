package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/coincortex/coincortex/internal/cache"
	"github.com/coincortex/coincortex/internal/config"
	"github.com/coincortex/coincortex/internal/dataflows"
	"github.com/coincortex/coincortex/internal/models"
)

// bestIndParams contains descriptions for all supported technical indicators
var bestIndParams = map[string]string{
	"close_50_sma":  "50 SMA: A medium-term trend indicator. Usage: Identify trend direction and serve as dynamic support/resistance. Tips: It lags price; combine with faster indicators for timely signals.",
	"close_200_sma": "200 SMA: A long-term trend benchmark. Usage: Confirm overall market trend and identify golden/death cross setups. Tips: It reacts slowly; best for strategic trend confirmation rather than frequent trading entries.",
	"close_10_ema":  "10 EMA: A responsive short-term average. Usage: Capture quick shifts in momentum and potential entry points. Tips: Prone to noise in choppy markets; use alongside longer averages for filtering false signals.",
	"vwma":          "VWMA: A moving average weighted by volume. Usage: Confirm trends by integrating price action with volume data. Tips: Watch for skewed results from volume spikes; use in combination with other volume analyses.",
	"macd":          "MACD: Computes momentum via differences of EMAs. Usage: Look for crossovers and divergence as signals of trend changes. Tips: Confirm with other indicators in low-volatility or sideways markets.",
	"macds":         "MACD Signal: An EMA smoothing of the MACD line. Usage: Use crossovers with the MACD line to trigger trades. Tips: Should be part of a broader strategy to avoid false positives.",
	"macdh":         "MACD Histogram: Shows the gap between the MACD line and its signal. Usage: Visualize momentum strength and spot divergence early. Tips: Can be volatile; complement with additional filters in fast-moving markets.",
	"rsi":           "RSI: Measures momentum to flag overbought/oversold conditions. Usage: Apply 70/30 thresholds and watch for divergence to signal reversals. Tips: In strong trends, RSI may remain extreme; always cross-check with trend analysis.",
	"mfi":           "MFI: The Money Flow Index is a momentum indicator that uses both price and volume to measure buying and selling pressure. Usage: Identify overbought (>80) or oversold (<20) conditions and confirm the strength of trends or reversals. Tips: Use alongside RSI or MACD to confirm signals; divergence between price and MFI can indicate potential reversals.",
	"boll":          "Bollinger Middle: A 20 SMA serving as the basis for Bollinger Bands. Usage: Acts as a dynamic benchmark for price movement. Tips: Combine with the upper and lower bands to effectively spot breakouts or reversals.",
	"boll_ub":       "Bollinger Upper Band: Typically 2 standard deviations above the middle line. Usage: Signals potential overbought conditions and breakout zones. Tips: Confirm signals with other tools; prices may ride the band in strong trends.",
	"boll_lb":       "Bollinger Lower Band: Typically 2 standard deviations below the middle line. Usage: Indicates potential oversold conditions. Tips: Use additional analysis to avoid false reversal signals.",
	"atr":           "ATR: Averages true range to measure volatility. Usage: Set stop-loss levels and adjust position sizes based on current market volatility. Tips: It's a reactive measure, so use it as part of a broader risk management strategy.",
}

// NewStockIndicatorTool creates the technical indicator analysis tool. It
// works for stocks and cryptocurrencies alike since the underlying price
// fetch routes by asset type.
func NewStockIndicatorTool(cfg *config.Config) tool.BaseTool {
	router := dataflows.NewRouter(cfg)
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_stock_stats_indicators_window",
			Desc: "Get technical indicator analysis for a symbol over a specified time window",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "Ticker symbol (stock or cryptocurrency)",
					Required: true,
				},
				"indicator": {
					Type:     "string",
					Desc:     "Technical indicator to get the analysis and report of",
					Required: true,
				},
				"curr_date": {
					Type:     "string",
					Desc:     "The current trading date you are trading on, YYYY-mm-dd",
					Required: true,
				},
				"look_back_days": {
					Type:     "integer",
					Desc:     "How many days to look back",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input models.StockIndicatorInput) (*models.StockIndicatorOutput, error) {
			if _, exists := bestIndParams[input.Indicator]; !exists {
				supported := make([]string, 0, len(bestIndParams))
				for k := range bestIndParams {
					supported = append(supported, k)
				}
				sort.Strings(supported)
				return nil, fmt.Errorf("indicator %s is not supported. Please choose from: %s",
					input.Indicator, strings.Join(supported, ", "))
			}

			currDate, err := time.Parse("2006-01-02", input.CurrDate)
			if err != nil {
				return nil, fmt.Errorf("invalid date format: %s", input.CurrDate)
			}

			startDate := currDate.AddDate(0, 0, -input.LookBackDays)

			// Fetch extra history so period-based indicators have warm-up data.
			fetchStart := startDate.AddDate(0, 0, -250)
			bars, err := fetchPriceBars(ctx, cfg, router, input.Symbol, fetchStart, currDate)
			if err != nil {
				return nil, err
			}

			values, err := calculateIndicator(bars, input.Indicator, startDate, currDate)
			if err != nil {
				return nil, fmt.Errorf("failed to calculate indicator: %w", err)
			}

			var indString strings.Builder
			for _, value := range values {
				fmt.Fprintf(&indString, "%s: %.4f\n", value.Date, value.Value)
			}

			result := fmt.Sprintf("## %s values from %s to %s:\n\n%s\n\n%s",
				input.Indicator,
				startDate.Format("2006-01-02"),
				input.CurrDate,
				indString.String(),
				bestIndParams[input.Indicator])

			return &models.StockIndicatorOutput{Result: result}, nil
		},
	)
}

// fetchPriceBars resolves price history through the cache when enabled,
// falling back to the data vendor router on a miss.
func fetchPriceBars(ctx context.Context, cfg *config.Config, router *dataflows.Router, symbol string, start, end time.Time) ([]*models.MarketData, error) {
	startDate := start.Format("2006-01-02")
	endDate := end.Format("2006-01-02")

	var store *cache.MarketDataCache
	if cfg.CacheEnabled {
		store = cache.Shared(cfg.DataCacheDir)
		if bars, ok := store.Get(symbol, startDate, endDate); ok {
			return bars, nil
		}
	}

	raw, err := router.GetPriceData(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get market data: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no market data available for symbol %s", symbol)
	}

	bars := toIndicatorBars(raw)
	if store != nil {
		store.Set(symbol, bars)
	}
	return bars, nil
}

// toIndicatorBars converts decimal-valued bars to the float shape used by
// the indicator math.
func toIndicatorBars(bars []*dataflows.MarketData) []*models.MarketData {
	out := make([]*models.MarketData, 0, len(bars))
	for _, bar := range bars {
		open, _ := bar.Open.Float64()
		high, _ := bar.High.Float64()
		low, _ := bar.Low.Float64()
		closePx, _ := bar.Close.Float64()

		out = append(out, &models.MarketData{
			Symbol: bar.Symbol,
			Date:   bar.Date.Format("2006-01-02"),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePx,
			Volume: bar.Volume,
		})
	}
	return out
}
