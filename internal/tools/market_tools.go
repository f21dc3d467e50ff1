package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/coincortex/coincortex/internal/asset"
	"github.com/coincortex/coincortex/internal/config"
	"github.com/coincortex/coincortex/internal/dataflows"
	"github.com/coincortex/coincortex/internal/models"
)

const defaultLookBackDays = 30

// NewStockDataTool creates the price data tool. Despite the name the tool
// accepts any symbol: cryptocurrencies are detected and routed to the crypto
// vendor automatically, so agents never need to pick the right data source.
func NewStockDataTool(cfg *config.Config) tool.BaseTool {
	router := dataflows.NewRouter(cfg)
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_stock_data",
			Desc: "Get OHLCV price data for a symbol and date range. Handles both stocks and cryptocurrencies; crypto symbols are routed to crypto data vendors automatically.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "Ticker symbol (e.g., AAPL, BTC)",
					Required: true,
				},
				"start_date": {
					Type:     "string",
					Desc:     "Start date in yyyy-mm-dd format (default: 30 days ago)",
					Required: false,
				},
				"end_date": {
					Type:     "string",
					Desc:     "End date in yyyy-mm-dd format (default: today)",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input models.MarketDataInput) (*models.MarketDataOutput, error) {
			if input.Symbol == "" {
				return nil, fmt.Errorf("symbol parameter is required")
			}

			start, end, err := resolveDateRange(input.StartDate, input.EndDate)
			if err != nil {
				return nil, err
			}

			report := router.GetPriceReport(ctx, input.Symbol, start, end)
			return &models.MarketDataOutput{Result: report}, nil
		},
	)
}

// NewCryptoPriceTool creates the crypto daily price tool.
func NewCryptoPriceTool(cfg *config.Config) tool.BaseTool {
	router := dataflows.NewRouter(cfg)
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_crypto_price",
			Desc: "Retrieve cryptocurrency price data (OHLCV) for analysis",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "Cryptocurrency symbol (e.g., BTC, ETH)",
					Required: true,
				},
				"market": {
					Type:     "string",
					Desc:     "Market/fiat currency (e.g., USD, EUR). Default from configuration",
					Required: false,
				},
				"start_date": {
					Type:     "string",
					Desc:     "Start date in yyyy-mm-dd format",
					Required: false,
				},
				"end_date": {
					Type:     "string",
					Desc:     "End date in yyyy-mm-dd format",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input models.CryptoPriceInput) (*models.CryptoPriceOutput, error) {
			if input.Symbol == "" {
				return nil, fmt.Errorf("symbol parameter is required")
			}

			start, end, err := resolveDateRange(input.StartDate, input.EndDate)
			if err != nil {
				return nil, err
			}

			report := router.GetCryptoPriceReport(ctx, input.Symbol, input.Market, start, end)
			return &models.CryptoPriceOutput{Result: report}, nil
		},
	)
}

// NewCryptoIntradayTool creates the crypto intraday price tool.
func NewCryptoIntradayTool(cfg *config.Config) tool.BaseTool {
	router := dataflows.NewRouter(cfg)
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_crypto_intraday",
			Desc: "Retrieve intraday cryptocurrency price data for short-term analysis",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "Cryptocurrency symbol (e.g., BTC, ETH)",
					Required: true,
				},
				"market": {
					Type:     "string",
					Desc:     "Market/fiat currency (e.g., USD, EUR). Default from configuration",
					Required: false,
				},
				"interval": {
					Type:     "string",
					Desc:     "Time interval (1min, 5min, 15min, 30min, 60min). Default: 60min",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input models.CryptoIntradayInput) (*models.CryptoIntradayOutput, error) {
			if input.Symbol == "" {
				return nil, fmt.Errorf("symbol parameter is required")
			}

			report := router.GetCryptoIntradayReport(ctx, input.Symbol, input.Market, input.Interval)
			return &models.CryptoIntradayOutput{Result: report}, nil
		},
	)
}

// NewAssetTypeTool creates the asset classification tool.
func NewAssetTypeTool() tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "detect_asset_type",
			Desc: "Detect whether a trading symbol represents a cryptocurrency or traditional stock",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "Trading symbol to analyze",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input models.AssetTypeInput) (*models.AssetTypeOutput, error) {
			if input.Symbol == "" {
				return nil, fmt.Errorf("symbol parameter is required")
			}
			return &models.AssetTypeOutput{
				AssetType: asset.Classify(input.Symbol).String(),
			}, nil
		},
	)
}

// resolveDateRange parses optional yyyy-mm-dd bounds, defaulting to the last
// 30 days ending today.
func resolveDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	end := time.Now()
	if endDate != "" {
		parsed, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date %q: expected yyyy-mm-dd", endDate)
		}
		end = parsed
	}

	start := end.AddDate(0, 0, -defaultLookBackDays)
	if startDate != "" {
		parsed, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date %q: expected yyyy-mm-dd", startDate)
		}
		start = parsed
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date %s is after end_date %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return start, end, nil
}
