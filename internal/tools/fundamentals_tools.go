package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/coincortex/coincortex/internal/asset"
	"github.com/coincortex/coincortex/internal/config"
	"github.com/coincortex/coincortex/internal/dataflows"
	"github.com/coincortex/coincortex/internal/models"
)

// CompanyInfoInput is the argument shape for the company profile tool.
type CompanyInfoInput struct {
	Symbol string `json:"symbol"`
}

// NewCompanyInfoTool creates the company profile tool. For cryptocurrencies
// there is no company behind the ticker, so the tool says so instead of
// querying a stock vendor with a crypto symbol.
func NewCompanyInfoTool(cfg *config.Config) tool.BaseTool {
	router := dataflows.NewRouter(cfg)
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_company_info",
			Desc: "Get basic company profile information for a stock symbol",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "Stock ticker symbol",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input CompanyInfoInput) (*models.NewsOutput, error) {
			if input.Symbol == "" {
				return nil, fmt.Errorf("symbol parameter is required")
			}

			if asset.IsCryptoSymbol(input.Symbol) {
				return &models.NewsOutput{
					Result: fmt.Sprintf("%s is a cryptocurrency; there is no company profile. Analyze it as a project: tokenomics, network activity, and development instead of corporate fundamentals.", strings.ToUpper(input.Symbol)),
				}, nil
			}

			info, err := router.Yahoo().GetCompanyInfo(input.Symbol)
			if err != nil {
				return &models.NewsOutput{
					Result: fmt.Sprintf("No company information available for %s", input.Symbol),
				}, nil
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "# Company profile for %s\n\n", strings.ToUpper(input.Symbol))
			for _, key := range []string{"company_name", "exchange", "currency", "market_state", "quote_type", "regular_market_price"} {
				if v, ok := info[key]; ok {
					fmt.Fprintf(&sb, "- **%s**: %v\n", key, v)
				}
			}
			return &models.NewsOutput{Result: sb.String()}, nil
		},
	)
}

// InsiderActivityInput is the shared argument shape for insider tools.
type InsiderActivityInput struct {
	Symbol       string `json:"symbol"`
	CurrDate     string `json:"curr_date"`
	LookBackDays int    `json:"look_back_days,omitempty"`
}

func insiderWindow(input InsiderActivityInput) (time.Time, time.Time, error) {
	to := time.Now()
	if input.CurrDate != "" {
		parsed, err := time.Parse("2006-01-02", input.CurrDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid curr_date %q: expected yyyy-mm-dd", input.CurrDate)
		}
		to = parsed
	}

	days := input.LookBackDays
	if days <= 0 {
		days = 30
	}
	return to.AddDate(0, 0, -days), to, nil
}

// NewInsiderSentimentTool creates the insider sentiment tool (stocks only).
func NewInsiderSentimentTool(cfg *config.Config) tool.BaseTool {
	router := dataflows.NewRouter(cfg)
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_insider_sentiment",
			Desc: "Get monthly insider sentiment for a stock",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "Stock ticker symbol",
					Required: true,
				},
				"curr_date": {
					Type:     "string",
					Desc:     "The current trading date, YYYY-mm-dd",
					Required: true,
				},
				"look_back_days": {
					Type:     "integer",
					Desc:     "How many days to look back (default: 30)",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input InsiderActivityInput) (*models.NewsOutput, error) {
			if input.Symbol == "" {
				return nil, fmt.Errorf("symbol parameter is required")
			}
			if asset.IsCryptoSymbol(input.Symbol) {
				return &models.NewsOutput{
					Result: fmt.Sprintf("%s is a cryptocurrency; insider sentiment does not apply.", strings.ToUpper(input.Symbol)),
				}, nil
			}

			from, to, err := insiderWindow(input)
			if err != nil {
				return nil, err
			}

			sentiments, err := router.Finnhub().GetInsiderSentiment(ctx, input.Symbol, from, to)
			if err != nil {
				return &models.NewsOutput{
					Result: fmt.Sprintf("No insider sentiment available for %s", input.Symbol),
				}, nil
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "# Insider sentiment for %s\n\n", strings.ToUpper(input.Symbol))
			if len(sentiments) == 0 {
				sb.WriteString("No insider sentiment records in the window.\n")
			}
			for _, s := range sentiments {
				fmt.Fprintf(&sb, "- %d-%02d: net change %d, MSPR %s\n", s.Year, s.Month, s.Change, s.MSPR.StringFixed(2))
			}
			return &models.NewsOutput{Result: sb.String()}, nil
		},
	)
}

// NewInsiderTransactionsTool creates the insider transactions tool (stocks
// only).
func NewInsiderTransactionsTool(cfg *config.Config) tool.BaseTool {
	router := dataflows.NewRouter(cfg)
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_insider_transactions",
			Desc: "Get recent insider trading filings for a stock",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "Stock ticker symbol",
					Required: true,
				},
				"curr_date": {
					Type:     "string",
					Desc:     "The current trading date, YYYY-mm-dd",
					Required: true,
				},
				"look_back_days": {
					Type:     "integer",
					Desc:     "How many days to look back (default: 30)",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input InsiderActivityInput) (*models.NewsOutput, error) {
			if input.Symbol == "" {
				return nil, fmt.Errorf("symbol parameter is required")
			}
			if asset.IsCryptoSymbol(input.Symbol) {
				return &models.NewsOutput{
					Result: fmt.Sprintf("%s is a cryptocurrency; insider transaction filings do not apply.", strings.ToUpper(input.Symbol)),
				}, nil
			}

			from, to, err := insiderWindow(input)
			if err != nil {
				return nil, err
			}

			transactions, err := router.Finnhub().GetInsiderTransactions(ctx, input.Symbol, from, to)
			if err != nil {
				return &models.NewsOutput{
					Result: fmt.Sprintf("No insider transactions available for %s", input.Symbol),
				}, nil
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "# Insider transactions for %s\n\n", strings.ToUpper(input.Symbol))
			if len(transactions) == 0 {
				sb.WriteString("No insider transactions in the window.\n")
			}
			for _, t := range transactions {
				fmt.Fprintf(&sb, "- %s: %s %s %d shares at %s (change %d)\n",
					t.TransactionDate.Format("2006-01-02"), t.PersonName,
					t.TransactionCode, t.Share, t.TransactionPrice.StringFixed(2), t.Change)
			}
			return &models.NewsOutput{Result: sb.String()}, nil
		},
	)
}
