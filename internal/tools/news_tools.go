package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/coincortex/coincortex/internal/config"
	"github.com/coincortex/coincortex/internal/dataflows"
	"github.com/coincortex/coincortex/internal/models"
)

// NewNewsTool creates the symbol/topic news search tool. Crypto symbols are
// served by the scraper with crypto context, stocks by Finnhub company news.
func NewNewsTool(cfg *config.Config) tool.BaseTool {
	router := dataflows.NewRouter(cfg)
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_news",
			Desc: "Search recent news for a specific symbol or topic",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "Ticker symbol or search topic",
					Required: true,
				},
				"start_date": {
					Type:     "string",
					Desc:     "Start date in yyyy-mm-dd format (default: 7 days ago)",
					Required: false,
				},
				"end_date": {
					Type:     "string",
					Desc:     "End date in yyyy-mm-dd format (default: today)",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input models.NewsInput) (*models.NewsOutput, error) {
			if input.Symbol == "" {
				return nil, fmt.Errorf("symbol parameter is required")
			}

			end := time.Now()
			if input.EndDate != "" {
				parsed, err := time.Parse("2006-01-02", input.EndDate)
				if err != nil {
					return nil, fmt.Errorf("invalid end_date %q: expected yyyy-mm-dd", input.EndDate)
				}
				end = parsed
			}
			start := end.AddDate(0, 0, -7)
			if input.StartDate != "" {
				parsed, err := time.Parse("2006-01-02", input.StartDate)
				if err != nil {
					return nil, fmt.Errorf("invalid start_date %q: expected yyyy-mm-dd", input.StartDate)
				}
				start = parsed
			}

			articles, err := router.GetNews(ctx, input.Symbol, start, end)
			if err != nil {
				// Missing news is not fatal to an analysis run.
				return &models.NewsOutput{
					Result: fmt.Sprintf("No news available for %s", input.Symbol),
				}, nil
			}

			return &models.NewsOutput{
				Result: formatArticles(fmt.Sprintf("News for %s", strings.ToUpper(input.Symbol)), articles),
			}, nil
		},
	)
}

// GlobalNewsInput is the argument shape for the macro news tool.
type GlobalNewsInput struct {
	CurrDate     string `json:"curr_date"`
	LookBackDays int    `json:"look_back_days,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

// NewGlobalNewsTool creates the macroeconomic news tool backed by Finnhub's
// general news feed.
func NewGlobalNewsTool(cfg *config.Config) tool.BaseTool {
	router := dataflows.NewRouter(cfg)
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_global_news",
			Desc: "Get broader macroeconomic and market-wide news",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"curr_date": {
					Type:     "string",
					Desc:     "The current trading date, YYYY-mm-dd",
					Required: true,
				},
				"look_back_days": {
					Type:     "integer",
					Desc:     "Number of days to look back (default: 7)",
					Required: false,
				},
				"limit": {
					Type:     "integer",
					Desc:     "Maximum number of articles (default: 20)",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input GlobalNewsInput) (*models.NewsOutput, error) {
			limit := input.Limit
			if limit <= 0 || limit > 50 {
				limit = 20
			}

			articles, err := router.Finnhub().GetGeneralNews(ctx, "general")
			if err != nil {
				return &models.NewsOutput{Result: "No global news available"}, nil
			}
			if len(articles) > limit {
				articles = articles[:limit]
			}

			return &models.NewsOutput{
				Result: formatArticles("Global market news", articles),
			}, nil
		},
	)
}

// formatArticles renders articles as a markdown digest for the LLM.
func formatArticles(title string, articles []*dataflows.NewsArticle) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	if len(articles) == 0 {
		sb.WriteString("No articles found.\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "*%d articles*\n\n", len(articles))
	for i, article := range articles {
		fmt.Fprintf(&sb, "## %d. %s\n", i+1, article.Title)
		fmt.Fprintf(&sb, "**Source:** %s | **Published:** %s\n",
			article.Source, article.PublishedAt.Format("2006-01-02 15:04"))
		fmt.Fprintf(&sb, "**URL:** %s\n", article.URL)

		if article.Content != "" {
			summary := article.Content
			if len(summary) > 200 {
				summary = summary[:200] + "..."
			}
			fmt.Fprintf(&sb, "**Summary:** %s\n", summary)
		}
		sb.WriteString("\n---\n\n")
	}

	return sb.String()
}
