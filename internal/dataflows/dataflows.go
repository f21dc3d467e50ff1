package dataflows

import (
	"context"
	"time"
)

// Package-level router instance for easy access
var defaultRouter *Router

// Initialize sets up the default router with the provided config
func Initialize(cfg *Config) error {
	defaultRouter = NewRouter(cfg)
	return nil
}

// Default returns the default router
func Default() *Router {
	if defaultRouter == nil {
		panic("dataflows not initialized - call Initialize(config) first")
	}
	return defaultRouter
}

// Package-level convenience functions that use the default router

// Price data

func GetPriceData(ctx context.Context, symbol string, start, end time.Time) ([]*MarketData, error) {
	return Default().GetPriceData(ctx, symbol, start, end)
}

func GetPriceReport(ctx context.Context, symbol string, start, end time.Time) string {
	return Default().GetPriceReport(ctx, symbol, start, end)
}

func GetCryptoIntradayReport(ctx context.Context, symbol, market, interval string) string {
	return Default().GetCryptoIntradayReport(ctx, symbol, market, interval)
}

func GetQuote(symbol string) (*MarketData, error) {
	return Default().Yahoo().GetQuote(symbol)
}

func GetCompanyInfo(symbol string) (map[string]interface{}, error) {
	return Default().Yahoo().GetCompanyInfo(symbol)
}

// News

func GetNews(ctx context.Context, symbol string, from, to time.Time) ([]*NewsArticle, error) {
	return Default().GetNews(ctx, symbol, from, to)
}

func GetGeneralNews(ctx context.Context, category string) ([]*NewsArticle, error) {
	return Default().Finnhub().GetGeneralNews(ctx, category)
}

func GetGoogleNews(ctx context.Context, query string, startDate, endDate time.Time, maxResults int) ([]*NewsArticle, error) {
	return Default().Scraper().GetGoogleNews(ctx, GoogleNewsParams{
		Query:      query,
		StartDate:  startDate,
		EndDate:    endDate,
		MaxResults: maxResults,
	})
}

// Insider activity

func GetInsiderSentiment(ctx context.Context, symbol string, from, to time.Time) ([]*InsiderSentiment, error) {
	return Default().Finnhub().GetInsiderSentiment(ctx, symbol, from, to)
}

func GetInsiderTransactions(ctx context.Context, symbol string, from, to time.Time) ([]*InsiderTransaction, error) {
	return Default().Finnhub().GetInsiderTransactions(ctx, symbol, from, to)
}
