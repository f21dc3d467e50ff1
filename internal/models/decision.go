package models

import "time"

type TradingDecision struct {
	Symbol     string    `json:"symbol"`
	AssetType  string    `json:"asset_type"`
	Date       time.Time `json:"date"`
	Action     string    `json:"action"`
	Reason     string    `json:"reason"`
	Confidence float64   `json:"confidence"`
	Risk       float64   `json:"risk"`
}
