package models

// Tool input/output shapes. The eino tool layer serializes these to and from
// the model's JSON arguments, so fields stay primitive.

type MarketDataInput struct {
	Symbol    string `json:"symbol"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type MarketDataOutput struct {
	Result string `json:"result"`
}

type CryptoPriceInput struct {
	Symbol    string `json:"symbol"`
	Market    string `json:"market,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type CryptoPriceOutput struct {
	Result string `json:"result"`
}

type CryptoIntradayInput struct {
	Symbol   string `json:"symbol"`
	Market   string `json:"market,omitempty"`
	Interval string `json:"interval,omitempty"`
}

type CryptoIntradayOutput struct {
	Result string `json:"result"`
}

type AssetTypeInput struct {
	Symbol string `json:"symbol"`
}

type AssetTypeOutput struct {
	AssetType string `json:"asset_type"`
}

type StockIndicatorInput struct {
	Symbol       string `json:"symbol"`
	Indicator    string `json:"indicator"`
	CurrDate     string `json:"curr_date"`
	LookBackDays int    `json:"look_back_days"`
}

type StockIndicatorOutput struct {
	Result string `json:"result"`
}

type NewsInput struct {
	Symbol    string `json:"symbol"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type NewsOutput struct {
	Result string `json:"result"`
}

// MarketData is the float-valued bar shape used inside tools and indicator
// math. The dataflows package keeps the decimal-valued canonical shape.
type MarketData struct {
	Symbol string  `json:"symbol"`
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

type IndicatorValue struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}
