// Package asset classifies trading symbols into asset classes so data
// fetching and prompt selection can route between stock and crypto paths.
package asset

import "strings"

// Type is the asset class of a trading symbol.
type Type int

const (
	// Stock is the default class for any symbol not recognized as crypto.
	Stock Type = iota
	// Crypto marks symbols recognized as cryptocurrencies.
	Crypto
)

func (t Type) String() string {
	if t == Crypto {
		return "cryptocurrency"
	}
	return "stock"
}

// IsCrypto reports whether the type is the cryptocurrency class.
func (t Type) IsCrypto() bool {
	return t == Crypto
}

// cryptoSymbols holds tickers of the major cryptocurrencies by market cap.
// Symbols that collide with listed stock tickers (CRO, ICP, VET, NEAR) are
// deliberately absent so stock data never gets misrouted.
var cryptoSymbols = map[string]struct{}{
	"BTC":   {},
	"ETH":   {},
	"USDT":  {},
	"BNB":   {},
	"USDC":  {},
	"XRP":   {},
	"ADA":   {},
	"DOGE":  {},
	"SOL":   {},
	"TRX":   {},
	"DOT":   {},
	"MATIC": {},
	"LTC":   {},
	"SHIB":  {},
	"AVAX":  {},
	"UNI":   {},
	"LINK":  {},
	"XLM":   {},
	"ATOM":  {},
	"XMR":   {},
	"ETC":   {},
	"BCH":   {},
	"APT":   {},
	"FIL":   {},
	"ALGO":  {},
	"HBAR":  {},
	"QNT":   {},
	"LDO":   {},
}

// Classify maps a symbol to its asset class. Matching is case-insensitive:
// the symbol is upper-cased before the set lookup, so "btc" and "BTC" both
// classify as crypto. Unrecognized symbols classify as Stock.
func Classify(symbol string) Type {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return Stock
	}

	if _, ok := cryptoSymbols[s]; ok {
		return Crypto
	}

	// Exchange pair notation such as BTCUSD or ETHUSDT.
	for crypto := range cryptoSymbols {
		if strings.HasPrefix(s, crypto) && len(s) > len(crypto) {
			return Crypto
		}
	}

	return Stock
}

// IsCryptoSymbol reports whether the symbol classifies as a cryptocurrency.
func IsCryptoSymbol(symbol string) bool {
	return Classify(symbol) == Crypto
}

// KnownCryptoSymbols returns a copy of the recognized crypto ticker set.
func KnownCryptoSymbols() []string {
	out := make([]string, 0, len(cryptoSymbols))
	for s := range cryptoSymbols {
		out = append(out, s)
	}
	return out
}
