package asset

import "testing"

func TestClassifyKnownCrypto(t *testing.T) {
	for _, symbol := range []string{"BTC", "ETH", "USDT", "BNB", "SOL", "DOGE"} {
		if got := Classify(symbol); got != Crypto {
			t.Errorf("Classify(%q) = %v, want Crypto", symbol, got)
		}
	}
}

func TestClassifyStocks(t *testing.T) {
	for _, symbol := range []string{"AAPL", "GOOGL", "MSFT", "TSLA", "NVDA", "SPY"} {
		if got := Classify(symbol); got != Stock {
			t.Errorf("Classify(%q) = %v, want Stock", symbol, got)
		}
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	if got := Classify("btc"); got != Crypto {
		t.Errorf("Classify(btc) = %v, want Crypto", got)
	}
	if got := Classify(" eth "); got != Crypto {
		t.Errorf("Classify with whitespace = %v, want Crypto", got)
	}
}

func TestClassifyPairNotation(t *testing.T) {
	for _, symbol := range []string{"BTCUSD", "ETHUSDT", "solusd"} {
		if got := Classify(symbol); got != Crypto {
			t.Errorf("Classify(%q) = %v, want Crypto", symbol, got)
		}
	}
}

func TestClassifyAmbiguousSymbolsStaysStock(t *testing.T) {
	// These trade as both crypto tokens and listed stocks; routing stock data
	// wrongly is worse than missing a crypto, so they stay Stock.
	for _, symbol := range []string{"CRO", "ICP", "VET", "NEAR"} {
		if got := Classify(symbol); got != Stock {
			t.Errorf("Classify(%q) = %v, want Stock", symbol, got)
		}
	}
}

func TestClassifyEmpty(t *testing.T) {
	if got := Classify(""); got != Stock {
		t.Errorf("Classify(empty) = %v, want Stock", got)
	}
}

func TestTypeString(t *testing.T) {
	if Stock.String() != "stock" {
		t.Errorf("Stock.String() = %q", Stock.String())
	}
	if Crypto.String() != "cryptocurrency" {
		t.Errorf("Crypto.String() = %q", Crypto.String())
	}
}

func TestIsCryptoSymbol(t *testing.T) {
	if !IsCryptoSymbol("BTC") {
		t.Error("IsCryptoSymbol(BTC) = false")
	}
	if IsCryptoSymbol("AAPL") {
		t.Error("IsCryptoSymbol(AAPL) = true")
	}
}
