package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Data vendor categories recognized by the dataflows router.
const (
	CategoryCoreStock = "core_stock_apis"
	CategoryCrypto    = "cryptocurrency_data"
	CategoryNews      = "news_data"
)

// Vendor identifiers.
const (
	VendorYahooFinance = "yahoo_finance"
	VendorAlphaVantage = "alpha_vantage"
	VendorFinnhub      = "finnhub"
)

// CryptoSettings holds cryptocurrency-specific fetch defaults.
type CryptoSettings struct {
	// DefaultMarket is the fiat/quote currency crypto prices are denominated
	// in when the caller does not specify one.
	DefaultMarket string `json:"default_market"`
	// DefaultInterval is the intraday bar interval (1min .. 60min).
	DefaultInterval string `json:"default_interval"`
}

type Config struct {
	ProjectDir   string `json:"project_dir"`
	ResultsDir   string `json:"results_dir"`
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	LLMProvider          string `json:"llm_provider"`
	DeepThinkLLM         string `json:"deep_think_llm"`
	QuickThinkLLM        string `json:"quick_think_llm"`
	BackendURL           string `json:"backend_url"`
	MaxDebateRounds      int    `json:"max_debate_rounds"`
	MaxRiskDiscussRounds int    `json:"max_risk_rounds"`
	MaxRecurLimit        int    `json:"max_recursion_limit"`
	OnlineTools          bool   `json:"online_tools"`
	Debug                bool   `json:"debug"`

	// LLM context budgeting
	MaxInputTokens       int `json:"llm_max_input_tokens"`
	ReservedOutputTokens int `json:"llm_reserved_output_tokens"`

	// Eino Debug configuration
	EinoDebugEnabled bool `json:"eino_debug_enabled"`
	EinoDebugPort    int  `json:"eino_debug_port"`

	CacheEnabled bool `json:"cache_enabled"`

	// DataVendors selects the upstream vendor per data category.
	DataVendors map[string]string `json:"data_vendors"`

	// Crypto holds cryptocurrency fetch defaults.
	Crypto CryptoSettings `json:"crypto_settings"`

	// AI Model API Keys
	OpenAIAPIKey   string `json:"openai_api_key"`
	DeepSeekAPIKey string `json:"deepseek_api_key"`

	// Market data API keys
	AlphaVantageAPIKey string `json:"alpha_vantage_api_key"`
	FinnhubAPIKey      string `json:"finnhub_api_key"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		ProjectDir:   currentDir,
		ResultsDir:   filepath.Join(currentDir, "results"),
		DataDir:      filepath.Join(currentDir, "data"),
		DataCacheDir: filepath.Join(currentDir, "data", "cache"),

		LLMProvider:   "openai",
		DeepThinkLLM:  "gpt-4o-mini",
		QuickThinkLLM: "gpt-4o-mini",
		BackendURL:    "https://api.openai.com/v1",

		MaxDebateRounds:      1,
		MaxRiskDiscussRounds: 1,
		MaxRecurLimit:        128,
		OnlineTools:          true,
		Debug:                false,

		MaxInputTokens:       12000,
		ReservedOutputTokens: 2048,

		EinoDebugEnabled: false,
		EinoDebugPort:    52538,

		CacheEnabled: true,

		DataVendors: map[string]string{
			CategoryCoreStock: VendorYahooFinance,
			CategoryCrypto:    VendorAlphaVantage,
			CategoryNews:      VendorFinnhub,
		},

		Crypto: CryptoSettings{
			DefaultMarket:   "USD",
			DefaultInterval: "60min",
		},
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

// DefaultConfigWithRoot builds a default config rooted at dir instead of the
// working directory.
func DefaultConfigWithRoot(dir string) *Config {
	cfg := DefaultConfig()
	cfg.ProjectDir = dir
	cfg.ResultsDir = filepath.Join(dir, "results")
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.DataCacheDir = filepath.Join(dir, "data", "cache")
	return cfg
}

// Clone returns a deep copy. Callers that adjust settings per request mutate
// the clone, never the shared defaults.
func (c *Config) Clone() *Config {
	clone := *c
	clone.DataVendors = make(map[string]string, len(c.DataVendors))
	for k, v := range c.DataVendors {
		clone.DataVendors[k] = v
	}
	return &clone
}

// Vendor returns the configured vendor for a data category, or the empty
// string when the category is unknown.
func (c *Config) Vendor(category string) string {
	if c.DataVendors == nil {
		return ""
	}
	return c.DataVendors[category]
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("RESULTS_DIR"); val != "" {
		c.ResultsDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("DEEP_THINK_LLM"); val != "" {
		c.DeepThinkLLM = val
	}
	if val := os.Getenv("QUICK_THINK_LLM"); val != "" {
		c.QuickThinkLLM = val
	}
	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.BackendURL = val
	}

	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if cache, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = cache
		}
	}
	if val := os.Getenv("ONLINE_TOOLS"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.OnlineTools = enabled
		}
	}

	if val := os.Getenv("MAX_DEBATE_ROUNDS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxDebateRounds = v
		}
	}
	if val := os.Getenv("MAX_RISK_ROUNDS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxRiskDiscussRounds = v
		}
	}
	if val := os.Getenv("MAX_RECURSION_LIMIT"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxRecurLimit = v
		}
	}
	if val := os.Getenv("LLM_MAX_INPUT_TOKENS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxInputTokens = v
		}
	}
	if val := os.Getenv("LLM_RESERVED_OUTPUT_TOKENS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.ReservedOutputTokens = v
		}
	}

	if val := os.Getenv("COINCORTEX_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
	if val := os.Getenv("EINO_DEBUG_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.EinoDebugEnabled = enabled
		}
	}
	if val := os.Getenv("EINO_DEBUG_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.EinoDebugPort = port
		}
	}

	if val := os.Getenv("STOCK_DATA_VENDOR"); val != "" {
		c.DataVendors[CategoryCoreStock] = val
	}
	if val := os.Getenv("CRYPTO_DATA_VENDOR"); val != "" {
		c.DataVendors[CategoryCrypto] = val
	}
	if val := os.Getenv("NEWS_DATA_VENDOR"); val != "" {
		c.DataVendors[CategoryNews] = val
	}
	if val := os.Getenv("CRYPTO_DEFAULT_MARKET"); val != "" {
		c.Crypto.DefaultMarket = strings.ToUpper(val)
	}
	if val := os.Getenv("CRYPTO_DEFAULT_INTERVAL"); val != "" {
		c.Crypto.DefaultInterval = val
	}

	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}
	if val := os.Getenv("ALPHA_VANTAGE_API_KEY"); val != "" {
		c.AlphaVantageAPIKey = val
	}
	if val := os.Getenv("FINNHUB_API_KEY"); val != "" {
		c.FinnhubAPIKey = val
	}
}

// Validate checks settings the pipeline cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ProjectDir) == "" {
		return fmt.Errorf("project_dir must not be empty")
	}
	if c.MaxDebateRounds < 1 {
		return fmt.Errorf("max_debate_rounds must be >= 1")
	}
	if c.MaxRiskDiscussRounds < 1 {
		return fmt.Errorf("max_risk_rounds must be >= 1")
	}
	if c.MaxInputTokens <= c.ReservedOutputTokens {
		return fmt.Errorf("llm_max_input_tokens must exceed llm_reserved_output_tokens")
	}
	if v := c.Vendor(CategoryCrypto); v != "" && v != VendorAlphaVantage {
		return fmt.Errorf("unsupported cryptocurrency_data vendor: %s", v)
	}
	if err := ValidateInterval(c.Crypto.DefaultInterval); err != nil {
		return err
	}
	return nil
}

var validIntervals = map[string]struct{}{
	"1min":  {},
	"5min":  {},
	"15min": {},
	"30min": {},
	"60min": {},
}

// ValidateInterval checks an intraday bar interval.
func ValidateInterval(interval string) error {
	if _, ok := validIntervals[interval]; !ok {
		return fmt.Errorf("invalid intraday interval %q (want 1min, 5min, 15min, 30min or 60min)", interval)
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ProjectDir, c.ResultsDir, c.DataDir, c.DataCacheDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}

	subdirs := []string{
		"market_data/price_data",
		"crypto_data",
		"news_data",
	}
	for _, subdir := range subdirs {
		if err := os.MkdirAll(filepath.Join(c.DataDir, subdir), 0o755); err != nil {
			return err
		}
	}
	return nil
}
