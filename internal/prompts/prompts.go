package prompts

import (
	"embed"
	"fmt"
	"strings"

	"github.com/coincortex/coincortex/internal/asset"
)

//go:embed templates
var templateFiles embed.FS

// Agent roles with a prompt template. Roles with a crypto variant get the
// variant appended by ForRole when the analyzed asset is a cryptocurrency.
const (
	RoleMarketAnalyst       = "market_analyst"
	RoleNewsAnalyst         = "news_analyst"
	RoleSocialAnalyst       = "social_analyst"
	RoleFundamentalsAnalyst = "fundamentals_analyst"
	RoleBullResearcher      = "bull_researcher"
	RoleBearResearcher      = "bear_researcher"
	RoleResearchManager     = "research_manager"
	RoleTrader              = "trader"
	RoleRiskyDebator        = "risky_debator"
	RoleSafeDebator         = "safe_debator"
	RoleNeutralDebator      = "neutral_debator"
	RoleRiskManager         = "risk_manager"
)

// Load loads a prompt from the embedded markdown files
func Load(name string) (string, error) {
	content, err := templateFiles.ReadFile(fmt.Sprintf("templates/%s.md", name))
	if err != nil {
		return "", fmt.Errorf("failed to load prompt %s: %w", name, err)
	}
	return strings.TrimRight(string(content), "\n"), nil
}

// LoadWithContext loads a prompt and replaces context variables in the
// format {{.VariableName}}
func LoadWithContext(name string, context map[string]string) (string, error) {
	content, err := Load(name)
	if err != nil {
		return "", err
	}
	for key, value := range context {
		placeholder := fmt.Sprintf("{{.%s}}", key)
		content = strings.ReplaceAll(content, placeholder, value)
	}
	return content, nil
}

// ForRole returns the system prompt for an agent role. For cryptocurrencies
// the role's crypto guidance block is appended to the base template; roles
// without a crypto variant fall back to the base template unchanged.
func ForRole(role string, assetType asset.Type) (string, error) {
	base, err := Load(role)
	if err != nil {
		return "", err
	}
	if !assetType.IsCrypto() {
		return base, nil
	}

	guidance, err := Load("crypto/" + role)
	if err != nil {
		return base, nil
	}
	return base + "\n\n" + guidance, nil
}

// AssetFocus names what the researchers argue about: "stock" or
// "cryptocurrency".
func AssetFocus(assetType asset.Type) string {
	return assetType.String()
}

// FundamentalsLabel returns the name of the fundamentals report as referenced
// inside prompt bodies. Crypto projects have no company fundamentals, so the
// report is presented as a project analysis instead.
func FundamentalsLabel(assetType asset.Type) string {
	if assetType.IsCrypto() {
		return "Project analysis"
	}
	return "Company fundamentals report"
}

// FundamentalsTitle is the title-cased variant used by the risk debate
// prompts.
func FundamentalsTitle(assetType asset.Type) string {
	if assetType.IsCrypto() {
		return "Project Analysis"
	}
	return "Company Fundamentals Report"
}

// AssetDescription describes the traded asset for the trader prompt, e.g.
// "company AAPL" or "cryptocurrency BTC".
func AssetDescription(assetType asset.Type, symbol string) string {
	if assetType.IsCrypto() {
		return "cryptocurrency " + symbol
	}
	return "company " + symbol
}
