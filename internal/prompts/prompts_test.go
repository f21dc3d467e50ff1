package prompts

import (
	"strings"
	"testing"

	"github.com/coincortex/coincortex/internal/asset"
)

func TestLoadAllRoles(t *testing.T) {
	roles := []string{
		RoleMarketAnalyst, RoleNewsAnalyst, RoleSocialAnalyst,
		RoleFundamentalsAnalyst, RoleBullResearcher, RoleBearResearcher,
		RoleResearchManager, RoleTrader, RoleRiskyDebator,
		RoleSafeDebator, RoleNeutralDebator, RoleRiskManager,
	}
	for _, role := range roles {
		content, err := Load(role)
		if err != nil {
			t.Errorf("failed to load role %s: %v", role, err)
			continue
		}
		if strings.TrimSpace(content) == "" {
			t.Errorf("role %s template is empty", role)
		}
	}
}

func TestLoadMissingTemplate(t *testing.T) {
	if _, err := Load("no_such_role"); err == nil {
		t.Fatal("expected error for missing template")
	}
}

func TestForRoleStockOmitsCryptoGuidance(t *testing.T) {
	content, err := ForRole(RoleNewsAnalyst, asset.Stock)
	if err != nil {
		t.Fatalf("ForRole failed: %v", err)
	}
	if strings.Contains(content, "CRYPTOCURRENCY-SPECIFIC NEWS ANALYSIS") {
		t.Error("stock prompt must not contain crypto guidance")
	}
}

func TestForRoleCryptoAppendsGuidance(t *testing.T) {
	cases := map[string]string{
		RoleMarketAnalyst:       "CRYPTOCURRENCY TECHNICAL ANALYSIS",
		RoleNewsAnalyst:         "CRYPTOCURRENCY-SPECIFIC NEWS ANALYSIS",
		RoleSocialAnalyst:       "CRYPTOCURRENCY SOCIAL SENTIMENT ANALYSIS",
		RoleFundamentalsAnalyst: "CRYPTOCURRENCY PROJECT ANALYSIS",
		RoleBullResearcher:      "CRYPTOCURRENCY-SPECIFIC BULL FACTORS",
		RoleBearResearcher:      "CRYPTOCURRENCY-SPECIFIC BEAR FACTORS",
		RoleTrader:              "CRYPTOCURRENCY TRADING CONSIDERATIONS",
		RoleRiskyDebator:        "CRYPTOCURRENCY HIGH-RISK PERSPECTIVE",
		RoleSafeDebator:         "CRYPTOCURRENCY CONSERVATIVE PERSPECTIVE",
		RoleNeutralDebator:      "CRYPTOCURRENCY BALANCED PERSPECTIVE",
	}
	for role, marker := range cases {
		content, err := ForRole(role, asset.Crypto)
		if err != nil {
			t.Errorf("ForRole(%s) failed: %v", role, err)
			continue
		}
		if !strings.Contains(content, marker) {
			t.Errorf("crypto prompt for %s missing %q", role, marker)
		}

		base, _ := Load(role)
		if !strings.HasPrefix(content, base) {
			t.Errorf("crypto prompt for %s must extend the base template, not replace it", role)
		}
	}
}

func TestForRoleWithoutCryptoVariantFallsBack(t *testing.T) {
	base, err := ForRole(RoleResearchManager, asset.Stock)
	if err != nil {
		t.Fatalf("ForRole failed: %v", err)
	}
	withCrypto, err := ForRole(RoleResearchManager, asset.Crypto)
	if err != nil {
		t.Fatalf("ForRole failed: %v", err)
	}
	if base != withCrypto {
		t.Error("roles without a crypto variant should use the base template for both asset types")
	}
}

func TestFundamentalsLabel(t *testing.T) {
	if got := FundamentalsLabel(asset.Stock); got != "Company fundamentals report" {
		t.Errorf("unexpected stock label: %q", got)
	}
	if got := FundamentalsLabel(asset.Crypto); got != "Project analysis" {
		t.Errorf("unexpected crypto label: %q", got)
	}
	if got := FundamentalsTitle(asset.Crypto); got != "Project Analysis" {
		t.Errorf("unexpected crypto title: %q", got)
	}
}

func TestAssetDescription(t *testing.T) {
	if got := AssetDescription(asset.Crypto, "BTC"); got != "cryptocurrency BTC" {
		t.Errorf("unexpected crypto description: %q", got)
	}
	if got := AssetDescription(asset.Stock, "AAPL"); got != "company AAPL" {
		t.Errorf("unexpected stock description: %q", got)
	}
}

func TestLoadWithContext(t *testing.T) {
	content, err := LoadWithContext(RoleBullResearcher, map[string]string{})
	if err != nil {
		t.Fatalf("LoadWithContext failed: %v", err)
	}
	if !strings.Contains(content, "{asset_focus}") {
		t.Error("bull researcher template should carry the asset_focus placeholder")
	}
}
