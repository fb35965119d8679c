package commands

import (
	"strings"
	"testing"
	"time"

	"velvet-portfolio-bot/internal/portfolio"
	"velvet-portfolio-bot/internal/returns"
	"velvet-portfolio-bot/internal/types"
)

const testAddr = "0x119056cd66a3e7e2a5168893eb839bfd415a779f"

func TestFormatPortfolio(t *testing.T) {
	d := &portfolio.Details{
		Portfolio: types.Portfolio{
			Name:        "Alpha Fund",
			Symbol:      "ALPHA",
			CreatorName: "alice",
			ChainName:   "bsc",
		},
		TVL:     "1,500.00",
		NAV:     "1.05",
		Returns: "50.00",
	}

	body := FormatPortfolio(d, testAddr)
	for _, want := range []string{
		"`" + testAddr + "`",
		"Alpha Fund \\(ALPHA\\)",
		"*Creator*: alice",
		"*Network*: BSC",
		"$1\\.05",
		"$1,500\\.00",
		"📈 \\+50\\.00%",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestFormatPortfolioOmitsOptionalFields(t *testing.T) {
	d := &portfolio.Details{
		Portfolio: types.Portfolio{Name: "Alpha Fund", Symbol: "ALPHA", ChainName: "bsc"},
		TVL:       "100.00",
	}

	body := FormatPortfolio(d, testAddr)
	if strings.Contains(body, "NAV") {
		t.Error("NAV line must be omitted when empty")
	}
	if strings.Contains(body, "Returns") {
		t.Error("Returns line must be omitted when empty")
	}
}

func TestFormatReturnsNegative(t *testing.T) {
	res := &returns.Result{Returns: "-12.50", NAV: "0.9500"}

	body := FormatReturns(res, testAddr, types.ScaleOneMonth)
	if !strings.Contains(body, "1 Month") {
		t.Errorf("body missing scale label:\n%s", body)
	}
	if !strings.Contains(body, "📉 \\-12\\.50%") {
		t.Errorf("body missing negative return:\n%s", body)
	}
}

func TestFormatAllReturns(t *testing.T) {
	day := "10.00"
	all := "-5.00"
	sr := &returns.ScaleReturns{
		NAV: "1.05",
		Returns: map[types.Scale]*string{
			types.ScaleDay: &day,
			types.ScaleAll: &all,
		},
	}

	body := FormatAllReturns(sr, testAddr)
	if !strings.Contains(body, "24 Hours: 📈 \\+10\\.00%") {
		t.Errorf("body missing day return:\n%s", body)
	}
	if !strings.Contains(body, "All Time: 📉 \\-5\\.00%") {
		t.Errorf("body missing all-time return:\n%s", body)
	}
	if !strings.Contains(body, "1 Hour: N/A") {
		t.Errorf("missing scale must render N/A:\n%s", body)
	}
}

func TestFormatAlertsList(t *testing.T) {
	empty := FormatAlertsList(nil)
	if !strings.Contains(empty, "No Active Alerts") {
		t.Errorf("unexpected empty body:\n%s", empty)
	}

	now := time.Now()
	alerts := []types.Alert{
		{ID: "a", PortfolioAddress: testAddr, Threshold: 10, Condition: types.ConditionAbove, CreatedAt: now},
		{ID: "b", PortfolioAddress: testAddr, Threshold: 20.5, Condition: types.ConditionBelow, CreatedAt: now},
	}

	body := FormatAlertsList(alerts)
	if got := strings.Count(body, "*Portfolio*:"); got != 1 {
		t.Errorf("expected one portfolio group, got %d:\n%s", got, body)
	}
	if !strings.Contains(body, "go above 10%") {
		t.Errorf("body missing above alert:\n%s", body)
	}
	if !strings.Contains(body, "go below 20\\.5%") {
		t.Errorf("body missing below alert:\n%s", body)
	}
}

func TestFormatAlertConfirmation(t *testing.T) {
	body := FormatAlertConfirmation("Alpha Fund", "ALPHA", types.ConditionAbove, 25.5)
	for _, want := range []string{"Alpha Fund \\(ALPHA\\)", "go above 25\\.5%"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestFormatPortfoliosList(t *testing.T) {
	empty := FormatPortfoliosList(nil)
	if !strings.Contains(empty, "No portfolios saved yet") {
		t.Errorf("unexpected empty body:\n%s", empty)
	}

	body := FormatPortfoliosList([]types.SavedPortfolio{{
		Address: testAddr,
		Portfolio: types.Portfolio{
			Name:        "Alpha Fund",
			Symbol:      "ALPHA",
			CreatorName: "alice",
			ChainName:   "bsc",
		},
	}})
	for _, want := range []string{"*Alpha Fund* \\(ALPHA\\)", "`" + testAddr + "`", "Network: BSC", "Creator: alice"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestScaleLabel(t *testing.T) {
	if got := ScaleLabel(types.ScaleThreeMonth); got != "3 Months" {
		t.Errorf("unexpected label %q", got)
	}
	if got := ScaleLabel(types.Scale("fortnight")); got != "fortnight" {
		t.Errorf("unknown scale must fall back to its raw value, got %q", got)
	}
}
