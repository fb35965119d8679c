// Package commands builds the MarkdownV2 message bodies sent by the bot.
package commands

import (
	"fmt"
	"strconv"
	"strings"

	"velvet-portfolio-bot/internal/portfolio"
	"velvet-portfolio-bot/internal/returns"
	"velvet-portfolio-bot/internal/types"
	"velvet-portfolio-bot/lib/helpers"
	"velvet-portfolio-bot/lib/tips"

	"github.com/dustin/go-humanize"
)

const exampleAddress = "0x119056cd66a3e7e2a5168893eb839bfd415a779f"

// ScaleLabel is the display name of a graph scale.
func ScaleLabel(scale types.Scale) string {
	switch scale {
	case types.ScaleHour:
		return "1 Hour"
	case types.ScaleDay:
		return "24 Hours"
	case types.ScaleWeek:
		return "1 Week"
	case types.ScaleOneMonth:
		return "1 Month"
	case types.ScaleThreeMonth:
		return "3 Months"
	case types.ScaleAll:
		return "All Time"
	}
	return string(scale)
}

func randomTip() string {
	return "*Investment Tip:* " + helpers.EscapeMarkdownV2(tips.RandomTip())
}

// Menu is the /start and /menu body.
func Menu() string {
	return "🤖 *Velvet Portfolio Bot*\n\n" +
		"*Portfolio Analysis:*\n" +
		"📊 /portfolio \\- View NAV, TVL & details\n" +
		"📈 /returns \\- Get time\\-based returns\n" +
		"📊 /allreturns \\- Full returns summary\n" +
		"💼 /myportfolios \\- View saved portfolios\n\n" +
		"*Alert Management:*\n" +
		"⏰ /setalert \\- Set return alerts\n" +
		"🔔 /alerts \\- View active alerts\n" +
		"❌ /removealert \\- Remove alerts\n\n" +
		randomTip() + "\n\n" +
		"_Click any command to get started\\!_"
}

// Help is the /help body.
func Help() string {
	return "Available commands:\n\n" +
		"`/start` \\- Start the bot\n" +
		"`/help` \\- Show this help message\n" +
		"`/portfolio <address>` \\- Analyze a portfolio address\n" +
		"`/returns <address>` \\- Get portfolio returns for a specific time period\n" +
		"`/allreturns <address>` \\- Get portfolio returns for all time periods\n" +
		"`/setalert` \\- Set an alert for portfolio returns\n" +
		"`/alerts` \\- List your active alerts\n" +
		"`/removealert` \\- Remove alerts for a portfolio\n\n" +
		"Example:\n" +
		"`/portfolio " + exampleAddress + "`"
}

// EnterAddressPrompt asks for a free-text portfolio address.
func EnterAddressPrompt() string {
	return "Please enter the portfolio address:\n\nExample: `" + exampleAddress + "`"
}

// SetAlertPrompt starts the alert flow for chats with no saved portfolios.
func SetAlertPrompt() string {
	return "⏰ *Set Return Alert*\n\nPlease enter the portfolio address:"
}

// ThresholdPrompt asks for the numeric threshold.
func ThresholdPrompt() string {
	return "📊 Enter return threshold percentage:\n\n" +
		"Example: Enter 50 for 50%\n\n" +
		"Note: Must be between 0 and 1000"
}

// Loading messages shown while upstream calls are in flight.
func LoadingPortfolio() string {
	return "🔍 *Fetching portfolio details\\.\\.\\.*\n\n" + randomTip()
}

func LoadingReturns() string {
	return "🔍 *Calculating returns\\.\\.\\.*\n\n" + randomTip()
}

func LoadingAllReturns() string {
	return "🔍 *Calculating returns for all time periods\\.\\.\\.*\n\n" + randomTip()
}

func LoadingAlert() string {
	return "🔍 *Setting up alert\\.\\.\\.*\n\n" + randomTip()
}

// FormatPortfolio renders the /portfolio analysis body.
func FormatPortfolio(d *portfolio.Details, address string) string {
	var b strings.Builder
	b.WriteString("📊 *Portfolio Analysis*\n")
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "• *Portfolio*: `%s`\n", address)
	fmt.Fprintf(&b, "• *Name*: %s \\(%s\\)\n", helpers.EscapeMarkdownV2(d.Name), helpers.EscapeMarkdownV2(d.Symbol))
	fmt.Fprintf(&b, "• *Creator*: %s\n", helpers.EscapeMarkdownV2(d.CreatorName))
	fmt.Fprintf(&b, "• *Network*: %s\n", helpers.EscapeMarkdownV2(strings.ToUpper(d.ChainName)))
	if d.NAV != "" {
		fmt.Fprintf(&b, "• *NAV*: $%s\n", helpers.EscapeMarkdownV2(d.NAV))
	}
	fmt.Fprintf(&b, "• *TVL*: $%s", helpers.EscapeMarkdownV2(d.TVL))
	if d.Returns != "" {
		fmt.Fprintf(&b, "\n• *Returns*: %s", formatReturnValue(d.Returns))
	}
	return b.String()
}

// FormatReturns renders the single-scale /returns body.
func FormatReturns(res *returns.Result, address string, scale types.Scale) string {
	return fmt.Sprintf(
		"📊 *Portfolio Returns* \\(%s\\)\n"+
			"━━━━━━━━━━━━━━━━━━━━━\n"+
			"• *Portfolio*: `%s`\n"+
			"• *NAV*: $%s\n"+
			"• *Returns*: %s",
		helpers.EscapeMarkdownV2(ScaleLabel(scale)),
		address,
		helpers.EscapeMarkdownV2(res.NAV),
		formatReturnValue(res.Returns),
	)
}

// FormatAllReturns renders the /allreturns summary body.
func FormatAllReturns(sr *returns.ScaleReturns, address string) string {
	var b strings.Builder
	b.WriteString("📊 *Portfolio Returns Summary*\n")
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "• *Portfolio*: `%s`\n", address)
	fmt.Fprintf(&b, "• *NAV*: $%s\n\n", helpers.EscapeMarkdownV2(sr.NAV))
	b.WriteString("*Returns by Period:*")
	for _, scale := range types.AllScales {
		value := sr.Returns[scale]
		display := "N/A"
		if value != nil {
			display = formatReturnValue(*value)
		}
		fmt.Fprintf(&b, "\n• %s: %s", helpers.EscapeMarkdownV2(ScaleLabel(scale)), display)
	}
	return b.String()
}

// FormatAlertsList renders /alerts, grouped by portfolio.
func FormatAlertsList(alerts []types.Alert) string {
	if len(alerts) == 0 {
		return "📊 *No Active Alerts*\n\nUse /setalert to create a new alert\\."
	}

	grouped := make(map[string][]types.Alert)
	var order []string
	for _, a := range alerts {
		if _, seen := grouped[a.PortfolioAddress]; !seen {
			order = append(order, a.PortfolioAddress)
		}
		grouped[a.PortfolioAddress] = append(grouped[a.PortfolioAddress], a)
	}

	var b strings.Builder
	b.WriteString("📊 *Active Alerts*\n")
	for _, address := range order {
		fmt.Fprintf(&b, "\n*Portfolio*: `%s`\n", address)
		for _, a := range grouped[address] {
			fmt.Fprintf(&b, "• Alert when returns go %s %s%% \\(set %s\\)\n",
				a.Condition.Word(),
				helpers.EscapeMarkdownV2(strconv.FormatFloat(a.Threshold, 'f', -1, 64)),
				helpers.EscapeMarkdownV2(humanize.Time(a.CreatedAt)),
			)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatAlertConfirmation renders the success body after the flow completes.
func FormatAlertConfirmation(name, symbol string, condition types.Condition, threshold float64) string {
	return fmt.Sprintf(
		"✅ *Alert Set Successfully\\!*\n\n"+
			"*Portfolio*: %s \\(%s\\)\n"+
			"*Condition*: Returns go %s %s%%\n\n"+
			"You'll be notified when the condition is met\\.",
		helpers.EscapeMarkdownV2(name),
		helpers.EscapeMarkdownV2(symbol),
		condition.Word(),
		helpers.EscapeMarkdownV2(strconv.FormatFloat(threshold, 'f', -1, 64)),
	)
}

// FormatPortfoliosList renders /myportfolios.
func FormatPortfoliosList(portfolios []types.SavedPortfolio) string {
	if len(portfolios) == 0 {
		return "📊 *My Portfolios*\n\nNo portfolios saved yet\\.\nUse /portfolio to analyze and save portfolios\\."
	}

	var b strings.Builder
	b.WriteString("📊 *My Saved Portfolios*\n")
	for _, p := range portfolios {
		fmt.Fprintf(&b, "\n*%s* \\(%s\\)\n", helpers.EscapeMarkdownV2(p.Name), helpers.EscapeMarkdownV2(p.Symbol))
		fmt.Fprintf(&b, "• Address: `%s`\n", p.Address)
		fmt.Fprintf(&b, "• Network: %s\n", helpers.EscapeMarkdownV2(strings.ToUpper(p.ChainName)))
		fmt.Fprintf(&b, "• Creator: %s", helpers.EscapeMarkdownV2(p.CreatorName))
	}
	return b.String()
}

// formatReturnValue renders a percentage with direction emoji and explicit
// sign, e.g. "📈 +50.00%".
func formatReturnValue(value string) string {
	sign := ""
	emoji := "📈"
	if pct, err := strconv.ParseFloat(value, 64); err == nil {
		if pct >= 0 {
			sign = "+"
		} else {
			emoji = "📉"
		}
	}
	return fmt.Sprintf("%s %s%s%%", emoji, helpers.EscapeMarkdownV2(sign), helpers.EscapeMarkdownV2(value))
}
