package helpers

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EscapeMarkdownV2 escapes telegram MarkdownV2 control characters.
func EscapeMarkdownV2(text string) string {
	charactersToEscape := []string{".", "-", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "=", "|", "{", "}", "!"}

	for _, char := range charactersToEscape {
		text = strings.ReplaceAll(text, char, "\\"+char)
	}
	return text
}

// FromWei converts a smallest-unit integer string into its display-unit
// decimal string, using the standard 18-decimal divisor.
func FromWei(value string) string {
	return FromWeiWithDecimals(value, 18)
}

// FromWeiWithDecimals converts a smallest-unit integer string using a custom
// number of decimals.
func FromWeiWithDecimals(value string, decimals int32) string {
	if value == "" || value == "0" {
		return "0"
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return "0"
	}
	return amount.Shift(-decimals).String()
}

// FormatNAV renders a NAV value with tiered precision: 6 decimals below
// 0.01, 4 decimals below 1, otherwise 2 decimals.
func FormatNAV(value string) string {
	if value == "" || value == "0" {
		return "0.000000"
	}
	num, err := decimal.NewFromString(value)
	if err != nil {
		return "0.000000"
	}
	switch {
	case num.LessThan(decimal.NewFromFloat(0.01)):
		return num.StringFixed(6)
	case num.LessThan(decimal.NewFromInt(1)):
		return num.StringFixed(4)
	default:
		return num.StringFixed(2)
	}
}

// FormatCurrency renders a decimal string with two decimals and US-style
// thousand separators.
func FormatCurrency(value string) string {
	num, err := decimal.NewFromString(value)
	if err != nil {
		return "0.00"
	}
	f, _ := num.Float64()

	p := message.NewPrinter(language.English)
	return p.Sprintf("%.2f", f)
}
