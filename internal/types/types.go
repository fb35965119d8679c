package types

import (
	"regexp"
	"time"

	"github.com/pkg/errors"
)

// Condition is the direction of a return alert.
type Condition string

const (
	ConditionAbove Condition = "gt"
	ConditionBelow Condition = "lt"
)

// Word returns the human-readable form used in messages.
func (c Condition) Word() string {
	if c == ConditionAbove {
		return "above"
	}
	return "below"
}

// Alert is a single return-threshold alert owned by one chat.
type Alert struct {
	ID               string    `json:"id"`
	ChatID           int64     `json:"chat_id"`
	PortfolioAddress string    `json:"portfolio_address"`
	Threshold        float64   `json:"threshold"`
	Condition        Condition `json:"condition"`
	CreatedAt        time.Time `json:"created_at"`
}

// Portfolio holds the upstream details of a vault.
type Portfolio struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	CreatorName string `json:"creatorName"`
	ChainName   string `json:"chainName"`
}

// SavedPortfolio is a portfolio remembered for a chat after /portfolio.
type SavedPortfolio struct {
	Address string
	Portfolio
	SavedAt time.Time
}

// Scale is an upstream graph lookback window.
type Scale string

const (
	ScaleHour       Scale = "hour"
	ScaleDay        Scale = "day"
	ScaleWeek       Scale = "week"
	ScaleOneMonth   Scale = "one_month"
	ScaleThreeMonth Scale = "three_month"
	ScaleAll        Scale = "all"
)

// AllScales lists every supported scale in display order.
var AllScales = []Scale{ScaleHour, ScaleDay, ScaleWeek, ScaleOneMonth, ScaleThreeMonth, ScaleAll}

// IsValidScale reports whether s is a supported graph scale.
func IsValidScale(s string) bool {
	for _, scale := range AllScales {
		if string(scale) == s {
			return true
		}
	}
	return false
}

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// IsValidAddress reports whether address is 0x followed by 40 hex characters.
func IsValidAddress(address string) bool {
	return addressPattern.MatchString(address)
}

// ValidatePortfolioAddress returns a user-facing error for a bad address.
func ValidatePortfolioAddress(address string) error {
	if address == "" {
		return errors.New("Portfolio address is required")
	}
	if !IsValidAddress(address) {
		return errors.New("Invalid portfolio address format. Please provide a valid Ethereum address")
	}
	return nil
}
