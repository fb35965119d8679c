package telegram

import (
	"sync"

	"velvet-portfolio-bot/internal/alert"
	"velvet-portfolio-bot/internal/conversation"
	"velvet-portfolio-bot/internal/portfolio"
	"velvet-portfolio-bot/internal/returns"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotConfig configuration of the bot
type BotConfig struct {
	Token          string
	Debug          bool
	UpdatesTimeout int
}

// inputKind marks which command is waiting for a free-text address.
type inputKind int

const (
	inputNone inputKind = iota
	inputPortfolio
	inputReturns
	inputAllReturns
)

// Bot telegram interaction client
type Bot struct {
	Bot    *tgbotapi.BotAPI
	Config BotConfig

	Alerts        *alert.Store
	Conversations *conversation.Manager
	Portfolios    *portfolio.Storage
	Service       *portfolio.Service
	Fetcher       *returns.Fetcher

	mu           sync.Mutex
	pendingInput map[int64]inputKind
	pendingScale map[int64]string // chat -> address awaiting a scale choice
}

// Message a telegram message struct
type Message struct {
	ChatID    int64
	MessageID int
	Text      string
}
