package telegram

import (
	"context"
	"fmt"
	"strings"

	"velvet-portfolio-bot/internal/alert"
	"velvet-portfolio-bot/internal/commands"
	"velvet-portfolio-bot/internal/conversation"
	"velvet-portfolio-bot/internal/portfolio"
	"velvet-portfolio-bot/internal/returns"
	"velvet-portfolio-bot/internal/types"
	"velvet-portfolio-bot/lib/translation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Deps are the core components the transport adapter drives.
type Deps struct {
	Alerts        *alert.Store
	Conversations *conversation.Manager
	Portfolios    *portfolio.Storage
	Service       *portfolio.Service
	Fetcher       *returns.Fetcher
}

// NewBot creates new telegram bot
func NewBot(c BotConfig, deps Deps) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug

	return &Bot{
		Bot:           bot,
		Config:        c,
		Alerts:        deps.Alerts,
		Conversations: deps.Conversations,
		Portfolios:    deps.Portfolios,
		Service:       deps.Service,
		Fetcher:       deps.Fetcher,
		pendingInput:  make(map[int64]inputKind),
		pendingScale:  make(map[int64]string),
	}, nil
}

// GetUpdatesChannel gets new updates
func (b *Bot) GetUpdatesChannel() tgbotapi.UpdatesChannel {
	updatesConfig := tgbotapi.NewUpdate(0)
	if b.Config.UpdatesTimeout > 0 {
		updatesConfig.Timeout = b.Config.UpdatesTimeout
	}
	return b.Bot.GetUpdatesChan(updatesConfig)
}

// SendMessage sends a MarkdownV2 message.
func (b *Bot) SendMessage(m Message) error {
	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	msg.ReplyToMessageID = m.MessageID
	msg.DisableWebPagePreview = true
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	_, err := b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send message: %v", m)
}

// SendPlain sends a message without any parse mode, used for error texts
// that must be shown verbatim.
func (b *Bot) SendPlain(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.Bot.Send(msg); err != nil {
		log.Errorf("failed to send message: %v", err)
	}
}

// SendAlert implements alert.Notifier: a triggered-alert message with a
// link button to the portfolio page.
func (b *Bot) SendAlert(chatID int64, text, portfolioLink string) error {
	body := fmt.Sprintf("%s\n\n[View Portfolio](%s)", text, portfolioLink)
	msg := tgbotapi.NewMessage(chatID, body)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("📊 View Portfolio", portfolioLink),
		),
	)
	_, err := b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send alert to chat %d", chatID)
}

func (b *Bot) editMarkdown(chatID int64, messageID int, text string) int {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	sent, err := b.Bot.Send(edit)
	if err != nil {
		log.Errorf("failed to edit message: %v", err)
		return messageID
	}
	return sent.MessageID
}

func (b *Bot) editPlain(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := b.Bot.Send(edit); err != nil {
		log.Errorf("failed to edit message: %v", err)
	}
}

func (b *Bot) editWithKeyboard(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
	if _, err := b.Bot.Send(edit); err != nil {
		log.Errorf("failed to edit message: %v", err)
	}
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.Bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		log.Errorf("failed to answer callback: %v", err)
	}
}

func (b *Bot) setPendingInput(chatID int64, kind inputKind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pendingInput[chatID] = kind
}

func (b *Bot) takePendingInput(chatID int64) inputKind {
	b.mu.Lock()
	defer b.mu.Unlock()
	kind := b.pendingInput[chatID]
	delete(b.pendingInput, chatID)
	return kind
}

func (b *Bot) setPendingScale(chatID int64, address string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pendingScale[chatID] = address
}

func (b *Bot) takePendingScale(chatID int64) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	address, found := b.pendingScale[chatID]
	delete(b.pendingScale, chatID)
	return address, found
}

// clearPending drops every per-chat interaction state. Called on each new
// slash command so a stale flow never swallows unrelated input.
func (b *Bot) clearPending(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pendingInput, chatID)
	delete(b.pendingScale, chatID)
}

// HandleCommand processes one slash command.
func (b *Bot) HandleCommand(u tgbotapi.Update) {
	chatID := u.Message.Chat.ID
	command := u.Message.Command()
	argument := strings.TrimSpace(u.Message.CommandArguments())
	log.Debugf("received command: /%s", command)

	// A new command always discards the in-flight conversation.
	b.Conversations.Cancel(chatID)
	b.clearPending(chatID)

	switch command {
	case "start", "menu":
		b.send(chatID, commands.Menu())
	case "help":
		b.send(chatID, commands.Help())
	case "cancel":
		b.SendPlain(chatID, translation.Translate("Operation cancelled."))
	case "portfolio":
		b.commandPortfolio(chatID, argument)
	case "returns":
		b.commandReturns(chatID, argument)
	case "allreturns":
		b.commandAllReturns(chatID, argument)
	case "myportfolios":
		b.commandMyPortfolios(chatID)
	case "setalert":
		b.commandSetAlert(chatID)
	case "alerts":
		b.send(chatID, commands.FormatAlertsList(b.Alerts.List(chatID)))
	case "removealert":
		b.commandRemoveAlert(chatID)
	default:
		b.SendPlain(chatID, translation.Translate("❌ Unknown command. Use /help to see available commands."))
	}
}

func (b *Bot) send(chatID int64, text string) {
	if err := b.SendMessage(Message{ChatID: chatID, Text: text}); err != nil {
		log.Errorf("failed to send message: %v", err)
	}
}

// sendMarkdown sends and returns the message id, for later edits.
func (b *Bot) sendMarkdown(chatID int64, text string) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	sent, err := b.Bot.Send(msg)
	if err != nil {
		log.Errorf("failed to send message: %v", err)
		return 0
	}
	return sent.MessageID
}

// savedPortfolioKeyboard offers the chat's saved portfolios plus an
// enter-new-address row, with callbacks prefixed by the requesting command.
func (b *Bot) savedPortfolioKeyboard(chatID int64, prefix string) (tgbotapi.InlineKeyboardMarkup, bool) {
	saved := b.Portfolios.List(chatID)
	if len(saved) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range saved {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s (%s)", p.Name, p.Symbol),
				fmt.Sprintf("%s:%s", prefix, p.Address),
			),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Enter New Portfolio Address", prefix+":new"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

// promptForAddress either offers saved portfolios or asks for free text.
func (b *Bot) promptForAddress(chatID int64, prefix string, kind inputKind) {
	if keyboard, ok := b.savedPortfolioKeyboard(chatID, prefix); ok {
		msg := tgbotapi.NewMessage(chatID, translation.Translate("📊 Select a portfolio or enter a new address:"))
		msg.ReplyMarkup = keyboard
		if _, err := b.Bot.Send(msg); err != nil {
			log.Errorf("failed to send portfolio keyboard: %v", err)
		}
		return
	}
	b.setPendingInput(chatID, kind)
	b.send(chatID, commands.EnterAddressPrompt())
}

func scaleKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(types.AllScales); i += 2 {
		row := []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(
				commands.ScaleLabel(types.AllScales[i]),
				"scale:"+string(types.AllScales[i]),
			),
		}
		if i+1 < len(types.AllScales) {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(
				commands.ScaleLabel(types.AllScales[i+1]),
				"scale:"+string(types.AllScales[i+1]),
			))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func conditionKeyboard(address string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📈 Above", fmt.Sprintf("condition:%s:%s", types.ConditionAbove, address)),
			tgbotapi.NewInlineKeyboardButtonData("📉 Below", fmt.Sprintf("condition:%s:%s", types.ConditionBelow, address)),
		),
	)
}

func (b *Bot) commandPortfolio(chatID int64, argument string) {
	if argument == "" {
		b.promptForAddress(chatID, "portfolio", inputPortfolio)
		return
	}
	b.runPortfolio(chatID, argument, 0)
}

func (b *Bot) commandReturns(chatID int64, argument string) {
	if argument == "" {
		b.promptForAddress(chatID, "returns", inputReturns)
		return
	}
	b.askScale(chatID, argument)
}

func (b *Bot) commandAllReturns(chatID int64, argument string) {
	if argument == "" {
		b.promptForAddress(chatID, "allreturns", inputAllReturns)
		return
	}
	b.runAllReturns(chatID, argument, 0)
}

func (b *Bot) commandMyPortfolios(chatID int64) {
	portfolios := b.Portfolios.List(chatID)
	msg := tgbotapi.NewMessage(chatID, commands.FormatPortfoliosList(portfolios))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if len(portfolios) > 0 {
		msg.ReplyMarkup = removePortfolioKeyboard(portfolios)
	}
	if _, err := b.Bot.Send(msg); err != nil {
		log.Errorf("failed to send portfolios list: %v", err)
	}
}

func removePortfolioKeyboard(portfolios []types.SavedPortfolio) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range portfolios {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("❌ Remove %s (%s)", p.Name, p.Symbol),
				"removeportfolio:"+p.Address,
			),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) commandSetAlert(chatID int64) {
	if keyboard, ok := b.savedPortfolioKeyboard(chatID, "setalert"); ok {
		msg := tgbotapi.NewMessage(chatID, translation.Translate("📊 Select a portfolio or enter a new address:"))
		msg.ReplyMarkup = keyboard
		if _, err := b.Bot.Send(msg); err != nil {
			log.Errorf("failed to send setalert keyboard: %v", err)
		}
		return
	}
	b.Conversations.Begin(chatID)
	b.send(chatID, commands.SetAlertPrompt())
}

func (b *Bot) commandRemoveAlert(chatID int64) {
	alerts := b.Alerts.List(chatID)
	if len(alerts) == 0 {
		b.SendPlain(chatID, translation.Translate("📊 You have no active alerts to remove."))
		return
	}

	msg := tgbotapi.NewMessage(chatID, translation.Translate("📊 Select alerts to remove:"))
	msg.ReplyMarkup = b.removeAlertKeyboard(chatID, alerts)
	if _, err := b.Bot.Send(msg); err != nil {
		log.Errorf("failed to send removealert keyboard: %v", err)
	}
}

// removeAlertKeyboard groups the chat's alerts per portfolio, resolving
// display names upstream when it can.
func (b *Bot) removeAlertKeyboard(chatID int64, alerts []types.Alert) tgbotapi.InlineKeyboardMarkup {
	grouped := make(map[string]int)
	var order []string
	for _, a := range alerts {
		if _, seen := grouped[a.PortfolioAddress]; !seen {
			order = append(order, a.PortfolioAddress)
		}
		grouped[a.PortfolioAddress]++
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, address := range order {
		displayName := fmt.Sprintf("Portfolio %s...", address[:6])
		if p, err := b.Service.Portfolio(context.Background(), address); err == nil {
			displayName = fmt.Sprintf("%s (%s)", p.Name, p.Symbol)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s (%d alerts)", displayName, grouped[address]),
				"remove:"+address,
			),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🗑️ Remove All Alerts", "remove:all"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// HandleText routes non-command free text: first to the live alert
// conversation, then to pending address requests.
func (b *Bot) HandleText(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	if text == "" || strings.HasPrefix(text, "/") {
		return
	}

	if step, live := b.Conversations.Step(chatID); live {
		switch step {
		case conversation.StepAddress:
			b.alertAddressReceived(chatID, text)
		case conversation.StepThreshold:
			b.alertThresholdReceived(chatID, text)
		}
		// StepCondition waits for a keyboard choice; free text is ignored.
		return
	}

	switch b.takePendingInput(chatID) {
	case inputPortfolio:
		if err := types.ValidatePortfolioAddress(text); err != nil {
			b.SendPlain(chatID, err.Error())
			return
		}
		b.runPortfolio(chatID, text, 0)
	case inputReturns:
		b.askScale(chatID, text)
	case inputAllReturns:
		if err := types.ValidatePortfolioAddress(text); err != nil {
			b.SendPlain(chatID, err.Error())
			return
		}
		b.runAllReturns(chatID, text, 0)
	}
}

func (b *Bot) alertAddressReceived(chatID int64, text string) {
	address, err := b.Conversations.SubmitAddress(chatID, text)
	if err != nil {
		b.SendPlain(chatID, fmt.Sprintf("❌ %s\n\nPlease try again or use /cancel to stop.", err.Error()))
		return
	}

	p, err := b.Service.Portfolio(context.Background(), address)
	if err != nil {
		log.Errorf("error setting up alert: %v", err)
		b.Conversations.Fail(chatID)
		b.SendPlain(chatID, "❌ Portfolio not found\n\nPlease try again or use /cancel to stop.")
		return
	}

	b.Conversations.PortfolioResolved(chatID, address, p.Name, p.Symbol)
	msg := tgbotapi.NewMessage(chatID, translation.Translate("📊 Select alert condition:"))
	msg.ReplyMarkup = conditionKeyboard(address)
	if _, err := b.Bot.Send(msg); err != nil {
		log.Errorf("failed to send condition keyboard: %v", err)
	}
}

func (b *Bot) alertThresholdReceived(chatID int64, text string) {
	done, err := b.Conversations.SubmitThreshold(chatID, text)
	if err != nil {
		b.SendPlain(chatID, fmt.Sprintf("❌ %s\n\nPlease try again or use /cancel to stop.", err.Error()))
		return
	}

	b.Alerts.Add(chatID, done.Address, done.Threshold, done.Condition)
	b.send(chatID, commands.FormatAlertConfirmation(done.PortfolioName, done.PortfolioSymbol, done.Condition, done.Threshold))
}

// HandleCallbackQuery routes inline keyboard selections.
func (b *Bot) HandleCallbackQuery(query *tgbotapi.CallbackQuery) {
	data := query.Data
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	switch {
	case strings.HasPrefix(data, "setalert:"):
		b.callbackSetAlert(query, chatID, messageID, strings.TrimPrefix(data, "setalert:"))
	case strings.HasPrefix(data, "condition:"):
		b.callbackCondition(query, chatID, messageID, data)
	case strings.HasPrefix(data, "scale:"):
		b.callbackScale(query, chatID, messageID, strings.TrimPrefix(data, "scale:"))
	case strings.HasPrefix(data, "portfolio:"):
		b.callbackPortfolio(query, chatID, messageID, strings.TrimPrefix(data, "portfolio:"))
	case strings.HasPrefix(data, "returns:"):
		b.callbackReturns(query, chatID, messageID, strings.TrimPrefix(data, "returns:"))
	case strings.HasPrefix(data, "allreturns:"):
		b.callbackAllReturns(query, chatID, messageID, strings.TrimPrefix(data, "allreturns:"))
	case strings.HasPrefix(data, "removealert:"):
		b.callbackRemoveAlertTarget(query, chatID, messageID, strings.TrimPrefix(data, "removealert:"))
	case strings.HasPrefix(data, "removeportfolio:"):
		b.callbackRemovePortfolio(query, chatID, messageID, strings.TrimPrefix(data, "removeportfolio:"))
	case strings.HasPrefix(data, "remove:"):
		b.callbackRemoveAlerts(query, chatID, messageID, strings.TrimPrefix(data, "remove:"))
	default:
		b.answerCallback(query.ID, translation.Translate("Unknown action. Please try again."))
	}
}

func (b *Bot) callbackSetAlert(query *tgbotapi.CallbackQuery, chatID int64, messageID int, selection string) {
	defer b.answerCallback(query.ID, "")

	if selection == "new" {
		b.Conversations.Begin(chatID)
		b.editMarkdown(chatID, messageID, commands.SetAlertPrompt())
		return
	}

	if err := b.checkSelectedAddress(chatID, selection); err != nil {
		b.editPlain(chatID, messageID, err.Error())
		return
	}

	b.editMarkdown(chatID, messageID, commands.LoadingAlert())

	p, err := b.Service.Portfolio(context.Background(), selection)
	if err != nil {
		log.Errorf("error setting up alert: %v", err)
		b.Conversations.Fail(chatID)
		b.editPlain(chatID, messageID, "❌ Portfolio not found\n\nPlease try again or use /cancel to stop.")
		return
	}

	b.Conversations.PortfolioResolved(chatID, selection, p.Name, p.Symbol)
	b.editWithKeyboard(chatID, messageID, translation.Translate("📊 Select alert condition:"), conditionKeyboard(selection))
}

func (b *Bot) callbackCondition(query *tgbotapi.CallbackQuery, chatID int64, messageID int, data string) {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) < 3 {
		b.answerCallback(query.ID, translation.Translate("Invalid alert data."))
		return
	}
	condition := types.Condition(parts[1])
	address := parts[2]

	if !b.Conversations.ChooseCondition(chatID, address, condition) {
		b.answerCallback(query.ID, translation.Translate("This alert flow has expired. Use /setalert to start over."))
		return
	}

	b.editPlain(chatID, messageID, commands.ThresholdPrompt())
	b.answerCallback(query.ID, "")
}

func (b *Bot) callbackScale(query *tgbotapi.CallbackQuery, chatID int64, messageID int, selection string) {
	defer b.answerCallback(query.ID, "")

	if !types.IsValidScale(selection) {
		return
	}
	address, found := b.takePendingScale(chatID)
	if !found {
		return
	}

	b.editMarkdown(chatID, messageID, commands.LoadingReturns())

	result, err := b.Fetcher.WithScale(context.Background(), address, types.Scale(selection))
	if err != nil {
		log.Errorf("returns calculation error: %v", err)
		b.editPlain(chatID, messageID, "Error: Unable to calculate returns. Please try again later.")
		return
	}
	b.editMarkdown(chatID, messageID, commands.FormatReturns(result, address, types.Scale(selection)))
}

func (b *Bot) callbackPortfolio(query *tgbotapi.CallbackQuery, chatID int64, messageID int, selection string) {
	defer b.answerCallback(query.ID, "")

	if selection == "new" {
		b.setPendingInput(chatID, inputPortfolio)
		b.editMarkdown(chatID, messageID, commands.EnterAddressPrompt())
		return
	}
	b.runPortfolio(chatID, selection, messageID)
}

func (b *Bot) callbackReturns(query *tgbotapi.CallbackQuery, chatID int64, messageID int, selection string) {
	defer b.answerCallback(query.ID, "")

	if selection == "new" {
		b.setPendingInput(chatID, inputReturns)
		b.editMarkdown(chatID, messageID, commands.EnterAddressPrompt())
		return
	}
	b.setPendingScale(chatID, selection)
	b.editWithKeyboard(chatID, messageID, translation.Translate("Select the time scale:"), scaleKeyboard())
}

func (b *Bot) callbackAllReturns(query *tgbotapi.CallbackQuery, chatID int64, messageID int, selection string) {
	defer b.answerCallback(query.ID, "")

	if selection == "new" {
		b.setPendingInput(chatID, inputAllReturns)
		b.editMarkdown(chatID, messageID, commands.EnterAddressPrompt())
		return
	}
	b.runAllReturns(chatID, selection, messageID)
}

func (b *Bot) callbackRemoveAlerts(query *tgbotapi.CallbackQuery, chatID int64, messageID int, target string) {
	if target == "all" {
		count := b.Alerts.RemoveAll(chatID)
		b.editPlain(chatID, messageID, fmt.Sprintf("✅ Successfully removed all alerts (%d total).", count))
		b.answerCallback(query.ID, "")
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, a := range b.Alerts.List(chatID) {
		if a.PortfolioAddress != target {
			continue
		}
		emoji := "📈"
		if a.Condition == types.ConditionBelow {
			emoji = "📉"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s %g%%", emoji, a.Threshold),
				"removealert:"+a.ID,
			),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("« Back", "removealert:back"),
	))

	b.editWithKeyboard(chatID, messageID, translation.Translate("📊 Select alert to remove:"), tgbotapi.NewInlineKeyboardMarkup(rows...))
	b.answerCallback(query.ID, "")
}

func (b *Bot) callbackRemoveAlertTarget(query *tgbotapi.CallbackQuery, chatID int64, messageID int, target string) {
	if target == "back" {
		alerts := b.Alerts.List(chatID)
		if len(alerts) == 0 {
			b.editPlain(chatID, messageID, translation.Translate("📊 You have no active alerts to remove."))
		} else {
			b.editWithKeyboard(chatID, messageID, translation.Translate("📊 Select alerts to remove:"), b.removeAlertKeyboard(chatID, alerts))
		}
		b.answerCallback(query.ID, "")
		return
	}

	for _, a := range b.Alerts.List(chatID) {
		if a.ID != target {
			continue
		}
		if b.Alerts.Remove(chatID, a.PortfolioAddress, a.ID) {
			b.editPlain(chatID, messageID, "✅ Alert removed successfully.")
			b.answerCallback(query.ID, "")
			return
		}
	}

	b.answerCallback(query.ID, translation.Translate("Failed to remove alert. Please try again."))
}

func (b *Bot) callbackRemovePortfolio(query *tgbotapi.CallbackQuery, chatID int64, messageID int, address string) {
	if !b.Portfolios.Remove(chatID, address) {
		b.answerCallback(query.ID, translation.Translate("Failed to remove portfolio. Please try again."))
		return
	}

	portfolios := b.Portfolios.List(chatID)
	if len(portfolios) == 0 {
		b.editMarkdown(chatID, messageID, commands.FormatPortfoliosList(portfolios))
	} else {
		b.editWithKeyboard(chatID, messageID, commands.FormatPortfoliosList(portfolios), removePortfolioKeyboard(portfolios))
	}
	b.answerCallback(query.ID, "")
}

// runPortfolio fetches and renders the /portfolio analysis. When
// editMessageID is zero a fresh loading message is sent first.
func (b *Bot) runPortfolio(chatID int64, address string, editMessageID int) {
	if err := types.ValidatePortfolioAddress(address); err != nil {
		b.SendPlain(chatID, err.Error())
		return
	}

	messageID := editMessageID
	if messageID == 0 {
		messageID = b.sendMarkdown(chatID, commands.LoadingPortfolio())
	} else {
		b.editMarkdown(chatID, messageID, commands.LoadingPortfolio())
	}

	details, err := b.Service.Details(context.Background(), address)
	if err != nil {
		log.Errorf("portfolio command error: %v", err)
		b.editPlain(chatID, messageID, "Error: Unable to fetch portfolio details. Please ensure the portfolio address is correct or try again later.")
		return
	}

	b.Portfolios.Save(chatID, address, details.Portfolio)
	b.editMarkdown(chatID, messageID, commands.FormatPortfolio(details, address))
}

// askScale validates the address and offers the time-scale keyboard.
func (b *Bot) askScale(chatID int64, address string) {
	if err := types.ValidatePortfolioAddress(address); err != nil {
		b.SendPlain(chatID, err.Error())
		return
	}

	b.setPendingScale(chatID, address)
	msg := tgbotapi.NewMessage(chatID, translation.Translate("Select the time scale:"))
	msg.ReplyMarkup = scaleKeyboard()
	if _, err := b.Bot.Send(msg); err != nil {
		log.Errorf("failed to send scale keyboard: %v", err)
	}
}

// checkSelectedAddress accepts a keyboard-supplied address. Saved
// portfolios passed format validation when they were stored; anything else
// (a forged or stale callback payload) must pass it now.
func (b *Bot) checkSelectedAddress(chatID int64, address string) error {
	if b.Portfolios.IsSaved(chatID, address) {
		return nil
	}
	return types.ValidatePortfolioAddress(address)
}

// runAllReturns fetches and renders the all-periods summary.
func (b *Bot) runAllReturns(chatID int64, address string, editMessageID int) {
	if err := types.ValidatePortfolioAddress(address); err != nil {
		b.SendPlain(chatID, err.Error())
		return
	}

	messageID := editMessageID
	if messageID == 0 {
		messageID = b.sendMarkdown(chatID, commands.LoadingAllReturns())
	} else {
		b.editMarkdown(chatID, messageID, commands.LoadingAllReturns())
	}

	summary, err := b.Fetcher.AllScales(context.Background(), address)
	if err != nil {
		log.Errorf("all returns calculation error: %v", err)
		b.editPlain(chatID, messageID, "Error: Unable to calculate returns. Please try again later.")
		return
	}
	b.editMarkdown(chatID, messageID, commands.FormatAllReturns(summary, address))
}
