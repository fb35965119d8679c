// Package conversation holds the per-chat state machine that collects
// alert parameters across multiple chat turns: portfolio address, then
// comparison direction, then threshold. At most one conversation is live
// per chat; any error or new command destroys it.
package conversation

import (
	"strconv"
	"strings"
	"sync"

	"velvet-portfolio-bot/internal/types"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Step identifies which answer the conversation is waiting for.
type Step int

const (
	StepAddress Step = iota + 1
	StepCondition
	StepThreshold
)

// state carries only the fields valid for its step. Fields fill in as the
// user answers prompts.
type state struct {
	step            Step
	address         string
	portfolioName   string
	portfolioSymbol string
	condition       types.Condition
}

// Completed is the fully-specified alert handed off when the flow finishes.
type Completed struct {
	Address         string
	PortfolioName   string
	PortfolioSymbol string
	Condition       types.Condition
	Threshold       float64
}

// Manager owns the live conversation of each chat.
type Manager struct {
	mu      sync.Mutex
	pending map[int64]*state
}

func NewManager() *Manager {
	return &Manager{pending: make(map[int64]*state)}
}

// Begin starts a fresh conversation waiting for a free-text address. Any
// prior incomplete conversation for the chat is discarded.
func (m *Manager) Begin(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[chatID] = &state{step: StepAddress}
}

// Cancel destroys the chat's conversation, reporting whether one existed.
func (m *Manager) Cancel(chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, found := m.pending[chatID]
	delete(m.pending, chatID)
	return found
}

// Step returns the current step for the chat, if a conversation is live.
func (m *Manager) Step(chatID int64) (Step, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, found := m.pending[chatID]
	if !found {
		return 0, false
	}
	return s.step, true
}

// SubmitAddress validates a free-text address while the conversation waits
// at StepAddress. A validation failure destroys the conversation and the
// error message is shown to the user verbatim. On success the caller is
// expected to resolve portfolio details and call PortfolioResolved.
func (m *Manager) SubmitAddress(chatID int64, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, found := m.pending[chatID]
	if !found || s.step != StepAddress {
		return "", errors.New("no address expected")
	}

	address := strings.TrimSpace(text)
	if err := types.ValidatePortfolioAddress(address); err != nil {
		delete(m.pending, chatID)
		return "", err
	}
	return address, nil
}

// PortfolioResolved records the resolved portfolio and advances to the
// condition step. It also covers the saved-portfolio short-circuit, where
// no conversation exists yet because the address came from a keyboard
// choice instead of free text.
func (m *Manager) PortfolioResolved(chatID int64, address, name, symbol string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending[chatID] = &state{
		step:            StepCondition,
		address:         address,
		portfolioName:   name,
		portfolioSymbol: symbol,
	}
}

// Fail destroys the chat's conversation after an internal error. The user
// must restart the flow.
func (m *Manager) Fail(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, chatID)
	log.Debugf("conversation for chat %d destroyed", chatID)
}

// ChooseCondition stores the direction carried by the choice event and
// advances to the threshold step.
func (m *Manager) ChooseCondition(chatID int64, address string, condition types.Condition) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, found := m.pending[chatID]
	if !found {
		return false
	}

	s.step = StepThreshold
	s.address = address
	s.condition = condition
	return true
}

// SubmitThreshold parses and validates the threshold answer. Success and
// failure both destroy the conversation; on success the completed alert
// specification is returned for the caller to register.
func (m *Manager) SubmitThreshold(chatID int64, text string) (*Completed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, found := m.pending[chatID]
	if !found || s.step != StepThreshold {
		return nil, errors.New("no threshold expected")
	}
	delete(m.pending, chatID)

	threshold, err := ParseThreshold(text)
	if err != nil {
		return nil, err
	}

	return &Completed{
		Address:         s.address,
		PortfolioName:   s.portfolioName,
		PortfolioSymbol: s.portfolioSymbol,
		Condition:       s.condition,
		Threshold:       threshold,
	}, nil
}

// ParseThreshold validates a threshold answer: numeric, greater than 0, at
// most 1000.
func ParseThreshold(text string) (float64, error) {
	threshold, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, errors.New("Please enter a valid number")
	}
	if threshold <= 0 {
		return 0, errors.New("Threshold must be greater than 0")
	}
	if threshold > 1000 {
		return 0, errors.New("Threshold must be less than 1000%")
	}
	return threshold, nil
}
