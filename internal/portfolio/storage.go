package portfolio

import (
	"sort"
	"sync"
	"time"

	"velvet-portfolio-bot/internal/types"

	log "github.com/sirupsen/logrus"
)

// Storage remembers analyzed portfolios per chat, so later commands can
// offer them as keyboard choices instead of asking for the address again.
// Process-memory only.
type Storage struct {
	mu      sync.RWMutex
	perChat map[int64]map[string]types.SavedPortfolio
}

func NewStorage() *Storage {
	return &Storage{perChat: make(map[int64]map[string]types.SavedPortfolio)}
}

// Save stores or refreshes a portfolio for the chat.
func (s *Storage) Save(chatID int64, address string, p types.Portfolio) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.perChat[chatID] == nil {
		s.perChat[chatID] = make(map[string]types.SavedPortfolio)
	}
	s.perChat[chatID][address] = types.SavedPortfolio{
		Address:   address,
		Portfolio: p,
		SavedAt:   time.Now(),
	}
	log.Infof("portfolio saved for chat %d: %s", chatID, address)
}

// Remove deletes one saved portfolio, reporting whether it existed.
func (s *Storage) Remove(chatID int64, address string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	portfolios, found := s.perChat[chatID]
	if !found {
		return false
	}
	if _, found := portfolios[address]; !found {
		return false
	}
	delete(portfolios, address)
	if len(portfolios) == 0 {
		delete(s.perChat, chatID)
	}
	return true
}

// List returns the chat's saved portfolios, oldest first.
func (s *Storage) List(chatID int64) []types.SavedPortfolio {
	s.mu.RLock()
	defer s.mu.RUnlock()

	portfolios := s.perChat[chatID]
	list := make([]types.SavedPortfolio, 0, len(portfolios))
	for _, p := range portfolios {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].SavedAt.Before(list[j].SavedAt)
	})
	return list
}

// IsSaved reports whether the chat already saved the address.
func (s *Storage) IsSaved(chatID int64, address string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, found := s.perChat[chatID][address]
	return found
}
