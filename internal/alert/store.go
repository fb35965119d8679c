package alert

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"velvet-portfolio-bot/internal/types"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Store is the in-memory alert registry. Alerts live in buckets keyed by
// "chatID:portfolioAddress"; mutations come from both the chat command path
// and the periodic checker, so every operation takes the lock.
type Store struct {
	mu      sync.Mutex
	buckets map[string][]types.Alert
}

// Bucket is one (chat, portfolio) group of alerts as seen by the checker.
type Bucket struct {
	ChatID           int64
	PortfolioAddress string
	Alerts           []types.Alert
}

func NewStore() *Store {
	return &Store{buckets: make(map[string][]types.Alert)}
}

func bucketKey(chatID int64, portfolioAddress string) string {
	return fmt.Sprintf("%d:%s", chatID, portfolioAddress)
}

// Add registers a new alert and returns its id. Validation is the caller's
// responsibility.
func (s *Store) Add(chatID int64, portfolioAddress string, threshold float64, condition types.Condition) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := types.Alert{
		ID:               uuid.NewString(),
		ChatID:           chatID,
		PortfolioAddress: portfolioAddress,
		Threshold:        threshold,
		Condition:        condition,
		CreatedAt:        time.Now(),
	}

	key := bucketKey(chatID, portfolioAddress)
	s.buckets[key] = append(s.buckets[key], record)

	log.Infof("alert set for %s %s %g%%", portfolioAddress, condition.Word(), threshold)
	return record.ID
}

// Remove deletes one alert by id. The last removal in a bucket deletes the
// bucket itself.
func (s *Store) Remove(chatID int64, portfolioAddress, alertID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := bucketKey(chatID, portfolioAddress)
	alerts, found := s.buckets[key]
	if !found {
		return false
	}

	for i, a := range alerts {
		if a.ID == alertID {
			s.buckets[key] = append(alerts[:i], alerts[i+1:]...)
			if len(s.buckets[key]) == 0 {
				delete(s.buckets, key)
			}
			return true
		}
	}
	return false
}

// RemoveAll deletes every alert of one chat and returns the count removed.
func (s *Store) RemoveAll(chatID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := fmt.Sprintf("%d:", chatID)
	count := 0
	for key, alerts := range s.buckets {
		if strings.HasPrefix(key, prefix) {
			count += len(alerts)
			delete(s.buckets, key)
		}
	}
	return count
}

// List returns all alerts of one chat, ascending by threshold.
func (s *Store) List(chatID int64) []types.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := fmt.Sprintf("%d:", chatID)
	var alerts []types.Alert
	for key, bucket := range s.buckets {
		if strings.HasPrefix(key, prefix) {
			alerts = append(alerts, bucket...)
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Threshold < alerts[j].Threshold
	})
	return alerts
}

// Snapshot returns a deep copy of every bucket for one checker tick. The
// checker evaluates against the copy and removes fired alerts by id, so a
// concurrent user removal can never double-fire.
func (s *Store) Snapshot() []Bucket {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]Bucket, 0, len(s.buckets))
	for _, alerts := range s.buckets {
		if len(alerts) == 0 {
			continue
		}
		copied := make([]types.Alert, len(alerts))
		copy(copied, alerts)
		snapshot = append(snapshot, Bucket{
			ChatID:           alerts[0].ChatID,
			PortfolioAddress: alerts[0].PortfolioAddress,
			Alerts:           copied,
		})
	}
	return snapshot
}

// Count returns the total number of stored alerts across all chats.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, alerts := range s.buckets {
		total += len(alerts)
	}
	return total
}
