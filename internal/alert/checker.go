package alert

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"velvet-portfolio-bot/internal/returns"
	"velvet-portfolio-bot/internal/types"
	"velvet-portfolio-bot/lib/helpers"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const portfolioBaseURL = "https://app.velvet.capital/portfolio"

// ReturnSource computes the current return for a portfolio. Implemented by
// returns.Fetcher.
type ReturnSource interface {
	WithScale(ctx context.Context, address string, scale types.Scale) (*returns.Result, error)
}

// Notifier delivers a triggered-alert message to a chat. Implemented by the
// telegram transport.
type Notifier interface {
	SendAlert(chatID int64, text, portfolioLink string) error
}

// Checker evaluates every stored alert on a fixed cadence and fires
// notifications for satisfied conditions. Fired alerts are removed.
type Checker struct {
	store    *Store
	source   ReturnSource
	notifier Notifier
	interval time.Duration

	mu   sync.Mutex
	cron *cron.Cron

	// OnFired, when set, is called once per fired alert.
	OnFired func()
}

func NewChecker(store *Store, source ReturnSource, notifier Notifier, interval time.Duration) *Checker {
	return &Checker{
		store:    store,
		source:   source,
		notifier: notifier,
		interval: interval,
	}
}

// Start schedules the periodic check. Any previously scheduled timer is
// stopped first, so restarting never leaves two active timers.
func (c *Checker) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cron != nil {
		c.cron.Stop()
	}

	c.cron = cron.New()
	if _, err := c.cron.AddFunc(fmt.Sprintf("@every %s", c.interval), c.CheckAlerts); err != nil {
		log.Errorf("failed to schedule alert check: %v", err)
		return
	}
	c.cron.Start()
	log.Infof("alert checker started with %s interval", c.interval)
}

// Stop halts the schedule. An in-flight tick finishes but is not
// rescheduled.
func (c *Checker) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cron == nil {
		return
	}
	c.cron.Stop()
	c.cron = nil
	log.Info("alert checker stopped")
}

// CheckAlerts runs one evaluation pass over every stored bucket. Buckets
// are independent and evaluated concurrently; a failure in one never aborts
// the others.
func (c *Checker) CheckAlerts() {
	buckets := c.store.Snapshot()
	if len(buckets) == 0 {
		return
	}
	log.Debugf("checking %d alert buckets", len(buckets))

	var wg sync.WaitGroup
	for _, bucket := range buckets {
		wg.Add(1)
		go func(bucket Bucket) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("panic checking alerts for %s: %v", bucket.PortfolioAddress, r)
				}
			}()
			c.checkBucket(bucket)
		}(bucket)
	}
	wg.Wait()
}

// checkBucket fetches the current all-time return once per bucket and
// evaluates every alert in it against that value.
func (c *Checker) checkBucket(bucket Bucket) {
	result, err := c.source.WithScale(context.Background(), bucket.PortfolioAddress, types.ScaleAll)
	if err != nil {
		log.Warnf("skipping alert check for %s: %v", bucket.PortfolioAddress, err)
		return
	}

	current, err := strconv.ParseFloat(result.Returns, 64)
	if err != nil {
		log.Warnf("unparsable return %q for %s", result.Returns, bucket.PortfolioAddress)
		return
	}

	for _, a := range bucket.Alerts {
		if !conditionMet(current, a) {
			continue
		}

		link := fmt.Sprintf("%s/%s", portfolioBaseURL, bucket.PortfolioAddress)
		if err := c.notifier.SendAlert(a.ChatID, triggeredMessage(current, a), link); err != nil {
			log.Errorf("failed to send alert notification to chat %d: %v", a.ChatID, err)
		}

		c.store.Remove(a.ChatID, a.PortfolioAddress, a.ID)
		if c.OnFired != nil {
			c.OnFired()
		}
	}
}

func conditionMet(current float64, a types.Alert) bool {
	if a.Condition == types.ConditionAbove {
		return current >= a.Threshold
	}
	return current <= a.Threshold
}

func triggeredMessage(current float64, a types.Alert) string {
	direction := "risen above"
	if a.Condition == types.ConditionBelow {
		direction = "fallen below"
	}

	sign := ""
	if current >= 0 {
		sign = "+"
	}

	return fmt.Sprintf(
		"🚨 *Return Alert Triggered\\!*\n\n"+
			"📈 Portfolio return has %s your target\\!\n\n"+
			"• Current Return: *%s%s%%*\n"+
			"• Target: %s%%",
		direction,
		sign,
		helpers.EscapeMarkdownV2(strconv.FormatFloat(current, 'f', 2, 64)),
		helpers.EscapeMarkdownV2(strconv.FormatFloat(a.Threshold, 'f', -1, 64)),
	)
}
