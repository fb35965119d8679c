package returns

import (
	"context"
	"sync"

	"velvet-portfolio-bot/internal/types"
	"velvet-portfolio-bot/internal/velvet"
	"velvet-portfolio-bot/lib/helpers"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// ErrInsufficientData means the time series is too short, or holds no
// usable non-zero samples, for the selected scale.
var ErrInsufficientData = errors.New("insufficient data to calculate returns")

// GraphClient is the subset of the upstream client the fetcher needs.
type GraphClient interface {
	GetPortfolio(ctx context.Context, address string) (*types.Portfolio, error)
	GetGraph(ctx context.Context, address string, scale types.Scale, chain string) ([]velvet.GraphPoint, error)
}

// Result is the computed return for one portfolio over one scale.
type Result struct {
	Returns         string // percentage, 2 decimals, e.g. "50.00"
	NAV             string
	FirstTimestamp  int64
	LatestTimestamp int64
}

// ScaleReturns is the all-scales summary for one portfolio. Entries are nil
// for scales whose fetch failed.
type ScaleReturns struct {
	Returns map[types.Scale]*string
	NAV     string
}

// Fetcher computes time-scaled percentage returns from index-rate series.
type Fetcher struct {
	client GraphClient
}

func NewFetcher(client GraphClient) *Fetcher {
	return &Fetcher{client: client}
}

// WithScale computes the return percentage and NAV for one time scale.
// The chain is resolved via the portfolio details endpoint because the graph
// endpoint needs chain context.
func (f *Fetcher) WithScale(ctx context.Context, address string, scale types.Scale) (*Result, error) {
	p, err := f.client.GetPortfolio(ctx, address)
	if err != nil {
		return nil, err
	}

	points, err := f.client.GetGraph(ctx, address, scale, p.ChainName)
	if err != nil {
		return nil, err
	}

	if len(points) < 2 {
		return nil, ErrInsufficientData
	}

	first := firstNonZero(points)
	latest := points[len(points)-1]
	if first == nil {
		return nil, ErrInsufficientData
	}

	pct, err := calculateReturns(first.Metadata.IndexRate, latest.Metadata.IndexRate)
	if err != nil {
		return nil, err
	}

	return &Result{
		Returns:         pct,
		NAV:             helpers.FormatNAV(helpers.FromWei(latest.Metadata.IndexRate)),
		FirstTimestamp:  first.Timestamp,
		LatestTimestamp: latest.Timestamp,
	}, nil
}

// AllScales computes returns for every supported scale concurrently. The NAV
// comes from the first successful scale in display order; it fails only when
// every scale fails.
func (f *Fetcher) AllScales(ctx context.Context, address string) (*ScaleReturns, error) {
	results := make([]*Result, len(types.AllScales))

	var wg sync.WaitGroup
	for i, scale := range types.AllScales {
		wg.Add(1)
		go func(i int, scale types.Scale) {
			defer wg.Done()
			res, err := f.WithScale(ctx, address, scale)
			if err != nil {
				log.Debugf("returns for %s scale %s: %v", address, scale, err)
				return
			}
			results[i] = res
		}(i, scale)
	}
	wg.Wait()

	summary := &ScaleReturns{Returns: make(map[types.Scale]*string, len(types.AllScales))}
	for i, scale := range types.AllScales {
		if results[i] == nil {
			summary.Returns[scale] = nil
			continue
		}
		pct := results[i].Returns
		summary.Returns[scale] = &pct
		if summary.NAV == "" {
			summary.NAV = results[i].NAV
		}
	}

	if summary.NAV == "" {
		return nil, errors.New("failed to fetch returns data")
	}
	return summary, nil
}

// firstNonZero returns the earliest sample with a present, non-zero index
// rate, or nil when the whole series is zero.
func firstNonZero(points []velvet.GraphPoint) *velvet.GraphPoint {
	for i := range points {
		rate := points[i].Metadata.IndexRate
		if rate != "" && rate != "0" {
			return &points[i]
		}
	}
	return nil
}

// calculateReturns computes (last-first)/first*100 in decimal arithmetic,
// rounded to 2 decimal places.
func calculateReturns(first, last string) (string, error) {
	firstRate, err := decimal.NewFromString(first)
	if err != nil {
		return "", errors.Wrap(velvet.ErrInvalidData, "bad first index rate")
	}
	lastRate, err := decimal.NewFromString(last)
	if err != nil {
		return "", errors.Wrap(velvet.ErrInvalidData, "bad latest index rate")
	}
	if firstRate.IsZero() {
		return "", ErrInsufficientData
	}

	return lastRate.Sub(firstRate).
		Div(firstRate).
		Mul(decimal.NewFromInt(100)).
		StringFixed(2), nil
}
