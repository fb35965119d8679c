package portfolio

import (
	"context"
	"sync"

	"velvet-portfolio-bot/internal/returns"
	"velvet-portfolio-bot/internal/types"
	"velvet-portfolio-bot/internal/velvet"
	"velvet-portfolio-bot/lib/helpers"

	log "github.com/sirupsen/logrus"
)

// tvlChain is the chain prefix the upstream TVL endpoint expects. The
// upstream aggregates TVL under bsc regardless of the portfolio's own chain.
const tvlChain = "bsc"

// Details is the aggregated view shown by /portfolio.
type Details struct {
	types.Portfolio
	TVL     string
	NAV     string // empty when returns could not be computed
	Returns string // empty when returns could not be computed
}

// Service aggregates portfolio details, TVL and all-time returns.
type Service struct {
	client  *velvet.Client
	fetcher *returns.Fetcher
}

func NewService(client *velvet.Client, fetcher *returns.Fetcher) *Service {
	return &Service{client: client, fetcher: fetcher}
}

// Portfolio resolves name, symbol and chain for an address.
func (s *Service) Portfolio(ctx context.Context, address string) (*types.Portfolio, error) {
	return s.client.GetPortfolio(ctx, address)
}

// Details fetches the three upstream views in parallel. Details and TVL are
// required; a returns failure only blanks the NAV/Returns fields.
func (s *Service) Details(ctx context.Context, address string) (*Details, error) {
	var (
		wg         sync.WaitGroup
		p          *types.Portfolio
		tvlRaw     string
		ret        *returns.Result
		detailsErr error
		tvlErr     error
		retErr     error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		p, detailsErr = s.client.GetPortfolio(ctx, address)
	}()
	go func() {
		defer wg.Done()
		tvlRaw, tvlErr = s.client.GetTVL(ctx, tvlChain, address)
	}()
	go func() {
		defer wg.Done()
		ret, retErr = s.fetcher.WithScale(ctx, address, types.ScaleAll)
	}()
	wg.Wait()

	if detailsErr != nil {
		return nil, detailsErr
	}
	if tvlErr != nil {
		return nil, tvlErr
	}

	d := &Details{
		Portfolio: *p,
		TVL:       helpers.FormatCurrency(helpers.FromWei(tvlRaw)),
	}
	if retErr != nil {
		log.Debugf("returns unavailable for %s: %v", address, retErr)
	} else {
		d.NAV = ret.NAV
		d.Returns = ret.Returns
	}
	return d, nil
}
