package velvet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"velvet-portfolio-bot/internal/types"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrNotFound means the portfolio address is unknown upstream.
	ErrNotFound = errors.New("portfolio not found")
	// ErrInvalidData means the upstream response was not in the expected shape.
	ErrInvalidData = errors.New("invalid upstream response")
)

// GraphPoint is one index-rate sample of a portfolio time series.
type GraphPoint struct {
	Timestamp int64 `json:"timestamp"`
	Metadata  struct {
		IndexRate string `json:"indexRate"`
	} `json:"metadata"`
}

// Client talks to the Velvet analytics REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *ttlCache
}

// NewClient creates an API client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: newTTLCache(time.Minute),
	}
}

type portfolioEnvelope struct {
	Data *types.Portfolio `json:"data"`
}

type tvlEnvelope struct {
	Data []struct {
		TotalValueLiquidity string `json:"totalValueLiquidity"`
	} `json:"data"`
}

type graphEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// GetPortfolio fetches name, symbol, creator and chain for a portfolio.
func (c *Client) GetPortfolio(ctx context.Context, address string) (*types.Portfolio, error) {
	endpoint := fmt.Sprintf("%s/portfolio/%s", c.baseURL, address)

	var envelope portfolioEnvelope
	if err := c.getJSON(ctx, endpoint, &envelope); err != nil {
		return nil, err
	}

	if envelope.Data == nil || envelope.Data.ChainName == "" {
		return nil, ErrNotFound
	}
	return envelope.Data, nil
}

// GetTVL fetches the raw totalValueLiquidity for a portfolio, in wei units.
func (c *Client) GetTVL(ctx context.Context, chain, address string) (string, error) {
	params := url.Values{}
	params.Set("portfolios", fmt.Sprintf("%s:%s", chain, address))
	params.Set("kind", "tvl")
	endpoint := fmt.Sprintf("%s/portfolio/details?%s", c.baseURL, params.Encode())

	var envelope tvlEnvelope
	if err := c.getJSON(ctx, endpoint, &envelope); err != nil {
		return "", err
	}

	if len(envelope.Data) == 0 || envelope.Data[0].TotalValueLiquidity == "" {
		return "", errors.Wrap(ErrNotFound, "no TVL data for portfolio")
	}
	return envelope.Data[0].TotalValueLiquidity, nil
}

// GetGraph fetches the index-rate time series for the given scale.
func (c *Client) GetGraph(ctx context.Context, address string, scale types.Scale, chain string) ([]GraphPoint, error) {
	params := url.Values{}
	params.Set("portfolio", address)
	params.Set("scale", string(scale))
	params.Set("chain", chain)
	endpoint := fmt.Sprintf("%s/portfolio/graph?%s", c.baseURL, params.Encode())

	var envelope graphEnvelope
	if err := c.getJSON(ctx, endpoint, &envelope); err != nil {
		return nil, err
	}

	var points []GraphPoint
	if err := json.Unmarshal(envelope.Data, &points); err != nil {
		return nil, errors.Wrap(ErrInvalidData, "graph data is not a list")
	}
	return points, nil
}

// getJSON performs a cached GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	if body, found := c.cache.get(endpoint); found {
		log.Debugf("cache hit for %s", endpoint)
		return json.Unmarshal(body, out)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "could not build upstream request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "upstream request failed: %s", endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(ErrInvalidData, "unexpected upstream status %d", resp.StatusCode)
	}

	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return errors.Wrap(ErrInvalidData, err.Error())
	}

	c.cache.set(endpoint, body)
	return json.Unmarshal(body, out)
}
