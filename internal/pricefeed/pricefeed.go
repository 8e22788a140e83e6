// Package pricefeed fetches the current price of the tracked token in SOL.
//
// Two public feeds are supported: the Jupiter price API (primary) and
// DexScreener (fallback). Both are treated as unreliable collaborators; any
// failure is reported as ErrUnavailable and the caller skips the cycle.
package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dipbuyer/internal/logger"
)

// ErrUnavailable classifies every price fetch failure: network error,
// non-200 status, malformed body or a feed that does not know the token.
var ErrUnavailable = errors.New("price unavailable")

// WSOLMint is the wrapped-SOL mint used as the quote asset on every feed.
const WSOLMint = "So11111111111111111111111111111111111111112"

// Source returns the current price of one token denominated in SOL.
type Source interface {
	Name() string
	Current(ctx context.Context) (float64, error)
}

const fetchTimeout = 10 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: fetchTimeout}
}

// Jupiter queries the Jupiter price API v2 for the token quoted in WSOL.
type Jupiter struct {
	baseURL string
	mint    string
	client  *http.Client
}

// NewJupiter builds a Jupiter source for a token mint. baseURL is the API
// root, e.g. "https://api.jup.ag/price/v2".
func NewJupiter(baseURL, mint string) *Jupiter {
	return &Jupiter{baseURL: baseURL, mint: mint, client: newHTTPClient()}
}

func (j *Jupiter) Name() string { return "jupiter" }

// Current implements Source.
//
// Response shape: {"data": {"<mint>": {"price": "0.0000012"}}}. Prices come
// back as decimal strings.
func (j *Jupiter) Current(ctx context.Context) (float64, error) {
	u := fmt.Sprintf("%s?ids=%s&vsToken=%s", j.baseURL, url.QueryEscape(j.mint), WSOLMint)

	var body struct {
		Data map[string]struct {
			Price string `json:"price"`
		} `json:"data"`
	}
	if err := getJSON(ctx, j.client, u, &body); err != nil {
		return 0, fmt.Errorf("%w: jupiter: %v", ErrUnavailable, err)
	}

	entry, ok := body.Data[j.mint]
	if !ok || entry.Price == "" {
		return 0, fmt.Errorf("%w: jupiter has no quote for %s", ErrUnavailable, j.mint)
	}
	price, err := strconv.ParseFloat(entry.Price, 64)
	if err != nil || price <= 0 {
		return 0, fmt.Errorf("%w: jupiter returned bad price %q", ErrUnavailable, entry.Price)
	}
	return price, nil
}

// DexScreener queries the DexScreener token endpoint and reads priceNative
// (price in SOL) from the first listed pair.
type DexScreener struct {
	baseURL string
	mint    string
	client  *http.Client
}

// NewDexScreener builds a DexScreener source for a token mint. baseURL is
// the API root, e.g. "https://api.dexscreener.com".
func NewDexScreener(baseURL, mint string) *DexScreener {
	return &DexScreener{baseURL: baseURL, mint: mint, client: newHTTPClient()}
}

func (d *DexScreener) Name() string { return "dexscreener" }

// Current implements Source.
func (d *DexScreener) Current(ctx context.Context) (float64, error) {
	u := fmt.Sprintf("%s/latest/dex/tokens/%s", d.baseURL, url.PathEscape(d.mint))

	var body struct {
		Pairs []struct {
			PriceNative string `json:"priceNative"`
		} `json:"pairs"`
	}
	if err := getJSON(ctx, d.client, u, &body); err != nil {
		return 0, fmt.Errorf("%w: dexscreener: %v", ErrUnavailable, err)
	}

	if len(body.Pairs) == 0 {
		return 0, fmt.Errorf("%w: dexscreener lists no pairs for %s", ErrUnavailable, d.mint)
	}
	price, err := strconv.ParseFloat(body.Pairs[0].PriceNative, 64)
	if err != nil || price <= 0 {
		return 0, fmt.Errorf("%w: dexscreener returned bad price %q", ErrUnavailable, body.Pairs[0].PriceNative)
	}
	return price, nil
}

// Chain tries each source in order and returns the first price obtained.
// A source failure is logged and the next source is consulted; when all
// sources fail the cycle is skipped upstream.
type Chain struct {
	sources []Source
}

// NewChain builds a Chain from an ordered source list.
func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

func (c *Chain) Name() string { return "chain" }

// Current implements Source over the whole chain.
func (c *Chain) Current(ctx context.Context) (float64, error) {
	for _, s := range c.sources {
		price, err := s.Current(ctx)
		if err == nil {
			return price, nil
		}
		logger.L().Warn().Str("source", s.Name()).Err(err).Msg("price source failed")
	}
	return 0, fmt.Errorf("%w: all sources failed", ErrUnavailable)
}

// getJSON performs a GET and decodes a JSON body, enforcing a 200 status.
func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "dipbuyer/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
