// Package oracle implements the Gas & Price Oracle: CoinGecko-backed token
// USD pricing with a swap-probe fallback, and per-chain gas price tiers
// with a static fallback table, grounded on the teacher's
// clients/defi_client.go and clients/gas_price_client.go.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"crossfund/internal/cache"
	"crossfund/internal/chain"
)

// SwapProbe issues a 1-unit quote of a token into USDC on the same chain,
// used as a last-resort price source when CoinGecko has no listing. The
// Quote Service implements this (it already knows how to call adapters);
// the oracle depends on the interface to avoid an import cycle.
type SwapProbe interface {
	ProbeUsdcValue(ctx context.Context, chainID uint64, tokenAddress string, decimals int) (float64, error)
}

// PriceOracle resolves a token's USD unit price.
type PriceOracle struct {
	httpClient *http.Client
	probe      SwapProbe
}

// NewPriceOracle builds a PriceOracle. probe may be nil; callers without a
// quote service wired up simply lose the swap-probe fallback tier.
func NewPriceOracle(probe SwapProbe) *PriceOracle {
	return &PriceOracle{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		probe:      probe,
	}
}

// GetTokenPriceUsd resolves a token's USD unit price: cache, then
// CoinGecko's per-chain token_price endpoint, then the swap-probe
// fallback. USDC's own price is defined as 1.0. Total failure degrades to
// 0 rather than erroring (spec §4.3).
func (o *PriceOracle) GetTokenPriceUsd(ctx context.Context, chainID uint64, tokenAddress string, decimals int) float64 {
	if chain.IsNative(tokenAddress) {
		info, cerr := chain.Global.Get(chainID)
		if cerr == nil {
			return o.GetTokenPriceUsd(ctx, chainID, info.WETHAddress, 18)
		}
	}

	if usdc, cerr := chain.Global.USDC(chainID); cerr == nil && chain.Equal(usdc, tokenAddress) {
		return 1.0
	}

	key := cache.PriceKey(chainID, tokenAddress)
	if price, ok := cache.Prices.Get(key); ok {
		return price
	}

	if price, ok := o.fetchCoingeckoPrice(ctx, chainID, tokenAddress); ok {
		cache.Prices.Set(key, price)
		return price
	}

	if o.probe != nil {
		if price, err := o.probe.ProbeUsdcValue(ctx, chainID, tokenAddress, decimals); err == nil && price > 0 {
			cache.Prices.Set(key, price)
			return price
		}
	}

	return 0
}

type coingeckoTokenPriceResponse map[string]map[string]float64

func (o *PriceOracle) fetchCoingeckoPrice(ctx context.Context, chainID uint64, tokenAddress string) (float64, bool) {
	info, cerr := chain.Global.Get(chainID)
	if cerr != nil || info.CoingeckoSlug == "" {
		return 0, false
	}

	url := fmt.Sprintf(
		"https://api.coingecko.com/api/v3/simple/token_price/%s?contract_addresses=%s&vs_currencies=usd",
		info.CoingeckoSlug, strings.ToLower(tokenAddress),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, false
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return 0, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, false
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, false
	}
	var parsed coingeckoTokenPriceResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, false
	}
	entry, ok := parsed[strings.ToLower(tokenAddress)]
	if !ok {
		return 0, false
	}
	price, ok := entry["usd"]
	return price, ok
}
