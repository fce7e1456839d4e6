package oracle

import (
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"time"

	"crossfund/internal/cache"
	"crossfund/internal/chain"
	"crossfund/internal/types"
)

// GasOracle resolves per-chain gas price tiers, falling back to a static
// table when the real per-chain gas tracker is unreachable.
type GasOracle struct {
	httpClient *http.Client
	prices     *PriceOracle
}

func NewGasOracle(prices *PriceOracle) *GasOracle {
	return &GasOracle{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		prices:     prices,
	}
}

// staticGwei is the fallback slow/standard/fast gwei table per chain,
// mirroring the teacher's per-chain fallback strings ("5 gwei", "30
// gwei", "10 gwei", ...).
var staticGwei = map[uint64][3]float64{
	1:     {15, 30, 45},
	56:    {3, 5, 8},
	137:   {30, 50, 80},
	42161: {0.05, 0.1, 0.2},
	10:    {0.0005, 0.001, 0.002},
	8453:  {0.002, 0.005, 0.01},
	43114: {20, 25, 35},
	324:   {0.1, 0.25, 0.5},
	250:   {20, 40, 80},
	100:   {1, 2, 4},
	59144: {0.05, 0.1, 0.3},
}

// GetGasPrices resolves a chain's gas price tiers: cache, then a live
// per-chain gas tracker, then the static fallback table.
func (o *GasOracle) GetGasPrices(ctx context.Context, chainID uint64) *types.GasPrices {
	if cached, ok := cache.Gas.Get(cache.GasKey(chainID)); ok {
		return cached
	}

	gp := o.buildFromLive(ctx, chainID)
	if gp == nil {
		gp = o.buildFromStatic(chainID)
	}
	cache.Gas.Set(cache.GasKey(chainID), gp)
	return gp
}

// buildFromLive attempts Etherscan-family gas tracker APIs for the chains
// that have one; other chains return nil and fall through to the static
// table (the teacher only wired Ethereum/BSC/Polygon to a live tracker,
// Arbitrum/Optimism were hardcoded low-fee constants).
func (o *GasOracle) buildFromLive(ctx context.Context, chainID uint64) *types.GasPrices {
	url, ok := gasTrackerURL[chainID]
	if !ok {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	var parsed etherscanGasOracleResponse
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Status != "1" {
		return nil
	}
	slow := parseGwei(parsed.Result.SafeGasPrice)
	standard := parseGwei(parsed.Result.ProposeGasPrice)
	fast := parseGwei(parsed.Result.FastGasPrice)
	if slow == 0 && standard == 0 && fast == 0 {
		return nil
	}
	return o.buildTiers(chainID, slow, standard, fast)
}

var gasTrackerURL = map[uint64]string{
	1:   "https://api.etherscan.io/api?module=gastracker&action=gasoracle",
	56:  "https://api.bscscan.com/api?module=gastracker&action=gasoracle",
	137: "https://api.polygonscan.com/api?module=gastracker&action=gasoracle",
}

type etherscanGasOracleResponse struct {
	Status string `json:"status"`
	Result struct {
		SafeGasPrice    string `json:"SafeGasPrice"`
		ProposeGasPrice string `json:"ProposeGasPrice"`
		FastGasPrice    string `json:"FastGasPrice"`
	} `json:"result"`
}

func parseGwei(s string) float64 {
	f := new(big.Float)
	if _, ok := f.SetString(s); !ok {
		return 0
	}
	v, _ := f.Float64()
	return v
}

func (o *GasOracle) buildFromStatic(chainID uint64) *types.GasPrices {
	tiers, ok := staticGwei[chainID]
	if !ok {
		tiers = [3]float64{10, 20, 30}
	}
	return o.buildTiers(chainID, tiers[0], tiers[1], tiers[2])
}

func (o *GasOracle) buildTiers(chainID uint64, slowGwei, standardGwei, fastGwei float64) *types.GasPrices {
	info, cerr := chain.Global.Get(chainID)
	supportsEIP1559 := cerr == nil && info.SupportsEIP1559

	nativePrice := 0.0
	if o.prices != nil && cerr == nil {
		nativePrice = o.prices.GetTokenPriceUsd(context.Background(), chainID, chain.NativeSentinel, 18)
	}

	return &types.GasPrices{
		ChainID:             chainID,
		Slow:                buildTier(slowGwei, 120, supportsEIP1559),
		Standard:            buildTier(standardGwei, 30, supportsEIP1559),
		Fast:                buildTier(fastGwei, 15, supportsEIP1559),
		NativeTokenPriceUsd: nativePrice,
	}
}

func buildTier(gwei float64, estimatedSeconds int, eip1559 bool) types.GasTier {
	gasPrice := gweiToWei(gwei)
	tier := types.GasTier{
		GasPrice:         gasPrice,
		EstimatedSeconds: estimatedSeconds,
	}
	if eip1559 {
		tier.MaxFeePerGas = gweiToWei(gwei * 1.5)
		priority := gwei * 0.1
		if priority < 1 {
			priority = 1
		}
		if priority > 2 {
			priority = 2
		}
		tier.MaxPriorityFeePerGas = gweiToWei(priority)
	}
	return tier
}

func gweiToWei(gwei float64) *big.Int {
	f := new(big.Float).Mul(big.NewFloat(gwei), big.NewFloat(1e9))
	out, _ := f.Int(nil)
	return out
}

// GasCostUsd computes (gasLimit * gasPrice) / 1e18 * nativeTokenPriceUsd,
// the formula in spec §4.3.
func GasCostUsd(gasLimit uint64, gasPriceWei *big.Int, nativeTokenPriceUsd float64) float64 {
	if gasPriceWei == nil {
		return 0
	}
	cost := new(big.Float).Mul(
		new(big.Float).SetUint64(gasLimit),
		new(big.Float).SetInt(gasPriceWei),
	)
	cost.Quo(cost, big.NewFloat(1e18))
	cost.Mul(cost, big.NewFloat(nativeTokenPriceUsd))
	out, _ := cost.Float64()
	return out
}
