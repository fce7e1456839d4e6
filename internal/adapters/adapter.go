// Package adapters implements the seven Aggregator Adapters: one per
// upstream DEX/bridge aggregator (0x, 1inch, Paraswap, Odos, KyberSwap,
// Socket, LiFi). Each builds an upstream request, parses the response,
// and emits a common IntermediateQuote shape, grounded on the teacher's
// clients/lifi_client.go request/response pattern.
package adapters

import (
	"context"
	"math/big"
	"net/http"
	"time"

	"crossfund/internal/errs"
	"crossfund/internal/types"
)

// IntermediateQuote is what every adapter emits before the Quote Service
// normalizes it into a canonical SwapQuote.
type IntermediateQuote struct {
	OutputAmount         *big.Int
	EstimatedGas         uint64
	PriceImpactPct       float64
	TxData               *types.TxData
	BridgeUsed           string
	EstimatedTimeSeconds int
}

// Adapter is the capability every aggregator implements.
type Adapter interface {
	Name() string
	Type() types.ProtocolType
	SupportsChain(chainID uint64) bool
	Quote(ctx context.Context, req types.QuoteRequest) (*IntermediateQuote, error)
}

// APIKeys holds the optional per-adapter API keys read once from
// environment at process start (spec §6 "Environment variables").
type APIKeys struct {
	ZeroX     string
	OneInch   string
	Socket    string
	LiFi      string
}

const defaultHTTPTimeout = 30 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultHTTPTimeout}
}

// classifyResponse turns a non-2xx HTTP response into a closed errs.Error,
// shared by every adapter's request path.
func classifyResponse(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	if e := errs.ClassifyHTTPStatus(statusCode, string(body)); e != nil {
		return e
	}
	return errs.ApiError(statusCode, string(body))
}

// Registry returns all seven adapters, unfiltered. Eligible picks the
// ones that apply to a given request (dex-aggregators for same-chain
// swaps, bridge-aggregators for cross-chain ones, filtered by chain
// support), per spec §4.5 "Adapter selection".
func Registry(keys APIKeys) []Adapter {
	return []Adapter{
		NewZeroX(keys.ZeroX),
		NewOneInch(keys.OneInch),
		NewParaswap(),
		NewOdos(),
		NewKyberSwap(),
		NewSocket(keys.Socket),
		NewLiFi(keys.LiFi),
	}
}

// Eligible filters adapters by the same-chain/cross-chain rule and chain
// support for a given request.
func Eligible(all []Adapter, req types.QuoteRequest) []Adapter {
	crossChain := req.IsCrossChain()
	wantType := types.ProtocolDexAggregator
	if crossChain {
		wantType = types.ProtocolBridgeAggregator
	}
	var out []Adapter
	for _, a := range all {
		if a.Type() != wantType {
			continue
		}
		if !a.SupportsChain(req.InputToken.ChainID) {
			continue
		}
		if crossChain && !a.SupportsChain(req.OutputToken.ChainID) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func chainSet(ids ...uint64) map[uint64]bool {
	m := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
