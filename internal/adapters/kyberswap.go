package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"

	"crossfund/internal/errs"
	"crossfund/internal/types"
)

// KyberSwap queries GET /{chain-slug}/api/v1/routes?tokenIn&tokenOut&
// amountIn. Response: data.routeSummary.{amountOut, gas, priceImpact}.
type KyberSwap struct {
	baseURL    string
	httpClient *http.Client
	slugs      map[uint64]string
}

func NewKyberSwap() *KyberSwap {
	return &KyberSwap{
		baseURL:    "https://aggregator-api.kyberswap.com",
		httpClient: newHTTPClient(),
		slugs: map[uint64]string{
			1:     "ethereum",
			56:    "bsc",
			137:   "polygon",
			42161: "arbitrum",
			10:    "optimism",
			8453:  "base",
			43114: "avalanche",
		},
	}
}

func (a *KyberSwap) Name() string            { return "KyberSwap" }
func (a *KyberSwap) Type() types.ProtocolType { return types.ProtocolDexAggregator }
func (a *KyberSwap) SupportsChain(chainID uint64) bool {
	_, ok := a.slugs[chainID]
	return ok
}

type kyberSwapResponse struct {
	Data struct {
		RouteSummary struct {
			AmountOut   string  `json:"amountOut"`
			Gas         string  `json:"gas"`
			PriceImpact float64 `json:"priceImpact"`
		} `json:"routeSummary"`
	} `json:"data"`
}

func (a *KyberSwap) Quote(ctx context.Context, req types.QuoteRequest) (*IntermediateQuote, error) {
	return errsWithRetry(ctx, func(ctx context.Context) (*IntermediateQuote, error) {
		return a.quoteOnce(ctx, req)
	})
}

func (a *KyberSwap) quoteOnce(ctx context.Context, req types.QuoteRequest) (*IntermediateQuote, error) {
	slug, ok := a.slugs[req.InputToken.ChainID]
	if !ok {
		return nil, errs.UnsupportedChain(req.InputToken.ChainID)
	}

	params := url.Values{}
	params.Set("tokenIn", sentinelOr(req.InputToken.Address))
	params.Set("tokenOut", sentinelOr(req.OutputToken.Address))
	params.Set("amountIn", req.Amount.String())

	reqURL := fmt.Sprintf("%s/%s/api/v1/routes?%s", a.baseURL, slug, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errs.NetworkError(err)
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, errs.NetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.NetworkError(err)
	}
	if cerr := classifyResponse(resp.StatusCode, body); cerr != nil {
		return nil, cerr
	}

	var parsed kyberSwapResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errs.UnknownError(err)
	}
	outAmount, ok := new(big.Int).SetString(parsed.Data.RouteSummary.AmountOut, 10)
	if !ok {
		return nil, errs.NoRouteFound(map[string]any{"adapter": a.Name()})
	}
	gasLimit := new(big.Int)
	gasLimit.SetString(parsed.Data.RouteSummary.Gas, 10)
	impact := parsed.Data.RouteSummary.PriceImpact
	if impact < 0 {
		impact = 0
	}

	return &IntermediateQuote{
		OutputAmount:         outAmount,
		EstimatedGas:         gasLimit.Uint64(),
		PriceImpactPct:       impact,
		EstimatedTimeSeconds: 30,
	}, nil
}
