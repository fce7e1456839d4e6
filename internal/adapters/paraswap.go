package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"

	"crossfund/internal/errs"
	"crossfund/internal/types"
)

// Paraswap queries v5 /prices: GET srcToken&destToken&amount&srcDecimals&
// destDecimals&network. Response carries priceRoute.destAmount, gasCost,
// and srcUSD/destUSD (from which price impact is derived).
type Paraswap struct {
	baseURL    string
	httpClient *http.Client
	chains     map[uint64]bool
}

func NewParaswap() *Paraswap {
	return &Paraswap{
		baseURL:    "https://apiv5.paraswap.io",
		httpClient: newHTTPClient(),
		chains:     chainSet(1, 56, 137, 42161, 10, 8453, 43114, 250),
	}
}

func (a *Paraswap) Name() string                     { return "Paraswap" }
func (a *Paraswap) Type() types.ProtocolType          { return types.ProtocolDexAggregator }
func (a *Paraswap) SupportsChain(chainID uint64) bool { return a.chains[chainID] }

type paraswapResponse struct {
	PriceRoute struct {
		DestAmount string `json:"destAmount"`
		GasCost    string `json:"gasCost"`
		SrcUSD     string `json:"srcUSD"`
		DestUSD    string `json:"destUSD"`
	} `json:"priceRoute"`
}

func (a *Paraswap) Quote(ctx context.Context, req types.QuoteRequest) (*IntermediateQuote, error) {
	return errsWithRetry(ctx, func(ctx context.Context) (*IntermediateQuote, error) {
		return a.quoteOnce(ctx, req)
	})
}

func (a *Paraswap) quoteOnce(ctx context.Context, req types.QuoteRequest) (*IntermediateQuote, error) {
	params := url.Values{}
	params.Set("srcToken", sentinelOr(req.InputToken.Address))
	params.Set("destToken", sentinelOr(req.OutputToken.Address))
	params.Set("amount", req.Amount.String())
	params.Set("srcDecimals", strconv.Itoa(req.InputToken.Decimals))
	params.Set("destDecimals", strconv.Itoa(req.OutputToken.Decimals))
	params.Set("network", strconv.FormatUint(req.InputToken.ChainID, 10))

	reqURL := fmt.Sprintf("%s/prices?%s", a.baseURL, params.Encode())
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

	var parsed paraswapResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errs.UnknownError(err)
	}
	outAmount, ok := new(big.Int).SetString(parsed.PriceRoute.DestAmount, 10)
	if !ok {
		return nil, errs.NoRouteFound(map[string]any{"adapter": a.Name()})
	}
	gasLimit, _ := strconv.ParseUint(parsed.PriceRoute.GasCost, 10, 64)

	// Price impact sign convention per DESIGN.md decision #2: non-negative
	// by definition, floor a negative raw signal rather than pass it through.
	srcUSD, _ := strconv.ParseFloat(parsed.PriceRoute.SrcUSD, 64)
	destUSD, _ := strconv.ParseFloat(parsed.PriceRoute.DestUSD, 64)
	impact := 0.0
	if srcUSD > 0 {
		impact = (srcUSD - destUSD) / srcUSD * 100
		if impact < 0 {
			impact = 0
		}
	}

	return &IntermediateQuote{
		OutputAmount:         outAmount,
		EstimatedGas:         gasLimit,
		PriceImpactPct:       impact,
		EstimatedTimeSeconds: 30,
	}, nil
}
