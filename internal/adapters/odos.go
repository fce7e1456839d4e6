package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"

	"crossfund/internal/errs"
	"crossfund/internal/types"
)

// Odos queries v2 /sor/quote/v2 by POST: {chainId, inputTokens:[{tokenAddress,
// amount}], outputTokens:[{tokenAddress, proportion:1}], slippageLimitPercent,
// userAddr?}. Response: outAmounts[0], gasEstimate, priceImpact.
type Odos struct {
	baseURL    string
	httpClient *http.Client
	chains     map[uint64]bool
}

func NewOdos() *Odos {
	return &Odos{
		baseURL:    "https://api.odos.xyz",
		httpClient: newHTTPClient(),
		chains:     chainSet(1, 56, 137, 42161, 10, 8453, 43114, 250),
	}
}

func (a *Odos) Name() string                     { return "Odos" }
func (a *Odos) Type() types.ProtocolType          { return types.ProtocolDexAggregator }
func (a *Odos) SupportsChain(chainID uint64) bool { return a.chains[chainID] }

type odosInputToken struct {
	TokenAddress string `json:"tokenAddress"`
	Amount       string `json:"amount"`
}

type odosOutputToken struct {
	TokenAddress string  `json:"tokenAddress"`
	Proportion   float64 `json:"proportion"`
}

type odosRequest struct {
	ChainID              uint64            `json:"chainId"`
	InputTokens          []odosInputToken  `json:"inputTokens"`
	OutputTokens         []odosOutputToken `json:"outputTokens"`
	SlippageLimitPercent float64           `json:"slippageLimitPercent"`
	UserAddr             string            `json:"userAddr,omitempty"`
}

type odosResponse struct {
	OutAmounts  []string `json:"outAmounts"`
	GasEstimate float64  `json:"gasEstimate"`
	PriceImpact float64  `json:"priceImpact"`
}

func (a *Odos) Quote(ctx context.Context, req types.QuoteRequest) (*IntermediateQuote, error) {
	return errsWithRetry(ctx, func(ctx context.Context) (*IntermediateQuote, error) {
		return a.quoteOnce(ctx, req)
	})
}

func (a *Odos) quoteOnce(ctx context.Context, req types.QuoteRequest) (*IntermediateQuote, error) {
	body := odosRequest{
		ChainID:              req.InputToken.ChainID,
		InputTokens:          []odosInputToken{{TokenAddress: sentinelOr(req.InputToken.Address), Amount: req.Amount.String()}},
		OutputTokens:         []odosOutputToken{{TokenAddress: sentinelOr(req.OutputToken.Address), Proportion: 1}},
		SlippageLimitPercent: float64(req.SlippageBps) / 100,
		UserAddr:             req.UserAddress,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errs.UnknownError(err)
	}

	reqURL := fmt.Sprintf("%s/sor/quote/v2", a.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, errs.NetworkError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, errs.NetworkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.NetworkError(err)
	}
	if cerr := classifyResponse(resp.StatusCode, respBody); cerr != nil {
		return nil, cerr
	}

	var parsed odosResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, errs.UnknownError(err)
	}
	if len(parsed.OutAmounts) == 0 {
		return nil, errs.NoRouteFound(map[string]any{"adapter": a.Name()})
	}
	outAmount, ok := new(big.Int).SetString(parsed.OutAmounts[0], 10)
	if !ok {
		return nil, errs.NoRouteFound(map[string]any{"adapter": a.Name()})
	}
	impact := parsed.PriceImpact
	if impact < 0 {
		impact = 0
	}

	return &IntermediateQuote{
		OutputAmount:         outAmount,
		EstimatedGas:         uint64(parsed.GasEstimate),
		PriceImpactPct:       impact,
		EstimatedTimeSeconds: 30,
	}, nil
}
