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

// LiFi queries GET /v1/quote?fromChain&toChain&fromToken&toToken&
// fromAmount&fromAddress. Yields estimate.{toAmount, gasCosts[0].amount,
// executionDuration} and toolDetails.name. Grounded directly on the
// teacher's clients/lifi_client.go.
type LiFi struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	chains     map[uint64]bool
}

func NewLiFi(apiKey string) *LiFi {
	return &LiFi{
		baseURL:    "https://li.quest",
		httpClient: newHTTPClient(),
		apiKey:     apiKey,
		chains:     chainSet(1, 56, 137, 42161, 10, 8453, 43114, 324, 250, 100, 59144),
	}
}

func (a *LiFi) Name() string                     { return "LiFi" }
func (a *LiFi) Type() types.ProtocolType          { return types.ProtocolBridgeAggregator }
func (a *LiFi) SupportsChain(chainID uint64) bool { return a.chains[chainID] }

type lifiGasCost struct {
	Amount string `json:"amount"`
}

type lifiQuoteResponse struct {
	Estimate struct {
		ToAmount          string        `json:"toAmount"`
		GasCosts          []lifiGasCost `json:"gasCosts"`
		ExecutionDuration int           `json:"executionDuration"`
	} `json:"estimate"`
	ToolDetails struct {
		Name string `json:"name"`
	} `json:"toolDetails"`
}

func (a *LiFi) Quote(ctx context.Context, req types.QuoteRequest) (*IntermediateQuote, error) {
	return errsWithRetry(ctx, func(ctx context.Context) (*IntermediateQuote, error) {
		return a.quoteOnce(ctx, req)
	})
}

func (a *LiFi) quoteOnce(ctx context.Context, req types.QuoteRequest) (*IntermediateQuote, error) {
	params := url.Values{}
	params.Set("fromChain", strconv.FormatUint(req.InputToken.ChainID, 10))
	params.Set("toChain", strconv.FormatUint(req.OutputToken.ChainID, 10))
	params.Set("fromToken", sentinelOr(req.InputToken.Address))
	params.Set("toToken", sentinelOr(req.OutputToken.Address))
	params.Set("fromAmount", req.Amount.String())
	if req.UserAddress != "" {
		params.Set("fromAddress", req.UserAddress)
	}

	reqURL := fmt.Sprintf("%s/v1/quote?%s", a.baseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errs.NetworkError(err)
	}
	if a.apiKey != "" {
		httpReq.Header.Set("x-lifi-api-key", a.apiKey)
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

	var parsed lifiQuoteResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errs.UnknownError(err)
	}
	outAmount, ok := new(big.Int).SetString(parsed.Estimate.ToAmount, 10)
	if !ok {
		return nil, errs.NoRouteFound(map[string]any{"adapter": a.Name()})
	}

	var gasLimit uint64
	if len(parsed.Estimate.GasCosts) > 0 {
		if g, ok := new(big.Int).SetString(parsed.Estimate.GasCosts[0].Amount, 10); ok {
			gasLimit = g.Uint64()
		}
	}

	return &IntermediateQuote{
		OutputAmount:         outAmount,
		EstimatedGas:         gasLimit,
		BridgeUsed:           parsed.ToolDetails.Name,
		EstimatedTimeSeconds: formatDuration(parsed.Estimate.ExecutionDuration),
	}, nil
}

// formatDuration passes positive seconds through unchanged and returns
// 300 for a zero or negative estimate; the teacher's
// FormatDuration produced a display string, here the Quote Service needs
// the integer for SwapQuote.route.estimatedTimeSeconds.
func formatDuration(seconds int) int {
	if seconds <= 0 {
		return 300
	}
	return seconds
}
