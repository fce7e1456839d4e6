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

// OneInch queries 1inch v6: GET /swap/v6.0/{chainId}/quote?src&dst&amount,
// native token sentinel replaced with 0xEeeeee…. Response: dstAmount,
// estimatedGas.
type OneInch struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	chains     map[uint64]bool
}

func NewOneInch(apiKey string) *OneInch {
	return &OneInch{
		baseURL:    "https://api.1inch.dev",
		httpClient: newHTTPClient(),
		apiKey:     apiKey,
		chains:     chainSet(1, 56, 137, 42161, 10, 8453, 43114),
	}
}

func (a *OneInch) Name() string                     { return "1inch" }
func (a *OneInch) Type() types.ProtocolType          { return types.ProtocolDexAggregator }
func (a *OneInch) SupportsChain(chainID uint64) bool { return a.chains[chainID] }

type oneInchResponse struct {
	DstAmount    string `json:"dstAmount"`
	EstimatedGas string `json:"estimatedGas"`
}

func (a *OneInch) Quote(ctx context.Context, req types.QuoteRequest) (*IntermediateQuote, error) {
	return errsWithRetry(ctx, func(ctx context.Context) (*IntermediateQuote, error) {
		return a.quoteOnce(ctx, req)
	})
}

func (a *OneInch) quoteOnce(ctx context.Context, req types.QuoteRequest) (*IntermediateQuote, error) {
	params := url.Values{}
	params.Set("src", sentinelOr(req.InputToken.Address))
	params.Set("dst", sentinelOr(req.OutputToken.Address))
	params.Set("amount", req.Amount.String())

	reqURL := fmt.Sprintf("%s/swap/v6.0/%d/quote?%s", a.baseURL, req.InputToken.ChainID, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errs.NetworkError(err)
	}
	if a.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)
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

	var parsed oneInchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errs.UnknownError(err)
	}
	outAmount, ok := new(big.Int).SetString(parsed.DstAmount, 10)
	if !ok {
		return nil, errs.NoRouteFound(map[string]any{"adapter": a.Name()})
	}
	gasLimit, _ := strconv.ParseUint(parsed.EstimatedGas, 10, 64)

	return &IntermediateQuote{
		OutputAmount:         outAmount,
		EstimatedGas:         gasLimit,
		EstimatedTimeSeconds: 30,
	}, nil
}
