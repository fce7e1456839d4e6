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

	"crossfund/internal/chain"
	"crossfund/internal/errs"
	"crossfund/internal/types"
)

// ZeroX queries 0x's swap/v1/quote endpoint. GET sellToken/buyToken/
// sellAmount/slippagePercentage[/takerAddress]; response yields buyAmount,
// estimatedGas, estimatedPriceImpact and a ready-to-sign {to,data,value,gas}.
type ZeroX struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	chains     map[uint64]bool
}

func NewZeroX(apiKey string) *ZeroX {
	return &ZeroX{
		baseURL:    "https://api.0x.org",
		httpClient: newHTTPClient(),
		apiKey:     apiKey,
		chains:     chainSet(1, 56, 137, 42161, 10, 8453, 43114),
	}
}

func (a *ZeroX) Name() string                      { return "0x" }
func (a *ZeroX) Type() types.ProtocolType           { return types.ProtocolDexAggregator }
func (a *ZeroX) SupportsChain(chainID uint64) bool  { return a.chains[chainID] }

type zeroXResponse struct {
	BuyAmount            string  `json:"buyAmount"`
	EstimatedGas         string  `json:"estimatedGas"`
	EstimatedPriceImpact string  `json:"estimatedPriceImpact"`
	To                   string  `json:"to"`
	Data                 string  `json:"data"`
	Value                string  `json:"value"`
	Gas                  string  `json:"gas"`
}

func (a *ZeroX) Quote(ctx context.Context, req types.QuoteRequest) (*IntermediateQuote, error) {
	return errsWithRetry(ctx, func(ctx context.Context) (*IntermediateQuote, error) {
		return a.quoteOnce(ctx, req)
	})
}

func (a *ZeroX) quoteOnce(ctx context.Context, req types.QuoteRequest) (*IntermediateQuote, error) {
	params := url.Values{}
	params.Set("sellToken", sentinelOr(req.InputToken.Address))
	params.Set("buyToken", sentinelOr(req.OutputToken.Address))
	params.Set("sellAmount", req.Amount.String())
	params.Set("slippagePercentage", strconv.FormatFloat(float64(req.SlippageBps)/10000, 'f', -1, 64))
	if req.UserAddress != "" {
		params.Set("takerAddress", req.UserAddress)
	}

	reqURL := fmt.Sprintf("%s/swap/v1/quote?%s", a.baseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errs.NetworkError(err)
	}
	if a.apiKey != "" {
		httpReq.Header.Set("0x-api-key", a.apiKey)
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

	var parsed zeroXResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errs.UnknownError(err)
	}

	outAmount, ok := new(big.Int).SetString(parsed.BuyAmount, 10)
	if !ok {
		return nil, errs.NoRouteFound(map[string]any{"adapter": a.Name()})
	}

	gasLimit, _ := strconv.ParseUint(parsed.EstimatedGas, 10, 64)
	impact, _ := strconv.ParseFloat(parsed.EstimatedPriceImpact, 64)
	if impact < 0 {
		impact = 0
	}

	var txData *types.TxData
	if parsed.To != "" {
		value := new(big.Int)
		value.SetString(parsed.Value, 10)
		gas, _ := strconv.ParseUint(parsed.Gas, 10, 64)
		txData = &types.TxData{To: parsed.To, Data: parsed.Data, Value: value, Gas: gas}
	}

	return &IntermediateQuote{
		OutputAmount:         outAmount,
		EstimatedGas:         gasLimit,
		PriceImpactPct:       impact,
		TxData:               txData,
		EstimatedTimeSeconds: 30,
	}, nil
}

func sentinelOr(address string) string {
	if chain.IsNative(address) {
		return "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"
	}
	return address
}
