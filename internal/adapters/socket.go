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

// Socket queries GET /v2/quote?fromChainId&fromTokenAddress&toChainId&
// toTokenAddress&fromAmount&userAddress&uniqueRoutesPerBridge=true&
// sort=output. Picks result.routes[0]; yields toAmount, usedBridgeNames,
// serviceTime.
type Socket struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	chains     map[uint64]bool
}

func NewSocket(apiKey string) *Socket {
	return &Socket{
		baseURL:    "https://api.socket.tech",
		httpClient: newHTTPClient(),
		apiKey:     apiKey,
		chains:     chainSet(1, 56, 137, 42161, 10, 8453, 43114, 250, 100),
	}
}

func (a *Socket) Name() string                     { return "Socket" }
func (a *Socket) Type() types.ProtocolType          { return types.ProtocolBridgeAggregator }
func (a *Socket) SupportsChain(chainID uint64) bool { return a.chains[chainID] }

type socketRoute struct {
	ToAmount        string   `json:"toAmount"`
	UsedBridgeNames []string `json:"usedBridgeNames"`
	ServiceTime     int      `json:"serviceTime"`
}

type socketResponse struct {
	Result struct {
		Routes []socketRoute `json:"routes"`
	} `json:"result"`
}

func (a *Socket) Quote(ctx context.Context, req types.QuoteRequest) (*IntermediateQuote, error) {
	return errsWithRetry(ctx, func(ctx context.Context) (*IntermediateQuote, error) {
		return a.quoteOnce(ctx, req)
	})
}

func (a *Socket) quoteOnce(ctx context.Context, req types.QuoteRequest) (*IntermediateQuote, error) {
	params := url.Values{}
	params.Set("fromChainId", strconv.FormatUint(req.InputToken.ChainID, 10))
	params.Set("fromTokenAddress", sentinelOr(req.InputToken.Address))
	params.Set("toChainId", strconv.FormatUint(req.OutputToken.ChainID, 10))
	params.Set("toTokenAddress", sentinelOr(req.OutputToken.Address))
	params.Set("fromAmount", req.Amount.String())
	if req.UserAddress != "" {
		params.Set("userAddress", req.UserAddress)
	}
	params.Set("uniqueRoutesPerBridge", "true")
	params.Set("sort", "output")

	reqURL := fmt.Sprintf("%s/v2/quote?%s", a.baseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errs.NetworkError(err)
	}
	if a.apiKey != "" {
		httpReq.Header.Set("API-KEY", a.apiKey)
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

	var parsed socketResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errs.UnknownError(err)
	}
	if len(parsed.Result.Routes) == 0 {
		return nil, errs.NoRouteFound(map[string]any{"adapter": a.Name()})
	}
	route := parsed.Result.Routes[0]
	outAmount, ok := new(big.Int).SetString(route.ToAmount, 10)
	if !ok {
		return nil, errs.NoRouteFound(map[string]any{"adapter": a.Name()})
	}
	bridgeUsed := ""
	if len(route.UsedBridgeNames) > 0 {
		bridgeUsed = route.UsedBridgeNames[0]
	}

	return &IntermediateQuote{
		OutputAmount:         outAmount,
		BridgeUsed:           bridgeUsed,
		EstimatedTimeSeconds: route.ServiceTime,
	}, nil
}
