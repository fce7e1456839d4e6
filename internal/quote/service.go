// Package quote implements the Quote Service: validates requests, fans
// out to eligible aggregator adapters in parallel, normalizes each
// intermediate quote into the canonical SwapQuote, ranks and caches the
// result. Grounded on the teacher's services/quote_service.go fan-out/
// normalize shape, generalized from one bridge path to N adapters.
package quote

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"crossfund/internal/adapters"
	"crossfund/internal/amount"
	"crossfund/internal/cache"
	"crossfund/internal/chain"
	"crossfund/internal/errs"
	"crossfund/internal/oracle"
	"crossfund/internal/types"
)

// Config is the closed façade option set of spec §6 that the Quote
// Service reads.
type Config struct {
	DefaultSlippageBps     int
	DefaultDeadlineMinutes int
	EnableCache            bool
	CacheTTL               time.Duration
}

func DefaultConfig() Config {
	return Config{
		DefaultSlippageBps:     100,
		DefaultDeadlineMinutes: 15,
		EnableCache:            true,
		CacheTTL:               cache.DefaultQuoteTTL,
	}
}

// Service is the Quote Service.
type Service struct {
	adapters []adapters.Adapter
	prices   *oracle.PriceOracle
	gas      *oracle.GasOracle
	cfg      Config
}

// New builds a Service. The caller supplies the adapter API keys read
// from environment at process start.
func New(keys adapters.APIKeys, cfg Config) *Service {
	s := &Service{
		adapters: adapters.Registry(keys),
		cfg:      cfg,
	}
	s.prices = oracle.NewPriceOracle(s)
	s.gas = oracle.NewGasOracle(s.prices)
	return s
}

// Validate enforces spec §4.5's request preconditions.
func (s *Service) Validate(req types.QuoteRequest) *errs.Error {
	if req.InputToken.Address == "" || req.OutputToken.Address == "" {
		return errs.InvalidParams("inputToken and outputToken are required")
	}
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return errs.InvalidParams("amount must be positive")
	}
	if !chain.Global.IsSupported(req.InputToken.ChainID) {
		return errs.UnsupportedChain(req.InputToken.ChainID)
	}
	if !chain.Global.IsSupported(req.OutputToken.ChainID) {
		return errs.UnsupportedChain(req.OutputToken.ChainID)
	}
	return nil
}

type fanOutResult struct {
	adapter  adapters.Adapter
	quote    *adapters.IntermediateQuote
	err      error
}

// GetQuotes runs the full fan-out → normalize → rank → cache pipeline.
func (s *Service) GetQuotes(ctx context.Context, req types.QuoteRequest) (*types.QuoteComparison, *errs.Error) {
	if verr := s.Validate(req); verr != nil {
		return nil, verr
	}

	start := time.Now()
	key := cache.QuoteKey(req)
	if s.cfg.EnableCache {
		if cached, ok := cache.Quotes.Get(key); ok {
			log.Printf("[quote] cache hit for %s", key)
			return cached, nil
		}
	}

	eligible := adapters.Eligible(s.adapters, req)
	if len(eligible) == 0 {
		return nil, errs.NoRouteFound(map[string]any{"reason": "no eligible adapters for this pair"})
	}

	results := s.fanOut(ctx, eligible, req)

	var quotes []*types.SwapQuote
	var queried []string
	var failed []types.AdapterFailure
	for _, r := range results {
		if r.err != nil {
			failed = append(failed, types.AdapterFailure{Adapter: r.adapter.Name(), Reason: r.err.Error()})
			continue
		}
		queried = append(queried, r.adapter.Name())
		sq := s.normalize(ctx, req, r.adapter.Name(), r.quote)
		quotes = append(quotes, sq)
	}

	if len(quotes) == 0 {
		return nil, errs.NoRouteFound(map[string]any{"aggregatorsFailed": len(failed)})
	}

	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].NetOutputUsd > quotes[j].NetOutputUsd
	})

	comparison := &types.QuoteComparison{
		Quotes:             quotes,
		BestQuote:          quotes[0],
		Savings:            quotes[0].NetOutputUsd - quotes[len(quotes)-1].NetOutputUsd,
		QueryTimeMs:        time.Since(start).Milliseconds(),
		AggregatorsQueried: queried,
		AggregatorsFailed:  failed,
	}

	if s.cfg.EnableCache {
		ttl := s.cfg.CacheTTL
		if ttl <= 0 {
			ttl = cache.DefaultQuoteTTL
		}
		cache.Quotes.SetTTL(key, comparison, ttl)
	}

	return comparison, nil
}

// GetQuote returns only the best quote, the shape of the façade's
// getQuote public operation.
func (s *Service) GetQuote(ctx context.Context, req types.QuoteRequest) (*types.SwapQuote, *errs.Error) {
	comparison, err := s.GetQuotes(ctx, req)
	if err != nil {
		return nil, err
	}
	return comparison.BestQuote, nil
}

// fanOut invokes every eligible adapter concurrently; a per-adapter
// failure is recorded and does not cancel its peers (spec §4.5).
func (s *Service) fanOut(ctx context.Context, eligible []adapters.Adapter, req types.QuoteRequest) []fanOutResult {
	results := make([]fanOutResult, len(eligible))
	var wg sync.WaitGroup
	for i, a := range eligible {
		wg.Add(1)
		go func(i int, a adapters.Adapter) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = fanOutResult{adapter: a, err: fmt.Errorf("adapter panicked: %v", r)}
				}
			}()
			q, err := a.Quote(ctx, req)
			results[i] = fanOutResult{adapter: a, quote: q, err: err}
		}(i, a)
	}
	wg.Wait()
	return results
}

// normalize fills in the canonical SwapQuote fields per spec §4.5.
func (s *Service) normalize(ctx context.Context, req types.QuoteRequest, adapterName string, iq *adapters.IntermediateQuote) *types.SwapQuote {
	now := time.Now().UnixMilli()

	var wg sync.WaitGroup
	var inputPrice, outputPrice float64
	var gasPrices *types.GasPrices
	wg.Add(3)
	go func() { defer wg.Done(); inputPrice = s.prices.GetTokenPriceUsd(ctx, req.InputToken.ChainID, req.InputToken.Address, req.InputToken.Decimals) }()
	go func() { defer wg.Done(); outputPrice = s.defaultableOutputPrice(ctx, req.OutputToken) }()
	go func() { defer wg.Done(); gasPrices = s.gas.GetGasPrices(ctx, req.InputToken.ChainID) }()
	wg.Wait()

	inputUsd := amount.USD(req.Amount, req.InputToken.Decimals, inputPrice)
	outputUsd := amount.USD(iq.OutputAmount, req.OutputToken.Decimals, outputPrice)

	slippageBps := req.SlippageBps
	if slippageBps <= 0 {
		slippageBps = s.cfg.DefaultSlippageBps
	}
	outputMin := amount.ApplySlippage(iq.OutputAmount, slippageBps)

	gasCostUsd := 0.0
	if gasPrices != nil {
		gasCostUsd = gasCostForTier(gasPrices.Standard, iq.EstimatedGas, gasPrices.NativeTokenPriceUsd)
	}

	crossChain := req.IsCrossChain()
	estimatedTime := iq.EstimatedTimeSeconds
	if estimatedTime <= 0 {
		if crossChain {
			estimatedTime = 300
		} else {
			estimatedTime = 30
		}
	}

	action := types.ActionSwap
	protoType := types.ProtocolDexAggregator
	if crossChain {
		action = types.ActionBridge
		protoType = types.ProtocolBridgeAggregator
	}

	route := types.SwapRoute{Steps: []types.RouteStep{{
		Protocol:             adapterName,
		ProtocolType:         protoType,
		Action:               action,
		FromToken:            req.InputToken,
		ToToken:              req.OutputToken,
		FromAmount:           req.Amount,
		ToAmount:             iq.OutputAmount,
		FromChainID:          req.InputToken.ChainID,
		ToChainID:            req.OutputToken.ChainID,
		EstimatedGas:         iq.EstimatedGas,
		EstimatedTimeSeconds: estimatedTime,
	}}}

	expiresAtMs := now + int64(s.cfg.DefaultDeadlineMinutes)*60000
	if req.DeadlineUnixMs > expiresAtMs {
		expiresAtMs = req.DeadlineUnixMs
	}

	exchangeRate := "0.00000000"
	inHuman := amount.ToFloat(req.Amount, req.InputToken.Decimals)
	outHuman := amount.ToFloat(iq.OutputAmount, req.OutputToken.Decimals)
	if inHuman != 0 {
		exchangeRate = fmt.Sprintf("%.8f", outHuman/inHuman)
	}

	return &types.SwapQuote{
		ID:              uuid.NewString(),
		CreatedAtMs:     now,
		ExpiresAtMs:     expiresAtMs,
		InputToken:      req.InputToken,
		OutputToken:     req.OutputToken,
		InputAmount:     req.Amount,
		OutputAmount:    iq.OutputAmount,
		OutputAmountMin: outputMin,
		ExchangeRate:    exchangeRate,
		PriceImpactPct:  maxFloat(iq.PriceImpactPct, 0),
		InputAmountUsd:  inputUsd,
		OutputAmountUsd: outputUsd,
		GasCostUsd:      gasCostUsd,
		NetOutputUsd:    outputUsd - gasCostUsd,
		Route:           route,
		Aggregator:      adapterName,
		EstimatedGas:    iq.EstimatedGas,
		SlippageBps:     slippageBps,
		TxData:          iq.TxData,
	}
}

// defaultableOutputPrice defaults a stablecoin output's price to 1.0 when
// the oracle fails to resolve one, per spec §4.5.
func (s *Service) defaultableOutputPrice(ctx context.Context, token types.Token) float64 {
	price := s.prices.GetTokenPriceUsd(ctx, token.ChainID, token.Address, token.Decimals)
	if price == 0 && isLikelyStablecoin(token.Symbol) {
		return 1.0
	}
	return price
}

func isLikelyStablecoin(symbol string) bool {
	switch symbol {
	case "USDC", "USDT", "DAI", "BUSD", "FRAX":
		return true
	default:
		return false
	}
}

func gasCostForTier(tier types.GasTier, estimatedGas uint64, nativePriceUsd float64) float64 {
	gasLimit := estimatedGas
	if gasLimit == 0 {
		gasLimit = 200000
	}
	return oracle.GasCostUsd(gasLimit, tier.GasPrice, nativePriceUsd)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// ProbeUsdcValue implements oracle.SwapProbe: issues a 1-unit quote of
// tokenAddress → USDC on the same chain and interprets outputAmount /
// 10^6 as the USD price (spec §4.3 "swap probe").
func (s *Service) ProbeUsdcValue(ctx context.Context, chainID uint64, tokenAddress string, decimals int) (float64, error) {
	usdc, cerr := chain.Global.USDC(chainID)
	if cerr != nil {
		return 0, cerr
	}
	probeReq := types.QuoteRequest{
		InputToken:  types.Token{ChainID: chainID, Address: tokenAddress, Decimals: decimals},
		OutputToken: types.Token{ChainID: chainID, Address: usdc, Decimals: 6},
		Amount:      amount.ToRaw("1", decimals),
		SlippageBps: s.cfg.DefaultSlippageBps,
	}
	eligible := adapters.Eligible(s.adapters, probeReq)
	for _, a := range eligible {
		iq, err := a.Quote(ctx, probeReq)
		if err != nil {
			continue
		}
		return amount.ToFloat(iq.OutputAmount, 6), nil
	}
	return 0, errs.NoRouteFound(map[string]any{"reason": "swap probe found no route"})
}
