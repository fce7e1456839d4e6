// Package facade orchestrates the Quote Service, Transaction Builder,
// Executor and Bridge Status Poller behind the single public surface a
// caller uses: getQuote/getQuotes, prepareTransactions, executeSwap.
// Grounded on the teacher's internal/app/service_container.go
// sync.Once-guarded global wiring pattern, narrowed from a whole service
// container to one façade struct.
package facade

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"crossfund/internal/adapters"
	"crossfund/internal/amount"
	"crossfund/internal/bridgestatus"
	"crossfund/internal/chain"
	"crossfund/internal/errs"
	"crossfund/internal/executor"
	"crossfund/internal/oracle"
	"crossfund/internal/quote"
	"crossfund/internal/signer"
	"crossfund/internal/txbuilder"
	"crossfund/internal/types"
)

// Config is every knob the façade reads at construction time.
type Config struct {
	APIKeys     adapters.APIKeys
	QuoteConfig quote.Config
	PollTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		QuoteConfig: quote.DefaultConfig(),
		PollTimeout: bridgestatus.DefaultTimeout,
	}
}

// CrossFund is the public entry point composing every internal package.
type CrossFund struct {
	Quotes    *quote.Service
	Builder   *txbuilder.Builder
	Providers *signer.ProviderPool
	Poller    *bridgestatus.Poller
	Oracle    *oracle.GasOracle
}

// New wires the full pipeline: adapters → quote service → tx builder →
// provider pool + bridge poller for the executor.
func New(cfg Config) *CrossFund {
	poller := bridgestatus.New(
		bridgestatus.NewSocketStrategy(cfg.APIKeys.Socket),
		bridgestatus.NewLiFiStrategy(cfg.APIKeys.LiFi),
		bridgestatus.NewAcrossStrategy(),
		bridgestatus.NewStargateStrategy(),
	).WithTimeout(orDefault(cfg.PollTimeout, bridgestatus.DefaultTimeout))

	quotes := quote.New(cfg.APIKeys, cfg.QuoteConfig)
	providers := signer.NewProviderPool()

	return &CrossFund{
		Quotes:    quotes,
		Builder:   txbuilder.New(),
		Providers: providers,
		Poller:    poller,
		Oracle:    oracle.NewGasOracle(oracle.NewPriceOracle(quotes)),
	}
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

var (
	defaultInstance *CrossFund
	initOnce        sync.Once
)

// Init builds the process-wide singleton façade once; later calls are a
// no-op and simply return the existing instance.
func Init(cfg Config) *CrossFund {
	initOnce.Do(func() {
		defaultInstance = New(cfg)
	})
	return defaultInstance
}

// Default returns the singleton built by Init, or nil if Init was never
// called (the caller is expected to call Init during process startup).
func Default() *CrossFund {
	return defaultInstance
}

// ParseAmount resolves the heuristic in spec §4.8: a string containing a
// decimal point, or no longer than 10 characters, is treated as a
// human-readable amount; anything else is assumed already raw-unit.
// amount.ToRaw already implements this heuristic internally.
func ParseAmount(amountStr string, decimals int) *big.Int {
	return amount.ToRaw(amountStr, decimals)
}

// GetQuote returns the best ranked SwapQuote for a request.
func (c *CrossFund) GetQuote(ctx context.Context, req types.QuoteRequest) (*types.SwapQuote, *errs.Error) {
	return c.Quotes.GetQuote(ctx, req)
}

// GetQuotes returns every successfully-queried quote, ranked.
func (c *CrossFund) GetQuotes(ctx context.Context, req types.QuoteRequest) (*types.QuoteComparison, *errs.Error) {
	return c.Quotes.GetQuotes(ctx, req)
}

// PrepareResult is prepareTransactions's return shape (spec §4.8):
// transactions without a signature, so a caller can preview a swap.
type PrepareResult struct {
	Quote             *types.SwapQuote
	Transactions      []*types.TxnData
	EstimatedGasTotal uint64
	EstimatedCostUsd  float64
}

// resolveQuote returns the quote Build should work from. A same-chain
// native/wrapped-native pair (spec §4.6.3) never reaches an aggregator —
// there is no DEX route for it — so it gets a synthetic quote instead of
// a Quote Service fan-out.
func (c *CrossFund) resolveQuote(ctx context.Context, req types.QuoteRequest) (*types.SwapQuote, *errs.Error) {
	if action, ok := txbuilder.WrapAction(req); ok {
		return syntheticWrapQuote(req, action), nil
	}
	return c.Quotes.GetQuote(ctx, req)
}

func syntheticWrapQuote(req types.QuoteRequest, action types.RouteAction) *types.SwapQuote {
	now := time.Now().UnixMilli()
	return &types.SwapQuote{
		ID:           fmt.Sprintf("%s-%d", action, now),
		CreatedAtMs:  now,
		ExpiresAtMs:  now + 5*60*1000,
		InputToken:   req.InputToken,
		OutputToken:  req.OutputToken,
		InputAmount:  req.Amount,
		OutputAmount: req.Amount,
		Route: types.SwapRoute{Steps: []types.RouteStep{{
			Action:      action,
			FromToken:   req.InputToken,
			ToToken:     req.OutputToken,
			FromAmount:  req.Amount,
			ToAmount:    req.Amount,
			FromChainID: req.InputToken.ChainID,
			ToChainID:   req.OutputToken.ChainID,
		}}},
		Aggregator:  "native",
		SlippageBps: req.SlippageBps,
	}
}

// buildTransactions resolves the on-chain allowance (skipped for native
// inputs and wrap/unwrap, which never go through a spender) and the
// chain's standard gas tier, then hands both to the Transaction Builder
// so approval is only prepended when actually needed and every
// transaction carries live gas pricing (spec §4.6).
func (c *CrossFund) buildTransactions(ctx context.Context, sq *types.SwapQuote, req types.QuoteRequest, spender string) ([]*types.TxnData, *errs.Error) {
	var allowance *big.Int
	if _, isWrap := txbuilder.WrapAction(req); !isWrap && !chain.IsNative(req.InputToken.Address) {
		status, aerr := c.CheckApproval(ctx, req.InputToken, req.UserAddress, spender, req.Amount)
		if aerr != nil {
			return nil, aerr
		}
		allowance = status.CurrentAllowance
	}
	gasPrices := c.Oracle.GetGasPrices(ctx, req.InputToken.ChainID)
	return c.Builder.Build(sq.ID, req, sq, spender, allowance, gasPrices)
}

// PrepareTransactions builds the transaction list for the best quote
// without signing or submitting anything.
func (c *CrossFund) PrepareTransactions(ctx context.Context, req types.QuoteRequest, spender string) (*PrepareResult, *errs.Error) {
	sq, err := c.resolveQuote(ctx, req)
	if err != nil {
		return nil, err
	}
	txns, err := c.buildTransactions(ctx, sq, req, spender)
	if err != nil {
		return nil, err
	}

	var gasTotal uint64
	for _, tx := range txns {
		gasTotal += tx.GasLimit
	}

	return &PrepareResult{
		Quote:             sq,
		Transactions:      txns,
		EstimatedGasTotal: gasTotal,
		EstimatedCostUsd:  sq.GasCostUsd,
	}, nil
}

// ExecuteSwap refreshes the quote, enforces the price-impact and
// expiry preconditions, builds the transaction list, and drives
// execution to completion (spec §4.8 "executeSwap refreshes the quote").
func (c *CrossFund) ExecuteSwap(ctx context.Context, req types.QuoteRequest, s signer.Signer, spender string) *types.SwapResult {
	sq, qerr := c.resolveQuote(ctx, req)
	if qerr != nil {
		return &types.SwapResult{Success: false, Error: qerr}
	}

	if time.Now().UnixMilli() > sq.ExpiresAtMs {
		return &types.SwapResult{Success: false, Error: errs.QuoteExpired(sq.ID)}
	}
	if sq.PriceImpactPct > 5.0 {
		return &types.SwapResult{Success: false, Error: errs.PriceImpactTooHigh(sq.PriceImpactPct)}
	}

	txns, berr := c.buildTransactions(ctx, sq, req, spender)
	if berr != nil {
		return &types.SwapResult{Success: false, Error: berr}
	}

	exec := executor.New(s, c.Providers, c.Poller)
	if perr := exec.CheckPreconditions(ctx, req, sq); perr != nil {
		return &types.SwapResult{Success: false, Error: perr}
	}

	execution, eerr := exec.Execute(ctx, sq.ID, sq.Route, txns)
	if eerr != nil {
		return &types.SwapResult{Success: false, Execution: execution, Error: eerr}
	}

	hashes := make([]string, 0, len(execution.Transactions))
	for _, tx := range execution.Transactions {
		if tx.TxHash != "" {
			hashes = append(hashes, tx.TxHash)
		}
	}

	return &types.SwapResult{Success: true, TxHashes: hashes, Execution: execution}
}
