// Package txbuilder turns a SwapQuote into the ordered list of on-chain
// transactions needed to execute it: an optional ERC-20 approval step,
// a wrap/unwrap call for same-chain native/wrapped-native pairs, or the
// swap/bridge call the aggregator already returned calldata for.
// Grounded on the teacher's services/blockchain_transaction_service.go
// ABI-encoding idiom (mustType + abi.Arguments.Pack), generalized from
// the ZKPay contract call shape to generic ERC-20 approve/wrap calls.
package txbuilder

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"crossfund/internal/chain"
	"crossfund/internal/errs"
	"crossfund/internal/types"
)

// mustType panics on a malformed ABI type string; the handful of types
// used here are fixed, so a panic can only mean a programmer error.
func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(fmt.Sprintf("txbuilder: invalid abi type %q: %v", t, err))
	}
	return typ
}

var (
	approveMethodID = mustMethodID("approve(address,uint256)")
	approveArgs     = abi.Arguments{
		{Type: mustType("address")},
		{Type: mustType("uint256")},
	}

	depositMethodID  = mustMethodID("deposit()")
	withdrawMethodID = mustMethodID("withdraw(uint256)")
	withdrawArgs     = abi.Arguments{
		{Type: mustType("uint256")},
	}
)

func mustMethodID(signature string) []byte {
	hash := crypto.Keccak256([]byte(signature))
	return hash[:4]
}

// InfiniteApproval is the max uint256 (spec §4.6 "approve once, swap
// forever" mode). buildApproval approves the exact input amount and does
// not use it.
var InfiniteApproval = func() *big.Int {
	max := new(big.Int).Lsh(big.NewInt(1), 256)
	return max.Sub(max, big.NewInt(1))
}()

// Builder constructs the transaction list for a quote.
type Builder struct{}

func New() *Builder { return &Builder{} }

// WrapAction reports whether req is a same-chain native/wrapped-native
// pair (spec §4.6.3), and if so which direction it goes. Exported so the
// façade can route such a request around the aggregator fan-out, which
// has no DEX route for a 1:1 wrap.
func WrapAction(req types.QuoteRequest) (types.RouteAction, bool) {
	if req.InputToken.ChainID != req.OutputToken.ChainID {
		return "", false
	}
	info, cerr := chain.Global.Get(req.InputToken.ChainID)
	if cerr != nil || info.WETHAddress == "" {
		return "", false
	}
	switch {
	case chain.IsNative(req.InputToken.Address) && chain.Equal(req.OutputToken.Address, info.WETHAddress):
		return types.ActionWrap, true
	case chain.Equal(req.InputToken.Address, info.WETHAddress) && chain.IsNative(req.OutputToken.Address):
		return types.ActionUnwrap, true
	default:
		return "", false
	}
}

// Build returns the ordered transaction list for a quote: a wrap/unwrap
// call for native/wrapped-native pairs, or zero-or-one approval
// transaction (skipped for native-token inputs and whenever allowance
// already covers the trade, per spec §4.6) followed by the
// aggregator-provided swap/bridge call. allowance is the spender's
// current on-chain allowance over the input token (nil if unknown/never
// checked, treated as zero). gasPrices is the chain's current
// standard-tier pricing, applied to every transaction this call builds;
// nil leaves gas fields unset.
func (b *Builder) Build(quoteID string, req types.QuoteRequest, sq *types.SwapQuote, spender string, allowance *big.Int, gasPrices *types.GasPrices) ([]*types.TxnData, *errs.Error) {
	if action, ok := WrapAction(req); ok {
		tx, err := b.buildWrapUnwrap(quoteID, req, action)
		if err != nil {
			return nil, err
		}
		applyGas(tx, gasPrices)
		return []*types.TxnData{tx}, nil
	}

	if sq.TxData == nil {
		return nil, errs.New(errs.KindInvalidParams, "quote carries no transaction data")
	}
	if !chain.IsValidAddress(spender) && !chain.IsNative(req.InputToken.Address) {
		return nil, errs.InvalidParams("spender address is invalid")
	}

	var txns []*types.TxnData
	order := 0

	if !chain.IsNative(req.InputToken.Address) && needsApproval(allowance, req.Amount) {
		approveTx, err := b.buildApproval(req, spender, order)
		if err != nil {
			return nil, err
		}
		applyGas(approveTx, gasPrices)
		txns = append(txns, approveTx)
		order++
	}

	action := types.ActionSwap
	if sq.Route.IsCrossChain() {
		action = types.ActionBridge
	}

	swapTx := &types.TxnData{
		ID:           fmt.Sprintf("%s-swap", quoteID),
		Type:         action,
		ChainID:      req.InputToken.ChainID,
		To:           sq.TxData.To,
		From:         req.UserAddress,
		Data:         sq.TxData.Data,
		Value:        valueOrZero(sq.TxData.Value),
		GasLimit:     gasLimitWithBuffer(sq.TxData.Gas, sq.EstimatedGas),
		Description:  describeAction(action, sq.Aggregator),
		EstimatedGas: sq.EstimatedGas,
		Order:        order,
		Status:       types.TxnPending,
	}
	if order > 0 {
		swapTx.DependsOn = txns[0].ID
	}
	applyGas(swapTx, gasPrices)
	txns = append(txns, swapTx)

	return txns, nil
}

// needsApproval implements spec §4.6's "prepend approval only if
// allowance < inputAmount" rule. A nil allowance means it was never
// looked up (or the lookup failed upstream) and is treated as zero, so
// the safe default is still to approve.
func needsApproval(allowance, amount *big.Int) bool {
	if allowance == nil {
		return true
	}
	return allowance.Cmp(amount) < 0
}

// applyGas sets a transaction's gas fields from the chain's standard
// tier (spec §4.6): legacy GasPrice always, EIP-1559 fields only when
// the oracle populated them (it only does so for chains that support
// them). A nil gasPrices leaves the transaction's gas fields unset.
func applyGas(tx *types.TxnData, gasPrices *types.GasPrices) {
	if gasPrices == nil {
		return
	}
	tx.GasPrice = gasPrices.Standard.GasPrice
	tx.MaxFeePerGas = gasPrices.Standard.MaxFeePerGas
	tx.MaxPriorityFeePerGas = gasPrices.Standard.MaxPriorityFeePerGas
}

func (b *Builder) buildApproval(req types.QuoteRequest, spender string, order int) (*types.TxnData, *errs.Error) {
	amount := req.Amount
	packed, err := approveArgs.Pack(common.HexToAddress(spender), amount)
	if err != nil {
		return nil, errs.New(errs.KindInvalidParams, "failed to encode approve calldata").WithDetails(map[string]any{"cause": err.Error()})
	}
	data := append(append([]byte{}, approveMethodID...), packed...)

	return &types.TxnData{
		ID:          fmt.Sprintf("approve-%s", req.InputToken.Address),
		Type:        types.ActionApprove,
		ChainID:     req.InputToken.ChainID,
		To:          req.InputToken.Address,
		From:        req.UserAddress,
		Data:        "0x" + common.Bytes2Hex(data),
		Value:       big.NewInt(0),
		GasLimit:    60000,
		Description: fmt.Sprintf("Approve %s to spend %s", spender, req.InputToken.Symbol),
		TokenApproval: &types.TokenApproval{
			Token:   req.InputToken,
			Spender: spender,
			Amount:  amount,
		},
		Order:  order,
		Status: types.TxnPending,
	}, nil
}

// buildWrapUnwrap ABI-encodes a WETH-equivalent contract's deposit() or
// withdraw(uint256) call the same way buildApproval encodes approve,
// targeting the chain's registered wrapped-native address. Wrapping
// sends the native amount as Value; unwrapping burns the caller's own
// WETH balance, so neither direction needs an approval step.
func (b *Builder) buildWrapUnwrap(quoteID string, req types.QuoteRequest, action types.RouteAction) (*types.TxnData, *errs.Error) {
	info, cerr := chain.Global.Get(req.InputToken.ChainID)
	if cerr != nil {
		return nil, cerr
	}

	var data []byte
	value := big.NewInt(0)
	description := fmt.Sprintf("Wrap %s into %s", req.InputToken.Symbol, req.OutputToken.Symbol)

	if action == types.ActionUnwrap {
		packed, err := withdrawArgs.Pack(req.Amount)
		if err != nil {
			return nil, errs.New(errs.KindInvalidParams, "failed to encode withdraw calldata").WithDetails(map[string]any{"cause": err.Error()})
		}
		data = append(append([]byte{}, withdrawMethodID...), packed...)
		description = fmt.Sprintf("Unwrap %s into %s", req.InputToken.Symbol, req.OutputToken.Symbol)
	} else {
		data = append([]byte{}, depositMethodID...)
		value = req.Amount
	}

	return &types.TxnData{
		ID:          fmt.Sprintf("%s-%s", quoteID, action),
		Type:        action,
		ChainID:     req.InputToken.ChainID,
		To:          info.WETHAddress,
		From:        req.UserAddress,
		Data:        "0x" + common.Bytes2Hex(data),
		Value:       value,
		GasLimit:    45000,
		Description: description,
		Order:       0,
		Status:      types.TxnPending,
	}, nil
}

func valueOrZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v
}

// gasLimitWithBuffer adds a 20% safety margin over the aggregator's
// estimate, mirroring the teacher's adjustedGasPrice multiplier pattern
// in blockchain_transaction_service.go (scaled ×120/100 instead of a
// suggested-price multiplier).
func gasLimitWithBuffer(quoted uint64, estimated uint64) uint64 {
	base := estimated
	if quoted > 0 {
		base = quoted
	}
	if base == 0 {
		base = 200000
	}
	buffered := new(big.Int).Mul(big.NewInt(int64(base)), big.NewInt(120))
	buffered.Div(buffered, big.NewInt(100))
	return buffered.Uint64()
}

func describeAction(action types.RouteAction, aggregator string) string {
	switch action {
	case types.ActionBridge:
		return fmt.Sprintf("Bridge via %s", aggregator)
	default:
		return fmt.Sprintf("Swap via %s", aggregator)
	}
}
