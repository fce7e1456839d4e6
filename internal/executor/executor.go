// Package executor drives the multi-step signed-transaction state
// machine: balance preconditions, sequential submission through an
// injected Signer, confirmation waits, and cross-chain bridge-status
// finalization. Grounded on the teacher's
// services/blockchain_transaction_service.go sequential
// submit-then-wait-for-receipt loop, generalized from one fixed
// contract call to an arbitrary ordered TxnData list.
package executor

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"crossfund/internal/bridgestatus"
	"crossfund/internal/chain"
	"crossfund/internal/errs"
	"crossfund/internal/signer"
	"crossfund/internal/types"
)

// Executor drives one SwapExecution end to end.
type Executor struct {
	signer    signer.Signer
	providers *signer.ProviderPool
	poller    *bridgestatus.Poller
}

func New(s signer.Signer, providers *signer.ProviderPool, poller *bridgestatus.Poller) *Executor {
	return &Executor{signer: s, providers: providers, poller: poller}
}

// CheckPreconditions enforces spec §4.7's balance/expiry/price-impact
// gate. Expiry and price-impact are re-checked here defensively even
// though the Façade is the primary enforcement point.
func (e *Executor) CheckPreconditions(ctx context.Context, req types.QuoteRequest, sq *types.SwapQuote) *errs.Error {
	if time.Now().UnixMilli() > sq.ExpiresAtMs {
		return errs.QuoteExpired(sq.ID)
	}
	if sq.PriceImpactPct > 5.0 {
		return errs.PriceImpactTooHigh(sq.PriceImpactPct)
	}

	balance, err := e.balanceOf(ctx, req.InputToken, req.UserAddress)
	if err != nil {
		return err
	}
	if balance.Cmp(req.Amount) < 0 {
		return errs.InsufficientBalance(map[string]any{"required": req.Amount.String(), "available": balance.String()})
	}
	return nil
}

var balanceOfSelector = mustSelector("balanceOf(address)")

func (e *Executor) balanceOf(ctx context.Context, token types.Token, owner string) (*big.Int, *errs.Error) {
	client, cerr := e.providers.Get(token.ChainID)
	if cerr != nil {
		return nil, cerr
	}
	ownerAddr := ethcommon.HexToAddress(owner)

	if chain.IsNative(token.Address) {
		bal, err := client.BalanceAt(ctx, ownerAddr, nil)
		if err != nil {
			return nil, errs.NetworkError(err)
		}
		return bal, nil
	}

	packedArgs, err := abi.Arguments{{Type: mustAbiType("address")}}.Pack(ownerAddr)
	if err != nil {
		return nil, errs.UnknownError(err)
	}
	data := append(append([]byte{}, balanceOfSelector...), packedArgs...)
	tokenAddr := ethcommon.HexToAddress(token.Address)

	result, err := client.CallContract(ctx, ethereum.CallMsg{To: &tokenAddr, Data: data}, nil)
	if err != nil {
		return nil, errs.NetworkError(err)
	}
	return new(big.Int).SetBytes(result), nil
}

// Execute submits txns in order, waits for one confirmation per step,
// and finalizes cross-chain routes through the bridge-status poller.
func (e *Executor) Execute(ctx context.Context, quoteID string, route types.SwapRoute, txns []*types.TxnData) (*types.SwapExecution, *errs.Error) {
	exec := &types.SwapExecution{
		QuoteID:     quoteID,
		Transactions: txns,
		Status:      types.ExecPreparing,
		TotalSteps:  len(txns),
		StartedAtMs: time.Now().UnixMilli(),
	}

	for i, tx := range txns {
		exec.CurrentStep = i
		exec.Status = stepStatus(tx.Type)
		tx.Status = types.TxnPending

		sent, err := e.signer.SendTransaction(ctx, tx)
		if err != nil {
			tx.Status = types.TxnFailed
			tx.Error = err.Error()
			exec.Status = types.ExecFailed
			return exec, classifySendError(err)
		}

		tx.TxHash = sent.Hash()
		tx.Status = types.TxnSubmitted

		receipt, rerr := sent.Wait(ctx, 1)
		if rerr != nil {
			tx.Status = types.TxnFailed
			tx.Error = rerr.Error()
			exec.Status = types.ExecFailed
			return exec, rerr
		}

		if receipt.Status == 0 {
			tx.Status = types.TxnFailed
			tx.Error = receipt.RevertReason
			exec.Status = types.ExecFailed
			return exec, errs.TransactionReverted(receipt.RevertReason)
		}

		tx.Status = types.TxnConfirmed
		tx.Confirmations = 1

		if tx.Type == types.ActionBridge {
			exec.SourceTxHash = tx.TxHash
		}
	}

	if route.IsCrossChain() && exec.SourceTxHash != "" {
		exec.Status = types.ExecBridging
		provider := route.Steps[0].Protocol
		status, perr := e.poller.Await(ctx, provider, route.Steps[0].FromChainID, exec.SourceTxHash)
		if perr != nil {
			exec.Status = types.ExecFailed
			return exec, perr
		}
		exec.DestinationTxHash = status.DestinationTxHash
		exec.BridgeStatus = status
	}

	exec.Status = types.ExecCompleted
	exec.CompletedAtMs = time.Now().UnixMilli()
	return exec, nil
}

func stepStatus(action types.RouteAction) types.ExecutionStatus {
	switch action {
	case types.ActionApprove:
		return types.ExecApproving
	case types.ActionBridge:
		return types.ExecSwapping
	default:
		return types.ExecSwapping
	}
}

func classifySendError(err error) *errs.Error {
	if classified, ok := errs.As(err); ok {
		return classified
	}
	return errs.Classify(err)
}

func mustSelector(signature string) []byte {
	h := crypto.Keccak256([]byte(signature))
	return h[:4]
}

func mustAbiType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(fmt.Sprintf("executor: invalid abi type %q: %v", t, err))
	}
	return typ
}
