package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crossfund/internal/bridgestatus"
	"crossfund/internal/errs"
	"crossfund/internal/signer"
	"crossfund/internal/types"
)

type fakeBridgeStrategy struct {
	name   string
	status *types.BridgeStatus
}

func (f *fakeBridgeStrategy) Name() string { return f.name }
func (f *fakeBridgeStrategy) CheckStatus(ctx context.Context, chainID uint64, sourceTxHash string) (*types.BridgeStatus, error) {
	return f.status, nil
}

type fakeSentTx struct {
	hash   string
	status uint64
}

type errorStub struct{ msg string }

func (e *errorStub) Error() string { return e.msg }

func (f *fakeSentTx) Hash() string { return f.hash }
func (f *fakeSentTx) Wait(ctx context.Context, confirmations int) (*signer.Receipt, *errs.Error) {
	return &signer.Receipt{Status: f.status, BlockNumber: 100, GasUsed: 21000}, nil
}

type fakeSigner struct {
	address string
	sent    []*types.TxnData
	failAt  int
	rejectAt int
}

func (f *fakeSigner) GetAddress(ctx context.Context) (string, error) { return f.address, nil }
func (f *fakeSigner) SendTransaction(ctx context.Context, tx *types.TxnData) (signer.SentTx, error) {
	f.sent = append(f.sent, tx)
	idx := len(f.sent) - 1
	if idx == f.rejectAt {
		return nil, &errorStub{msg: "user rejected the transaction"}
	}
	status := uint64(1)
	if idx == f.failAt {
		status = 0
	}
	return &fakeSentTx{hash: "0xHASH" + tx.ID, status: status}, nil
}

func sampleTxns(crossChain bool) []*types.TxnData {
	action := types.ActionSwap
	if crossChain {
		action = types.ActionBridge
	}
	return []*types.TxnData{
		{ID: "approve", Type: types.ActionApprove, Order: 0},
		{ID: "swap", Type: action, Order: 1, DependsOn: "approve"},
	}
}

func TestExecuteSameChainSucceeds(t *testing.T) {
	s := &fakeSigner{address: "0xUser", failAt: -1, rejectAt: -1}
	e := New(s, nil, bridgestatus.New())
	route := types.SwapRoute{Steps: []types.RouteStep{{FromChainID: 1, ToChainID: 1, Protocol: "0x"}}}

	exec, err := e.Execute(context.Background(), "quote-1", route, sampleTxns(false))
	require.Nil(t, err)
	assert.Equal(t, types.ExecCompleted, exec.Status)
	assert.Equal(t, types.TxnConfirmed, exec.Transactions[0].Status)
	assert.Equal(t, types.TxnConfirmed, exec.Transactions[1].Status)
}

func TestExecuteFailsOnRevertedReceipt(t *testing.T) {
	s := &fakeSigner{address: "0xUser", failAt: 1, rejectAt: -1}
	e := New(s, nil, bridgestatus.New())
	route := types.SwapRoute{Steps: []types.RouteStep{{FromChainID: 1, ToChainID: 1, Protocol: "0x"}}}

	exec, err := e.Execute(context.Background(), "quote-2", route, sampleTxns(false))
	require.NotNil(t, err)
	assert.Equal(t, types.ExecFailed, exec.Status)
	assert.Equal(t, "TransactionReverted", string(err.Kind))
}

func TestExecuteClassifiesUserRejection(t *testing.T) {
	s := &fakeSigner{address: "0xUser", failAt: -1, rejectAt: 0}
	e := New(s, nil, bridgestatus.New())
	route := types.SwapRoute{Steps: []types.RouteStep{{FromChainID: 1, ToChainID: 1, Protocol: "0x"}}}

	_, err := e.Execute(context.Background(), "quote-3", route, sampleTxns(false))
	require.NotNil(t, err)
	assert.Equal(t, "UserRejected", string(err.Kind))
}

func TestExecuteCrossChainFinalizesViaBridgePoller(t *testing.T) {
	strategy := &fakeBridgeStrategy{
		name:   "Socket",
		status: &types.BridgeStatus{Provider: "Socket", State: bridgestatus.StateCompleted, DestinationTxHash: "0xDEST"},
	}
	poller := bridgestatus.New(strategy).WithTimeout(time.Second)

	s := &fakeSigner{address: "0xUser", failAt: -1, rejectAt: -1}
	e := New(s, nil, poller)
	route := types.SwapRoute{Steps: []types.RouteStep{{FromChainID: 1, ToChainID: 137, Protocol: "Socket"}}}

	exec, err := e.Execute(context.Background(), "quote-4", route, sampleTxns(true))
	require.Nil(t, err)
	assert.Equal(t, types.ExecCompleted, exec.Status)
	assert.Equal(t, "0xDEST", exec.DestinationTxHash)
}
