// Package signer defines the signing capability the Executor depends on
// and the lazy per-chain RPC provider pool used to submit and confirm
// transactions. Grounded on the teacher's clients/kms_client.go (the
// remote-signing HTTP contract) and
// services/blockchain_transaction_service.go's ethclient usage.
package signer

import (
	"context"

	"crossfund/internal/errs"
	"crossfund/internal/types"
)

// Receipt is the confirmation outcome of a submitted transaction.
type Receipt struct {
	Status       uint64 // 1 success, 0 reverted
	BlockNumber  uint64
	GasUsed      uint64
	RevertReason string
}

// SentTx is a transaction that has been broadcast and can be awaited.
type SentTx interface {
	Hash() string
	Wait(ctx context.Context, confirmations int) (*Receipt, *errs.Error)
}

// Signer is the capability the Executor needs: resolve the signing
// address and submit a prepared TxnData. Implementations own nonce
// assignment; the Executor never computes one (spec §4.7 "Ordering
// guarantees").
type Signer interface {
	GetAddress(ctx context.Context) (string, error)
	SendTransaction(ctx context.Context, tx *types.TxnData) (SentTx, error)
}
