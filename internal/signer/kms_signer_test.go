package signer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crossfund/internal/types"
)

func TestBuildUnsignedTxUsesDynamicFeeWhenEip1559FieldsPresent(t *testing.T) {
	s := NewKMSSigner(NewProviderPool(), "https://kms.internal", "token", "alias-1", "0x0000000000000000000000000000000000000a")
	tx := &types.TxnData{
		ChainID:              1,
		To:                   "0x000000000000000000000000000000000000bb",
		Data:                 "0xabcdef",
		Value:                big.NewInt(0),
		GasLimit:             100000,
		MaxFeePerGas:         big.NewInt(50_000_000_000),
		MaxPriorityFeePerGas: big.NewInt(2_000_000_000),
	}
	unsigned, err := s.buildUnsignedTx(tx, 5)
	require.Nil(t, err)
	assert.Equal(t, uint8(2), unsigned.Type())
	assert.Equal(t, uint64(5), unsigned.Nonce())
}

func TestBuildUnsignedTxUsesLegacyWhenNoEip1559Fields(t *testing.T) {
	s := NewKMSSigner(NewProviderPool(), "https://kms.internal", "token", "alias-1", "0x0000000000000000000000000000000000000a")
	tx := &types.TxnData{
		ChainID:  1,
		To:       "0x000000000000000000000000000000000000bb",
		Data:     "0xabcdef",
		Value:    big.NewInt(0),
		GasLimit: 100000,
		GasPrice: big.NewInt(20_000_000_000),
	}
	unsigned, err := s.buildUnsignedTx(tx, 0)
	require.Nil(t, err)
	assert.Equal(t, uint8(0), unsigned.Type())
}

func TestBuildUnsignedTxRejectsInvalidHexData(t *testing.T) {
	s := NewKMSSigner(NewProviderPool(), "https://kms.internal", "token", "alias-1", "0x0000000000000000000000000000000000000a")
	tx := &types.TxnData{
		ChainID:  1,
		To:       "0x000000000000000000000000000000000000bb",
		Data:     "not-hex",
		GasLimit: 100000,
	}
	_, err := s.buildUnsignedTx(tx, 0)
	require.NotNil(t, err)
}

func TestIsUserRejectionDetectsCommonPatterns(t *testing.T) {
	assert.True(t, isUserRejection(&stubErr{"User rejected the request"}))
	assert.True(t, isUserRejection(&stubErr{"user denied transaction signature"}))
	assert.False(t, isUserRejection(&stubErr{"insufficient funds"}))
}

type stubErr struct{ msg string }

func (e *stubErr) Error() string { return e.msg }
