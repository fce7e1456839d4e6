package oracle

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGasCostUsd(t *testing.T) {
	gasPrice := gweiToWei(30) // 30 gwei
	cost := GasCostUsd(21000, gasPrice, 2000)
	assert.InDelta(t, 1.26, cost, 0.01)
}

func TestGasCostUsdZeroPrice(t *testing.T) {
	assert.Equal(t, 0.0, GasCostUsd(21000, nil, 2000))
}

func TestBuildTiersEIP1559(t *testing.T) {
	tier := buildTier(30, 30, true)
	assert.NotNil(t, tier.MaxFeePerGas)
	assert.NotNil(t, tier.MaxPriorityFeePerGas)
	assert.Equal(t, gweiToWei(45).String(), tier.MaxFeePerGas.String())
}

func TestBuildTiersLegacy(t *testing.T) {
	tier := buildTier(30, 30, false)
	assert.Nil(t, tier.MaxFeePerGas)
	assert.Nil(t, tier.MaxPriorityFeePerGas)
}

func TestGweiToWei(t *testing.T) {
	assert.Equal(t, big.NewInt(1_000_000_000).String(), gweiToWei(1).String())
}
