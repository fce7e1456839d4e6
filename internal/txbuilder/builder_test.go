package txbuilder

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crossfund/internal/types"
)

func sampleQuote() (types.QuoteRequest, *types.SwapQuote) {
	req := types.QuoteRequest{
		InputToken:  types.Token{ChainID: 1, Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Symbol: "USDC", Decimals: 6},
		OutputToken: types.Token{ChainID: 1, Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Symbol: "WETH", Decimals: 18},
		Amount:      big.NewInt(1_000_000),
		UserAddress: "0x000000000000000000000000000000000000aa",
	}
	sq := &types.SwapQuote{
		Aggregator:   "0x",
		EstimatedGas: 150000,
		Route:        types.SwapRoute{Steps: []types.RouteStep{{FromChainID: 1, ToChainID: 1}}},
		TxData: &types.TxData{
			To:    "0x0000000000000000000000000000000000dEaD",
			Data:  "0xabcdef",
			Value: big.NewInt(0),
			Gas:   150000,
		},
	}
	return req, sq
}

func sampleGasPrices(eip1559 bool) *types.GasPrices {
	tier := types.GasTier{GasPrice: big.NewInt(30_000_000_000)}
	if eip1559 {
		tier.MaxFeePerGas = big.NewInt(45_000_000_000)
		tier.MaxPriorityFeePerGas = big.NewInt(2_000_000_000)
	}
	return &types.GasPrices{ChainID: 1, Standard: tier}
}

func TestBuildIncludesApprovalForErc20Input(t *testing.T) {
	req, sq := sampleQuote()
	b := New()
	txns, err := b.Build("quote-1", req, sq, "0x1111111111111111111111111111111111111111", nil, nil)
	require.Nil(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, types.ActionApprove, txns[0].Type)
	assert.Equal(t, 0, txns[0].Order)
	assert.Equal(t, types.ActionSwap, txns[1].Type)
	assert.Equal(t, 1, txns[1].Order)
	assert.Equal(t, txns[0].ID, txns[1].DependsOn)
}

func TestBuildSkipsApprovalForNativeInput(t *testing.T) {
	req, sq := sampleQuote()
	req.InputToken.Address = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"
	b := New()
	txns, err := b.Build("quote-2", req, sq, "0x1111111111111111111111111111111111111111", nil, nil)
	require.Nil(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, types.ActionSwap, txns[0].Type)
	assert.Equal(t, "", txns[0].DependsOn)
}

func TestBuildSkipsApprovalWhenAllowanceSufficient(t *testing.T) {
	req, sq := sampleQuote()
	b := New()
	allowance := big.NewInt(5_000_000)
	txns, err := b.Build("quote-2b", req, sq, "0x1111111111111111111111111111111111111111", allowance, nil)
	require.Nil(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, types.ActionSwap, txns[0].Type)
	assert.Equal(t, "", txns[0].DependsOn)
}

func TestBuildKeepsApprovalWhenAllowanceInsufficient(t *testing.T) {
	req, sq := sampleQuote()
	b := New()
	allowance := big.NewInt(1) // less than req.Amount (1_000_000)
	txns, err := b.Build("quote-2c", req, sq, "0x1111111111111111111111111111111111111111", allowance, nil)
	require.Nil(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, types.ActionApprove, txns[0].Type)
}

func TestBuildAppliesGasBuffer(t *testing.T) {
	req, sq := sampleQuote()
	b := New()
	txns, err := b.Build("quote-3", req, sq, "0x1111111111111111111111111111111111111111", nil, nil)
	require.Nil(t, err)
	swapTx := txns[len(txns)-1]
	assert.Equal(t, uint64(180000), swapTx.GasLimit)
}

func TestBuildRejectsMissingTxData(t *testing.T) {
	req, sq := sampleQuote()
	sq.TxData = nil
	b := New()
	_, err := b.Build("quote-4", req, sq, "0x1111111111111111111111111111111111111111", nil, nil)
	require.NotNil(t, err)
}

func TestBuildDetectsCrossChainAction(t *testing.T) {
	req, sq := sampleQuote()
	sq.Route.Steps[0].ToChainID = 137
	b := New()
	txns, err := b.Build("quote-5", req, sq, "0x1111111111111111111111111111111111111111", nil, nil)
	require.Nil(t, err)
	swapTx := txns[len(txns)-1]
	assert.Equal(t, types.ActionBridge, swapTx.Type)
}

func TestBuildPopulatesLegacyGasFields(t *testing.T) {
	req, sq := sampleQuote()
	b := New()
	txns, err := b.Build("quote-6", req, sq, "0x1111111111111111111111111111111111111111", nil, sampleGasPrices(false))
	require.Nil(t, err)
	for _, tx := range txns {
		assert.Equal(t, big.NewInt(30_000_000_000).String(), tx.GasPrice.String())
		assert.Nil(t, tx.MaxFeePerGas)
		assert.Nil(t, tx.MaxPriorityFeePerGas)
	}
}

func TestBuildPopulatesEIP1559GasFields(t *testing.T) {
	req, sq := sampleQuote()
	b := New()
	txns, err := b.Build("quote-7", req, sq, "0x1111111111111111111111111111111111111111", nil, sampleGasPrices(true))
	require.Nil(t, err)
	for _, tx := range txns {
		assert.Equal(t, big.NewInt(45_000_000_000).String(), tx.MaxFeePerGas.String())
		assert.Equal(t, big.NewInt(2_000_000_000).String(), tx.MaxPriorityFeePerGas.String())
	}
}

func TestBuildWrapsNativeIntoWeth(t *testing.T) {
	req := types.QuoteRequest{
		InputToken:  types.Token{ChainID: 1, Address: "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE", Symbol: "ETH", Decimals: 18},
		OutputToken: types.Token{ChainID: 1, Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Symbol: "WETH", Decimals: 18},
		Amount:      big.NewInt(1_000_000_000_000_000_000),
		UserAddress: "0x000000000000000000000000000000000000aa",
	}
	b := New()
	txns, err := b.Build("quote-8", req, &types.SwapQuote{}, "0x1111111111111111111111111111111111111111", nil, nil)
	require.Nil(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, types.ActionWrap, txns[0].Type)
	assert.Equal(t, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", txns[0].To)
	assert.Equal(t, "0xd0e30db0", txns[0].Data) // deposit() selector
	assert.Equal(t, req.Amount.String(), txns[0].Value.String())
}

func TestBuildUnwrapsWethIntoNative(t *testing.T) {
	req := types.QuoteRequest{
		InputToken:  types.Token{ChainID: 1, Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Symbol: "WETH", Decimals: 18},
		OutputToken: types.Token{ChainID: 1, Address: "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE", Symbol: "ETH", Decimals: 18},
		Amount:      big.NewInt(1_000_000_000_000_000_000),
		UserAddress: "0x000000000000000000000000000000000000aa",
	}
	b := New()
	txns, err := b.Build("quote-9", req, &types.SwapQuote{}, "0x1111111111111111111111111111111111111111", nil, nil)
	require.Nil(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, types.ActionUnwrap, txns[0].Type)
	assert.Equal(t, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", txns[0].To)
	assert.Equal(t, "0", txns[0].Value.String())
}

func TestWrapActionFalseForCrossChainOrUnrelatedTokens(t *testing.T) {
	req, _ := sampleQuote()
	_, ok := WrapAction(req)
	assert.False(t, ok)

	crossChain := types.QuoteRequest{
		InputToken:  types.Token{ChainID: 1, Address: "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE", Symbol: "ETH", Decimals: 18},
		OutputToken: types.Token{ChainID: 137, Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Symbol: "WETH", Decimals: 18},
		Amount:      big.NewInt(1_000_000_000_000_000_000),
	}
	_, ok = WrapAction(crossChain)
	assert.False(t, ok)
}
