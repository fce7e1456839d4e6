package facade

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crossfund/internal/types"
)

func TestNewWiresEveryComponent(t *testing.T) {
	cf := New(DefaultConfig())
	require.NotNil(t, cf.Quotes)
	require.NotNil(t, cf.Builder)
	require.NotNil(t, cf.Providers)
	require.NotNil(t, cf.Poller)
	require.NotNil(t, cf.Oracle)
}

func TestCheckApprovalSkipsLookupForNativeToken(t *testing.T) {
	cf := New(DefaultConfig())
	native := types.Token{ChainID: 1, Address: "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE", Decimals: 18}

	status, err := cf.CheckApproval(context.Background(), native, "0xowner", "0xspender", big.NewInt(1))
	require.Nil(t, err)
	assert.False(t, status.NeedsApproval)
	assert.Nil(t, status.CurrentAllowance)
}

func TestResolveQuoteBuildsSyntheticQuoteForWrap(t *testing.T) {
	cf := New(DefaultConfig())
	req := types.QuoteRequest{
		InputToken:  types.Token{ChainID: 1, Address: "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE", Symbol: "ETH", Decimals: 18},
		OutputToken: types.Token{ChainID: 1, Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Symbol: "WETH", Decimals: 18},
		Amount:      big.NewInt(1_000_000_000_000_000_000),
		UserAddress: "0xowner",
	}

	sq, err := cf.resolveQuote(context.Background(), req)
	require.Nil(t, err)
	require.Len(t, sq.Route.Steps, 1)
	assert.Equal(t, types.ActionWrap, sq.Route.Steps[0].Action)
	assert.Equal(t, req.Amount, sq.InputAmount)
}

func TestOrDefaultFallsBackOnNonPositive(t *testing.T) {
	assert.Equal(t, 5*time.Second, orDefault(0, 5*time.Second))
	assert.Equal(t, 5*time.Second, orDefault(-1, 5*time.Second))
	assert.Equal(t, 2*time.Second, orDefault(2*time.Second, 5*time.Second))
}

func TestInitIsIdempotent(t *testing.T) {
	first := Init(DefaultConfig())
	second := Init(DefaultConfig())
	assert.Same(t, first, second)
	assert.Same(t, first, Default())
}

func TestParseAmountHuman(t *testing.T) {
	got := ParseAmount("1.5", 6)
	assert.Equal(t, big.NewInt(1_500_000), got)
}

func TestParseAmountRaw(t *testing.T) {
	got := ParseAmount("123456789012", 6)
	assert.Equal(t, big.NewInt(123456789012), got)
}
