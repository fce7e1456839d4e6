package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsUnsupportedChainError(t *testing.T) {
	r := New(defaultChains())
	info, err := r.Get(999999999)
	assert.Nil(t, info)
	require.NotNil(t, err)
	assert.Equal(t, "UnsupportedChain", string(err.Kind))
}

func TestGetReturnsKnownChain(t *testing.T) {
	r := New(defaultChains())
	info, err := r.Get(1)
	require.Nil(t, err)
	assert.Equal(t, "Ethereum", info.Name)
	assert.Equal(t, "ETH", info.NativeSymbol)
}

func TestIsSupported(t *testing.T) {
	r := New(defaultChains())
	assert.True(t, r.IsSupported(137))
	assert.False(t, r.IsSupported(0))
}

func TestAllPreservesRegistrationOrder(t *testing.T) {
	chains := []*Info{
		{ChainID: 10, Name: "b"},
		{ChainID: 1, Name: "a"},
	}
	r := New(chains)
	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, uint64(10), all[0].ChainID)
	assert.Equal(t, uint64(1), all[1].ChainID)
}

func TestNameReturnsEmptyForUnsupportedChain(t *testing.T) {
	r := New(defaultChains())
	assert.Equal(t, "", r.Name(0))
	assert.Equal(t, "Polygon", r.Name(137))
}

func TestUSDC(t *testing.T) {
	r := New(defaultChains())
	addr, err := r.USDC(1)
	require.Nil(t, err)
	assert.NotEmpty(t, addr)

	_, err = r.USDC(0)
	assert.NotNil(t, err)
}

func TestNativeAlwaysReportsEighteenDecimals(t *testing.T) {
	r := New(defaultChains())
	symbol, decimals, err := r.Native(1)
	require.Nil(t, err)
	assert.Equal(t, "ETH", symbol)
	assert.Equal(t, 18, decimals)
}

func TestExplorerTxURLTrimsTrailingSlash(t *testing.T) {
	r := New([]*Info{{ChainID: 1, ExplorerURL: "https://etherscan.io/"}})
	url, err := r.ExplorerTxURL(1, "0xabc")
	require.Nil(t, err)
	assert.Equal(t, "https://etherscan.io/tx/0xabc", url)
}

func TestRPCEndpointReturnsFirstConfigured(t *testing.T) {
	r := New([]*Info{{ChainID: 1, RPCEndpoints: []string{"https://a", "https://b"}}})
	endpoint, err := r.RPCEndpoint(1)
	require.Nil(t, err)
	assert.Equal(t, "https://a", endpoint)
}

func TestRPCEndpointErrorsWhenNoneConfigured(t *testing.T) {
	r := New([]*Info{{ChainID: 1}})
	_, err := r.RPCEndpoint(1)
	require.NotNil(t, err)
	assert.Equal(t, "NetworkError", string(err.Kind))
}
