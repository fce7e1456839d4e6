package cache

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crossfund/internal/types"
)

func TestTTLMapSetGet(t *testing.T) {
	c := New[string, int](50 * time.Millisecond)
	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestTTLMapExpires(t *testing.T) {
	c := New[string, int](10 * time.Millisecond)
	c.Set("a", 1)
	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestTTLMapDelete(t *testing.T) {
	c := New[string, int](time.Minute)
	c.Set("a", 1)
	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestQuoteKeyIsCaseInsensitiveAndStable(t *testing.T) {
	req := types.QuoteRequest{
		InputToken:  types.Token{ChainID: 1, Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"},
		OutputToken: types.Token{ChainID: 1, Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"},
		Amount:      big.NewInt(1_000_000),
		AmountType:  types.AmountFromInput,
	}
	k1 := QuoteKey(req)
	k2 := QuoteKey(req)
	assert.Equal(t, k1, k2)

	reqLower := req
	reqLower.InputToken.Address = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
	assert.Equal(t, k1, QuoteKey(reqLower))
}
