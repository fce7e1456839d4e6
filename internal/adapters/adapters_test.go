package adapters

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crossfund/internal/types"
)

func sampleRequest(inChain, outChain uint64) types.QuoteRequest {
	return types.QuoteRequest{
		InputToken:  types.Token{ChainID: inChain, Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Decimals: 6},
		OutputToken: types.Token{ChainID: outChain, Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Decimals: 18},
		Amount:      big.NewInt(1_000_000),
		SlippageBps: 100,
	}
}

func TestZeroXQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"buyAmount":"990000000000000000","estimatedGas":"150000","estimatedPriceImpact":"0.5","to":"0xSpender","data":"0xabc","value":"0","gas":"160000"}`))
	}))
	defer srv.Close()

	a := NewZeroX("")
	a.baseURL = srv.URL
	q, err := a.Quote(context.Background(), sampleRequest(1, 1))
	require.NoError(t, err)
	assert.Equal(t, "990000000000000000", q.OutputAmount.String())
	assert.Equal(t, uint64(150000), q.EstimatedGas)
	require.NotNil(t, q.TxData)
	assert.Equal(t, "0xSpender", q.TxData.To)
}

func TestZeroXQuoteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"reason":"insufficient liquidity"}`))
	}))
	defer srv.Close()

	a := NewZeroX("")
	a.baseURL = srv.URL
	_, err := a.Quote(context.Background(), sampleRequest(1, 1))
	require.Error(t, err)
}

func TestOneInchQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dstAmount":"995000000000000000","estimatedGas":"120000"}`))
	}))
	defer srv.Close()

	a := NewOneInch("")
	a.baseURL = srv.URL
	q, err := a.Quote(context.Background(), sampleRequest(1, 1))
	require.NoError(t, err)
	assert.Equal(t, "995000000000000000", q.OutputAmount.String())
}

func TestParaswapPriceImpactFlooredAtZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"priceRoute":{"destAmount":"1000000000000000000","gasCost":"100000","srcUSD":"100","destUSD":"105"}}`))
	}))
	defer srv.Close()

	a := NewParaswap()
	a.baseURL = srv.URL
	q, err := a.Quote(context.Background(), sampleRequest(1, 1))
	require.NoError(t, err)
	assert.Equal(t, 0.0, q.PriceImpactPct)
}

func TestSocketCrossChainQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"routes":[{"toAmount":"498000000","usedBridgeNames":["hop"],"serviceTime":120}]}}`))
	}))
	defer srv.Close()

	a := NewSocket("")
	a.baseURL = srv.URL
	q, err := a.Quote(context.Background(), sampleRequest(137, 42161))
	require.NoError(t, err)
	assert.Equal(t, "498000000", q.OutputAmount.String())
	assert.Equal(t, "hop", q.BridgeUsed)
	assert.Equal(t, 120, q.EstimatedTimeSeconds)
}

func TestLiFiQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"estimate":{"toAmount":"497000000","gasCosts":[{"amount":"210000"}],"executionDuration":180},"toolDetails":{"name":"stargate"}}`))
	}))
	defer srv.Close()

	a := NewLiFi("")
	a.baseURL = srv.URL
	q, err := a.Quote(context.Background(), sampleRequest(137, 42161))
	require.NoError(t, err)
	assert.Equal(t, "497000000", q.OutputAmount.String())
	assert.Equal(t, "stargate", q.BridgeUsed)
}

func TestEligibleFiltersBySameChainVsCrossChain(t *testing.T) {
	all := Registry(APIKeys{})
	sameChain := Eligible(all, sampleRequest(1, 1))
	for _, a := range sameChain {
		assert.Equal(t, types.ProtocolDexAggregator, a.Type())
	}

	crossChain := Eligible(all, sampleRequest(137, 42161))
	for _, a := range crossChain {
		assert.Equal(t, types.ProtocolBridgeAggregator, a.Type())
	}
}
