package bridgestatus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocketStrategyCompletedWhenDestinationHashPresent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"destinationTransactionHash":"0xDEF","sourceTxStatus":"COMPLETED"}}`))
	}))
	defer srv.Close()

	s := NewSocketStrategy("")
	s.baseURL = srv.URL
	status, err := s.CheckStatus(context.Background(), 1, "0xABC")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, status.State)
	assert.Equal(t, "0xDEF", status.DestinationTxHash)
}

func TestSocketStrategyFailedOnSourceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"sourceTxStatus":"FAILED"}}`))
	}))
	defer srv.Close()

	s := NewSocketStrategy("")
	s.baseURL = srv.URL
	status, err := s.CheckStatus(context.Background(), 1, "0xABC")
	require.NoError(t, err)
	assert.Equal(t, StateFailed, status.State)
}

func TestLiFiStrategyCompletedOnDone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"DONE","receiving":{"txHash":"0xDEST"}}`))
	}))
	defer srv.Close()

	s := NewLiFiStrategy("")
	s.baseURL = srv.URL
	status, err := s.CheckStatus(context.Background(), 137, "0xABC")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, status.State)
	assert.Equal(t, "0xDEST", status.DestinationTxHash)
}

func TestAcrossStrategyInProgressByDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"pending"}`))
	}))
	defer srv.Close()

	s := NewAcrossStrategy()
	s.baseURL = srv.URL
	status, err := s.CheckStatus(context.Background(), 1, "0xABC")
	require.NoError(t, err)
	assert.Equal(t, StateInProgress, status.State)
}

func TestStargateStrategyCompletedOnDelivered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"messages":[{"status":"DELIVERED","dstTxHash":"0xDEST"}]}`))
	}))
	defer srv.Close()

	s := NewStargateStrategy()
	s.baseURL = srv.URL
	status, err := s.CheckStatus(context.Background(), 1, "0xABC")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, status.State)
}

func TestPollerCompletesOnFirstPoll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"DONE","receiving":{"txHash":"0xDEST"}}`))
	}))
	defer srv.Close()

	strategy := NewLiFiStrategy("")
	strategy.baseURL = srv.URL

	p := New(strategy)
	p.pollInterval = time.Millisecond
	status, err := p.Await(context.Background(), "LiFi", 1, "0xABC")
	require.Nil(t, err)
	assert.Equal(t, StateCompleted, status.State)
}

func TestPollerTimesOutOnUnknownProvider(t *testing.T) {
	p := New()
	p.pollInterval = time.Millisecond
	p.timeout = 5 * time.Millisecond
	_, err := p.Await(context.Background(), "NeverHeardOfIt", 1, "0xABC")
	require.NotNil(t, err)
	assert.Equal(t, "BridgeTimeout", string(err.Kind))
}
