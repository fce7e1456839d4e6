package errs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want Kind
	}{
		{"insufficient balance", errors.New("insufficient funds for gas"), KindInsufficientBalance},
		{"user rejected", errors.New("User rejected the request"), KindUserRejected},
		{"reverted", errors.New("execution reverted: SLIPPAGE_TOO_LOW"), KindTransactionReverted},
		{"rate limited", errors.New("429 Too Many Requests"), KindRateLimited},
		{"slippage", errors.New("slippage tolerance exceeded"), KindSlippageExceeded},
		{"timeout", errors.New("request timed out"), KindNetworkError},
		{"unknown", errors.New("something strange happened"), KindUnknownError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.in)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, got.Kind)
		})
	}
}

func TestClassifyPreservesExistingError(t *testing.T) {
	original := InsufficientBalance(map[string]any{"have": "1", "need": "2"})
	got := Classify(original)
	assert.Same(t, original, got)
}

func TestClassifyHTTPStatus(t *testing.T) {
	assert.Equal(t, KindRateLimited, ClassifyHTTPStatus(429, "").Kind)
	assert.True(t, ClassifyHTTPStatus(503, "").Recoverable)
	assert.Equal(t, KindApiError, ClassifyHTTPStatus(503, "").Kind)
	got400 := ClassifyHTTPStatus(400, "bad request")
	assert.Equal(t, KindApiError, got400.Kind)
	assert.False(t, got400.Recoverable)
	assert.Nil(t, ClassifyHTTPStatus(200, ""))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, NetworkError(errors.New("boom")).IsRetryable())
	assert.True(t, RateLimited(500).IsRetryable())
	assert.False(t, InvalidParams("bad").IsRetryable())
	assert.False(t, UserRejected().IsRetryable())
}

func TestWithRetrySucceedsAfterRetries(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, Multiplier: 2, MaxDelay: 10 * time.Millisecond}
	attempts := 0
	err := WithRetry(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return NetworkError(errors.New("flaky"))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryDoesNotRetryNonRecoverable(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, Multiplier: 2, MaxDelay: 10 * time.Millisecond}
	attempts := 0
	err := WithRetry(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		return InvalidParams("bad request")
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWithRetryExhaustsAndReturnsLastError(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, Multiplier: 2, MaxDelay: 5 * time.Millisecond}
	attempts := 0
	err := WithRetry(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		return RateLimited(100)
	})
	var classified *Error
	require.True(t, errors.As(err, &classified))
	assert.Equal(t, KindRateLimited, classified.Kind)
	assert.Equal(t, 3, attempts) // initial + 2 retries
}

func TestRecoveryAdvice(t *testing.T) {
	advice := SlippageExceeded(nil).Recovery()
	assert.Equal(t, ActionIncreaseSlippage, advice.Action)
	assert.Equal(t, 200, advice.Params["suggestedSlippageBps"])

	advice = InsufficientAllowance(nil).Recovery()
	assert.Equal(t, ActionApprove, advice.Action)
}
