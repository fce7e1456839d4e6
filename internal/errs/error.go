package errs

import (
	"errors"
	"fmt"
)

// Error is the single error shape that crosses every CrossFund component
// boundary. It carries enough structure for a caller to decide whether to
// retry, prompt the user, or surface the failure as-is.
type Error struct {
	Kind            Kind
	Message         string
	Details         map[string]any
	Recoverable     bool
	SuggestedAction string
	Cause           error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether the retry combinator should retry an
// operation that failed with this error.
func (e *Error) IsRetryable() bool {
	return e.Recoverable && retryableKinds[e.Kind]
}

// New builds an *Error of the given kind with no details or cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Recoverable: defaultRecoverable(kind)}
}

// Wrap builds an *Error of the given kind carrying an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause, Recoverable: defaultRecoverable(kind)}
}

// WithDetails attaches structured details and returns the same *Error for
// chaining at the call site.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// WithAction sets the suggested recovery action string.
func (e *Error) WithAction(action string) *Error {
	e.SuggestedAction = action
	return e
}

func defaultRecoverable(kind Kind) bool {
	switch kind {
	case KindNetworkError, KindApiError, KindRateLimited, KindGasEstimationFailed, KindBridgeTimeout:
		return true
	default:
		return false
	}
}

// As extracts an *Error from any error via the standard unwrap chain.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// factory constructors, one per kind named in spec §4.1.

func InsufficientBalance(details map[string]any) *Error {
	return New(KindInsufficientBalance, "insufficient balance for this swap").WithDetails(details).
		WithAction("add_funds")
}

func InsufficientAllowance(details map[string]any) *Error {
	return New(KindInsufficientAllowance, "insufficient token allowance").WithDetails(details).
		WithAction("approve")
}

func SlippageExceeded(details map[string]any) *Error {
	return New(KindSlippageExceeded, "output would be below the minimum accepted amount").
		WithDetails(details).WithAction("increase_slippage")
}

func PriceImpactTooHigh(pct float64) *Error {
	return New(KindPriceImpactTooHigh, "price impact exceeds the configured ceiling").
		WithDetails(map[string]any{"priceImpactPct": pct}).WithAction("abort")
}

func QuoteExpired(quoteID string) *Error {
	return New(KindQuoteExpired, "quote has expired, request a fresh one").
		WithDetails(map[string]any{"quoteId": quoteID}).WithAction("retry")
}

func NoRouteFound(details map[string]any) *Error {
	return New(KindNoRouteFound, "no aggregator returned a usable route").
		WithDetails(details).WithAction("abort")
}

func BridgeTimeout(details map[string]any) *Error {
	return New(KindBridgeTimeout, "bridge did not complete within the polling window").
		WithDetails(details).WithAction("wait")
}

func BridgeFailed(details map[string]any) *Error {
	return New(KindBridgeFailed, "bridge reported a failed transfer").
		WithDetails(details).WithAction("abort")
}

func GasEstimationFailed(cause error) *Error {
	return Wrap(KindGasEstimationFailed, "gas estimation failed", cause).WithAction("retry")
}

func TransactionFailed(reason string, details map[string]any) *Error {
	if details == nil {
		details = map[string]any{}
	}
	details["revertReason"] = reason
	return New(KindTransactionFailed, "transaction failed on-chain").WithDetails(details).
		WithAction("abort")
}

func TransactionReverted(reason string) *Error {
	return New(KindTransactionReverted, "transaction reverted").
		WithDetails(map[string]any{"revertReason": reason}).WithAction("abort")
}

func UserRejected() *Error {
	return New(KindUserRejected, "user rejected the transaction request").WithAction("abort")
}

func NetworkError(cause error) *Error {
	return Wrap(KindNetworkError, "network error communicating with upstream", cause).
		WithAction("retry")
}

func ApiError(statusCode int, body string) *Error {
	return New(KindApiError, "upstream API returned an error").
		WithDetails(map[string]any{"statusCode": statusCode, "body": body}).WithAction("retry")
}

func RateLimited(retryAfterMs int64) *Error {
	return New(KindRateLimited, "upstream rate limit exceeded").
		WithDetails(map[string]any{"retryAfterMs": retryAfterMs}).WithAction("wait")
}

func InvalidParams(message string) *Error {
	return New(KindInvalidParams, message).WithAction("abort")
}

func UnsupportedChain(chainID uint64) *Error {
	return New(KindUnsupportedChain, "chain is not supported").
		WithDetails(map[string]any{"chainId": chainID}).WithAction("abort")
}

func UnsupportedToken(address string, chainID uint64) *Error {
	return New(KindUnsupportedToken, "token is not supported on this chain").
		WithDetails(map[string]any{"address": address, "chainId": chainID}).WithAction("abort")
}

func UnknownError(cause error) *Error {
	return Wrap(KindUnknownError, "unclassified failure", cause).WithAction("abort")
}
