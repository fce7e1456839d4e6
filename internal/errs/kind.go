// Package errs is the closed error taxonomy shared by every CrossFund
// component: adapters, quote service, transaction builder, executor and
// bridge poller all return *Error instead of an ad hoc string or a bare
// wrapped error.
package errs

// Kind is the closed set of CrossFund failure categories. New kinds are
// never added by a caller; every failure path classifies into one of
// these.
type Kind string

const (
	KindInsufficientBalance   Kind = "InsufficientBalance"
	KindInsufficientAllowance Kind = "InsufficientAllowance"
	KindSlippageExceeded      Kind = "SlippageExceeded"
	KindPriceImpactTooHigh    Kind = "PriceImpactTooHigh"
	KindQuoteExpired          Kind = "QuoteExpired"
	KindNoRouteFound          Kind = "NoRouteFound"
	KindBridgeTimeout         Kind = "BridgeTimeout"
	KindBridgeFailed          Kind = "BridgeFailed"
	KindGasEstimationFailed   Kind = "GasEstimationFailed"
	KindTransactionFailed     Kind = "TransactionFailed"
	KindTransactionReverted   Kind = "TransactionReverted"
	KindUserRejected          Kind = "UserRejected"
	KindNetworkError          Kind = "NetworkError"
	KindApiError              Kind = "ApiError"
	KindRateLimited           Kind = "RateLimited"
	KindInvalidParams         Kind = "InvalidParams"
	KindUnsupportedChain      Kind = "UnsupportedChain"
	KindUnsupportedToken      Kind = "UnsupportedToken"
	KindUnknownError          Kind = "UnknownError"
)

// retryableKinds are eligible for the retry combinator when Recoverable is
// also true. See WithRetry.
var retryableKinds = map[Kind]bool{
	KindNetworkError:        true,
	KindApiError:            true,
	KindRateLimited:         true,
	KindGasEstimationFailed: true,
}
