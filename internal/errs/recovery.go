package errs

// RecoveryAction is the closed set of caller-facing recovery hints.
type RecoveryAction string

const (
	ActionRetry            RecoveryAction = "retry"
	ActionIncreaseSlippage RecoveryAction = "increase_slippage"
	ActionApprove          RecoveryAction = "approve"
	ActionAddFunds         RecoveryAction = "add_funds"
	ActionWait             RecoveryAction = "wait"
	ActionAbort            RecoveryAction = "abort"
)

// RecoveryAdvice pairs a recommended action with action-specific
// parameters, e.g. a suggested slippage bump or a wait duration.
type RecoveryAdvice struct {
	Action RecoveryAction
	Params map[string]any
}

// Recovery maps an error's kind to caller-actionable advice, following the
// policy table in spec §7.
func (e *Error) Recovery() RecoveryAdvice {
	switch e.Kind {
	case KindSlippageExceeded:
		return RecoveryAdvice{Action: ActionIncreaseSlippage, Params: map[string]any{"suggestedSlippageBps": 200}}
	case KindInsufficientAllowance:
		return RecoveryAdvice{Action: ActionApprove}
	case KindInsufficientBalance:
		return RecoveryAdvice{Action: ActionAddFunds}
	case KindQuoteExpired:
		return RecoveryAdvice{Action: ActionRetry, Params: map[string]any{"reason": "request fresh quote"}}
	case KindBridgeTimeout:
		return RecoveryAdvice{Action: ActionWait, Params: map[string]any{"reason": "manual status check recommended"}}
	case KindRateLimited:
		waitMs := int64(0)
		if e.Details != nil {
			if v, ok := e.Details["retryAfterMs"].(int64); ok {
				waitMs = v
			}
		}
		return RecoveryAdvice{Action: ActionWait, Params: map[string]any{"waitMs": waitMs}}
	case KindNetworkError, KindApiError, KindGasEstimationFailed:
		return RecoveryAdvice{Action: ActionRetry}
	default:
		return RecoveryAdvice{Action: ActionAbort}
	}
}
