package types

import "math/big"

// TxnStatus is a TxnData's lifecycle status.
type TxnStatus string

const (
	TxnPending   TxnStatus = "pending"
	TxnSubmitted TxnStatus = "submitted"
	TxnConfirmed TxnStatus = "confirmed"
	TxnFailed    TxnStatus = "failed"
)

// TokenApproval describes the approval a TxnData of type approval grants.
type TokenApproval struct {
	Token   Token
	Spender string
	Amount  *big.Int // nil denotes an infinite (MAX_UINT256) approval
}

// TxnData is a single on-chain transaction the Executor submits in order.
type TxnData struct {
	ID          string
	Type        RouteAction
	ChainID     uint64
	To          string
	From        string
	Data        string
	Value       *big.Int
	GasLimit    uint64
	GasPrice    *big.Int // legacy gas price; the builder sets it even when the EIP-1559 fields are set too
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	Nonce       *uint64
	Description string
	EstimatedGas uint64
	TokenApproval *TokenApproval
	Order        int
	DependsOn    string

	Status        TxnStatus
	TxHash        string
	Confirmations int
	Error         string
}

// ExecutionStatus is a SwapExecution's lifecycle status (spec §4.7).
type ExecutionStatus string

const (
	ExecPreparing ExecutionStatus = "preparing"
	ExecApproving ExecutionStatus = "approving"
	ExecSwapping  ExecutionStatus = "swapping"
	ExecBridging  ExecutionStatus = "bridging"
	ExecCompleted ExecutionStatus = "completed"
	ExecFailed    ExecutionStatus = "failed"
)

// BridgeStatus tracks a cross-chain transfer's provider-reported state.
type BridgeStatus struct {
	Provider          string
	State             string // "pending" | "in_progress" | "completed" | "failed"
	DestinationTxHash string
}

// SwapExecution tracks a multi-step execution end to end.
type SwapExecution struct {
	QuoteID           string
	Transactions      []*TxnData
	Status            ExecutionStatus
	CurrentStep       int
	TotalSteps        int
	StartedAtMs       int64
	CompletedAtMs     int64
	SourceTxHash      string
	DestinationTxHash string
	BridgeStatus      *BridgeStatus
}

// SwapResult is the Executor/Façade's terminal return value.
type SwapResult struct {
	Success   bool
	TxHashes  []string
	Execution *SwapExecution
	Error     error
}

// GasTier is one of a chain's slow/standard/fast gas price offerings.
type GasTier struct {
	GasPrice             *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	EstimatedSeconds     int
}

// GasPrices is a chain's full slow/standard/fast gas price table plus the
// native token's USD price, used for gas-cost conversion.
type GasPrices struct {
	ChainID             uint64
	Slow                GasTier
	Standard            GasTier
	Fast                GasTier
	NativeTokenPriceUsd float64
}
