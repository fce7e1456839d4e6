// Package types holds the core CrossFund data model: Token, QuoteRequest,
// SwapRoute, SwapQuote, TxnData, SwapExecution and GasPrices, shared by
// every component.
package types

import "strings"

// Token is (address, chainId, symbol, decimals) plus optional display
// fields. Equality is (chainId, lowercased address) per spec §3.
type Token struct {
	Address  string  `json:"address"`
	ChainID  uint64  `json:"chainId"`
	Symbol   string  `json:"symbol"`
	Decimals int     `json:"decimals"`
	Name     string  `json:"name,omitempty"`
	Logo     string  `json:"logo,omitempty"`
	PriceUsd float64 `json:"priceUsd,omitempty"`
}

// Equal implements the token-equality rule from spec §3.
func (t Token) Equal(other Token) bool {
	return t.ChainID == other.ChainID &&
		strings.EqualFold(t.Address, other.Address)
}

// AmountType selects whether a QuoteRequest's amount denotes the input or
// the desired output.
type AmountType string

const (
	AmountFromInput  AmountType = "fromInput"
	AmountFromOutput AmountType = "fromOutput"
)

// ProtocolType classifies the kind of venue a RouteStep executes against.
type ProtocolType string

const (
	ProtocolDex             ProtocolType = "dex"
	ProtocolDexAggregator    ProtocolType = "dex-aggregator"
	ProtocolBridge           ProtocolType = "bridge"
	ProtocolBridgeAggregator ProtocolType = "bridge-aggregator"
)

// RouteAction is the on-chain action a RouteStep or TxnData performs.
type RouteAction string

const (
	ActionSwap    RouteAction = "swap"
	ActionBridge  RouteAction = "bridge"
	ActionWrap    RouteAction = "wrap"
	ActionUnwrap  RouteAction = "unwrap"
	ActionApprove RouteAction = "approve"
)
