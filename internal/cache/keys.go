package cache

import (
	"fmt"
	"strings"
	"time"

	"crossfund/internal/types"
)

const (
	// DefaultQuoteTTL is the default quote cache TTL (spec §4.2 / §6
	// cacheTtlMs default).
	DefaultQuoteTTL = 10 * time.Second
	// DefaultPriceTTL is the price cache TTL.
	DefaultPriceTTL = 60 * time.Second
	// DefaultGasTTL is the gas cache TTL.
	DefaultGasTTL = 15 * time.Second
)

// QuoteKey builds the quote cache key: (inChain, inAddr, outChain,
// outAddr, amount, amountType).
func QuoteKey(req types.QuoteRequest) string {
	amount := "0"
	if req.Amount != nil {
		amount = req.Amount.String()
	}
	return strings.ToLower(fmt.Sprintf("%d:%s:%d:%s:%s:%s",
		req.InputToken.ChainID, req.InputToken.Address,
		req.OutputToken.ChainID, req.OutputToken.Address,
		amount, req.AmountType))
}

// PriceKey builds the price cache key: (chainId, address).
func PriceKey(chainID uint64, address string) string {
	return strings.ToLower(fmt.Sprintf("%d:%s", chainID, address))
}

// GasKey builds the gas cache key: chainId.
func GasKey(chainID uint64) uint64 {
	return chainID
}

// Quotes, Prices and Gas are the three process-wide cache singletons
// (spec §5 "Caches are process-wide singletons").
var (
	Quotes = New[string, *types.QuoteComparison](DefaultQuoteTTL)
	Prices = New[string, float64](DefaultPriceTTL)
	Gas    = New[uint64, *types.GasPrices](DefaultGasTTL)
)
