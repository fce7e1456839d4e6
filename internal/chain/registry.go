// Package chain holds the static chain/token registry: the ~11 EVM chains
// CrossFund supports, their native currency, canonical USDC and
// wrapped-native addresses, RPC endpoint pools, and block explorer URLs.
package chain

import (
	"fmt"
	"strings"
	"sync"

	"crossfund/internal/errs"
)

// NativeSentinel is the address convention denoting a chain's native
// currency inside a Token. The zero address is treated equivalently.
const NativeSentinel = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

// Info is one chain's static registry entry. Every field here is
// immutable once the process starts; callers receive pointers to shared
// instances.
type Info struct {
	ChainID         uint64
	Name            string
	NativeSymbol    string
	NativeDecimals  int
	SupportsEIP1559 bool
	RPCEndpoints    []string
	ExplorerURL     string
	USDCAddress     string
	WETHAddress     string // wrapped-native equivalent (WETH/WBNB/WMATIC/...)
	CoingeckoSlug   string // coingecko asset-platform slug, used by the price oracle
}

// Registry indexes Info by chain id. The zero value is unusable; use
// Global or New.
type Registry struct {
	mu     sync.RWMutex
	byID   map[uint64]*Info
	order  []uint64
}

// Global is the process-wide chain registry, populated at init time. All
// production callers use this instance; New exists for tests that want an
// isolated registry.
var Global = New(defaultChains())

// New builds a Registry from a chain list, indexing by ChainID.
func New(chains []*Info) *Registry {
	r := &Registry{byID: make(map[uint64]*Info, len(chains))}
	for _, c := range chains {
		r.byID[c.ChainID] = c
		r.order = append(r.order, c.ChainID)
	}
	return r
}

// Get returns the Info for a chain id, or an UnsupportedChain error.
func (r *Registry) Get(chainID uint64) (*Info, *errs.Error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.byID[chainID]
	if !ok {
		return nil, errs.UnsupportedChain(chainID)
	}
	return info, nil
}

// IsSupported reports whether chainID is in the registry.
func (r *Registry) IsSupported(chainID uint64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[chainID]
	return ok
}

// All returns every registered chain, in registration order.
func (r *Registry) All() []*Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Info, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Name returns the chain's display name, or "" if unsupported.
func (r *Registry) Name(chainID uint64) string {
	info, err := r.Get(chainID)
	if err != nil {
		return ""
	}
	return info.Name
}

// USDC returns the canonical USDC address for a chain.
func (r *Registry) USDC(chainID uint64) (string, *errs.Error) {
	info, err := r.Get(chainID)
	if err != nil {
		return "", err
	}
	return info.USDCAddress, nil
}

// Native returns a synthetic Token-like description of the chain's native
// currency: symbol and decimals. Callers building a full Token compose
// this with NativeSentinel.
func (r *Registry) Native(chainID uint64) (symbol string, decimals int, err *errs.Error) {
	info, e := r.Get(chainID)
	if e != nil {
		return "", 0, e
	}
	return info.NativeSymbol, 18, nil
}

// ExplorerTxURL builds a block-explorer URL for a transaction hash.
func (r *Registry) ExplorerTxURL(chainID uint64, txHash string) (string, *errs.Error) {
	info, err := r.Get(chainID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/tx/%s", strings.TrimRight(info.ExplorerURL, "/"), txHash), nil
}

// RPCEndpoint returns the preferred RPC endpoint for a chain.
func (r *Registry) RPCEndpoint(chainID uint64) (string, *errs.Error) {
	info, err := r.Get(chainID)
	if err != nil {
		return "", err
	}
	if len(info.RPCEndpoints) == 0 {
		return "", errs.New(errs.KindNetworkError, "no RPC endpoint configured for chain").
			WithDetails(map[string]any{"chainId": chainID})
	}
	return info.RPCEndpoints[0], nil
}

func defaultChains() []*Info {
	return []*Info{
		{
			ChainID: 1, Name: "Ethereum", NativeSymbol: "ETH", NativeDecimals: 18,
			SupportsEIP1559: true,
			RPCEndpoints:    []string{"https://eth.llamarpc.com", "https://rpc.ankr.com/eth"},
			ExplorerURL:     "https://etherscan.io",
			USDCAddress:     "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
			WETHAddress:     "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
			CoingeckoSlug:   "ethereum",
		},
		{
			ChainID: 56, Name: "BNB Smart Chain", NativeSymbol: "BNB", NativeDecimals: 18,
			SupportsEIP1559: false,
			RPCEndpoints:    []string{"https://bsc-dataseed1.binance.org", "https://bsc-dataseed2.binance.org"},
			ExplorerURL:     "https://bscscan.com",
			USDCAddress:     "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d",
			WETHAddress:     "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c",
			CoingeckoSlug:   "binance-smart-chain",
		},
		{
			ChainID: 137, Name: "Polygon", NativeSymbol: "MATIC", NativeDecimals: 18,
			SupportsEIP1559: true,
			RPCEndpoints:    []string{"https://polygon-rpc.com", "https://rpc.ankr.com/polygon"},
			ExplorerURL:     "https://polygonscan.com",
			USDCAddress:     "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359",
			WETHAddress:     "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270",
			CoingeckoSlug:   "polygon-pos",
		},
		{
			ChainID: 42161, Name: "Arbitrum One", NativeSymbol: "ETH", NativeDecimals: 18,
			SupportsEIP1559: true,
			RPCEndpoints:    []string{"https://arb1.arbitrum.io/rpc", "https://rpc.ankr.com/arbitrum"},
			ExplorerURL:     "https://arbiscan.io",
			USDCAddress:     "0xaf88d065e77c8cC2239327C5EDb3A432268e5831",
			WETHAddress:     "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1",
			CoingeckoSlug:   "arbitrum-one",
		},
		{
			ChainID: 10, Name: "Optimism", NativeSymbol: "ETH", NativeDecimals: 18,
			SupportsEIP1559: true,
			RPCEndpoints:    []string{"https://mainnet.optimism.io", "https://rpc.ankr.com/optimism"},
			ExplorerURL:     "https://optimistic.etherscan.io",
			USDCAddress:     "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85",
			WETHAddress:     "0x4200000000000000000000000000000000000006",
			CoingeckoSlug:   "optimistic-ethereum",
		},
		{
			ChainID: 8453, Name: "Base", NativeSymbol: "ETH", NativeDecimals: 18,
			SupportsEIP1559: true,
			RPCEndpoints:    []string{"https://mainnet.base.org", "https://base.llamarpc.com"},
			ExplorerURL:     "https://basescan.org",
			USDCAddress:     "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
			WETHAddress:     "0x4200000000000000000000000000000000000006",
			CoingeckoSlug:   "base",
		},
		{
			ChainID: 43114, Name: "Avalanche", NativeSymbol: "AVAX", NativeDecimals: 18,
			SupportsEIP1559: true,
			RPCEndpoints:    []string{"https://api.avax.network/ext/bc/C/rpc"},
			ExplorerURL:     "https://snowtrace.io",
			USDCAddress:     "0xB97EF9Ef8734C71904D8002F8b6Bc66Dd9c48a6E",
			WETHAddress:     "0xB31f66AA3C1e785363F0875A1B74E27b85FD66c7",
			CoingeckoSlug:   "avalanche",
		},
		{
			ChainID: 324, Name: "zkSync Era", NativeSymbol: "ETH", NativeDecimals: 18,
			SupportsEIP1559: false,
			RPCEndpoints:    []string{"https://mainnet.era.zksync.io"},
			ExplorerURL:     "https://explorer.zksync.io",
			USDCAddress:     "0x3355df6D4c9C3035724Fd0e3914dE96A5a83aaf4",
			WETHAddress:     "0x5AEa5775959fBC2557Cc8789bC1bf90A239D9a91",
			CoingeckoSlug:   "zksync",
		},
		{
			ChainID: 250, Name: "Fantom", NativeSymbol: "FTM", NativeDecimals: 18,
			SupportsEIP1559: false,
			RPCEndpoints:    []string{"https://rpc.ftm.tools", "https://rpc.ankr.com/fantom"},
			ExplorerURL:     "https://ftmscan.com",
			USDCAddress:     "0x04068DA6C83AFCFA0e13ba15A6696662335D5B75",
			WETHAddress:     "0x21be370D5312f44cB42ce377BC9b8a0cEF1A4C83",
			CoingeckoSlug:   "fantom",
		},
		{
			ChainID: 100, Name: "Gnosis", NativeSymbol: "XDAI", NativeDecimals: 18,
			SupportsEIP1559: true,
			RPCEndpoints:    []string{"https://rpc.gnosischain.com"},
			ExplorerURL:     "https://gnosisscan.io",
			USDCAddress:     "0xDDAfbb505ad214D7b80b1f830fcCc89B60fb7A83",
			WETHAddress:     "0x6A023CCd1ff6F2045C3309768eAd9E68F978f6fE",
			CoingeckoSlug:   "xdai",
		},
		{
			ChainID: 59144, Name: "Linea", NativeSymbol: "ETH", NativeDecimals: 18,
			SupportsEIP1559: true,
			RPCEndpoints:    []string{"https://rpc.linea.build"},
			ExplorerURL:     "https://lineascan.build",
			USDCAddress:     "0x176211869cA2b568f2A7D4EE941E073a821EE1ff",
			WETHAddress:     "0xe5D7C2a44FfDDf6b295A15c148167daaAf5Cf34f",
			CoingeckoSlug:   "linea",
		},
	}
}
