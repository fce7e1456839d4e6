// Command quote-cli fetches a single ranked quote comparison from the
// command line, without starting the HTTP server. Grounded on the
// teacher's one-shot cmd/*/main.go tools (flag-parsed, single sequential
// run, log.Fatalf on error).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"crossfund/internal/adapters"
	"crossfund/internal/chain"
	"crossfund/internal/facade"
	"crossfund/internal/types"
)

func main() {
	var (
		fromChain   = flag.Uint64("from-chain", 1, "source chain id")
		toChain     = flag.Uint64("to-chain", 1, "destination chain id")
		fromToken   = flag.String("from-token", "", "source token address")
		toToken     = flag.String("to-token", "", "destination token address")
		amount      = flag.String("amount", "", "amount, human-readable (e.g. 1.5) or raw units")
		userAddress = flag.String("user", "", "user address the quote is for")
		slippageBps = flag.Int("slippage-bps", 100, "max slippage in basis points")
		decimals    = flag.Int("decimals", 18, "decimals of from-token, for parsing a human-readable amount")
		zeroXKey    = flag.String("zerox-key", "", "0x API key")
		oneInchKey  = flag.String("oneinch-key", "", "1inch API key")
		socketKey   = flag.String("socket-key", "", "Socket API key")
		lifiKey     = flag.String("lifi-key", "", "LiFi API key")
	)
	flag.Parse()

	if *fromToken == "" || *toToken == "" || *amount == "" || *userAddress == "" {
		log.Fatalf("from-token, to-token, amount and user are required")
	}

	inputInfo, ierr := chain.Global.Get(*fromChain)
	if ierr != nil {
		log.Fatalf("unsupported from-chain: %v", ierr)
	}
	outputInfo, oerr := chain.Global.Get(*toChain)
	if oerr != nil {
		log.Fatalf("unsupported to-chain: %v", oerr)
	}
	log.Printf("quoting %s -> %s", inputInfo.Name, outputInfo.Name)

	cf := facade.New(facade.Config{
		APIKeys: adapters.APIKeys{
			ZeroX:   *zeroXKey,
			OneInch: *oneInchKey,
			Socket:  *socketKey,
			LiFi:    *lifiKey,
		},
	})

	req := types.QuoteRequest{
		InputToken:     types.Token{Address: *fromToken, ChainID: *fromChain},
		OutputToken:    types.Token{Address: *toToken, ChainID: *toChain},
		Amount:         facade.ParseAmount(*amount, *decimals),
		AmountType:     types.AmountFromInput,
		SlippageBps:    *slippageBps,
		DeadlineUnixMs: time.Now().Add(5 * time.Minute).UnixMilli(),
		UserAddress:    *userAddress,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmp, qerr := cf.GetQuotes(ctx, req)
	if qerr != nil {
		log.Fatalf("quote failed: %s", qerr.Message)
	}

	out, err := json.MarshalIndent(cmp, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode result: %v", err)
	}
	fmt.Println(string(out))
}
