package signer

import (
	"sync"

	"github.com/ethereum/go-ethereum/ethclient"

	"crossfund/internal/chain"
	"crossfund/internal/errs"
)

// ProviderPool lazily dials and caches one ethclient.Client per chain,
// mirroring the teacher's BlockchainTransactionService.clients map but
// built on demand instead of all at InitializeClients time, since
// CrossFund may only ever touch two chains in a given execution.
type ProviderPool struct {
	mu      sync.Mutex
	clients map[uint64]*ethclient.Client
}

func NewProviderPool() *ProviderPool {
	return &ProviderPool{clients: make(map[uint64]*ethclient.Client)}
}

// Get returns the cached client for chainID, dialing it on first use.
func (p *ProviderPool) Get(chainID uint64) (*ethclient.Client, *errs.Error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[chainID]; ok {
		return c, nil
	}

	endpoint, cerr := chain.Global.RPCEndpoint(chainID)
	if cerr != nil {
		return nil, cerr
	}

	client, err := ethclient.Dial(endpoint)
	if err != nil {
		return nil, errs.NetworkError(err)
	}
	p.clients[chainID] = client
	return client, nil
}

// Close disconnects every dialed client.
func (p *ProviderPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.clients {
		c.Close()
	}
}
