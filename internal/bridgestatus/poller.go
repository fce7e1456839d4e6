// Package bridgestatus implements the cross-chain finalization poller:
// once a bridge transaction is confirmed on its source chain, it polls
// the appropriate provider-specific status endpoint at a fixed interval
// until the destination transaction is observed or the overall timeout
// elapses. Grounded on the teacher's clients/lifi_client.go and
// clients/debridge_client.go GET+JSON-decode shape; the per-provider
// strategy table is newly authored (spec §4.7 lists four concrete
// providers with distinct wire contracts).
package bridgestatus

import (
	"context"
	"time"

	"crossfund/internal/errs"
	"crossfund/internal/types"
)

// State values a Strategy may report, mirroring types.BridgeStatus.State.
const (
	StatePending    = "pending"
	StateInProgress = "in_progress"
	StateCompleted  = "completed"
	StateFailed     = "failed"
)

// Strategy checks one provider's bridge-status endpoint once.
type Strategy interface {
	Name() string
	CheckStatus(ctx context.Context, chainID uint64, sourceTxHash string) (*types.BridgeStatus, error)
}

const (
	DefaultPollInterval = 15 * time.Second
	DefaultTimeout      = 10 * time.Minute
)

// Poller drives the fixed-interval poll loop over a chosen Strategy.
type Poller struct {
	strategies   map[string]Strategy
	pollInterval time.Duration
	timeout      time.Duration
}

func New(strategies ...Strategy) *Poller {
	m := make(map[string]Strategy, len(strategies))
	for _, s := range strategies {
		m[s.Name()] = s
	}
	return &Poller{
		strategies:   m,
		pollInterval: DefaultPollInterval,
		timeout:      DefaultTimeout,
	}
}

// WithTimeout overrides the default 10 minute overall bound (spec §4.7
// "configurable").
func (p *Poller) WithTimeout(d time.Duration) *Poller {
	p.timeout = d
	return p
}

// Await polls provider until CheckStatus reports completed/failed or the
// overall timeout elapses. An unrecognized provider name stays
// in_progress for the entire window and then times out, per spec §4.7
// "Unknown provider: remain in_progress, rely on timeout." A CheckStatus
// error ends the wait at once with a NetworkError; it is not retried on
// the next tick.
func (p *Poller) Await(ctx context.Context, provider string, chainID uint64, sourceTxHash string) (*types.BridgeStatus, *errs.Error) {
	strategy, known := p.strategies[provider]

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		if known {
			status, err := strategy.CheckStatus(ctx, chainID, sourceTxHash)
			if err != nil {
				return nil, errs.NetworkError(err)
			}
			switch status.State {
			case StateCompleted:
				return status, nil
			case StateFailed:
				return status, errs.BridgeFailed(map[string]any{"provider": provider, "sourceTxHash": sourceTxHash})
			}
		}

		select {
		case <-ctx.Done():
			return nil, errs.BridgeTimeout(map[string]any{"provider": provider, "sourceTxHash": sourceTxHash, "timeoutSeconds": p.timeout.Seconds()})
		case <-ticker.C:
			continue
		}
	}
}
