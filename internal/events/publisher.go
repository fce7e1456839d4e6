// Package events publishes CrossFund execution-lifecycle events to
// NATS so external subscribers (dashboards, ops tooling) can observe
// swap progress without polling the audit store. Grounded on the
// teacher's clients/nats_client.go connect/publish pattern, narrowed
// from a JetStream consumer to a plain core-NATS publisher since
// CrossFund has no inbound event stream to subscribe to.
package events

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"crossfund/internal/config"
	"crossfund/internal/types"
)

// ExecutionEvent is the wire shape published for an execution. The
// execute handler publishes one per execution, carrying its final status,
// after Execute returns.
type ExecutionEvent struct {
	QuoteID           string `json:"quoteId"`
	Status            string `json:"status"`
	SourceTxHash      string `json:"sourceTxHash,omitempty"`
	DestinationTxHash string `json:"destinationTxHash,omitempty"`
	ErrorKind         string `json:"errorKind,omitempty"`
	TimestampMs       int64  `json:"timestampMs"`
}

// SubjectForStatus builds the subject an ExecutionEvent for a given
// status is published on: "crossfund.execution.<status>".
func SubjectForStatus(status types.ExecutionStatus) string {
	return fmt.Sprintf("crossfund.execution.%s", status)
}

// Publisher owns the NATS connection used to publish execution events.
type Publisher struct {
	conn *nats.Conn
}

var (
	defaultPublisher *Publisher
	initOnce         sync.Once
	initErr          error
)

// Init connects to the configured NATS server once; later calls return
// the same Publisher (or the same error) without reconnecting.
func Init() (*Publisher, error) {
	initOnce.Do(func() {
		if config.AppConfig == nil || config.AppConfig.NATS.URL == "" {
			initErr = fmt.Errorf("NATS not configured")
			return
		}

		timeout := 10 * time.Second
		if config.AppConfig.NATS.TimeoutSec > 0 {
			timeout = time.Duration(config.AppConfig.NATS.TimeoutSec) * time.Second
		}
		reconnectWait := 5 * time.Second
		if config.AppConfig.NATS.ReconnectWait > 0 {
			reconnectWait = time.Duration(config.AppConfig.NATS.ReconnectWait) * time.Second
		}
		maxReconnects := -1
		if config.AppConfig.NATS.MaxReconnects > 0 {
			maxReconnects = config.AppConfig.NATS.MaxReconnects
		}

		conn, err := nats.Connect(config.AppConfig.NATS.URL,
			nats.Timeout(timeout),
			nats.ReconnectWait(reconnectWait),
			nats.MaxReconnects(maxReconnects),
			nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
				log.Printf("nats: disconnected: %v", err)
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				log.Printf("nats: reconnected")
			}),
		)
		if err != nil {
			initErr = fmt.Errorf("failed to connect to NATS: %w", err)
			return
		}

		defaultPublisher = &Publisher{conn: conn}
	})
	return defaultPublisher, initErr
}

// Default returns the Publisher built by Init, or nil if Init was never
// called or failed.
func Default() *Publisher {
	return defaultPublisher
}

// PublishExecution publishes an ExecutionEvent derived from a
// SwapExecution's current state.
func (p *Publisher) PublishExecution(exec *types.SwapExecution) error {
	evt := ExecutionEvent{
		QuoteID:           exec.QuoteID,
		Status:            string(exec.Status),
		SourceTxHash:      exec.SourceTxHash,
		DestinationTxHash: exec.DestinationTxHash,
		TimestampMs:       time.Now().UnixMilli(),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal execution event: %w", err)
	}
	return p.conn.Publish(SubjectForStatus(exec.Status), payload)
}

// Close closes the underlying NATS connection without draining it.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
