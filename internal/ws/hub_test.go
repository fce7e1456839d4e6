package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"crossfund/internal/types"
)

func TestBroadcastFansOutToSubscribersOfSameQuote(t *testing.T) {
	h := NewHub()
	subA := &subscriber{quoteID: "quote-1", send: make(chan []byte, 1)}
	subB := &subscriber{quoteID: "quote-1", send: make(chan []byte, 1)}
	other := &subscriber{quoteID: "quote-2", send: make(chan []byte, 1)}
	h.register(subA)
	h.register(subB)
	h.register(other)

	assert.Equal(t, 2, h.SubscriberCount("quote-1"))
	assert.Equal(t, 1, h.SubscriberCount("quote-2"))

	h.Broadcast(&types.SwapExecution{QuoteID: "quote-1", Status: types.ExecBridging})

	assert.NotEmpty(t, <-subA.send)
	assert.NotEmpty(t, <-subB.send)
	assert.Empty(t, other.send)
}

func TestUnregisterRemovesSubscriberAndClosesChannel(t *testing.T) {
	h := NewHub()
	sub := &subscriber{quoteID: "quote-1", send: make(chan []byte, 1)}
	h.register(sub)
	assert.Equal(t, 1, h.SubscriberCount("quote-1"))

	h.unregister(sub)
	assert.Equal(t, 0, h.SubscriberCount("quote-1"))

	_, ok := <-sub.send
	assert.False(t, ok)
}
